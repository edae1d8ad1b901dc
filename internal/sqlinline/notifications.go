package sqlinline

const QInsertNotification = `--sql 2a9204e8-a0c4-4115-b922-1bbac4f013aa
insert into notifications(id, user_id, content, read, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, false, now())
returning id, user_id, content, read, created_at;
`

const QSelectNotificationByID = `--sql cc68ee66-97b1-4ac5-b042-474f57c637a9
select id, user_id, content, read, created_at
from notifications
where id = $1::uuid
limit 1;
`

const QListNotificationsByUser = `--sql 5cc0d554-cedd-4d2a-93a8-cc8c97f4211a
select id, user_id, content, read, created_at
from notifications
where user_id = $1::uuid
order by created_at desc;
`

const QMarkNotificationRead = `--sql ace10d2b-862f-45c6-bc2a-f2ba0127dfec
update notifications
set read = true
where id = $1::uuid
returning id, user_id, content, read, created_at;
`

const QDeleteNotification = `--sql 9b79c57c-3615-48a2-9d85-3426d5b3f7eb
delete from notifications
where id = $1::uuid;
`
