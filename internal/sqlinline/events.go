package sqlinline

const QInsertEvent = `--sql 94d49085-6cfe-442f-b4d4-de1dafda0a9c
insert into events(id, title, description, date, location, image_url, created_by, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::timestamptz, $4::text, $5::text, $6::uuid, now())
returning id, title, description, date, location, image_url, created_by, created_at;
`

const QSelectEventByID = `--sql 177c1ab4-a59c-4492-b7b5-4ba6f1db4e50
select e.id, e.title, e.description, e.date, e.location, e.image_url, e.created_by, u.name, e.created_at
from events e
join users u on u.id = e.created_by
where e.id = $1::uuid
limit 1;
`

const QListEvents = `--sql 61ffbb89-141c-4637-a4b8-e54780f19529
select e.id, e.title, e.description, e.date, e.location, e.image_url, e.created_by, u.name, e.created_at
from events e
join users u on u.id = e.created_by
order by e.date asc;
`

const QUpdateEvent = `--sql 4b6db379-55de-49dc-bb86-b237d63e6139
update events
set title = $2::text, description = $3::text, date = $4::timestamptz, location = $5::text, image_url = $6::text
where id = $1::uuid
returning id, title, description, date, location, image_url, created_by, created_at;
`

const QDeleteEvent = `--sql 276c4580-a46e-4ca4-bfaf-eef8c76b2c8c
delete from events
where id = $1::uuid;
`
