package sqlinline

const QInsertLivestream = `--sql 1f759229-d1ce-4f3f-a84b-128fd998d74f
insert into livestreams(id, title, description, stream_url, start_time, end_time, broadcast_id, created_by, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::timestamptz, $5::timestamptz, $6::text, $7::uuid, now())
returning id, title, description, stream_url, start_time, end_time, broadcast_id, created_by, created_at;
`

const QSelectLivestreamByID = `--sql 36bacb7e-000a-425a-a82b-b968baa04290
select l.id, l.title, l.description, l.stream_url, l.start_time, l.end_time, l.broadcast_id, l.created_by, u.name, l.created_at
from livestreams l
join users u on u.id = l.created_by
where l.id = $1::uuid
limit 1;
`

const QListLivestreams = `--sql 9ec0c5cd-b8d0-4c25-9c01-213b4c7e0074
select l.id, l.title, l.description, l.stream_url, l.start_time, l.end_time, l.broadcast_id, l.created_by, u.name, l.created_at
from livestreams l
join users u on u.id = l.created_by
order by l.start_time desc;
`

const QUpdateLivestream = `--sql 2af7600e-1c89-4443-ac4e-9325e2e1f889
update livestreams
set title = $2::text, description = $3::text, start_time = $4::timestamptz, end_time = $5::timestamptz
where id = $1::uuid
returning id, title, description, stream_url, start_time, end_time, broadcast_id, created_by, created_at;
`

const QDeleteLivestream = `--sql 51f20a3d-9b40-4f28-b556-1ce9d5de71c2
delete from livestreams
where id = $1::uuid;
`
