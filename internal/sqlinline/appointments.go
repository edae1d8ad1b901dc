package sqlinline

const QInsertAppointment = `--sql 1fcac0e4-0d3d-4a7f-84b7-0bef926a182a
insert into appointments(id, user_id, appointment_with, reason, date, status, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::timestamptz, 'pending', now())
returning id, user_id, appointment_with, reason, date, status, created_at;
`

const QSelectAppointmentByID = `--sql d6854c50-0eae-4b56-af11-7f3e20b39cc5
select id, user_id, appointment_with, reason, date, status, created_at
from appointments
where id = $1::uuid
limit 1;
`

const QListAppointmentsByUser = `--sql 6fd3ba28-bc29-479b-a5da-e194dc5f9187
select id, user_id, appointment_with, reason, date, status, created_at
from appointments
where user_id = $1::uuid
order by date asc;
`

const QUpdateAppointmentStatus = `--sql 376d7b3c-2262-4c13-86a8-f02971919272
update appointments
set status = $2::text
where id = $1::uuid
returning id, user_id, appointment_with, reason, date, status, created_at;
`

const QDeleteAppointment = `--sql 44e61185-a4d1-4e98-9fc3-04e5525d99ba
delete from appointments
where id = $1::uuid;
`
