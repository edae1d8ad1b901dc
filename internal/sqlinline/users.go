package sqlinline

const QInsertUser = `--sql 29c64957-2347-4e4f-8c43-bed8705a1629
insert into users(id, name, email, phone_number, password_hash, role, created_at)
values (gen_random_uuid(), $1::text, lower($2::text), $3::text, $4::text, $5::text, now())
returning id, name, email, phone_number, password_hash, role, created_at;
`

const QSelectUserByID = `--sql 28173eec-4ae4-4a72-b0c0-a4943c9ab6e6
select id, name, email, phone_number, password_hash, role, created_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByEmail = `--sql b8ab2c25-050e-411f-9e12-343c120efb27
select id, name, email, phone_number, password_hash, role, created_at
from users
where email = lower($1::text)
limit 1;
`

const QSelectUserByPhone = `--sql 9d8ef5be-f21e-42a2-8f56-88e3e95ce912
select id, name, email, phone_number, password_hash, role, created_at
from users
where phone_number = $1::text
limit 1;
`
