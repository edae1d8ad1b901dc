package sqlinline

const QInsertPendingDonation = `--sql c87d8ea9-8533-4d2f-bb64-847f528d0712
insert into donations(id, user_id, amount_int, phone_number, checkout_request_id, status, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::bigint, $3::text, $4::text, 'pending', now(), now())
returning id, user_id, amount_int, phone_number, checkout_request_id, receipt_number, status, created_at, updated_at;
`

const QCompleteDonation = `--sql eba69cd6-4b69-42a4-961d-8337c0b77963
update donations
set status = 'completed', receipt_number = $2::text, amount_int = $3::bigint, updated_at = now()
where checkout_request_id = $1::text and status = 'pending'
returning id, user_id, amount_int, phone_number, checkout_request_id, receipt_number, status, created_at, updated_at;
`

const QFailDonation = `--sql 6c4736f5-b707-4bb7-881c-6fa3e207e098
update donations
set status = 'failed', updated_at = now()
where checkout_request_id = $1::text and status = 'pending'
returning id, user_id, amount_int, phone_number, checkout_request_id, receipt_number, status, created_at, updated_at;
`

const QInsertCompletedDonation = `--sql 93973c97-ca9f-40a1-8c63-ea83194558e0
insert into donations(id, user_id, amount_int, phone_number, checkout_request_id, receipt_number, status, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::bigint, $3::text, $4::text, $5::text, 'completed', now(), now())
on conflict (receipt_number) do nothing
returning id;
`

const QListDonationsByUser = `--sql 21e6f16c-2082-40df-9e1c-edbd43d01f2b
select id, user_id, amount_int, phone_number, checkout_request_id, receipt_number, status, created_at, updated_at
from donations
where user_id = $1::uuid
order by created_at desc;
`
