package sqlinline

const QInsertTestimonial = `--sql 9c549849-ed0c-4609-ae0d-31cdcd350670
insert into testimonials(id, user_id, content, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, now())
returning id, user_id, content, created_at;
`

const QSelectTestimonialByID = `--sql 6a74c44b-9521-4d54-b87a-549ccfcd4b84
select t.id, t.user_id, u.name, t.content, t.created_at
from testimonials t
join users u on u.id = t.user_id
where t.id = $1::uuid
limit 1;
`

const QListTestimonials = `--sql b9eeb67a-dbeb-430d-8dea-e4c4379587da
select t.id, t.user_id, u.name, t.content, t.created_at
from testimonials t
join users u on u.id = t.user_id
order by t.created_at desc;
`

const QInsertTestimonialReaction = `--sql afe584bd-8d3a-4445-b729-da522a92117b
insert into testimonial_reactions(id, testimonial_id, user_id, type, created_at)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::text, now())
returning id;
`

const QListTestimonialReactions = `--sql 32101c12-deb8-4fbc-a8b7-b40ba595ee1a
select id, testimonial_id, user_id, type, created_at
from testimonial_reactions
where testimonial_id = $1::uuid
order by created_at asc;
`

const QInsertTestimonialComment = `--sql 8cc186e9-d933-486e-b37f-077fda3d4cae
insert into testimonial_comments(id, testimonial_id, user_id, content, created_at)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::text, now())
returning id;
`

const QListTestimonialComments = `--sql a8467a0d-656d-4fef-a9c2-b0ea5bcf7d3f
select id, testimonial_id, user_id, content, created_at
from testimonial_comments
where testimonial_id = $1::uuid
order by created_at asc;
`
