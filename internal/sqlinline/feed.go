package sqlinline

const QInsertFeedPost = `--sql 1835e012-f97f-4ac3-a63f-68b3adbf745f
insert into feed_posts(id, user_id, content, attachments, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text[], now())
returning id, user_id, content, attachments, created_at;
`

const QSelectFeedPostByID = `--sql b20e231a-2b04-4553-a399-543d2f7fd472
select p.id, p.user_id, u.name, p.content, p.attachments, p.created_at
from feed_posts p
join users u on u.id = p.user_id
where p.id = $1::uuid
limit 1;
`

const QListFeedPosts = `--sql f7eda896-94d7-4e44-88b9-463ed9c659e9
select p.id, p.user_id, u.name, p.content, p.attachments, p.created_at
from feed_posts p
join users u on u.id = p.user_id
order by p.created_at desc;
`

const QUpdateFeedPost = `--sql 188c623e-4c72-4507-981e-8c74866f6d3f
update feed_posts
set content = $2::text, attachments = $3::text[]
where id = $1::uuid
returning id, user_id, content, attachments, created_at;
`

const QDeleteFeedPost = `--sql 50dbfc65-58e2-4bc5-bcaa-8dd062b9e90a
delete from feed_posts
where id = $1::uuid;
`
