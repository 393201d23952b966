package sqlinline

const QInsertGeneration = `--sql 39f4c1f3-75b1-4344-8fbb-3a73ea18883c
insert into generated_uis (image_url, generated_code, owner_id)
values ($1::text, $2::text, $3::text)
returning id::text, created_at;
`

const QGetGenerationForOwner = `--sql 232c43fa-f623-41af-8d5e-bdf04d901a0b
select id::text, image_url, generated_code, owner_id, created_at
from generated_uis
where id = $1::uuid
  and owner_id = $2::text;
`

const QListGenerationsByOwner = `--sql 3d2397c6-dc20-493b-9b79-b6b1673ac27c
select id::text, image_url, generated_code, owner_id, created_at
from generated_uis
where owner_id = $1::text
order by created_at desc, id desc
limit $2::int
offset $3::int;
`

const QDeleteGenerationsByOwner = `--sql 4fdba8a9-3f64-4088-885a-c1670081bc4b
delete from generated_uis
where owner_id = $1::text;
`

const QGenerationStats = `--sql dfbc87f2-95ee-4382-92e1-10197d9491d7
select
  count(*)::int                  as total_generations,
  count(distinct owner_id)::int  as owners
from generated_uis;
`
