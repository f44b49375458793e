package sqlinline

const QInsertDocument = `--sql 3c1f7a92-5d4e-4b8a-9f61-0e2d7b8c4a15
insert into design_documents (id, collection, fields, created_at, updated_at)
values ($1::uuid, $2::text, $3::jsonb, now(), now());
`

const QMergeDocumentFields = `--sql 9e4b2d71-8a3c-4f05-b6d9-7c1e5f2a8b03
update design_documents
set fields = fields || $3::jsonb,
    updated_at = now()
where collection = $1::text
  and id = $2::uuid;
`

const QSelectDocumentsByField = `--sql 5a8d3e16-2b7f-4c9a-8e40-d1f6c3b9a727
select id::text, fields
from design_documents
where collection = $1::text
  and fields->>$2::text = $3::text
order by created_at desc
limit $4::int;
`
