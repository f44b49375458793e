package sqlinline

const QSelectIntegrationToken = `--sql 7d2e9b40-1c6f-4a83-b5e7-2f9a0c4d6e81
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql c4a1f8e3-9b27-4d56-a0e8-6b3d5f7c9a24
insert into integration_tokens (provider, token, properties, created_at, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`

const QListIntegrationProviders = `--sql 1f8b6c2d-4e93-4a7b-8d05-9c3e7a1b5f60
select provider, updated_at
from integration_tokens
order by provider asc;
`
