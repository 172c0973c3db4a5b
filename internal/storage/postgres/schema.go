package postgres

import (
	"context"

	"github.com/Dotunbey/feedback-os/internal/contacts"
)

// schemaDDL creates the two tables and the identity constraints the rest of
// the system relies on. The partial unique index on email is the store-level
// source of truth for dedup in the ownerless partition; the composite unique
// on (tenant_id, contact_id) backs link conflict detection.
const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS contacts (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	email       text NOT NULL,
	first_name  text,
	last_name   text,
	company_name text,
	linkedin_url text,
	owner_id    uuid,
	custom_data jsonb NOT NULL DEFAULT '{}'::jsonb,
	created_at  timestamptz NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS contacts_global_email_key
	ON contacts (email) WHERE owner_id IS NULL;

CREATE INDEX IF NOT EXISTS contacts_custom_data_gin
	ON contacts USING gin (custom_data);

CREATE TABLE IF NOT EXISTS workspace_links (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id   uuid NOT NULL,
	contact_id  uuid NOT NULL REFERENCES contacts(id),
	first_name_override text,
	last_name_override  text,
	custom_data jsonb NOT NULL DEFAULT '{}'::jsonb,
	created_at  timestamptz NOT NULL DEFAULT now(),
	UNIQUE (tenant_id, contact_id)
);
`

// EnsureSchema applies the DDL. Idempotent; safe to run at every startup
// when auto-create is enabled.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return contacts.Storef("apply schema: %v", err)
	}
	return nil
}
