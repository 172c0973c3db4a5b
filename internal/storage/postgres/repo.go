// Package postgres implements the directory store on Postgres using pgx v5.
// Contacts keep their flexible attributes in a JSONB column; the unique
// email constraint is a partial index over the ownerless partition, so the
// store itself is the final arbiter of identity conflicts.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/search"
	"github.com/Dotunbey/feedback-os/internal/storage"
)

// Postgres error codes we translate into domain error kinds.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository connects a pool and pings it once so that configuration
// errors surface at startup rather than on the first query.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

const contactColumns = `id, email,
	COALESCE(first_name, ''), COALESCE(last_name, ''),
	COALESCE(company_name, ''), COALESCE(linkedin_url, ''),
	COALESCE(owner_id::text, ''), custom_data`

// CountAndFetch executes the compiled predicate for both the exact count and
// the ranged page. Both statements share the predicate's args verbatim; the
// fetch appends only LIMIT/OFFSET.
func (r *Repository) CountAndFetch(ctx context.Context, pred search.Predicate, rng search.Range) ([]contacts.Contact, int, error) {
	var total int
	countSQL := "SELECT count(*) FROM contacts WHERE " + pred.Where
	if err := r.pool.QueryRow(ctx, countSQL, pred.Args...).Scan(&total); err != nil {
		return nil, 0, contacts.Storef("count contacts: %v", err)
	}

	limit := rng.To - rng.From + 1
	fetchSQL := fmt.Sprintf(
		"SELECT %s FROM contacts WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d",
		contactColumns, pred.Where, len(pred.Args)+1, len(pred.Args)+2,
	)
	args := append(append([]any{}, pred.Args...), limit, rng.From)

	rows, err := r.pool.Query(ctx, fetchSQL, args...)
	if err != nil {
		return nil, 0, contacts.Storef("fetch contacts: %v", err)
	}
	defer rows.Close()

	out := []contacts.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, contacts.Storef("fetch contacts: %v", err)
	}
	return out, total, nil
}

func scanContact(row pgx.Row) (contacts.Contact, error) {
	var c contacts.Contact
	var doc []byte
	if err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName,
		&c.CompanyName, &c.LinkedInURL, &c.OwnerID, &doc); err != nil {
		return contacts.Contact{}, contacts.Storef("scan contact: %v", err)
	}
	c.CustomData = map[string]string{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &c.CustomData); err != nil {
			return contacts.Contact{}, contacts.Storef("decode custom_data: %v", err)
		}
	}
	return c, nil
}

// BulkWrite inserts one chunk as a single multi-row statement. The chunk is
// atomic: any failure rolls the whole chunk back and is reported to the
// caller, mapped onto the domain error kinds.
func (r *Repository) BulkWrite(ctx context.Context, recs []contacts.Contact, mode storage.WriteMode) error {
	if len(recs) == 0 {
		return nil
	}
	if !mode.Valid() {
		return contacts.Validationf("unknown write mode %q", mode)
	}

	var (
		sb   strings.Builder
		args = make([]any, 0, len(recs)*6)
	)
	sb.WriteString("INSERT INTO contacts (email, first_name, last_name, company_name, linkedin_url, custom_data) VALUES ")
	for i, c := range recs {
		doc, err := json.Marshal(c.CustomData)
		if err != nil {
			return contacts.Validationf("encode custom_data for %s: %v", c.Email, err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		base := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, c.Email,
			nullable(c.FirstName), nullable(c.LastName),
			nullable(c.CompanyName), nullable(c.LinkedInURL), doc)
	}
	if mode == storage.ModeUpsert {
		sb.WriteString(` ON CONFLICT (email) WHERE owner_id IS NULL DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			company_name = EXCLUDED.company_name,
			linkedin_url = EXCLUDED.linkedin_url,
			custom_data = EXCLUDED.custom_data`)
	}

	if _, err := r.pool.Exec(ctx, sb.String(), args...); err != nil {
		return mapPgError("bulk write", err)
	}
	return nil
}

// nullable maps empty strings to SQL NULL so optional core attributes stay
// NULL in storage rather than accumulating empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// EmailKeys reads every email in the ownerless partition in one round trip.
func (r *Repository) EmailKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT email FROM contacts WHERE owner_id IS NULL")
	if err != nil {
		return nil, contacts.Storef("read email keys: %v", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, contacts.Storef("scan email key: %v", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, contacts.Storef("read email keys: %v", err)
	}
	return out, nil
}

// InsertLink saves one workspace link, returning the generated id.
func (r *Repository) InsertLink(ctx context.Context, link contacts.WorkspaceLink) (string, error) {
	doc, err := json.Marshal(link.CustomData)
	if err != nil {
		return "", contacts.Validationf("encode link custom_data: %v", err)
	}
	var id string
	err = r.pool.QueryRow(ctx,
		`INSERT INTO workspace_links (tenant_id, contact_id, first_name_override, last_name_override, custom_data)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		link.TenantID, link.ContactID,
		nullable(link.FirstNameOverride), nullable(link.LastNameOverride), doc,
	).Scan(&id)
	if err != nil {
		return "", mapPgError("insert link", err)
	}
	return id, nil
}

// ListLinksJoined returns one page of the tenant's links with the joined
// contact, newest link first.
func (r *Repository) ListLinksJoined(ctx context.Context, tenantID string, rng search.Range) ([]contacts.WorkspaceLink, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT count(*) FROM workspace_links WHERE tenant_id = $1", tenantID,
	).Scan(&total)
	if err != nil {
		return nil, 0, contacts.Storef("count links: %v", err)
	}

	limit := rng.To - rng.From + 1
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT l.id, l.tenant_id, l.contact_id,
		        COALESCE(l.first_name_override, ''), COALESCE(l.last_name_override, ''),
		        l.custom_data, l.created_at, %s
		 FROM workspace_links l
		 JOIN contacts c ON c.id = l.contact_id
		 WHERE l.tenant_id = $1
		 ORDER BY l.created_at DESC, l.id
		 LIMIT $2 OFFSET $3`,
		prefixedContactColumns("c")), tenantID, limit, rng.From)
	if err != nil {
		return nil, 0, contacts.Storef("list links: %v", err)
	}
	defer rows.Close()

	out := []contacts.WorkspaceLink{}
	for rows.Next() {
		var (
			l       contacts.WorkspaceLink
			c       contacts.Contact
			linkDoc []byte
			cDoc    []byte
		)
		if err := rows.Scan(&l.ID, &l.TenantID, &l.ContactID,
			&l.FirstNameOverride, &l.LastNameOverride, &linkDoc, &l.CreatedAt,
			&c.ID, &c.Email, &c.FirstName, &c.LastName,
			&c.CompanyName, &c.LinkedInURL, &c.OwnerID, &cDoc); err != nil {
			return nil, 0, contacts.Storef("scan link: %v", err)
		}
		l.CustomData = map[string]string{}
		if len(linkDoc) > 0 {
			if err := json.Unmarshal(linkDoc, &l.CustomData); err != nil {
				return nil, 0, contacts.Storef("decode link custom_data: %v", err)
			}
		}
		c.CustomData = map[string]string{}
		if len(cDoc) > 0 {
			if err := json.Unmarshal(cDoc, &c.CustomData); err != nil {
				return nil, 0, contacts.Storef("decode contact custom_data: %v", err)
			}
		}
		l.Contact = &c
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, contacts.Storef("list links: %v", err)
	}
	return out, total, nil
}

// prefixedContactColumns qualifies the contact column list with a table
// alias for use inside joins.
func prefixedContactColumns(alias string) string {
	cols := []string{"id", "email"}
	out := make([]string, 0, 8)
	for _, c := range cols {
		out = append(out, alias+"."+c)
	}
	for _, c := range []string{"first_name", "last_name", "company_name", "linkedin_url"} {
		out = append(out, fmt.Sprintf("COALESCE(%s.%s, '')", alias, c))
	}
	out = append(out, fmt.Sprintf("COALESCE(%s.owner_id::text, '')", alias))
	out = append(out, alias+".custom_data")
	return strings.Join(out, ", ")
}

// mapPgError translates driver errors into the domain taxonomy. Unique
// violations become conflicts, foreign key violations become bad references,
// everything else is a store failure.
func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, contacts.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, contacts.ErrBadReference, pgErr.ConstraintName)
		}
		if pgErr.Detail != "" {
			return contacts.Storef("%s: %s (%s)", op, pgErr.Detail, pgErr.SQLState())
		}
	}
	return contacts.Storef("%s: %v", op, err)
}
