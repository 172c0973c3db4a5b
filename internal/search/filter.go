// Package search compiles the directory's query surface: a set of optional
// named filters into one SQL predicate, and page arithmetic into a bounded
// row range. Count and fetch must both be driven by the same compiled
// predicate; divergence between the two is a correctness bug, so the
// predicate is compiled once and passed around as a value.
package search

import (
	"fmt"
	"strings"
)

// Flexible-document keys addressed by the attribute filters. These are the
// header spellings the ingestion side preserves verbatim.
const (
	keyIndustry    = "Industry"
	keyCountry     = "Company Country"
	keyTitle       = "Title"
	keyCompanySize = "Company Size"
	keySourceSheet = "original_sheet"
)

// Filter is the full set of optional search parameters. The zero value
// matches everything in the ownerless partition.
type Filter struct {
	// Query is a free-text term matched case-insensitively as a substring
	// across first name, last name, company name, and email.
	Query string

	// Flexible-document filters. Substring match except CompanySize, which
	// is exact.
	Industry    string
	Country     string
	Title       string
	CompanySize string
	SourceSheet string

	// HasLinkedIn is tri-state: nil applies no predicate, true requires a
	// non-empty URL, false requires an empty/absent one.
	HasLinkedIn *bool
}

// Predicate is a compiled WHERE clause with positional args ($1..$n). It is
// always scoped to the ownerless partition.
type Predicate struct {
	Where string
	Args  []any
}

// Compile turns the filter into a single conjunctive predicate. Every active
// filter contributes one condition; inactive filters contribute nothing, so
// removing a filter can only widen the result set.
func Compile(f Filter) Predicate {
	conds := []string{"owner_id IS NULL"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR company_name ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if f.Industry != "" {
		conds = append(conds, fmt.Sprintf("custom_data->>'%s' ILIKE %s", keyIndustry, arg("%"+f.Industry+"%")))
	}
	if f.Country != "" {
		conds = append(conds, fmt.Sprintf("custom_data->>'%s' ILIKE %s", keyCountry, arg("%"+f.Country+"%")))
	}
	if f.Title != "" {
		conds = append(conds, fmt.Sprintf("custom_data->>'%s' ILIKE %s", keyTitle, arg("%"+f.Title+"%")))
	}
	if f.CompanySize != "" {
		conds = append(conds, fmt.Sprintf("custom_data->>'%s' = %s", keyCompanySize, arg(f.CompanySize)))
	}
	if f.SourceSheet != "" {
		conds = append(conds, fmt.Sprintf("custom_data->>'%s' ILIKE %s", keySourceSheet, arg("%"+f.SourceSheet+"%")))
	}
	if f.HasLinkedIn != nil {
		if *f.HasLinkedIn {
			conds = append(conds, "COALESCE(linkedin_url, '') <> ''")
		} else {
			conds = append(conds, "COALESCE(linkedin_url, '') = ''")
		}
	}

	return Predicate{
		Where: strings.Join(conds, " AND "),
		Args:  args,
	}
}
