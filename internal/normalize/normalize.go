// Package normalize turns one raw sheet row into a clean contact record:
// core attributes in fixed fields, everything else in the flexible document.
//
// Cleaning happens before alias resolution so that blank cells and NaN
// sentinels never reach either side of the split. Validation is
// all-or-nothing per row; a row that fails never produces a partial record.
package normalize

import (
	"sort"
	"strings"

	"github.com/Dotunbey/feedback-os/internal/alias"
	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/pkg/records"
)

// SourceKey is the flexible-document key under which the originating sheet
// name is stamped. Query filters address it by this exact spelling.
const SourceKey = "original_sheet"

// Normalizer applies the alias table to raw rows. Zero value is not usable;
// construct with New.
type Normalizer struct {
	aliases *alias.Table
}

// New returns a Normalizer using the given alias table, or the default table
// when nil.
func New(t *alias.Table) *Normalizer {
	if t == nil {
		t = alias.Default()
	}
	return &Normalizer{aliases: t}
}

// Row produces a normalized contact from one raw row. sheet, when non-empty,
// is stamped into the flexible document under SourceKey.
//
// Duplicate headers that resolve to an already-filled slot are dropped
// (first writer wins, in row iteration order after the deterministic sort
// below); they never leak into the flexible document, preserving the
// invariant that no flexible key shadows a core attribute.
func (n *Normalizer) Row(row records.Record, sheet string) (contacts.Contact, error) {
	c := contacts.Contact{CustomData: make(map[string]string)}

	for _, key := range n.orderedKeys(row) {
		v := row[key]
		header := strings.TrimSpace(key)
		if header == "" || records.IsBlank(v) {
			continue
		}
		val := strings.TrimSpace(records.AsString(v))

		slot, ok := n.aliases.Resolve(header)
		if !ok {
			c.CustomData[header] = val
			continue
		}
		switch slot {
		case alias.SlotEmail:
			setIfEmpty(&c.Email, val)
		case alias.SlotFirstName:
			setIfEmpty(&c.FirstName, val)
		case alias.SlotLastName:
			setIfEmpty(&c.LastName, val)
		case alias.SlotCompanyName:
			setIfEmpty(&c.CompanyName, val)
		case alias.SlotLinkedInURL:
			setIfEmpty(&c.LinkedInURL, val)
		}
	}

	if c.Email == "" {
		return contacts.Contact{}, contacts.Validationf("row has no email")
	}
	if !strings.Contains(c.Email, "@") {
		return contacts.Contact{}, contacts.Validationf("email %q has no @", c.Email)
	}

	if sheet != "" {
		c.CustomData[SourceKey] = sheet
	}
	return c, nil
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// orderedKeys gives a stable iteration order over the row so that
// first-writer-wins is deterministic even though map order is not: known
// aliases come first in the table's configured precedence, unmapped headers
// follow lexicographically.
func (n *Normalizer) orderedKeys(row records.Record) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := n.aliasRank(keys[i]), n.aliasRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// aliasRank is the position of the header inside the flattened alias table,
// or a past-the-end rank for unmapped headers.
func (n *Normalizer) aliasRank(header string) int {
	h := strings.TrimSpace(header)
	rank := 0
	for _, e := range n.aliases.Entries() {
		for _, a := range e.Aliases {
			if strings.EqualFold(strings.TrimSpace(a), h) {
				return rank
			}
			rank++
		}
	}
	return rank
}
