// Package alias maps the heterogeneous column headers found in source sheet
// exports onto the fixed core attribute slots of a contact record. Matching
// is case- and whitespace-insensitive; headers with no alias entry belong in
// the flexible document and resolve to nothing here.
//
// The table is ordered configuration, not learned state: when two aliases
// collide (the same header registered for two slots), the earlier entry
// wins. That precedence is part of the contract and is what makes duplicate
// header handling deterministic.
package alias

import (
	"strings"

	"golang.org/x/text/cases"
)

// Slot identifies a core attribute of a contact record.
type Slot string

const (
	SlotEmail       Slot = "email"
	SlotFirstName   Slot = "first_name"
	SlotLastName    Slot = "last_name"
	SlotCompanyName Slot = "company_name"
	SlotLinkedInURL Slot = "linkedin_url"
)

// Entry binds one slot to the list of source headers that mean it.
type Entry struct {
	Slot    Slot     `yaml:"slot"`
	Aliases []string `yaml:"aliases"`
}

// Table resolves raw headers to slots. Build one with New and share it; a
// Table is immutable after construction and safe for concurrent use.
type Table struct {
	bySlot  []Entry
	resolve map[string]Slot // folded alias → slot, first registration wins
}

var fold = cases.Fold()

// foldKey normalizes a header for lookup: trim, case-fold, collapse inner
// whitespace runs to a single space.
func foldKey(s string) string {
	return fold.String(strings.Join(strings.Fields(s), " "))
}

// New builds a Table from ordered entries. Earlier entries take precedence
// when an alias is registered twice.
func New(entries []Entry) *Table {
	t := &Table{
		bySlot:  entries,
		resolve: make(map[string]Slot),
	}
	for _, e := range entries {
		for _, a := range e.Aliases {
			k := foldKey(a)
			if k == "" {
				continue
			}
			if _, taken := t.resolve[k]; !taken {
				t.resolve[k] = e.Slot
			}
		}
	}
	return t
}

// Default returns the alias table for the contact exports we ingest today
// (CRM and enrichment-tool header conventions).
func Default() *Table {
	return New([]Entry{
		{Slot: SlotEmail, Aliases: []string{"Email", "email", "work_email"}},
		{Slot: SlotFirstName, Aliases: []string{"First name", "first_name"}},
		{Slot: SlotLastName, Aliases: []string{"Last name", "last_name"}},
		{Slot: SlotCompanyName, Aliases: []string{"Company name", "Company", "organization"}},
		{Slot: SlotLinkedInURL, Aliases: []string{"LinkedIn", "linkedin_url"}},
	})
}

// Resolve maps a raw header to its slot. ok is false when the header has no
// alias entry, meaning the column belongs in the flexible document.
func (t *Table) Resolve(header string) (Slot, bool) {
	s, ok := t.resolve[foldKey(header)]
	return s, ok
}

// Entries returns the ordered configuration the table was built from.
func (t *Table) Entries() []Entry { return t.bySlot }
