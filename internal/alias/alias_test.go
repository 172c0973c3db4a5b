package alias

import "testing"

func TestDefaultResolve(t *testing.T) {
	tbl := Default()
	tests := []struct {
		header string
		want   Slot
		ok     bool
	}{
		{"Email", SlotEmail, true},
		{"email", SlotEmail, true},
		{"WORK_EMAIL", SlotEmail, true},
		{"  Email  ", SlotEmail, true},
		{"First name", SlotFirstName, true},
		{"first   name", SlotFirstName, true},
		{"Company", SlotCompanyName, true},
		{"ORGANIZATION", SlotCompanyName, true},
		{"LinkedIn", SlotLinkedInURL, true},
		{"linkedin_url", SlotLinkedInURL, true},
		{"Industry", "", false},
		{"Company Size", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := tbl.Resolve(tt.header)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEarlierEntryWinsOnCollision(t *testing.T) {
	tbl := New([]Entry{
		{Slot: SlotCompanyName, Aliases: []string{"org"}},
		{Slot: SlotFirstName, Aliases: []string{"org"}}, // bad config; earlier wins
	})
	got, ok := tbl.Resolve("Org")
	if !ok || got != SlotCompanyName {
		t.Errorf("Resolve(Org) = (%q, %v), want (%q, true)", got, ok, SlotCompanyName)
	}
}

func TestEmptyAliasIgnored(t *testing.T) {
	tbl := New([]Entry{{Slot: SlotEmail, Aliases: []string{"", "  ", "mail"}}})
	if _, ok := tbl.Resolve(""); ok {
		t.Error("empty header resolved to a slot")
	}
	if got, ok := tbl.Resolve("Mail"); !ok || got != SlotEmail {
		t.Errorf("Resolve(Mail) = (%q, %v), want email slot", got, ok)
	}
}
