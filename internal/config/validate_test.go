package config

import (
	"strings"
	"testing"

	"github.com/Dotunbey/feedback-os/internal/alias"
)

func valid() Config {
	return Config{
		Server:  Server{Addr: ":8080"},
		Storage: Storage{Kind: "postgres", DSN: "postgres://db/dir"},
		Ingest:  Ingest{Mode: "insert", ChunkSize: 500},
	}
}

func TestValidateCleanConfig(t *testing.T) {
	if issues := Validate(valid()); len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
		fatal    bool
	}{
		{"missing dsn", func(c *Config) { c.Storage.DSN = "" }, "storage.dsn", true},
		{"missing kind", func(c *Config) { c.Storage.Kind = " " }, "storage.kind", true},
		{"unknown mode", func(c *Config) { c.Ingest.Mode = "merge" }, "ingest.mode", true},
		{"empty mode", func(c *Config) { c.Ingest.Mode = "" }, "ingest.mode", true},
		{"negative chunk", func(c *Config) { c.Ingest.ChunkSize = -1 }, "ingest.chunk_size", true},
		{"huge chunk warns", func(c *Config) { c.Ingest.ChunkSize = 50000 }, "ingest.chunk_size", false},
		{"multi-char delimiter", func(c *Config) { c.Ingest.Delimiter = ";;" }, "ingest.delimiter", true},
		{"alias without slot", func(c *Config) {
			c.Ingest.Aliases = []alias.Entry{{Aliases: []string{"Email"}}}
		}, "ingest.aliases[0].slot", true},
		{"alias without names warns", func(c *Config) {
			c.Ingest.Aliases = []alias.Entry{{Slot: alias.SlotEmail}}
		}, "ingest.aliases[0].aliases", false},
		{"pushgateway without url", func(c *Config) {
			c.Metrics = Metrics{Backend: "pushgateway"}
		}, "metrics.gateway_url", true},
		{"unknown metrics backend warns", func(c *Config) {
			c.Metrics = Metrics{Backend: "statsd"}
		}, "metrics.backend", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			issues := Validate(c)
			found := false
			for _, iss := range issues {
				if iss.Path == tt.wantPath {
					found = true
					if fatal := iss.Severity == SeverityError; fatal != tt.fatal {
						t.Errorf("severity = %s, want fatal=%v", iss.Severity, tt.fatal)
					}
				}
			}
			if !found {
				t.Errorf("no issue at %s; got %v", tt.wantPath, issues)
			}
			if HasErrors(issues) != tt.fatal {
				t.Errorf("HasErrors = %v, want %v", HasErrors(issues), tt.fatal)
			}
		})
	}
}

func TestIssueError(t *testing.T) {
	i := Issue{SeverityError, "storage.dsn", "must be set"}
	if got := i.Error(); !strings.Contains(got, "storage.dsn") || !strings.Contains(got, "error") {
		t.Errorf("Error() = %q", got)
	}
}
