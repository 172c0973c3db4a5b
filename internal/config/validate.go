package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding surfaced to users that does not
	// block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "storage.dsn").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where needed.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate statically checks a decoded Config and returns findings. It does
// not mutate the config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Storage.Kind) == "" {
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage.kind must not be empty"})
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.dsn", "storage.dsn must be set (file or FEEDBACKOS_DSN)"})
	}

	switch c.Ingest.Mode {
	case "insert", "upsert":
	case "":
		issues = append(issues, Issue{SeverityError, "ingest.mode", "ingest.mode must be \"insert\" or \"upsert\""})
	default:
		issues = append(issues, Issue{SeverityError, "ingest.mode",
			fmt.Sprintf("unknown mode %q; must be \"insert\" or \"upsert\"", c.Ingest.Mode)})
	}

	if c.Ingest.ChunkSize < 0 {
		issues = append(issues, Issue{SeverityError, "ingest.chunk_size", "chunk_size must not be negative"})
	}
	if c.Ingest.ChunkSize > 10000 {
		issues = append(issues, Issue{SeverityWarning, "ingest.chunk_size",
			"very large chunks amplify the blast radius of a single failed write"})
	}
	if len(c.Ingest.Delimiter) > 1 {
		issues = append(issues, Issue{SeverityError, "ingest.delimiter", "delimiter must be a single character"})
	}

	for i, e := range c.Ingest.Aliases {
		if e.Slot == "" {
			issues = append(issues, Issue{SeverityError,
				fmt.Sprintf("ingest.aliases[%d].slot", i), "slot must not be empty"})
		}
		if len(e.Aliases) == 0 {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("ingest.aliases[%d].aliases", i), "entry has no aliases and will never match"})
		}
	}

	switch c.Metrics.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(c.Metrics.GatewayURL) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.gateway_url",
				"gateway_url required for the pushgateway backend"})
		}
	default:
		issues = append(issues, Issue{SeverityWarning, "metrics.backend",
			fmt.Sprintf("unknown backend %q; metrics will be disabled", c.Metrics.Backend)})
	}

	return issues
}

// HasErrors reports whether any issue is severity error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
