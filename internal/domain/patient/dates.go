package patient

import (
	"time"
)

// dobLayouts are tried in order: full RFC 3339 timestamps (with or without
// fractional seconds or an offset) and the bare date the EMR expects.
var dobLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDOB parses a date of birth and renders it as YYYY-MM-DD in UTC,
// the only form the EMR accepts. Accepted inputs are ISO 8601 datetimes and
// bare dates; anything else fails with *ValidationError. Normalization is
// idempotent: its output is always valid input.
func NormalizeDOB(raw string) (string, error) {
	if raw == "" {
		return "", &ValidationError{Field: "date_of_birth", Reason: "missing"}
	}
	for _, layout := range dobLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return t.UTC().Format("2006-01-02"), nil
	}
	return "", &ValidationError{Field: "date_of_birth", Reason: "unparseable value " + raw}
}
