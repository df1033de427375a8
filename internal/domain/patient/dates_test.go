package patient

import (
	"errors"
	"testing"
)

func TestNormalizeDOB(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare date", "1986-08-21", "1986-08-21"},
		{"rfc3339 utc", "1986-08-21T00:00:00Z", "1986-08-21"},
		{"rfc3339 with offset", "1986-08-21T22:30:00-07:00", "1986-08-22"},
		{"datetime without zone", "1986-08-21T10:15:00", "1986-08-21"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDOB(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeDOB_Idempotent(t *testing.T) {
	inputs := []string{"1986-08-21", "2001-12-31T23:59:59Z", "1970-01-01T00:00:00+05:00"}
	for _, in := range inputs {
		once, err := NormalizeDOB(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		twice, err := NormalizeDOB(once)
		if err != nil {
			t.Fatalf("unexpected error renormalizing %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("expected idempotent normalization for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeDOB_Rejects(t *testing.T) {
	inputs := []string{"", "08/21/1986", "21-08-1986", "not a date", "1986-13-45"}
	for _, in := range inputs {
		_, err := NormalizeDOB(in)
		if err == nil {
			t.Errorf("expected error for %q", in)
			continue
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected *ValidationError for %q, got %T", in, err)
		}
	}
}
