package migrations

import "testing"

func TestVersion(t *testing.T) {
	tests := map[string]string{
		"0001_init.sql":               "0001",
		"migrations/0002_indexes.sql": "0002",
		"0003.sql":                    "0003.sql",
	}
	for in, want := range tests {
		if got := Version(in); got != want {
			t.Errorf("Version(%q) = %q, want %q", in, got, want)
		}
	}
}
