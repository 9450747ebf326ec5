package database

import (
	"slices"
	"testing"
	"testing/fstest"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_rates.up.sql":    {Data: []byte("CREATE TABLE b ();")},
		"001_init.up.sql":     {Data: []byte("CREATE TABLE a ();")},
		"001_init.down.sql":   {Data: []byte("DROP TABLE a;")},
		"README.md":           {Data: []byte("notes")},
		"003_later.up.sql":    {Data: []byte("SELECT 1;")},
		"nested/004_x.up.sql": {Data: []byte("SELECT 1;")},
	}

	tests := []struct {
		name    string
		applied map[string]bool
		want    []string
	}{
		{"fresh database", nil, []string{"001_init.up.sql", "002_rates.up.sql", "003_later.up.sql"}},
		{"partially applied", map[string]bool{"001_init.up.sql": true}, []string{"002_rates.up.sql", "003_later.up.sql"}},
		{"up to date", map[string]bool{"001_init.up.sql": true, "002_rates.up.sql": true, "003_later.up.sql": true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pendingMigrations(fsys, tt.applied)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("pending = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPendingMigrationsEmptyFS(t *testing.T) {
	got, err := pendingMigrations(fstest.MapFS{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("pending = %v, want none", got)
	}
}
