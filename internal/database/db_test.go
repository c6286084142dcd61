package database

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {Data: []byte("SELECT 2")},
		"001_a.up.sql":   {Data: []byte("SELECT 1")},
		"001_a.down.sql": {Data: []byte("SELECT 0")},
		"003_c.up.sql":   {Data: []byte("SELECT 3")},
		"README.md":      {Data: []byte("notes")},
	}

	got, err := PendingMigrations(fsys, map[string]bool{"002_b.up.sql": true})
	if err != nil {
		t.Fatalf("PendingMigrations: %v", err)
	}
	want := []string{"001_a.up.sql", "003_c.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PendingMigrations = %v, want %v", got, want)
	}
}

func TestConnectRejectsBadURL(t *testing.T) {
	if _, err := Connect(t.Context(), "postgres://user@host:notaport/%zz"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
