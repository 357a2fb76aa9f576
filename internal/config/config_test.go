package config

import (
	"strings"
	"testing"
)

func TestDSN_FromFields(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal:3307",
		User:     "quill",
		Password: "secret",
		Name:     "quilldb",
	}

	dsn := d.DSN()
	for _, want := range []string{
		"quill:secret@tcp(db.internal:3307)/quilldb",
		"parseTime=true",
		// RowsAffected must count matched rows so no-op updates of
		// existing rows are not mistaken for missing rows.
		"clientFoundRows=true",
	} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}

func TestDSN_DefaultPort(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", User: "u", Password: "p", Name: "db"}
	if dsn := d.DSN(); !strings.Contains(dsn, "tcp(localhost:3306)") {
		t.Errorf("expected default port 3306 in DSN, got %q", dsn)
	}
}

func TestDSN_OverridePassesThrough(t *testing.T) {
	override := "u:p@tcp(h:3306)/db?parseTime=true&clientFoundRows=true"
	d := DatabaseConfig{dsnOverride: override}
	if dsn := d.DSN(); dsn != override {
		t.Errorf("expected DATABASE_URL to pass through untouched, got %q", dsn)
	}
}
