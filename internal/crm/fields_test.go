package crm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFieldIDs_EmptyPathYieldsEmptyMapping(t *testing.T) {
	ids, err := LoadFieldIDs("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty mapping, got %v", ids)
	}
	if _, ok := ids.IDFor("sexo"); ok {
		t.Fatalf("empty mapping must not resolve any field")
	}
}

func TestLoadFieldIDs_ReadsYAMLDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	doc := "fields:\n  sexo: q4BR64ptRkoo4CcFrkr0\n  matricula: XJOcVWKwUrOWdXkJK5d9\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ids, err := LoadFieldIDs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, ok := ids.IDFor("sexo")
	if !ok || id != "q4BR64ptRkoo4CcFrkr0" {
		t.Fatalf("unexpected id for sexo: %q %v", id, ok)
	}
	if _, ok := ids.IDFor("desconocido"); ok {
		t.Fatalf("unknown field must not resolve")
	}
}

func TestLoadFieldIDs_RejectsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("fields: {}\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFieldIDs(path); err == nil {
		t.Fatalf("expected error for empty fields document")
	}
}

func TestLoadFieldIDs_MissingFileFails(t *testing.T) {
	if _, err := LoadFieldIDs(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
