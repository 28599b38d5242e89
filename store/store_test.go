package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	m := NewMemory()
	r.Register("school", m)
	r.Register("team", NewMemory())

	got, err := r.Lookup("school")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != m {
		t.Error("Lookup() returned a different store")
	}

	if _, err := r.Lookup("district"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Lookup() error = %v, want ErrNoStore", err)
	}

	if kinds := r.Kinds(); !reflect.DeepEqual(kinds, []string{"school", "team"}) {
		t.Errorf("Kinds() = %v", kinds)
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	rows := []Row{
		{OriginalColor: "101010", ReferenceColor: "000000", Frequency: 80, Distance: 27.7},
		{OriginalColor: "f0f0f0", ReferenceColor: "ffffff", Frequency: 20, Distance: 25.9},
	}
	for _, r := range rows {
		if err := s.Create(ctx, "42", r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := s.Create(ctx, "7", rows[0]); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.List(ctx, "42")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d rows, want 2", len(got))
	}
	for i := range rows {
		want := rows[i]
		want.Owner = "42"
		if got[i] != want {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want)
		}
	}

	if err := s.DeleteAll(ctx, "42"); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if got, _ := s.List(ctx, "42"); len(got) != 0 {
		t.Errorf("List() after DeleteAll = %v, want none", got)
	}
	if got, _ := s.List(ctx, "7"); len(got) != 1 {
		t.Errorf("DeleteAll removed rows of another owner: %v", got)
	}

	// deleting an owner with no rows is not an error
	if err := s.DeleteAll(ctx, "missing"); err != nil {
		t.Errorf("DeleteAll() on missing owner error = %v", err)
	}
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "colors"), "school_id")
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	testStore(t, s)
}

func TestFileWritesAssociationKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir, "school_id")
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := s.Create(context.Background(), "42", Row{OriginalColor: "101010", ReferenceColor: "000000", Frequency: 100}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "42.json"))
	if err != nil {
		t.Fatal(err)
	}
	var docs []map[string]interface{}
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0]["school_id"] != "42" || docs[0]["reference_color"] != "000000" {
		t.Errorf("stored document = %v", docs)
	}
}

func TestCheckAssociationKey(t *testing.T) {
	for _, key := range []string{"", "original_color", "reference_color", "frequency", "distance"} {
		if err := CheckAssociationKey(key); err == nil {
			t.Errorf("CheckAssociationKey(%q) should fail", key)
		}
	}
	if err := CheckAssociationKey("school_id"); err != nil {
		t.Errorf("CheckAssociationKey(school_id) error = %v", err)
	}

	if _, err := NewFile(t.TempDir(), "distance"); err == nil {
		t.Error("NewFile() with a reserved association key should fail")
	}
}
