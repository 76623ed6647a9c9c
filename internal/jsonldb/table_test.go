package jsonldb

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maruel/ksid"
)

type testRow struct {
	ID    ksid.ID `json:"id" jsonschema:"description=Unique row ID"`
	Name  string  `json:"name" jsonschema:"description=Display name"`
	Score int     `json:"score,omitempty"`
}

func (r *testRow) Clone() *testRow {
	clone := *r
	return &clone
}

func (r *testRow) GetID() ksid.ID { return r.ID }

func (r *testRow) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func newTestTable(t *testing.T) *Table[*testRow] {
	t.Helper()
	table, err := NewTable[*testRow](filepath.Join(t.TempDir(), "rows.jsonl"))
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestTableAppendGet(t *testing.T) {
	table := newTestTable(t)

	row := &testRow{ID: ksid.ID(1), Name: "first", Score: 10}
	if err := table.Append(row); err != nil {
		t.Fatalf("Append: %v", err)
	}

	t.Run("get returns clone", func(t *testing.T) {
		got := table.Get(ksid.ID(1))
		if got == nil {
			t.Fatal("Get returned nil")
		}
		if got.Name != "first" || got.Score != 10 {
			t.Errorf("Get = %+v", got)
		}
		got.Name = "mutated"
		if again := table.Get(ksid.ID(1)); again.Name != "first" {
			t.Error("Get returned a shared instance, not a clone")
		}
	})

	t.Run("missing row returns nil", func(t *testing.T) {
		if got := table.Get(ksid.ID(999)); got != nil {
			t.Errorf("Get(999) = %+v, want nil", got)
		}
	})

	t.Run("duplicate ID rejected", func(t *testing.T) {
		if err := table.Append(&testRow{ID: ksid.ID(1), Name: "dup"}); err == nil {
			t.Error("Append with duplicate ID succeeded")
		}
	})

	t.Run("zero ID rejected", func(t *testing.T) {
		if err := table.Append(&testRow{Name: "noid"}); err == nil {
			t.Error("Append with zero ID succeeded")
		}
	})

	t.Run("invalid row rejected", func(t *testing.T) {
		if err := table.Append(&testRow{ID: ksid.ID(2)}); err == nil {
			t.Error("Append of invalid row succeeded")
		}
	})
}

func TestTableUpdate(t *testing.T) {
	table := newTestTable(t)
	if err := table.Append(&testRow{ID: ksid.ID(1), Name: "first"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	updated, err := table.Update(&testRow{ID: ksid.ID(1), Name: "renamed", Score: 5})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "renamed" || updated.Score != 5 {
		t.Errorf("Update returned %+v", updated)
	}
	if got := table.Get(ksid.ID(1)); got.Name != "renamed" {
		t.Errorf("Get after Update = %+v", got)
	}

	if _, err := table.Update(&testRow{ID: ksid.ID(999), Name: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing row: err = %v, want ErrNotFound", err)
	}
}

func TestTableDelete(t *testing.T) {
	table := newTestTable(t)
	if err := table.Append(&testRow{ID: ksid.ID(1), Name: "first"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	found, err := table.Delete(ksid.ID(1))
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !found {
		t.Error("Delete returned found=false for existing row")
	}
	if table.Len() != 0 {
		t.Errorf("Len after delete = %d", table.Len())
	}

	found, err = table.Delete(ksid.ID(1))
	if err != nil {
		t.Fatalf("Delete (again): %v", err)
	}
	if found {
		t.Error("Delete returned found=true for missing row")
	}
}

func TestTableModify(t *testing.T) {
	table := newTestTable(t)
	if err := table.Append(&testRow{ID: ksid.ID(1), Name: "first", Score: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	t.Run("applies mutation", func(t *testing.T) {
		got, err := table.Modify(ksid.ID(1), func(r *testRow) error {
			r.Score++
			return nil
		})
		if err != nil {
			t.Fatalf("Modify: %v", err)
		}
		if got.Score != 2 {
			t.Errorf("Score = %d, want 2", got.Score)
		}
	})

	t.Run("fn error aborts", func(t *testing.T) {
		wantErr := errors.New("abort")
		if _, err := table.Modify(ksid.ID(1), func(*testRow) error { return wantErr }); !errors.Is(err, wantErr) {
			t.Errorf("err = %v", err)
		}
		if got := table.Get(ksid.ID(1)); got.Score != 2 {
			t.Errorf("Score after aborted Modify = %d, want 2", got.Score)
		}
	})

	t.Run("ID change rejected", func(t *testing.T) {
		if _, err := table.Modify(ksid.ID(1), func(r *testRow) error {
			r.ID = ksid.ID(7)
			return nil
		}); err == nil {
			t.Error("Modify allowed ID change")
		}
	})

	t.Run("missing row", func(t *testing.T) {
		if _, err := table.Modify(ksid.ID(999), func(*testRow) error { return nil }); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestTableIter(t *testing.T) {
	table := newTestTable(t)
	for i := 1; i <= 5; i++ {
		if err := table.Append(&testRow{ID: ksid.ID(i), Name: "row", Score: i}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	t.Run("full scan in ID order", func(t *testing.T) {
		var got []int
		for row := range table.Iter(0) {
			got = append(got, int(row.ID))
		}
		for i, id := range got {
			if id != i+1 {
				t.Fatalf("Iter order = %v", got)
			}
		}
		if len(got) != 5 {
			t.Errorf("Iter yielded %d rows, want 5", len(got))
		}
	})

	t.Run("startID skips earlier rows", func(t *testing.T) {
		var got []int
		for row := range table.Iter(ksid.ID(3)) {
			got = append(got, int(row.ID))
		}
		if len(got) != 3 || got[0] != 3 {
			t.Errorf("Iter(3) = %v", got)
		}
	})
}

func TestTablePersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.jsonl")

	table, err := NewTable[*testRow](path)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := table.Append(&testRow{ID: ksid.ID(i), Name: "row"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if _, err := table.Delete(ksid.ID(2)); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	reloaded, err := NewTable[*testRow](path)
	if err != nil {
		t.Fatalf("NewTable (reload): %v", err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("reloaded Len = %d, want 2", reloaded.Len())
	}
	if got := reloaded.Get(ksid.ID(2)); got != nil {
		t.Errorf("deleted row survived reload: %+v", got)
	}

	t.Run("line 1 is schema header", func(t *testing.T) {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer func() {
			_ = f.Close()
		}()
		scanner := bufio.NewScanner(f)
		if !scanner.Scan() {
			t.Fatal("empty file")
		}
		var header schemaHeader
		if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
			t.Fatalf("header unmarshal: %v", err)
		}
		if header.Version != currentVersion {
			t.Errorf("header version = %q", header.Version)
		}
		var byName = map[string]column{}
		for _, col := range header.Columns {
			byName[col.Name] = col
		}
		if byName["id"].Description != "Unique row ID" {
			t.Errorf("id column = %+v", byName["id"])
		}
	})
}

func TestTableSortsOnLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.jsonl")

	// Hand-write a file with rows out of ID order.
	var buf bytes.Buffer
	buf.WriteString(`{"version":"1.0","columns":[{"name":"id","type":"text"},{"name":"name","type":"text"}]}` + "\n")
	for _, row := range []*testRow{
		{ID: ksid.ID(3), Name: "c"},
		{ID: ksid.ID(1), Name: "a"},
		{ID: ksid.ID(2), Name: "b"},
	} {
		line, err := json.Marshal(row)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	table, err := NewTable[*testRow](path)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	var got []int
	for row := range table.Iter(0) {
		got = append(got, int(row.ID))
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("Iter after load = %v, want [1 2 3]", got)
	}
}
