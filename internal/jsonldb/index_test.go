package jsonldb

import (
	"path/filepath"
	"testing"

	"github.com/maruel/ksid"
)

func TestUniqueIndex(t *testing.T) {
	table := newTestTable(t)
	idx := NewUniqueIndex(table, func(r *testRow) string { return r.Name })

	if err := table.Append(&testRow{ID: ksid.ID(1), Name: "alpha"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := table.Append(&testRow{ID: ksid.ID(2), Name: "beta"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	t.Run("lookup by key", func(t *testing.T) {
		got := idx.Get("beta")
		if got == nil || got.ID != ksid.ID(2) {
			t.Errorf("Get(beta) = %+v", got)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if got := idx.Get("gamma"); got != nil {
			t.Errorf("Get(gamma) = %+v", got)
		}
	})

	t.Run("tracks update", func(t *testing.T) {
		if _, err := table.Update(&testRow{ID: ksid.ID(2), Name: "renamed"}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got := idx.Get("beta"); got != nil {
			t.Error("old key still resolves after rename")
		}
		if got := idx.Get("renamed"); got == nil || got.ID != ksid.ID(2) {
			t.Errorf("Get(renamed) = %+v", got)
		}
	})

	t.Run("tracks delete", func(t *testing.T) {
		if _, err := table.Delete(ksid.ID(1)); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got := idx.Get("alpha"); got != nil {
			t.Error("deleted row still resolves")
		}
	})
}

func TestUniqueIndexBuiltFromExistingRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.jsonl")

	table, err := NewTable[*testRow](path)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if err := table.Append(&testRow{ID: ksid.ID(1), Name: "preexisting"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Index created after the row was appended must still see it.
	idx := NewUniqueIndex(table, func(r *testRow) string { return r.Name })
	if got := idx.Get("preexisting"); got == nil || got.ID != ksid.ID(1) {
		t.Errorf("Get(preexisting) = %+v", got)
	}
}

func TestIndex(t *testing.T) {
	table := newTestTable(t)
	idx := NewIndex(table, func(r *testRow) int { return r.Score })

	for i := 1; i <= 4; i++ {
		score := i % 2 // two rows per score bucket
		if err := table.Append(&testRow{ID: ksid.ID(i), Name: "row", Score: score}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	count := func(key int) int {
		n := 0
		for range idx.Iter(key) {
			n++
		}
		return n
	}

	if got := count(0); got != 2 {
		t.Errorf("Iter(0) yielded %d rows, want 2", got)
	}
	if got := count(1); got != 2 {
		t.Errorf("Iter(1) yielded %d rows, want 2", got)
	}
	if got := count(9); got != 0 {
		t.Errorf("Iter(9) yielded %d rows, want 0", got)
	}

	t.Run("tracks bucket move", func(t *testing.T) {
		if _, err := table.Update(&testRow{ID: ksid.ID(2), Name: "row", Score: 1}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got := count(0); got != 1 {
			t.Errorf("Iter(0) yielded %d rows, want 1", got)
		}
		if got := count(1); got != 3 {
			t.Errorf("Iter(1) yielded %d rows, want 3", got)
		}
	})

	t.Run("tracks delete", func(t *testing.T) {
		if _, err := table.Delete(ksid.ID(4)); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got := count(0); got != 0 {
			t.Errorf("Iter(0) yielded %d rows, want 0", got)
		}
	})
}
