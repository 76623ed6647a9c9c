// Generic JSONL table with in-memory caching and pessimistic locking.

package jsonldb

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/maruel/ksid"
)

// ErrNotFound is returned when a row with the requested ID does not exist.
var ErrNotFound = errors.New("row not found")

// Row is implemented by types stored in a [Table].
type Row[T any] interface {
	// Clone returns a deep copy. Tables always hand out clones so callers
	// can never mutate cached rows in place.
	Clone() T
	// GetID returns the row's unique, time-sortable ID.
	GetID() ksid.ID
	// Validate reports whether the row is well-formed for storage.
	Validate() error
}

// TableObserver receives notifications after successful table mutations.
//
// Callbacks run while the table write lock is held, so implementations must
// not call back into the table.
type TableObserver[T Row[T]] interface {
	OnAppend(row T)
	OnUpdate(prev, curr T)
	OnDelete(row T)
}

// Table handles storage and in-memory caching for a single table in JSONL format.
//
// Line 1 of the backing file is the schema header; each subsequent line is one
// row. Rows are kept sorted by ID.
type Table[T Row[T]] struct {
	path   string
	header schemaHeader

	mu        sync.RWMutex
	rows      []T
	byID      map[ksid.ID]int
	observers []TableObserver[T]
}

// NewTable creates a new Table and loads all data from the file.
//
// The schema header is derived from T via JSON Schema reflection.
func NewTable[T Row[T]](path string) (*Table[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	columns, err := schemaFromType[T]()
	if err != nil {
		return nil, fmt.Errorf("failed to derive schema for %s: %w", path, err)
	}

	t := &Table[T]{
		path:   path,
		header: schemaHeader{Version: currentVersion, Columns: columns},
		byID:   map[ksid.ID]int{},
	}
	if err := t.load(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table[T]) load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.rows = []T{}
			return nil
		}
		return fmt.Errorf("failed to open table file %s: %w", t.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var rows []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if first {
			first = false
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err != nil {
				return fmt.Errorf("failed to unmarshal schema header in %s: %w", t.path, err)
			}
			if err := header.Validate(); err != nil {
				return fmt.Errorf("invalid schema header in %s: %w", t.path, err)
			}
			continue
		}
		var row T
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("failed to unmarshal row in %s: %w", t.path, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read table file %s: %w", t.path, err)
	}

	// Sort by ID if out of order. Handles clock drift and manual file edits.
	if !slices.IsSortedFunc(rows, rowCompare[T]) {
		slices.SortFunc(rows, rowCompare[T])
	}

	t.rows = rows
	t.reindexLocked()
	return nil
}

func rowCompare[T Row[T]](a, b T) int {
	switch ia, ib := a.GetID(), b.GetID(); {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

func (t *Table[T]) reindexLocked() {
	t.byID = make(map[ksid.ID]int, len(t.rows))
	for i, row := range t.rows {
		t.byID[row.GetID()] = i
	}
}

// AddObserver registers an observer for table mutations.
func (t *Table[T]) AddObserver(obs TableObserver[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, obs)
	// Replay existing rows so indexes built after load see them.
	for _, row := range t.rows {
		obs.OnAppend(row)
	}
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Get returns a clone of the row with the given ID, or the zero value if not found.
func (t *Table[T]) Get(id ksid.ID) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.byID[id]
	if !ok {
		var zero T
		return zero
	}
	return t.rows[i].Clone()
}

// Iter returns an iterator over clones of all rows with ID >= startID,
// in ID order. Pass 0 to iterate the whole table.
func (t *Table[T]) Iter(startID ksid.ID) iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.RLock()
		start, _ := slices.BinarySearchFunc(t.rows, startID, func(row T, id ksid.ID) int {
			switch rid := row.GetID(); {
			case rid < id:
				return -1
			case rid > id:
				return 1
			default:
				return 0
			}
		})
		snapshot := make([]T, 0, len(t.rows)-start)
		for _, row := range t.rows[start:] {
			snapshot = append(snapshot, row.Clone())
		}
		t.mu.RUnlock()

		for _, row := range snapshot {
			if !yield(row) {
				return
			}
		}
	}
}

// Append adds a new row to the table and persists it.
func (t *Table[T]) Append(row T) error {
	if err := row.Validate(); err != nil {
		return fmt.Errorf("invalid row: %w", err)
	}
	id := row.GetID()
	if id.IsZero() {
		return errors.New("row ID is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byID[id]; ok {
		return fmt.Errorf("row %s already exists", id)
	}

	stored := row.Clone()
	if err := t.appendLineLocked(stored); err != nil {
		return err
	}

	// IDs are time-sortable so new rows normally land at the end; a full
	// rewrite is only needed when one arrives out of order.
	if n := len(t.rows); n > 0 && t.rows[n-1].GetID() > id {
		t.rows = append(t.rows, stored)
		slices.SortFunc(t.rows, rowCompare[T])
		t.reindexLocked()
		if err := t.rewriteLocked(); err != nil {
			return err
		}
	} else {
		t.byID[id] = len(t.rows)
		t.rows = append(t.rows, stored)
	}

	for _, obs := range t.observers {
		obs.OnAppend(stored)
	}
	return nil
}

// Update replaces the row with the same ID and persists the table.
// It returns a clone of the stored row.
func (t *Table[T]) Update(row T) (T, error) {
	var zero T
	if err := row.Validate(); err != nil {
		return zero, fmt.Errorf("invalid row: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.byID[row.GetID()]
	if !ok {
		return zero, fmt.Errorf("row %s: %w", row.GetID(), ErrNotFound)
	}

	prev := t.rows[i]
	stored := row.Clone()
	t.rows[i] = stored
	if err := t.rewriteLocked(); err != nil {
		t.rows[i] = prev
		return zero, err
	}

	for _, obs := range t.observers {
		obs.OnUpdate(prev, stored)
	}
	return stored.Clone(), nil
}

// Delete removes the row with the given ID and persists the table.
// It returns false if the row did not exist.
func (t *Table[T]) Delete(id ksid.ID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.byID[id]
	if !ok {
		return false, nil
	}

	removed := t.rows[i]
	t.rows = slices.Delete(t.rows, i, i+1)
	t.reindexLocked()
	if err := t.rewriteLocked(); err != nil {
		return false, err
	}

	for _, obs := range t.observers {
		obs.OnDelete(removed)
	}
	return true, nil
}

// Modify atomically applies fn to the row with the given ID and persists the
// result. The write lock is held for the whole read-modify-write, so fn must
// not call back into the table. It returns a clone of the stored row.
func (t *Table[T]) Modify(id ksid.ID, fn func(row T) error) (T, error) {
	var zero T

	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.byID[id]
	if !ok {
		return zero, fmt.Errorf("row %s: %w", id, ErrNotFound)
	}

	prev := t.rows[i]
	next := prev.Clone()
	if err := fn(next); err != nil {
		return zero, err
	}
	if next.GetID() != id {
		return zero, errors.New("row ID cannot be changed")
	}
	if err := next.Validate(); err != nil {
		return zero, fmt.Errorf("invalid row: %w", err)
	}

	t.rows[i] = next
	if err := t.rewriteLocked(); err != nil {
		t.rows[i] = prev
		return zero, err
	}

	for _, obs := range t.observers {
		obs.OnUpdate(prev, next)
	}
	return next.Clone(), nil
}

// appendLineLocked appends a single row line, writing the schema header first
// if the file does not exist yet.
func (t *Table[T]) appendLineLocked(row T) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	writeHeader := false
	if _, err := os.Stat(t.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open table file for append: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := bufio.NewWriter(f)
	if writeHeader {
		header, err2 := json.Marshal(&t.header)
		if err2 != nil {
			return fmt.Errorf("failed to marshal schema header: %w", err2)
		}
		if _, err2 = w.Write(header); err2 != nil {
			return fmt.Errorf("failed to write schema header: %w", err2)
		}
		if err2 = w.WriteByte('\n'); err2 != nil {
			return fmt.Errorf("failed to write newline: %w", err2)
		}
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	return nil
}

// rewriteLocked rewrites the whole file (header plus all rows) atomically via
// a temp file rename.
func (t *Table[T]) rewriteLocked() error {
	tmp := t.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}

	w := bufio.NewWriter(f)
	header, err := json.Marshal(&t.header)
	if err == nil {
		_, err = w.Write(header)
	}
	if err == nil {
		err = w.WriteByte('\n')
	}
	for _, row := range t.rows {
		if err != nil {
			break
		}
		var data []byte
		if data, err = json.Marshal(row); err != nil {
			break
		}
		if _, err = w.Write(data); err != nil {
			break
		}
		err = w.WriteByte('\n')
	}
	if err == nil {
		err = w.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write table file %s: %w", t.path, err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("failed to replace table file %s: %w", t.path, err)
	}
	return nil
}
