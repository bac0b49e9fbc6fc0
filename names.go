package uasset

import (
	"fmt"
	"strconv"
)

// NameEntry is one interned string of a package name map. The hashes are
// carried through unchanged from the file.
type NameEntry struct {
	Text        string
	NonCaseHash uint16
	CaseHash    uint16
}

// NameTable is the append-only name map of a package. Indices handed out by
// Intern stay valid for the lifetime of the table.
type NameTable struct {
	entries []NameEntry
	index   map[string]int32
}

func NewNameTable() *NameTable {
	return &NameTable{index: make(map[string]int32)}
}

func (t *NameTable) Len() int { return len(t.entries) }

// Entries returns the entries in table order. The slice must not be modified.
func (t *NameTable) Entries() []NameEntry { return t.entries }

func (t *NameTable) add(e NameEntry) int32 {
	i := int32(len(t.entries))
	t.entries = append(t.entries, e)
	if _, ok := t.index[e.Text]; !ok {
		t.index[e.Text] = i
	}
	return i
}

// Intern returns the index of base, appending it when absent.
func (t *NameTable) Intern(base string) int32 {
	if i, ok := t.index[base]; ok {
		return i
	}
	return t.add(NameEntry{Text: base})
}

// Lookup returns the index of base without interning it.
func (t *NameTable) Lookup(base string) (int32, bool) {
	i, ok := t.index[base]
	return i, ok
}

// Resolve returns the display text of (index, number).
func (t *NameTable) Resolve(index, number int32) (string, error) {
	n, err := t.Name(index, number)
	if err != nil {
		return "", err
	}
	return n.Text(), nil
}

// Name validates index against the table and returns the reference.
func (t *NameTable) Name(index, number int32) (Name, error) {
	if index < 0 || int(index) >= len(t.entries) {
		return Name{}, fmt.Errorf("%w: requested index %d, name map size %d", ErrNameOutOfRange, index, len(t.entries))
	}
	if number < 0 {
		return Name{}, fmt.Errorf("%w: negative instance number %d for index %d", ErrNameOutOfRange, number, index)
	}
	return Name{table: t, Index: index, Number: number}, nil
}

// Name references an entry of a NameTable plus an instance number.
// Number 0 means no suffix; number n renders as base_(n-1).
type Name struct {
	table  *NameTable
	Index  int32
	Number int32
}

// Base returns the interned string without the numeric suffix.
func (n Name) Base() string {
	if n.table == nil {
		return ""
	}
	return n.table.entries[n.Index].Text
}

func (n Name) Text() string {
	if n.Number == 0 {
		return n.Base()
	}
	return n.Base() + "_" + strconv.Itoa(int(n.Number-1))
}

func (n Name) String() string { return n.Text() }

// IsNone reports whether n is the zero reference or the "None" name.
func (n Name) IsNone() bool {
	return n.table == nil || (n.Number == 0 && n.Base() == "None")
}

// Equal compares display text, so names from different tables compare by value.
func (n Name) Equal(o Name) bool { return n.Text() == o.Text() }
