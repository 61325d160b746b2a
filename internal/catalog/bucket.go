package catalog

import (
	"sort"

	"github.com/dgallion1/groupdata/internal/webidl"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Bucket is an ordered list of declarations with unique names.
type Bucket struct {
	items []webidl.Declaration
	seen  map[string]struct{}
}

// InsertUnique appends d unless an entry with the same name is already
// present. It reports whether d was added.
func (b *Bucket) InsertUnique(d webidl.Declaration) bool {
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	if _, ok := b.seen[d.Name]; ok {
		return false
	}
	b.seen[d.Name] = struct{}{}
	b.items = append(b.items, d)
	return true
}

// Len returns the number of entries.
func (b *Bucket) Len() int {
	return len(b.items)
}

// Names returns the entry names in their current order.
func (b *Bucket) Names() []string {
	names := make([]string, len(b.items))
	for i, d := range b.items {
		names[i] = d.Name
	}
	return names
}

// Sorted returns a copy of b ordered by name.
func (b *Bucket) Sorted() *Bucket {
	out := &Bucket{
		items: make([]webidl.Declaration, len(b.items)),
		seen:  make(map[string]struct{}, len(b.items)),
	}
	copy(out.items, b.items)
	for name := range b.seen {
		out.seen[name] = struct{}{}
	}

	// Collators are not safe for concurrent use; build one per sort.
	col := collate.New(language.Und)
	sort.SliceStable(out.items, func(i, j int) bool {
		return lessName(col, out.items[i].Name, out.items[j].Name)
	})
	return out
}

// lessName orders names with the root locale collation, falling back to byte
// order for names the collator considers equal.
func lessName(col *collate.Collator, a, b string) bool {
	if c := col.CompareString(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

// Buckets holds one bucket per rendered declaration group.
type Buckets struct {
	Types        *Bucket
	Interfaces   *Bucket
	Dictionaries *Bucket
	Callbacks    *Bucket
}

// NewBuckets returns four empty buckets.
func NewBuckets() Buckets {
	return Buckets{
		Types:        &Bucket{},
		Interfaces:   &Bucket{},
		Dictionaries: &Bucket{},
		Callbacks:    &Bucket{},
	}
}

// Sorted returns a copy of every bucket ordered by name.
func (b Buckets) Sorted() Buckets {
	return Buckets{
		Types:        orEmpty(b.Types).Sorted(),
		Interfaces:   orEmpty(b.Interfaces).Sorted(),
		Dictionaries: orEmpty(b.Dictionaries).Sorted(),
		Callbacks:    orEmpty(b.Callbacks).Sorted(),
	}
}

func orEmpty(b *Bucket) *Bucket {
	if b == nil {
		return &Bucket{}
	}
	return b
}
