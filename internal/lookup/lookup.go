// Package lookup builds id -> name tables from master-data records.
package lookup

import "strconv"

// Index maps a record id to its display name.
type Index map[int64]string

// Build indexes records by id. Later records overwrite earlier ones with the
// same id. An empty input yields an empty, non-nil Index.
func Build[T any](records []T, id func(T) int64, name func(T) string) Index {
	idx := make(Index, len(records))
	for _, r := range records {
		idx[id(r)] = name(r)
	}
	return idx
}

// Name returns the indexed name for id, if any.
func (idx Index) Name(id int64) (string, bool) {
	name, ok := idx[id]
	return name, ok
}

// Label returns the indexed name for id, or "<kind> <id>" when the id is
// unknown. An empty indexed name also falls back to the placeholder.
func (idx Index) Label(id int64, kind string) string {
	if name, ok := idx[id]; ok && name != "" {
		return name
	}
	return Placeholder(kind, id)
}

// Placeholder synthesizes the label used for ids missing from an index.
func Placeholder(kind string, id int64) string {
	return kind + " " + strconv.FormatInt(id, 10)
}

// Kinds used for placeholder labels.
const (
	KindProduct  = "Product"
	KindCriteria = "Criteria"
)
