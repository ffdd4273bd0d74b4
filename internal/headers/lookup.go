package headers

import (
	"strings"
	"sync"

	"github.com/ginjaninja78/workbank-normalizer/internal/types"
	"github.com/schollz/closestmatch"
)

// Lookup maps normalized header keys to the header text found in a sheet.
// It is built once per sheet and is safe for concurrent reads.
type Lookup struct {
	index      map[string]string
	keys       []string
	headers    []string
	duplicates []string

	once    sync.Once
	matcher *closestmatch.ClosestMatch
}

// NewLookup builds a Lookup from the header row in column order.
// When two headers normalize to the same key, the first one wins and the
// later one is reported by Duplicates.
func NewLookup(headers []string) *Lookup {
	l := &Lookup{index: make(map[string]string, len(headers))}

	for _, h := range headers {
		key := Normalize(h)
		if key == "" {
			continue
		}
		if _, exists := l.index[key]; exists {
			l.duplicates = append(l.duplicates, h)
			continue
		}
		l.index[key] = h
		l.keys = append(l.keys, key)
		l.headers = append(l.headers, h)
	}

	return l
}

// Resolve returns the original header for a key. The key is normalized
// first, so callers may pass either "Data da Proposta" or "DATA_DA_PROPOSTA".
func (l *Lookup) Resolve(key string) (string, bool) {
	h, ok := l.index[Normalize(key)]
	return h, ok
}

// ResolvePartial tries an exact normalized match, then the first header in
// column order whose normalized form contains the normalized fragment.
func (l *Lookup) ResolvePartial(fragment string) (string, bool) {
	if h, ok := l.Resolve(fragment); ok {
		return h, true
	}

	needle := Normalize(fragment)
	if needle == "" {
		return "", false
	}
	for i, key := range l.keys {
		if strings.Contains(key, needle) {
			return l.headers[i], true
		}
	}
	return "", false
}

// Get reads the cell for key from row. Absent columns and absent cells both
// report ok == false.
func (l *Lookup) Get(row types.RawRow, key string) (types.Value, bool) {
	h, ok := l.Resolve(key)
	if !ok {
		return types.Value{}, false
	}
	v, ok := row[h]
	return v, ok
}

// GetPartial is Get with ResolvePartial semantics.
func (l *Lookup) GetPartial(row types.RawRow, fragment string) (types.Value, bool) {
	h, ok := l.ResolvePartial(fragment)
	if !ok {
		return types.Value{}, false
	}
	v, ok := row[h]
	return v, ok
}

// Duplicates returns headers shadowed by an earlier header with the same key.
func (l *Lookup) Duplicates() []string {
	return l.duplicates
}

// Suggest returns the sheet header closest to a missing key, or "" when the
// sheet has no headers.
func (l *Lookup) Suggest(key string) string {
	if len(l.keys) == 0 {
		return ""
	}

	l.once.Do(func() {
		l.matcher = closestmatch.New(l.keys, []int{2, 3})
	})

	match := l.matcher.Closest(Normalize(key))
	if match == "" {
		return ""
	}
	return l.index[match]
}
