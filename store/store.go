// Package store persists match records for an owning entity.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// DefaultAssociationKey names the owner id field when none is configured.
const DefaultAssociationKey = "owner_id"

// rowFields are the document fields a row writes itself; the association
// key cannot reuse them.
var rowFields = []string{"original_color", "reference_color", "frequency", "distance"}

// CheckAssociationKey rejects an empty key or one that collides with a row field.
func CheckAssociationKey(key string) error {
	if key == "" {
		return fmt.Errorf("association key cannot be empty")
	}
	for _, f := range rowFields {
		if key == f {
			return fmt.Errorf("association key %q is a reserved row field", key)
		}
	}
	return nil
}

// ErrNoStore is returned when no store is registered for an owner kind.
var ErrNoStore = errors.New("no store registered")

// Row is one persisted match record.
type Row struct {
	Owner          string  `json:"-"`
	OriginalColor  string  `json:"original_color"`
	ReferenceColor string  `json:"reference_color"`
	Frequency      float64 `json:"frequency"`
	Distance       float64 `json:"distance"`
}

// Store is the persistence side of a color run.
type Store interface {
	// DeleteAll removes every row stored for owner.
	DeleteAll(ctx context.Context, owner string) error
	// Create appends one row for owner.
	Create(ctx context.Context, owner string, r Row) error
	// List returns the rows for owner in creation order.
	List(ctx context.Context, owner string) ([]Row, error)
}

// Registry maps an owner kind (e.g. "school") to the store holding its rows.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]Store
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]Store)}
}

// Register binds kind to s, replacing any previous binding.
func (r *Registry) Register(kind string, s Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[kind] = s
}

// Lookup returns the store for kind.
func (r *Registry) Lookup(kind string) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[kind]
	if !ok {
		return nil, fmt.Errorf("%w for kind %q", ErrNoStore, kind)
	}
	return s, nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.stores))
	for k := range r.stores {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// document is the stored form of a row: the owner id lives under the
// configured association key next to the row fields.
type document map[string]interface{}

func encodeRows(key, owner string, rows []Row) ([]byte, error) {
	docs := make([]document, len(rows))
	for i, r := range rows {
		docs[i] = document{
			key:               owner,
			"original_color":  r.OriginalColor,
			"reference_color": r.ReferenceColor,
			"frequency":       r.Frequency,
			"distance":        r.Distance,
		}
	}
	return json.MarshalIndent(docs, "", "  ")
}

func decodeRows(key string, data []byte) ([]Row, error) {
	var raw []json.RawMessage
	if e := json.Unmarshal(data, &raw); e != nil {
		return nil, fmt.Errorf("decode rows: %w", e)
	}

	rows := make([]Row, len(raw))
	for i, m := range raw {
		if e := json.Unmarshal(m, &rows[i]); e != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, e)
		}
		var owner map[string]interface{}
		if e := json.Unmarshal(m, &owner); e != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, e)
		}
		if s, ok := owner[key].(string); ok {
			rows[i].Owner = s
		}
	}
	return rows, nil
}
