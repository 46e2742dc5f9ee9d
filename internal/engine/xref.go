package engine

import (
	"sync"

	"github.com/google/uuid"
)

// entityKind partitions the cross-reference namespace.
type entityKind string

const (
	kindGuest       entityKind = "guest"
	kindProperty    entityKind = "property"
	kindReservation entityKind = "reservation"
)

type xrefKey struct {
	kind       entityKind
	externalID string
}

// xref is the run-scoped map from channel external IDs to resolved local
// IDs. Phases populate it as they upsert; the reservation phase reads it to
// resolve foreign keys. Guarded because phase workers run concurrently.
type xref struct {
	mu  sync.RWMutex
	ids map[xrefKey]uuid.UUID
}

func newXref() *xref {
	return &xref{ids: make(map[xrefKey]uuid.UUID)}
}

func (x *xref) set(kind entityKind, externalID string, id uuid.UUID) {
	if externalID == "" || id == uuid.Nil {
		return
	}
	x.mu.Lock()
	x.ids[xrefKey{kind, externalID}] = id
	x.mu.Unlock()
}

func (x *xref) lookup(kind entityKind, externalID string) (uuid.UUID, bool) {
	if externalID == "" {
		return uuid.Nil, false
	}
	x.mu.RLock()
	id, ok := x.ids[xrefKey{kind, externalID}]
	x.mu.RUnlock()
	return id, ok
}
