// Package audit keeps the process-lifetime record of every canonical trade seen.
package audit

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/shahzadakram74/TradesCaptureService/internal/models"
)

var ErrNotFound = errors.New("audit entry not found")

// Store is safe for concurrent use. Entries are never evicted or overwritten.
type Store struct {
	m sync.Map // string -> models.CanonicalTrade
	n atomic.Int64
}

func NewStore() *Store { return &Store{} }

// Store assigns a fresh identifier to trade, records a copy under it and
// returns the identifier.
func (s *Store) Store(trade *models.CanonicalTrade) string {
	for {
		id := uuid.NewString()
		entry := clone(*trade)
		entry.CanonicalID = id
		if _, loaded := s.m.LoadOrStore(id, entry); loaded {
			continue
		}
		s.n.Add(1)
		trade.CanonicalID = id
		return id
	}
}

func (s *Store) Get(id string) (models.CanonicalTrade, error) {
	v, ok := s.m.Load(id)
	if !ok {
		return models.CanonicalTrade{}, ErrNotFound
	}
	return clone(v.(models.CanonicalTrade)), nil
}

func (s *Store) Len() int { return int(s.n.Load()) }

func clone(t models.CanonicalTrade) models.CanonicalTrade {
	if t.Quantity != nil {
		q := *t.Quantity
		t.Quantity = &q
	}
	return t
}
