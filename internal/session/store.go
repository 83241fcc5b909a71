package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store keeps one credential cell per UI session in process memory.
// Entries expire after ttl of inactivity; nothing is persisted.
type Store struct {
	cells *cache.Cache
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		cells: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// NewID returns a fresh session identifier.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// SetCredential stores credential for the session. A blank value leaves the
// cell as it was.
func (s *Store) SetCredential(id, credential string) {
	if id == "" || strings.TrimSpace(credential) == "" {
		return
	}
	s.cells.Set(id, credential, s.ttl)
}

// Credential returns the session's credential, or "" when none was set.
// Reading it extends the session.
func (s *Store) Credential(id string) string {
	v, ok := s.cells.Get(id)
	if !ok {
		return ""
	}
	credential := v.(string)
	s.cells.Set(id, credential, s.ttl)
	return credential
}

// TTL is how long an idle session keeps its credential.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Len reports the number of live sessions holding a credential.
func (s *Store) Len() int {
	return s.cells.ItemCount()
}
