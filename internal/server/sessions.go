package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ironsheep/region-tools-mcp/internal/ds9"
)

// exportSession keeps an exporter open between tool calls.
type exportSession struct {
	id       string
	exporter *ds9.Exporter
	cs       ds9.WorldConverter
	compact  bool
	created  time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*exportSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*exportSession)}
}

// open registers a session under a new random id.
func (st *sessionStore) open(e *ds9.Exporter, cs ds9.WorldConverter, compact bool) *exportSession {
	sess := &exportSession{
		id:       uuid.NewString(),
		exporter: e,
		cs:       cs,
		compact:  compact,
		created:  time.Now(),
	}
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

func (st *sessionStore) get(id string) (*exportSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown export session: %s", id)
	}
	return sess, nil
}

func (st *sessionStore) close(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *sessionStore) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
