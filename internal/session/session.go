package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ab-tracker/internal/storage"
)

const storageKey = "session_id"

// Manager generates a pseudo-random session id once per session scope and
// caches it in the session store. The id only correlates events emitted
// within one session; it is not a credential.
type Manager struct {
	store  storage.Store
	logger *zap.Logger

	mu     sync.Mutex
	cached string
}

func NewManager(store storage.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// ID returns the session id, generating and persisting one on first use.
// Persistence is best-effort: a failing store still yields a usable id
// for the lifetime of this Manager.
func (m *Manager) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cached != "" {
		return m.cached
	}
	if m.store != nil {
		v, ok, err := m.store.Get(storageKey)
		if err != nil {
			m.logger.Warn("session store read failed", zap.Error(err))
		} else if ok && v != "" {
			m.cached = v
			return m.cached
		}
	}
	m.cached = uuid.NewString()
	if m.store != nil {
		if err := m.store.Set(storageKey, m.cached); err != nil {
			m.logger.Warn("session store write failed", zap.Error(err))
		}
	}
	return m.cached
}
