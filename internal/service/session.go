package service

import (
	"log/slog"
	"regexp"
	"sync"

	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/history"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/repository"
	"github.com/vitaminvy/IE104-Restaurant-sub000/internal/storage"
)

// GuestSession is used when a request carries no usable session id
const GuestSession = "guest"

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NormalizeSessionID returns id when it is a usable namespace, else GuestSession
func NormalizeSessionID(id string) string {
	if !sessionPattern.MatchString(id) {
		return GuestSession
	}
	return id
}

// HistoryFactory opens the order history of one session
type HistoryFactory func(session string, kv storage.KV) history.Store

// KVHistoryFactory keeps each session's history next to its cart
func KVHistoryFactory(logger *slog.Logger) HistoryFactory {
	return func(_ string, kv storage.KV) history.Store {
		return history.NewKVHistory(kv, logger)
	}
}

// PostgresHistoryFactory keeps history in the orders table
func PostgresHistoryFactory(db history.DBTX) HistoryFactory {
	return func(session string, _ storage.KV) history.Store {
		return history.NewPostgres(db, session)
	}
}

// Session is the set of stores belonging to one browser session
type Session struct {
	ID      string
	Cart    *repository.CartStore
	Coupons *repository.CouponStore
	History history.Store
}

// Sessions opens per-session stores over one shared backend. Mutations of
// any session are serialized by a single lock, the server-side stand-in for
// the browser's one event loop.
type Sessions struct {
	mu      sync.Mutex
	kv      storage.KV
	table   repository.CouponTable
	history HistoryFactory
	logger  *slog.Logger
}

// NewSessions creates a session registry. A nil history factory keeps
// history in the key-value backend.
func NewSessions(kv storage.KV, table repository.CouponTable, histories HistoryFactory, logger *slog.Logger) *Sessions {
	if histories == nil {
		histories = KVHistoryFactory(logger)
	}
	return &Sessions{kv: kv, table: table, history: histories, logger: logger}
}

// Open returns the stores for id without taking the mutation lock
func (s *Sessions) Open(id string) *Session {
	id = NormalizeSessionID(id)
	kv := storage.Namespaced(s.kv, id)
	logger := s.logger.With(slog.String("session", id))

	return &Session{
		ID:      id,
		Cart:    repository.NewCartStore(kv, logger),
		Coupons: repository.NewCouponStore(kv, s.table, logger),
		History: s.history(id, kv),
	}
}

// Lock opens the stores for id and holds the mutation lock until release is called
func (s *Sessions) Lock(id string) (sess *Session, release func()) {
	s.mu.Lock()
	return s.Open(id), s.mu.Unlock
}
