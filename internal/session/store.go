package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/checkout"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/pricing"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/reward"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/service/ticket"
)

// Session owns one client's ticket and checkout flow. The cart lives
// exactly as long as the session; nothing is persisted server-side.
type Session struct {
	ID        string
	Ticket    *ticket.Aggregate
	Flow      *checkout.Flow
	CreatedAt time.Time

	// One logical writer per session: handlers serialize every user
	// action through this mutex before touching the ticket or flow.
	Mu sync.Mutex
}

// Store hands out sessions wired to the shared engine, policy and
// gateways. It replaces what would otherwise be process-wide cart state.
type Store struct {
	engine   *pricing.Engine
	policy   *reward.Policy
	quoter   checkout.ShippingQuoter
	payments checkout.PaymentGateway
	orders   checkout.OrderSubmitter
	logger   *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore builds an empty store.
func NewStore(engine *pricing.Engine, policy *reward.Policy, quoter checkout.ShippingQuoter, payments checkout.PaymentGateway, orders checkout.OrderSubmitter, logger *log.Logger) *Store {
	return &Store{
		engine:   engine,
		policy:   policy,
		quoter:   quoter,
		payments: payments,
		orders:   orders,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create opens a fresh session with an empty ticket.
func (s *Store) Create() *Session {
	agg := ticket.New()
	sess := &Session{
		ID:        uuid.NewString(),
		Ticket:    agg,
		Flow:      checkout.NewFlow(agg, s.engine, s.quoter, s.payments, s.orders, s.logger),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session or domain.ErrNotFound.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// Delete drops the session. Unknown ids are not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// ApplyReward runs the reward policy against the session's ticket.
func (s *Store) ApplyReward(sess *Session, rw reward.Reward) (string, error) {
	return s.policy.Apply(rw, sess.Ticket.Ticket())
}
