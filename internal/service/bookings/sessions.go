package bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/softdevglobal/bms-pro-sub000/internal/debounce"
	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

const (
	sessionIdleTTL = 15 * time.Minute
	searchTimeout  = 10 * time.Second
)

// SearchState is what a dashboard client polls after typing into the search
// box. Submitted grows with every keystroke sent; Completed is the submission
// the current Result answers.
type SearchState struct {
	SessionID string      `json:"sessionId"`
	Submitted uint64      `json:"submitted"`
	Completed uint64      `json:"completed"`
	Pending   bool        `json:"pending"`
	Result    *ListResult `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type session struct {
	timer     *debounce.Timer
	submitted uint64
	completed uint64
	result    *ListResult
	err       error
	touched   time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	delay    time.Duration
	now      func() time.Time
	sessions map[string]*session
}

func newSessionStore(delay time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{delay: delay, now: now, sessions: make(map[string]*session)}
}

// SubmitSearch records the latest query of a search session. The pipeline
// only runs once the client has stopped submitting for the debounce delay,
// and always for the newest query. Sessions belong to one owner.
func (s *BookingService) SubmitSearch(ownerID, sessionID string, q ListQuery) uint64 {
	st := s.sessions
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()
	key := sessionKey(ownerID, sessionID)
	sess, ok := st.sessions[key]
	if !ok {
		sess = &session{timer: debounce.New(st.delay)}
		st.sessions[key] = sess
	}
	sess.submitted++
	sess.touched = st.now()
	version := sess.submitted

	// Scheduled under st.mu: a concurrent older submission must never replace
	// a newer one in the timer.
	sess.timer.Start(func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		res, err := s.List(ctx, ownerID, q)
		if err != nil {
			s.log.Warn("search session failed",
				zap.String("owner_id", ownerID),
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		if version < sess.completed {
			return
		}
		sess.completed = version
		sess.result, sess.err = res, err
	})
	return version
}

// LatestSearch reports the state of an owner's search session. Sessions of
// other owners are not found.
func (s *BookingService) LatestSearch(ownerID, sessionID string) (*SearchState, error) {
	st := s.sessions
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[sessionKey(ownerID, sessionID)]
	if !ok {
		return nil, fmt.Errorf("search session %s: %w", sessionID, domain.ErrNotFound)
	}
	sess.touched = st.now()
	state := &SearchState{
		SessionID: sessionID,
		Submitted: sess.submitted,
		Completed: sess.completed,
		Pending:   sess.completed < sess.submitted,
		Result:    sess.result,
	}
	if sess.err != nil {
		state.Error = sess.err.Error()
	}
	return state, nil
}

func sessionKey(ownerID, sessionID string) string {
	return ownerID + "/" + sessionID
}

// pruneLocked drops sessions nobody touched for a while.
func (st *sessionStore) pruneLocked() {
	cutoff := st.now().Add(-sessionIdleTTL)
	for id, sess := range st.sessions {
		if sess.touched.Before(cutoff) {
			sess.timer.Cancel()
			delete(st.sessions, id)
		}
	}
}
