package grievance

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
}

var (
	successNotification = Notification{
		Kind:        NotificationSuccess,
		Title:       "Grievance filed successfully!",
		Description: "We will look at this soon",
	}
	failureNotification = Notification{
		Kind:        NotificationFailure,
		Title:       "Failed to submit grievance",
		Description: "Please try again later",
	}
)

// Session is the state one user sees: the draft, the number of confirmed
// submissions and the most recent notification. Safe for concurrent use;
// the lock is never held while a submission is in flight.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	draft    Draft
	count    int
	notice   *Notification
	lastSeen time.Time
}

func NewSession(id uuid.UUID, now time.Time) *Session {
	return &Session{ID: id, draft: NewDraft(now), lastSeen: now}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the whole draft with the user's input.
func (s *Session) SetDraft(d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// TakeNotification returns the pending notification and clears it.
func (s *Session) TakeNotification() *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = nil
	return n
}

func (s *Session) succeed(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.draft = NewDraft(now)
	n := successNotification
	s.notice = &n
	return s.count
}

func (s *Session) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := failureNotification
	s.notice = &n
}

// Sessions is an in-memory registry of sessions keyed by id. Only sessions
// that need to outlive a request are registered; idle ones are dropped by
// Sweep.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		sessions: make(map[uuid.UUID]*Session),
		now:      now,
	}
}

// Get returns a registered session and marks it as seen.
func (s *Sessions) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// Create registers a fresh session.
func (s *Sessions) Create() *Session {
	sess := s.Detached()
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Detached returns a fresh session that is not registered and is forgotten
// once the caller drops it.
func (s *Sessions) Detached() *Session {
	return NewSession(uuid.New(), s.now())
}

// Sweep removes sessions not seen for longer than idle and returns how many
// were removed.
func (s *Sessions) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
