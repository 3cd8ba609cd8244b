package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/lingua-bot/internal/service"
)

// DrillSession is a running drill of one chat. Only the learner who
// started it may answer.
type DrillSession struct {
	ID        uuid.UUID
	ChatID    int64
	LearnerID int64 // user whose statistics the runner writes
	Runner    *service.SessionRunner
	MessageID int       // message holding the current question
	TouchedAt time.Time // last learner activity
}

// SessionStorage provides in-memory storage for drill sessions by chat ID.
// Sessions are never persisted: a restart abandons them.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*DrillSession
	now      func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*DrillSession),
		now:      time.Now,
	}
}

// Start stores a new session for the chat, replacing any previous one.
func (s *SessionStorage) Start(chatID, learnerID int64, runner *service.SessionRunner) *DrillSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &DrillSession{
		ID:        uuid.New(),
		ChatID:    chatID,
		LearnerID: learnerID,
		Runner:    runner,
		TouchedAt: s.now(),
	}
	s.sessions[chatID] = session

	return session
}

// OwnedBy reports whether the session belongs to the user.
func (d *DrillSession) OwnedBy(userID int64) bool {
	return d.LearnerID == userID
}

// Get retrieves the session of the chat and marks it as active.
func (s *SessionStorage) Get(chatID int64) (*DrillSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if ok {
		session.TouchedAt = s.now()
	}
	return session, ok
}

// GetByID retrieves the session only if its ID matches, so buttons of an
// older session are rejected.
func (s *SessionStorage) GetByID(chatID int64, id uuid.UUID) (*DrillSession, bool) {
	session, ok := s.Get(chatID)
	if !ok || session.ID != id {
		return nil, false
	}
	return session, true
}

// SetMessageID remembers the message showing the current question.
func (s *SessionStorage) SetMessageID(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[chatID]; ok {
		session.MessageID = messageID
	}
}

// Delete removes the session of the chat.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Sweep removes sessions not touched since before and returns how many
// were removed.
func (s *SessionStorage) Sweep(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, session := range s.sessions {
		if session.TouchedAt.Before(before) {
			delete(s.sessions, chatID)
			removed++
		}
	}
	return removed
}

// Len returns the number of running sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
