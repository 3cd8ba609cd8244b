package storage

import (
	"sync"
	"time"
)

// Draft is a session configuration being filled in on the configuration
// keyboard. Empty fields are not chosen yet.
type Draft struct {
	ChatID      int64
	MessageID   int
	Direction   string
	ContentType string
	Audio       string
	GameMode    string
	UpdatedAt   time.Time
}

// DraftField names one field of a Draft.
type DraftField string

const (
	FieldDirection DraftField = "dir"
	FieldContent   DraftField = "content"
	FieldAudio     DraftField = "audio"
	FieldMode      DraftField = "mode"
)

func (d *Draft) set(field DraftField, value string) bool {
	switch field {
	case FieldDirection:
		d.Direction = value
	case FieldContent:
		d.ContentType = value
	case FieldAudio:
		d.Audio = value
	case FieldMode:
		d.GameMode = value
	default:
		return false
	}
	return true
}

type DraftStorage struct {
	mu     sync.RWMutex
	drafts map[int64]Draft
	now    func() time.Time
}

func NewDraftStorage() *DraftStorage {
	return &DraftStorage{
		drafts: make(map[int64]Draft),
		now:    time.Now,
	}
}

// Reset starts an empty draft shown in messageID.
func (s *DraftStorage) Reset(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[chatID] = Draft{
		ChatID:    chatID,
		MessageID: messageID,
		UpdatedAt: s.now(),
	}
}

func (s *DraftStorage) Get(chatID int64) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[chatID]
	return d, ok
}

// Set updates one field of the chat's draft, creating the draft if needed,
// and returns the updated draft.
func (s *DraftStorage) Set(chatID int64, field DraftField, value string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[chatID]
	if !ok {
		d = Draft{ChatID: chatID}
	}
	if !d.set(field, value) {
		return d, false
	}
	d.UpdatedAt = s.now()
	s.drafts[chatID] = d

	return d, true
}

func (s *DraftStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, chatID)
}

// Sweep removes drafts not updated since before.
func (s *DraftStorage) Sweep(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, d := range s.drafts {
		if d.UpdatedAt.Before(before) {
			delete(s.drafts, chatID)
			removed++
		}
	}
	return removed
}
