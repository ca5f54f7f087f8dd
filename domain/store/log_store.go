package store

import (
	"time"

	"github.com/pyama86/incident-dashboard/domain/entity"
)

const DefaultLogCapacity = 100

type LogStore struct {
	ring *RingBuffer[entity.LogRecord]
}

func NewLogStore(capacity int) *LogStore {
	return &LogStore{ring: NewRingBuffer[entity.LogRecord](capacity)}
}

func (s *LogStore) Add(level entity.LogLevel, message string, at time.Time) {
	s.ring.Push(entity.LogRecord{Level: level, Message: message, Timestamp: at})
}

// Records returns the records, most recent first.
func (s *LogStore) Records() []entity.LogRecord {
	return s.ring.Items()
}

func (s *LogStore) Len() int { return s.ring.Len() }

func (s *LogStore) Clear() {
	s.ring.Clear()
}
