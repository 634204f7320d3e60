package memory_storage

import (
	"sync"
	"time"

	"github.com/salman-dev-app/pro-bot-heroku/internal/pkg/uploads/domain"
)

// MemoryStorage keeps upload history in process memory. Used when no
// DATABASE_URL is configured; history is lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	nextID  int64
	records []*domain.Record
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

func (m *MemoryStorage) SaveUpload(record *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.UploadedAt.IsZero() {
		record.UploadedAt = time.Now()
	}
	record.ID = m.nextID
	m.nextID++

	stored := *record
	m.records = append(m.records, &stored)
	return nil
}

func (m *MemoryStorage) RecentUploads(chatID int64, limit int) ([]*domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Record
	for i := len(m.records) - 1; i >= 0 && len(result) < limit; i-- {
		if m.records[i].ChatID == chatID {
			copied := *m.records[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}
