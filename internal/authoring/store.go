package authoring

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DraftStore хранит черновики конструктора в памяти процесса.
// Жизненный цикл create-or-discard: черновик исчезает после отправки,
// явного отказа или истечения TTL. Никуда не персистится.
type DraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[uuid.UUID]*draftEntry
}

type draftEntry struct {
	draft     *Draft
	touchedAt time.Time
}

// NewDraftStore создает хранилище черновиков с заданным TTL
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		ttl:    ttl,
		drafts: make(map[uuid.UUID]*draftEntry),
	}
}

// Create заводит новый черновик и возвращает его идентификатор сессии
func (s *DraftStore) Create() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.drafts[id] = &draftEntry{draft: NewDraft(), touchedAt: time.Now()}
	return id
}

// With выполняет fn над черновиком под локом хранилища.
// Возвращает false, если черновик не найден (истек или отброшен).
func (s *DraftStore) With(id uuid.UUID, fn func(*Draft)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[id]
	if !ok {
		return false
	}
	entry.touchedAt = time.Now()
	fn(entry.draft)
	return true
}

// Discard удаляет черновик (после успешной отправки или отказа)
func (s *DraftStore) Discard(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// Len возвращает количество активных черновиков
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Sweep удаляет черновики, не менявшиеся дольше TTL.
// Возвращает количество удаленных.
func (s *DraftStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.drafts {
		if now.Sub(entry.touchedAt) > s.ttl {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}

// RunCleanup периодически вычищает истекшие черновики до отмены контекста
func (s *DraftStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(time.Now()); removed > 0 {
				log.Printf("[DraftStore] Удалено истекших черновиков: %d", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
