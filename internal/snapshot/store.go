package snapshot

import (
	"sync"

	"github.com/pribylovaa/news-portal/internal/segment"
)

// Store — хранилище снапшота одной сессии ридера.
//
// Хранилище пассивно: оно никогда не инициирует загрузок. Удаление ключа
// атомарно снимает и значение, и флаг ошибки. Безопасно для конкурентного
// использования.
type Store struct {
	mu      sync.RWMutex
	data    map[segment.Key]segment.Data
	failed  map[segment.Key]bool
	version uint64
}

// New создаёт хранилище из снапшота; nil — пустое хранилище.
func New(s *Snapshot) *Store {
	st := &Store{
		data:   make(map[segment.Key]segment.Data),
		failed: make(map[segment.Key]bool),
	}

	for _, k := range segment.All {
		if d := s.Data(k); !d.Empty() {
			st.data[k] = d
		}
		if s.Failed(k) {
			st.failed[k] = true
		}
	}

	return st
}

// Has сообщает, есть ли в снапшоте значение сегмента.
func (s *Store) Has(key segment.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok
}

// Get возвращает значение сегмента.
func (s *Store) Get(key segment.Key) (segment.Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[key]
	return d, ok
}

// HasError сообщает, упал ли сегмент при серверной сборке.
func (s *Store) HasError(key segment.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.failed[key]
}

// Drop удаляет значения и флаги ошибок указанных сегментов.
func (s *Store) Drop(keys ...segment.Key) {
	if len(keys) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, k := range keys {
		_, hasData := s.data[k]
		if hasData || s.failed[k] {
			changed = true
		}
		delete(s.data, k)
		delete(s.failed, k)
	}

	if changed {
		s.version++
	}
}

// DropAll очищает хранилище.
func (s *Store) DropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 && len(s.failed) == 0 {
		return
	}

	s.data = make(map[segment.Key]segment.Data)
	s.failed = make(map[segment.Key]bool)
	s.version++
}

// Version — монотонный счётчик изменений хранилища.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// Export возвращает текущее содержимое в форме снапшота.
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out Snapshot
	for _, k := range segment.All {
		if d, ok := s.data[k]; ok {
			out.Set(k, d)
		}
		if s.failed[k] {
			out.SetError(k)
		}
	}

	return out
}
