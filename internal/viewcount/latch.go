//go:generate mockgen -source=latch.go -destination=../../mocks/mock_viewcount.go -package=mocks Incrementer

// viewcount — защёлка счётчика просмотров: инкремент отправляется
// не больше одного раза на каждый id публикации в пределах сессии.
package viewcount

import (
	"context"
	"log/slog"
	"sync"
	"time"

	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

// DefaultTimeout — ограничение на один вызов инкремента.
const DefaultTimeout = 3 * time.Second

// Incrementer — исходящий вызов увеличения счётчика просмотров.
type Incrementer interface {
	IncrementViews(ctx context.Context, id string) error
}

// Latch — защёлка по id. Безопасна для конкурентного использования.
type Latch struct {
	inc     Incrementer
	timeout time.Duration

	mu   sync.Mutex
	seen map[string]struct{}
	wg   sync.WaitGroup
}

// New создаёт защёлку; timeout <= 0 заменяется на DefaultTimeout.
func New(inc Incrementer, timeout time.Duration) *Latch {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Latch{
		inc:     inc,
		timeout: timeout,
		seen:    make(map[string]struct{}),
	}
}

// Hit отправляет инкремент для id, если он ещё не отправлялся.
// Вызов не блокируется: ошибка только логируется. Отмена ctx вызывающего
// не прерывает инкремент. Возвращает true, если инкремент запущен.
func (l *Latch) Hit(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	l.mu.Lock()
	if _, ok := l.seen[id]; ok {
		l.mu.Unlock()
		return false
	}
	l.seen[id] = struct{}{}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		if err := l.inc.IncrementViews(ctx, id); err != nil {
			logctx.From(ctx).Warn("view_increment_failed",
				slog.String("post_id", id),
				slog.String("err", err.Error()),
			)
		}
	}()

	return true
}

// Seen сообщает, отправлялся ли инкремент для id.
func (l *Latch) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[id]
	return ok
}

// Wait ждёт завершения всех запущенных инкрементов.
func (l *Latch) Wait() { l.wg.Wait() }
