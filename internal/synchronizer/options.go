package synchronizer

import (
	"context"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-portal/internal/segment"
)

// Observer получает итог каждой загрузки сегмента (для метрик).
// Вызывается вне мьютекса синхронизатора.
type Observer interface {
	ObserveFetch(key segment.Key, outcome string, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(segment.Key, string, time.Duration) {}

// OutcomeOK — итог успешной загрузки.
const OutcomeOK = "ok"

// Outcome — метка итога загрузки для метрик.
func Outcome(kind segment.ErrorKind) string {
	if kind == segment.KindNone {
		return OutcomeOK
	}

	return string(kind)
}

// Option настраивает Synchronizer.
type Option func(*Synchronizer)

// WithLogger задаёт логгер; он же попадает в контекст загрузок.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver задаёт наблюдателя загрузок.
func WithObserver(o Observer) Option {
	return func(s *Synchronizer) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithPostIDValidator заменяет проверку формата id публикации.
func WithPostIDValidator(fn func(string) bool) Option {
	return func(s *Synchronizer) {
		if fn != nil {
			s.validID = fn
		}
	}
}

// WithBaseContext задаёт родительский контекст загрузок (значения для
// метаданных исходящих вызовов). Его отмена отменяет все загрузки.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Synchronizer) {
		if ctx != nil {
			s.parent = ctx
		}
	}
}
