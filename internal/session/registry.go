package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/news-portal/internal/clients/interceptors"
	"github.com/pribylovaa/news-portal/internal/navigation"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/prerender"
	"github.com/pribylovaa/news-portal/internal/route"
	"github.com/pribylovaa/news-portal/internal/snapshot"
	"github.com/pribylovaa/news-portal/internal/synchronizer"
	"github.com/pribylovaa/news-portal/internal/viewcount"
	logctx "github.com/pribylovaa/news-portal/pkg/log"
)

var (
	// ErrSessionNotFound — сессии нет (не создавалась, закрыта или вытеснена).
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions — достигнут лимит одновременных сессий.
	ErrTooManySessions = errors.New("too many sessions")
)

// Config — параметры реестра сессий.
type Config struct {
	TTL             time.Duration
	Max             int
	JanitorInterval time.Duration
	SettleTimeout   time.Duration
	ViewTimeout     time.Duration
}

// Gauge — число активных сессий (метрика).
type Gauge interface {
	Set(float64)
}

// Backend — всё, что реестру нужно от бэкенда контента.
type Backend interface {
	synchronizer.Fetcher
	viewcount.Incrementer
}

// Registry — реестр сессий ридера.
type Registry struct {
	backend  Backend
	builder  *prerender.Builder
	sizes    plan.Sizes
	cfg      Config
	observer synchronizer.Observer
	gauge    Gauge
	log      *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry создаёт реестр. observer и gauge могут быть nil.
func NewRegistry(backend Backend, sizes plan.Sizes, cfg Config, observer synchronizer.Observer, gauge Gauge, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		backend:  backend,
		builder:  prerender.New(backend, sizes, observer),
		sizes:    sizes,
		cfg:      cfg,
		observer: observer,
		gauge:    gauge,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Prerender собирает снапшот для URL без создания сессии.
func (r *Registry) Prerender(ctx context.Context, raw string) (snapshot.Snapshot, error) {
	const op = "session.Registry.Prerender"

	rt, err := route.Parse(raw)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	snap, err := r.builder.Build(ctx, rt)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	return snap, nil
}

// Create открывает сессию на URL raw. Если снапшот не передан,
// он собирается на сервере.
func (r *Registry) Create(ctx context.Context, raw string, snap *snapshot.Snapshot) (*Session, error) {
	const op = "session.Registry.Create"

	if r.cfg.Max > 0 && r.Len() >= r.cfg.Max {
		return nil, fmt.Errorf("%s: %w", op, ErrTooManySessions)
	}

	if snap == nil {
		built, err := r.Prerender(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		snap = &built
	}

	id := uuid.NewString()
	lg := r.log.With(slog.String("session_id", id))

	syncer := synchronizer.New(r.backend, snapshot.New(snap), r.sizes,
		synchronizer.WithLogger(lg),
		synchronizer.WithObserver(r.observer),
		synchronizer.WithBaseContext(interceptors.WithSessionID(context.Background(), id)),
	)
	s := &Session{
		ID:     id,
		syncer: syncer,
		binder: navigation.New(syncer, viewcount.New(r.backend, r.cfg.ViewTimeout)),
		log:    lg,
		settle: r.cfg.SettleTimeout,
	}
	s.touch(r.now())

	if _, err := s.binder.Start(s.ctx(ctx), raw); err != nil {
		syncer.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	if r.cfg.Max > 0 && len(r.sessions) >= r.cfg.Max {
		r.mu.Unlock()
		syncer.Close()
		return nil, fmt.Errorf("%s: %w", op, ErrTooManySessions)
	}
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.setGauge(n)
	lg.Info("session_created", slog.String("url", s.binder.Route().String()))

	return s, nil
}

// Get возвращает сессию и продлевает её жизнь.
func (r *Registry) Get(id string) (*Session, error) {
	const op = "session.Registry.Get"

	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	s.touch(r.now())

	return s, nil
}

// Close закрывает сессию.
func (r *Registry) Close(id string) error {
	const op = "session.Registry.Close"

	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	s.Close()
	r.setGauge(n)
	s.log.Info("session_closed")

	return nil
}

// Len возвращает число активных сессий.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Sweep вытесняет сессии, простаивающие дольше TTL. Возвращает их число.
func (r *Registry) Sweep() int {
	if r.cfg.TTL <= 0 {
		return 0
	}

	deadline := r.now().Add(-r.cfg.TTL)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(deadline) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
		s.log.Info("session_expired")
	}

	if len(expired) > 0 {
		r.setGauge(n)
	}

	return len(expired)
}

// Run периодически вытесняет простаивающие сессии до отмены ctx,
// после чего закрывает все оставшиеся.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.cfg.JanitorInterval
	if interval <= 0 {
		interval = time.Minute
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	lg := logctx.From(ctx)

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				lg.Debug("sessions_swept", slog.Int("expired", n), slog.Int("active", r.Len()))
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}

	r.setGauge(0)
}

func (r *Registry) setGauge(n int) {
	if r.gauge != nil {
		r.gauge.Set(float64(n))
	}
}
