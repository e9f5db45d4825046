// Package mutation implements optimistic writes over the query cache: apply
// locally, send, then reconcile with the server result or roll back.
package mutation

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ministry_mutation_rollbacks_total",
	Help: "Optimistic mutations rolled back after a failed request.",
}, []string{"mutation"})

// TempIDPrefix marks identities assigned locally before the server answers.
const TempIDPrefix = "tmp-"

// TempID returns a fresh provisional identity.
func TempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTemp reports whether id was produced by TempID.
func IsTemp(id string) bool {
	return len(id) > len(TempIDPrefix) && id[:len(TempIDPrefix)] == TempIDPrefix
}

// Optimistic describes one mutation. T is the type cached under every key
// in Keys, V the mutation input and R the server result.
type Optimistic[T, V, R any] struct {
	// Name labels the rollback metric and log lines.
	Name string
	Keys []cache.Key
	// Apply computes the provisional value of a cached key. Keys with no
	// cached value are left absent.
	Apply func(old T, vars V) T
	// Reconcile swaps provisional data for the server result. Optional.
	Reconcile func(cur T, vars V, res R) T
	Mutate    func(ctx context.Context, vars V) (R, error)
	// Invalidate lists extra entities refreshed after the mutation settles.
	Invalidate []string

	SuccessMessage string
	// ErrorMessage overrides the notification shown on failure.
	ErrorMessage func(err error) string
}

// Runner executes mutations against one cache.
type Runner struct {
	qc     *cache.QueryClient
	notify notify.Notifier
	log    logging.Logger
	now    func() time.Time
}

func NewRunner(qc *cache.QueryClient, n notify.Notifier, log logging.Logger) *Runner {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{qc: qc, notify: n, log: log, now: time.Now}
}

func (r *Runner) Cache() *cache.QueryClient     { return r.qc }
func (r *Runner) Notifier() notify.Notifier     { return r.notify }
func (r *Runner) Logger() logging.Logger        { return r.log }
func (r *Runner) Now() time.Time                { return r.now() }
func (r *Runner) SetClock(now func() time.Time) { r.now = now }

type snapshot struct {
	key     cache.Key
	entry   cache.Entry
	existed bool
}

// Run performs m with vars. In-flight reads of the affected keys are
// cancelled first so they cannot overwrite the provisional state. On
// failure every key is restored to exactly its prior entry. The keys are
// invalidated whatever the outcome.
func Run[T, V, R any](ctx context.Context, r *Runner, m Optimistic[T, V, R], vars V) (R, error) {
	snaps := make([]snapshot, 0, len(m.Keys))
	for _, key := range m.Keys {
		r.qc.Cancel(key)
		e, ok := r.qc.Snapshot(key)
		snaps = append(snaps, snapshot{key: key, entry: e, existed: ok})
	}

	if m.Apply != nil {
		for _, s := range snaps {
			if !s.existed {
				continue
			}
			old, ok := s.entry.Data.(T)
			if !ok {
				continue
			}
			r.qc.SetData(s.key, m.Apply(old, vars))
		}
	}

	defer settle(ctx, r, m.Keys, m.Invalidate)

	res, err := m.Mutate(ctx, vars)
	if err != nil {
		for _, s := range snaps {
			r.qc.Restore(s.key, s.entry, s.existed)
		}
		rollbacksTotal.WithLabelValues(m.Name).Inc()
		r.log.Warn(ctx, "mutation rolled back", "mutation", m.Name, "err", err)

		msg := client.Message(err)
		if m.ErrorMessage != nil {
			msg = m.ErrorMessage(err)
		}
		r.notify.Error(msg)

		var zero R
		return zero, fmt.Errorf("%s: %w", m.Name, err)
	}

	if m.Reconcile != nil {
		for _, key := range m.Keys {
			cur, ok := cache.Get[T](r.qc, key)
			if !ok {
				continue
			}
			r.qc.SetData(key, m.Reconcile(cur, vars, res))
		}
	}
	if m.SuccessMessage != "" {
		r.notify.Success(m.SuccessMessage)
	}
	return res, nil
}

func settle(ctx context.Context, r *Runner, keys []cache.Key, entities []string) {
	for _, key := range keys {
		r.qc.Invalidate(ctx, key)
	}
	for _, entity := range entities {
		r.qc.InvalidateEntity(ctx, entity)
	}
}
