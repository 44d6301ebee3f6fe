package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edugame/quizroom/internal/metrics"
	"github.com/edugame/quizroom/internal/model"
	"github.com/edugame/quizroom/internal/storage"
)

// Config holds tuning for the sync loop
type Config struct {
	// Interval is the fixed polling interval
	Interval time.Duration
	// MaxConsecutiveFailures is how many back-to-back fetch failures are
	// tolerated before the loop terminates with an error
	MaxConsecutiveFailures int
}

// DefaultConfig returns the default sync loop tuning
func DefaultConfig() Config {
	return Config{
		Interval:               time.Second,
		MaxConsecutiveFailures: 5,
	}
}

// Snapshot is a point-in-time copy of session state delivered to observers
type Snapshot struct {
	Code    model.SessionCode
	GameRef model.GameRef
	Status  model.SessionStatus
	Roster  []model.Player
}

// Event is one emission from a watch loop. Exactly one of Snapshot or Err
// is set. An event with Status ended, or any event with Err set, is
// terminal; the channel is closed after it.
type Event struct {
	Snapshot *Snapshot
	Err      error
}

// ErrConnectionLost is reported when the store stayed unreachable for the
// configured number of consecutive polls
var ErrConnectionLost = errors.New("lost connection to session store")

// Watcher reconciles a local view of session state against the store at a
// bounded interval, emitting a snapshot only when it differs from the last
// one delivered
type Watcher struct {
	store  storage.Store
	cfg    Config
	logger *slog.Logger
}

// New creates a new Watcher
func New(store storage.Store, cfg Config, logger *slog.Logger) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = DefaultConfig().MaxConsecutiveFailures
	}
	return &Watcher{
		store:  store,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "watcher")),
	}
}

// Watch polls the session until the context is cancelled, the session is
// observed ended (terminal emission, then stop), or fetch failures exceed
// the configured threshold. The first poll happens immediately. The
// returned channel is closed when the loop exits.
func (w *Watcher) Watch(ctx context.Context, sessionCode model.SessionCode) <-chan Event {
	events := make(chan Event, 16)

	go func() {
		defer close(events)

		metrics.WatchersActive.Inc()
		defer metrics.WatchersActive.Dec()

		logger := w.logger.With(slog.String("code", string(sessionCode)))
		logger.Debug("watch started")

		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()

		var last *Snapshot
		failures := 0

		for {
			terminal, emitted := w.poll(ctx, sessionCode, &last, &failures, events, logger)
			if terminal {
				logger.Debug("watch stopped", slog.Bool("emitted_terminal", emitted))
				return
			}

			select {
			case <-ctx.Done():
				logger.Debug("watch cancelled")
				return
			case <-ticker.C:
			}
		}
	}()

	return events
}

// poll performs one fetch-compare-emit cycle. It reports whether the loop
// should terminate and whether a terminal event was emitted.
func (w *Watcher) poll(
	ctx context.Context,
	sessionCode model.SessionCode,
	last **Snapshot,
	failures *int,
	events chan<- Event,
	logger *slog.Logger,
) (terminal bool, emitted bool) {
	session, err := w.store.GetSession(ctx, sessionCode)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return true, false
		}
		if errors.Is(err, model.ErrSessionNotFound) {
			// The session was released or expired; there is nothing left
			// to converge on
			w.emit(ctx, events, Event{Err: model.ErrSessionNotFound})
			return true, true
		}

		*failures++
		logger.Warn("session fetch failed",
			slog.Int("consecutive_failures", *failures),
			slog.Any("error", err))
		if *failures >= w.cfg.MaxConsecutiveFailures {
			metrics.WatcherFailures.Inc()
			w.emit(ctx, events, Event{Err: fmt.Errorf("%w: %w", ErrConnectionLost, err)})
			return true, true
		}
		// Transient; retry on the next tick
		return false, false
	}

	*failures = 0

	snapshot := snapshotOf(session)
	if changed(*last, snapshot) {
		w.emit(ctx, events, Event{Snapshot: snapshot})
		*last = snapshot
	}

	if snapshot.Status == model.StatusEnded {
		return true, true
	}
	return false, false
}

func (w *Watcher) emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// snapshotOf copies the parts of a session that observers see
func snapshotOf(session *model.Session) *Snapshot {
	roster := make([]model.Player, len(session.Roster))
	copy(roster, session.Roster)
	return &Snapshot{
		Code:    session.Code,
		GameRef: session.GameRef,
		Status:  session.Status,
		Roster:  roster,
	}
}

// changed reports whether two snapshots differ by status or roster
// membership. Suppressing equal snapshots avoids redundant observer churn.
func changed(prev, next *Snapshot) bool {
	if prev == nil {
		return true
	}
	if prev.Status != next.Status {
		return true
	}
	if len(prev.Roster) != len(next.Roster) {
		return true
	}
	for i := range prev.Roster {
		if prev.Roster[i].ID != next.Roster[i].ID {
			return true
		}
	}
	return false
}
