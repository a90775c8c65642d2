package session

import (
	"context"
	"sync"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// Watcher runs enrichment whenever the raw session changes, including the
// first session it sees.
type Watcher struct {
	enricher *Enricher

	mu       sync.Mutex
	seen     bool
	raw      domain.Session
	enriched domain.Session
}

// NewWatcher creates a Watcher using enricher.
func NewWatcher(enricher *Enricher) *Watcher {
	return &Watcher{enricher: enricher}
}

// Update feeds the latest raw session. It returns the enriched session and
// whether it differs from the one returned previously. An unchanged raw
// session that was already enriched is served without a fetch.
func (w *Watcher) Update(ctx context.Context, raw domain.Session) (domain.Session, bool, error) {
	w.mu.Lock()
	if w.seen && w.raw.Equal(raw) && (w.enriched.Enriched() || !raw.Authenticated()) {
		current := w.enriched
		w.mu.Unlock()
		return current, false, nil
	}
	w.mu.Unlock()

	next, err := w.enricher.Enrich(ctx, raw)

	w.mu.Lock()
	defer w.mu.Unlock()
	changed := !w.seen || !w.enriched.Equal(next)
	if raw.AccessToken != w.raw.AccessToken && w.raw.AccessToken != "" {
		w.enricher.Forget(w.raw.AccessToken)
	}
	w.seen = true
	w.raw = raw
	w.enriched = next
	return next, changed, err
}

// Current returns the last enriched session.
func (w *Watcher) Current() domain.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enriched
}
