package cmd

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/siagacs/siaga-admin/internal/metrics"
	"github.com/siagacs/siaga-admin/internal/telemetry"
)

const flushTimeout = 5 * time.Second

type runKey struct{}

// run collects what must be flushed after the command returns, whether it
// succeeded or not.
type run struct {
	mu   sync.Mutex
	apps []*App
}

func runFrom(ctx context.Context) *run {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(runKey{}).(*run)
	return r
}

func (r *run) track(app *App) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps = append(r.apps, app)
}

// observability is the per-command tracing and metrics state of an App.
type observability struct {
	command  string
	started  time.Time
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	tracing  *telemetry.Provider
	span     trace.Span
}

func (r *run) finish(err error) {
	r.mu.Lock()
	apps := r.apps
	r.mu.Unlock()

	for _, app := range apps {
		app.finish(err)
	}
}

// finish ends the command span, records the command and writes the
// metrics textfile.
func (a *App) finish(err error) {
	o := a.obs
	if o == nil {
		return
	}
	if err != nil {
		telemetry.RecordError(o.span, err)
	} else {
		telemetry.RecordSuccess(o.span)
	}
	o.span.End()

	o.metrics.ObserveCommand(o.command, err, time.Since(o.started))
	if path := a.Config.Metrics.Textfile; path != "" {
		if werr := metrics.WriteTextfile(path, o.registry); werr != nil {
			a.Logger.WithError(werr).Warn("failed to write metrics")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if serr := o.tracing.Shutdown(ctx); serr != nil {
		a.Logger.WithError(serr).Warn("failed to flush telemetry")
	}
}

// execute runs root and flushes every App the command loaded.
func execute(ctx context.Context, root interface {
	ExecuteContext(context.Context) error
}) error {
	r := &run{}
	err := root.ExecuteContext(context.WithValue(ctx, runKey{}, r))
	r.finish(err)
	return err
}
