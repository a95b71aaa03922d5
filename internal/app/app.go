package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xenking/catalog-client/internal/domain/catalog"
	"github.com/xenking/catalog-client/internal/store"
	"github.com/xenking/catalog-client/internal/transport"
	"github.com/xenking/catalog-client/internal/workflow"
	"github.com/xenking/catalog-client/pkg/transient"
)

// Run creates all dependencies and drives one interactive catalog session.
// It is the single wiring point for the client.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	lg.Info("Starting catalog session", zap.String("url", cfg.APIURL))

	registry := prometheus.NewRegistry()
	metrics := transport.NewMetrics(registry)

	client, err := transport.NewClient(transport.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
	}, metrics, m.TracerProvider())
	if err != nil {
		return errors.Wrap(err, "create transport")
	}

	st := store.New(client, lg.Named("store"))
	editor := catalog.NewEditor()
	status := transient.NewSlot(cfg.StatusTTL)
	defer status.Stop()

	wf := workflow.New(client, st, editor, status, lg.Named("workflow"))

	// Populate the store up front, like the page load fetch. A failure is
	// not fatal: the session starts empty and the user can refresh.
	if err := wf.Refresh(ctx); err != nil {
		lg.Warn("Initial catalog refresh failed", zap.Error(err))
	}

	console := newConsole(wf, st, os.Stdin, os.Stdout, lg.Named("console"))
	runErr := console.run(ctx)

	logSessionMetrics(lg, registry)
	return runErr
}

// logSessionMetrics dumps the request counters at session end so a plain
// CLI run still leaves a usage trace without a metrics endpoint.
func logSessionMetrics(lg *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		lg.Warn("Gather session metrics", zap.Error(err))
		return
	}
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			fields := []zap.Field{zap.String("metric", fam.GetName())}
			for _, label := range metric.GetLabel() {
				fields = append(fields, zap.String(label.GetName(), label.GetValue()))
			}
			if c := metric.GetCounter(); c != nil {
				fields = append(fields, zap.Float64("value", c.GetValue()))
			}
			lg.Info("Session metric", fields...)
		}
	}
}
