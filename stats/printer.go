package stats

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
)

// DefaultPrintInterval is the periodic stats-print cadence under
// --benchmark.
const DefaultPrintInterval = 5 * time.Second

// NewRunID mints a run-correlation ID so an operator running several
// gateway instances (one per NIC port) can tell their log lines and
// exported metrics apart.
func NewRunID() string {
	return xid.New().String()
}

// RunPrinter logs a Snapshot every interval until ctx is cancelled. It
// never touches the pool or ring, only the counters — the "optional
// second thread" spec.md §5 describes.
func RunPrinter(ctx context.Context, counters *Counters, runID string, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPrintInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := counters.Snapshot()
			log.Printf("run=%s stats: received=%d processed=%d parse_errors=%d ring_full=%d",
				runID, snap.PacketsReceived, snap.PacketsProcessed, snap.ParseErrors, snap.RingBufferFull)
		}
	}
}

// ServeMetrics starts a diagnostic /metrics HTTP listener on addr,
// exposing collector via promhttp. It returns the *http.Server so the
// caller can shut it down; ServeMetrics itself only starts the listener
// goroutine and reports a synchronous bind error, if any.
func ServeMetrics(addr string, collector prometheus.Collector) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("stats: metrics listener stopped: %v", err)
		}
	}()
	return srv, nil
}
