package stats

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes Counters as a prometheus.Collector, following the
// Describe/Collect shape the runZeroInc-sockstats exporter uses: a fixed
// set of descriptors built once, a Collect pass that reads current values
// and emits one metric per descriptor.
type Collector struct {
	counters *Counters
	runID    string

	packetsReceived  *prometheus.Desc
	packetsProcessed *prometheus.Desc
	parseErrors      *prometheus.Desc
	ringBufferFull   *prometheus.Desc
}

// NewCollector builds a Collector over counters, tagging every exported
// metric with the given run ID so operators running several gateway
// instances side by side can tell their series apart.
func NewCollector(counters *Counters, runID string) *Collector {
	constLabels := prometheus.Labels{"run_id": runID}
	return &Collector{
		counters: counters,
		runID:    runID,
		packetsReceived: prometheus.NewDesc(
			"bbo_ingest_packets_received_total",
			"UDP/IPv4 packets matching the configured port filter.",
			nil, constLabels,
		),
		packetsProcessed: prometheus.NewDesc(
			"bbo_ingest_packets_processed_total",
			"Packets successfully parsed, including those dropped because the ring was full.",
			nil, constLabels,
		),
		parseErrors: prometheus.NewDesc(
			"bbo_ingest_parse_errors_total",
			"Packets that matched the port filter but failed to parse.",
			nil, constLabels,
		),
		ringBufferFull: prometheus.NewDesc(
			"bbo_ingest_ring_buffer_full_total",
			"Publishes dropped because the downstream ring had no free slot.",
			nil, constLabels,
		),
	}
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.packetsReceived
	descs <- c.packetsProcessed
	descs <- c.parseErrors
	descs <- c.ringBufferFull
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	snap := c.counters.Snapshot()
	metrics <- prometheus.MustNewConstMetric(c.packetsReceived, prometheus.CounterValue, float64(snap.PacketsReceived))
	metrics <- prometheus.MustNewConstMetric(c.packetsProcessed, prometheus.CounterValue, float64(snap.PacketsProcessed))
	metrics <- prometheus.MustNewConstMetric(c.parseErrors, prometheus.CounterValue, float64(snap.ParseErrors))
	metrics <- prometheus.MustNewConstMetric(c.ringBufferFull, prometheus.CounterValue, float64(snap.RingBufferFull))
}
