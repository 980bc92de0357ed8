// Package metrics exposes the result of one run as Prometheus gauges,
// written to a node_exporter textfile-collector file.
package metrics

import (
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	cerr "github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Run is the per-run snapshot the recorder publishes.
type Run struct {
	WiredActive        bool
	Associated         bool
	ReconnectAttempted bool
	Success            bool
	Finished           time.Time
}

// Recorder bundles the run gauges on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	WiredActive        prometheus.Gauge
	WirelessAssociated prometheus.Gauge
	ReconnectAttempted prometheus.Gauge
	LastRunTimestamp   prometheus.Gauge
	LastRunSuccess     prometheus.Gauge
}

// NewRecorder registers the run gauges on a fresh registry.
func NewRecorder() (*Recorder, error) {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		WiredActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netguard_wired_active",
			Help: "1 if a wired link was active during the last run.",
		}),
		WirelessAssociated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netguard_wireless_associated",
			Help: "1 if the wireless station was associated at the end of the last run.",
		}),
		ReconnectAttempted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netguard_reconnect_attempted",
			Help: "1 if the last run issued a reconnect.",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netguard_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "netguard_last_run_success",
			Help: "1 if the last run exited with status 0.",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.WiredActive, r.WirelessAssociated, r.ReconnectAttempted, r.LastRunTimestamp, r.LastRunSuccess,
	} {
		if err := reg.Register(c); err != nil {
			return nil, ng_err.NewInternalError("register metric", err)
		}
	}
	return r, nil
}

// Record sets every gauge from run.
func (r *Recorder) Record(run Run) {
	r.WiredActive.Set(boolGauge(run.WiredActive))
	r.WirelessAssociated.Set(boolGauge(run.Associated))
	r.ReconnectAttempted.Set(boolGauge(run.ReconnectAttempted))
	r.LastRunSuccess.Set(boolGauge(run.Success))

	finished := run.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	r.LastRunTimestamp.Set(float64(finished.UnixNano()) / 1e9)
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return cerr.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}

// Gatherer returns the registry for tests and in-process scraping.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
