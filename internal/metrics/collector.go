package metrics

import (
	"github.com/chabad360/obs-osc/obs"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records bridge activity as Prometheus metrics.
type Collector struct {
	received   prometheus.Counter
	bytes      prometheus.Counter
	dropped    *prometheus.CounterVec
	applied    *prometheus.CounterVec
	preview    prometheus.Gauge
	transition prometheus.Gauge
}

var _ obs.Observer = (*Collector)(nil)

// NewCollector creates the bridge metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "obs_osc_datagrams_received_total",
			Help: "Total number of OSC datagrams received",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "obs_osc_received_bytes_total",
			Help: "Total number of bytes received in OSC datagrams",
		}),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "obs_osc_datagrams_dropped_total",
				Help: "Total number of datagrams dropped, by reason",
			},
			[]string{"reason"},
		),
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "obs_osc_actions_applied_total",
				Help: "Total number of actions applied to the host, by route kind",
			},
			[]string{"kind"},
		),
		preview: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "obs_osc_preview_index",
			Help: "Current 0-based preview scene index",
		}),
		transition: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "obs_osc_transition_index",
			Help: "Current 0-based transition index",
		}),
	}
	reg.MustRegister(c.received, c.bytes, c.dropped, c.applied, c.preview, c.transition)
	return c
}

func (c *Collector) Received(size int) {
	c.received.Inc()
	c.bytes.Add(float64(size))
}

func (c *Collector) Dropped(reason string) {
	c.dropped.WithLabelValues(reason).Inc()
}

func (c *Collector) Applied(kind obs.Kind) {
	c.applied.WithLabelValues(kind.String()).Inc()
}

func (c *Collector) StateChanged(s obs.State) {
	c.preview.Set(float64(s.Preview))
	c.transition.Set(float64(s.Transition))
}
