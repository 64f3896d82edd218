package metrics

import (
	"errors"

	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector exports connection pool statistics at scrape time.
type PoolCollector struct {
	stats func() *database.PoolStats

	total       *prometheus.Desc
	acquired    *prometheus.Desc
	idle        *prometheus.Desc
	max         *prometheus.Desc
	acquires    *prometheus.Desc
	emptyWaits  *prometheus.Desc
	cancelWaits *prometheus.Desc
}

// NewPoolCollector creates a collector reading from stats. A nil result from
// stats (pool closed) exports nothing.
func NewPoolCollector(stats func() *database.PoolStats) *PoolCollector {
	return &PoolCollector{
		stats:       stats,
		total:       prometheus.NewDesc("retail_mcp_pool_connections", "Open connections in the pool", nil, nil),
		acquired:    prometheus.NewDesc("retail_mcp_pool_acquired_connections", "Connections currently leased", nil, nil),
		idle:        prometheus.NewDesc("retail_mcp_pool_idle_connections", "Idle connections in the pool", nil, nil),
		max:         prometheus.NewDesc("retail_mcp_pool_max_connections", "Configured pool ceiling", nil, nil),
		acquires:    prometheus.NewDesc("retail_mcp_pool_acquires_total", "Successful connection acquisitions", nil, nil),
		emptyWaits:  prometheus.NewDesc("retail_mcp_pool_empty_acquires_total", "Acquisitions that had to wait for a connection", nil, nil),
		cancelWaits: prometheus.NewDesc("retail_mcp_pool_canceled_acquires_total", "Acquisitions abandoned before a connection freed up", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.acquired
	ch <- c.idle
	ch <- c.max
	ch <- c.acquires
	ch <- c.emptyWaits
	ch <- c.cancelWaits
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	if s == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(c.emptyWaits, prometheus.CounterValue, float64(s.EmptyAcquireCount))
	ch <- prometheus.MustNewConstMetric(c.cancelWaits, prometheus.CounterValue, float64(s.CanceledAcquires))
}

// RegisterPool adds a PoolCollector to the default registry. Registering a
// second time is a no-op.
func RegisterPool(stats func() *database.PoolStats) error {
	err := prometheus.Register(NewPoolCollector(stats))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
