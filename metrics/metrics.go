// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// FetchRecorder counts apps fetches by outcome.
type FetchRecorder struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewFetchRecorder(reg prometheus.Registerer) *FetchRecorder {
	r := &FetchRecorder{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appsfeed_fetch_total",
			Help: "Number of apps list fetches by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "appsfeed_fetch_duration_seconds",
			Help:    "Duration of apps list fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(r.total, r.duration)
	}
	return r
}

func (r *FetchRecorder) Observe(outcome string, d time.Duration) {
	r.total.WithLabelValues(outcome).Inc()
	r.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

type systemCollector struct {
	diskSpace    *prometheus.Desc
	memoryMetric *prometheus.Desc
	cpuUsage     *prometheus.Desc
}

func (collector *systemCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.diskSpace
	ch <- collector.memoryMetric
	ch <- collector.cpuUsage
}

func (collector *systemCollector) Collect(ch chan<- prometheus.Metric) {
	if usage, err := disk.Usage("/"); err == nil {
		ch <- prometheus.MustNewConstMetric(collector.diskSpace, prometheus.GaugeValue, float64(usage.Total), "/", "total")
		ch <- prometheus.MustNewConstMetric(collector.diskSpace, prometheus.GaugeValue, float64(usage.Used), "/", "used")
	}

	if vmstat, err := mem.VirtualMemory(); err == nil {
		ch <- prometheus.MustNewConstMetric(collector.memoryMetric, prometheus.GaugeValue, float64(vmstat.Total), "total")
		ch <- prometheus.MustNewConstMetric(collector.memoryMetric, prometheus.GaugeValue, float64(vmstat.Available), "available")
	}

	if cpuPercentage, err := cpu.Percent(0, false); err == nil && len(cpuPercentage) > 0 {
		ch <- prometheus.MustNewConstMetric(collector.cpuUsage, prometheus.GaugeValue, cpuPercentage[0])
	}
}

func newSystemCollector() *systemCollector {
	return &systemCollector{
		diskSpace: prometheus.NewDesc(
			"system_disk_space_bytes",
			"Available disk space in bytes",
			[]string{"path", "type"},
			nil,
		),
		memoryMetric: prometheus.NewDesc(
			"system_memory_bytes",
			"System memory usage in bytes",
			[]string{"type"},
			nil,
		),
		cpuUsage: prometheus.NewDesc(
			"system_cpu_usage_percent",
			"Current CPU usage percentage",
			nil,
			nil,
		),
	}
}

// Init registers the system collector used by the apps origin server.
func Init(reg prometheus.Registerer) {
	reg.MustRegister(newSystemCollector())
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
