package metrics

import (
	"strings"
	"sync"

	"github.com/haguru/tracker/internal/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics is a flexible Prometheus metrics collector keyed by metric name.
// Every metric is registered under the service namespace. Registering a name
// twice keeps the first metric. Updates to unregistered names are ignored.
type Metrics struct {
	Registry      *prometheus.Registry
	namespace     string
	mu            sync.RWMutex
	counters      map[string]prometheus.Counter
	counterVecs   map[string]*prometheus.CounterVec
	histograms    map[string]prometheus.Histogram
	histogramVecs map[string]*prometheus.HistogramVec
	gauges        map[string]prometheus.Gauge
	gaugeVecs     map[string]*prometheus.GaugeVec
}

// NewMetrics creates a registry holding the Go runtime and process collectors.
func NewMetrics(serviceName string) interfaces.Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		Registry:      registry,
		namespace:     Namespace(serviceName),
		counters:      make(map[string]prometheus.Counter),
		histograms:    make(map[string]prometheus.Histogram),
		gauges:        make(map[string]prometheus.Gauge),
		counterVecs:   make(map[string]*prometheus.CounterVec),
		histogramVecs: make(map[string]*prometheus.HistogramVec),
		gaugeVecs:     make(map[string]*prometheus.GaugeVec),
	}
}

// Namespace turns a service name into a valid metric namespace.
func Namespace(serviceName string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, serviceName)
}

// GetRegistry returns the Prometheus registry.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.Registry
}

// RegisterCounter registers a new counter metric.
func (m *Metrics) RegisterCounter(name, help string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counters[name]; ok {
		return
	}
	counter := prometheus.NewCounter(prometheus.CounterOpts{Namespace: m.namespace, Name: name, Help: help})
	m.Registry.MustRegister(counter)
	m.counters[name] = counter
}

// RegisterCounterVec registers a new counter metric with labels.
func (m *Metrics) RegisterCounterVec(name, help string, labels []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counterVecs[name]; ok {
		return
	}
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: m.namespace, Name: name, Help: help}, labels)
	m.Registry.MustRegister(counterVec)
	m.counterVecs[name] = counterVec
}

// RegisterHistogram registers a new histogram metric.
func (m *Metrics) RegisterHistogram(name, help string, buckets []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.histograms[name]; ok {
		return
	}
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: m.namespace, Name: name, Help: help, Buckets: buckets})
	m.Registry.MustRegister(histogram)
	m.histograms[name] = histogram
}

// RegisterHistogramVec registers a new histogram metric with labels.
func (m *Metrics) RegisterHistogramVec(name, help string, buckets []float64, labels []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.histogramVecs[name]; ok {
		return
	}
	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: m.namespace, Name: name, Help: help, Buckets: buckets}, labels)
	m.Registry.MustRegister(histogramVec)
	m.histogramVecs[name] = histogramVec
}

// RegisterGauge registers a new gauge metric.
func (m *Metrics) RegisterGauge(name, help string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gauges[name]; ok {
		return
	}
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: m.namespace, Name: name, Help: help})
	m.Registry.MustRegister(gauge)
	m.gauges[name] = gauge
}

// RegisterGaugeVec registers a new gauge metric with labels.
func (m *Metrics) RegisterGaugeVec(name, help string, labels []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gaugeVecs[name]; ok {
		return
	}
	gaugeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: m.namespace, Name: name, Help: help}, labels)
	m.Registry.MustRegister(gaugeVec)
	m.gaugeVecs[name] = gaugeVec
}

func (m *Metrics) counter(name string) (prometheus.Counter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.counters[name]
	return c, ok
}

func (m *Metrics) counterVec(name string) (*prometheus.CounterVec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.counterVecs[name]
	return c, ok
}

func (m *Metrics) histogram(name string) (prometheus.Histogram, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.histograms[name]
	return h, ok
}

func (m *Metrics) histogramVec(name string) (*prometheus.HistogramVec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.histogramVecs[name]
	return h, ok
}

func (m *Metrics) gauge(name string) (prometheus.Gauge, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.gauges[name]
	return g, ok
}

func (m *Metrics) gaugeVec(name string) (*prometheus.GaugeVec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.gaugeVecs[name]
	return g, ok
}

// IncCounter increments a counter by 1.
func (m *Metrics) IncCounter(name string) {
	if c, ok := m.counter(name); ok {
		c.Inc()
	}
}

// AddCounter adds a value to a counter.
func (m *Metrics) AddCounter(name string, value float64) {
	if c, ok := m.counter(name); ok {
		c.Add(value)
	}
}

// IncCounterVec increments a counter in a CounterVec with labels.
func (m *Metrics) IncCounterVec(name string, labels ...string) {
	if c, ok := m.counterVec(name); ok {
		c.WithLabelValues(labels...).Inc()
	}
}

// AddCounterVec adds a value to a CounterVec with labels.
func (m *Metrics) AddCounterVec(name string, value float64, labels ...string) {
	if c, ok := m.counterVec(name); ok {
		c.WithLabelValues(labels...).Add(value)
	}
}

// ObserveHistogram observes a value in a histogram.
func (m *Metrics) ObserveHistogram(name string, value float64) {
	if h, ok := m.histogram(name); ok {
		h.Observe(value)
	}
}

// ObserveHistogramVec observes a value in a histogram with labels.
func (m *Metrics) ObserveHistogramVec(name string, value float64, labels ...string) {
	if h, ok := m.histogramVec(name); ok {
		h.WithLabelValues(labels...).Observe(value)
	}
}

// AddGauge adds value to the gauge; a negative value decreases it.
func (m *Metrics) AddGauge(name string, value float64) {
	if g, ok := m.gauge(name); ok {
		g.Add(value)
	}
}

// SetGauge sets a gauge to a specific value.
func (m *Metrics) SetGauge(name string, value float64) {
	if g, ok := m.gauge(name); ok {
		g.Set(value)
	}
}

// IncGauge increments a gauge by 1.
func (m *Metrics) IncGauge(name string) {
	if g, ok := m.gauge(name); ok {
		g.Inc()
	}
}

// DecGauge decrements a gauge by 1.
func (m *Metrics) DecGauge(name string) {
	if g, ok := m.gauge(name); ok {
		g.Dec()
	}
}

// SubGauge subtracts value from the gauge.
func (m *Metrics) SubGauge(name string, value float64) {
	if g, ok := m.gauge(name); ok {
		g.Sub(value)
	}
}

// SetCurrentTimeGauge sets the gauge to the current time in seconds since epoch.
func (m *Metrics) SetCurrentTimeGauge(name string) {
	if g, ok := m.gauge(name); ok {
		g.SetToCurrentTime()
	}
}

// SetGaugeVec sets a gauge with labels to a specific value.
func (m *Metrics) SetGaugeVec(name string, value float64, labels ...string) {
	if g, ok := m.gaugeVec(name); ok {
		g.WithLabelValues(labels...).Set(value)
	}
}

// IncGaugeVec increments a gauge with labels by 1.
func (m *Metrics) IncGaugeVec(name string, labels ...string) {
	if g, ok := m.gaugeVec(name); ok {
		g.WithLabelValues(labels...).Inc()
	}
}

// DecGaugeVec decrements a gauge with labels by 1.
func (m *Metrics) DecGaugeVec(name string, labels ...string) {
	if g, ok := m.gaugeVec(name); ok {
		g.WithLabelValues(labels...).Dec()
	}
}
