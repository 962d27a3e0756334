package obs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// DurationBuckets are the histogram buckets used for millisecond timings.
var DurationBuckets = prometheus.ExponentialBuckets(1, 2, 12)

// PromMeter bridges Meter to Prometheus. A metric is registered on first
// use with the label keys of that call; later calls must use the same keys
// and are dropped otherwise.
type PromMeter struct {
	reg *prometheus.Registry

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
	hists    map[string]*prometheus.HistogramVec
}

// NewPromMeter returns a PromMeter registering into reg, or into a fresh
// registry when reg is nil.
func NewPromMeter(reg *prometheus.Registry) *PromMeter {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &PromMeter{
		reg:      reg,
		counters: make(map[string]*prometheus.CounterVec),
		hists:    make(map[string]*prometheus.HistogramVec),
	}
}

func (m *PromMeter) Registry() *prometheus.Registry { return m.reg }

func (m *PromMeter) Counter(name string, value float64, labels ...Label) {
	if value < 0 {
		return
	}
	c, err := m.CounterFor(name, labels...)
	if err != nil {
		return
	}
	c.Add(value)
}

func (m *PromMeter) Histogram(name string, value float64, labels ...Label) {
	m.mu.Lock()
	vec, ok := m.hists[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    name,
			Buckets: DurationBuckets,
		}, labelNames(labels))
		if err := m.reg.Register(vec); err != nil {
			m.mu.Unlock()
			return
		}
		m.hists[name] = vec
	}
	m.mu.Unlock()
	if o, err := vec.GetMetricWith(promLabels(labels)); err == nil {
		o.Observe(value)
	}
}

// CounterFor returns the counter series for name and labels, registering
// the metric if needed.
func (m *PromMeter) CounterFor(name string, labels ...Label) (prometheus.Counter, error) {
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name}, labelNames(labels))
		if err := m.reg.Register(vec); err != nil {
			m.mu.Unlock()
			return nil, fmt.Errorf("obs: register %s: %w", name, err)
		}
		m.counters[name] = vec
	}
	m.mu.Unlock()
	return vec.GetMetricWith(promLabels(labels))
}

// Sample is one series in a Snapshot.
type Sample struct {
	Series string
	Value  float64
}

// Snapshot gathers the registry. Counters report their value; histograms
// report `_count` and `_sum` series.
func (m *PromMeter) Snapshot() ([]Sample, error) {
	mfs, err := m.reg.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range mfs {
		for _, mt := range mf.GetMetric() {
			lbl := seriesLabels(mt.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{Series: mf.GetName() + lbl, Value: mt.GetCounter().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := mt.GetHistogram()
				out = append(out,
					Sample{Series: mf.GetName() + "_count" + lbl, Value: float64(h.GetSampleCount())},
					Sample{Series: mf.GetName() + "_sum" + lbl, Value: h.GetSampleSum()})
			}
		}
	}
	return out, nil
}

func labelNames(labels []Label) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Key
	}
	sort.Strings(names)
	return names
}

func promLabels(labels []Label) prometheus.Labels {
	pl := make(prometheus.Labels, len(labels))
	for _, l := range labels {
		pl[l.Key] = l.Value
	}
	return pl
}

// seriesLabels renders `{k=v,...}`; Gather already sorts label pairs.
func seriesLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.GetName())
		b.WriteByte('=')
		b.WriteString(p.GetValue())
	}
	b.WriteByte('}')
	return b.String()
}
