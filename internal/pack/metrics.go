package pack

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics счётчики компиляции паков. Нулевой указатель допустим: метрики просто не пишутся.
type Metrics struct {
	objects  *prometheus.CounterVec
	issues   *prometheus.CounterVec
	models   prometheus.Gauge
	duration prometheus.Histogram
}

// NewMetrics создаёт и регистрирует метрики компилятора в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		objects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockpacks",
			Name:      "objects_compiled_total",
			Help:      "Количество скомпилированных объектов паков.",
		}, []string{"pack", "type"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockpacks",
			Name:      "compile_issues_total",
			Help:      "Восстановленные ошибки компиляции по видам.",
		}, []string{"kind"}),
		models: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blockpacks",
			Name:      "models_loaded",
			Help:      "Количество загруженных моделей.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blockpacks",
			Name:      "compile_duration_seconds",
			Help:      "Длительность компиляции каталога паков.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.objects, m.issues, m.models, m.duration)
	return m
}

func (m *Metrics) object(pack, typ string) {
	if m == nil {
		return
	}
	m.objects.WithLabelValues(pack, typ).Inc()
}

func (m *Metrics) issue(kind string) {
	if m == nil {
		return
	}
	m.issues.WithLabelValues(kind).Inc()
}

func (m *Metrics) compiled(models int, d time.Duration) {
	if m == nil {
		return
	}
	m.models.Set(float64(models))
	m.duration.Observe(d.Seconds())
}
