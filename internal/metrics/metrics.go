package metrics

import "github.com/prometheus/client_golang/prometheus"

// CalendarMetrics counts what visitors do with calendar page views.
type CalendarMetrics struct {
	pageViews   *prometheus.CounterVec
	navigations *prometheus.CounterVec
	selections  *prometheus.CounterVec
	submissions *prometheus.CounterVec
	buildTime   *prometheus.HistogramVec
}

func NewCalendarMetrics(reg prometheus.Registerer) *CalendarMetrics {
	m := &CalendarMetrics{
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pickup",
			Subsystem: "calendar",
			Name:      "page_views_total",
			Help:      "Calendar page views created",
		}, []string{"kind"}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pickup",
			Subsystem: "calendar",
			Name:      "navigations_total",
			Help:      "Arrow presses, by view and whether the offset moved",
		}, []string{"view", "direction", "moved"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pickup",
			Subsystem: "calendar",
			Name:      "selections_total",
			Help:      "Slot clicks, by view and outcome",
		}, []string{"view", "status"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pickup",
			Subsystem: "calendar",
			Name:      "submissions_total",
			Help:      "Form submissions, by kind and outcome",
		}, []string{"kind", "status"}),
		buildTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pickup",
			Subsystem: "calendar",
			Name:      "grid_build_seconds",
			Help:      "Time spent building an availability grid",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.pageViews, m.navigations, m.selections, m.submissions, m.buildTime)
	return m
}

func (m *CalendarMetrics) ObservePageView(kind string) {
	if m == nil {
		return
	}
	m.pageViews.WithLabelValues(kind).Inc()
}

func (m *CalendarMetrics) ObserveNavigation(view, direction string, moved bool) {
	if m == nil {
		return
	}
	label := "false"
	if moved {
		label = "true"
	}
	m.navigations.WithLabelValues(view, direction, label).Inc()
}

func (m *CalendarMetrics) ObserveSelection(view, status string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(view, status).Inc()
}

func (m *CalendarMetrics) ObserveSubmission(kind, status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind, status).Inc()
}

func (m *CalendarMetrics) ObserveBuild(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.buildTime.WithLabelValues(kind).Observe(seconds)
}
