package importer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the import engine.
type Metrics struct {
	Registry        *prometheus.Registry
	GroupsTotal     prometheus.Counter
	ParentsTotal    *prometheus.CounterVec
	VariationsTotal *prometheus.CounterVec
	ImagesTotal     prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	LinksTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	groups := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "import_groups_total",
			Help: "Total product groups processed.",
		},
	)
	parents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_parents_total",
			Help: "Parent products touched, by action.",
		},
		[]string{"action"},
	)
	variations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_variations_total",
			Help: "Variations processed, by action.",
		},
		[]string{"action"},
	)
	images := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "import_images_imported_total",
			Help: "Images attached during imports.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_errors_total",
			Help: "Import errors, by level.",
		},
		[]string{"level"},
	)
	links := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_link_checks_total",
			Help: "Post-import link checks, by result.",
		},
		[]string{"result"},
	)

	registry.MustRegister(groups, parents, variations, images, errorsTotal, links)

	return &Metrics{
		Registry:        registry,
		GroupsTotal:     groups,
		ParentsTotal:    parents,
		VariationsTotal: variations,
		ImagesTotal:     images,
		ErrorsTotal:     errorsTotal,
		LinksTotal:      links,
	}
}

// IncParent counts a parent action ("created" or "updated").
func (m *Metrics) IncParent(action string) {
	if m == nil {
		return
	}
	m.ParentsTotal.WithLabelValues(action).Inc()
}

// IncVariation counts a variation action ("created", "updated", "skipped").
func (m *Metrics) IncVariation(action string) {
	if m == nil {
		return
	}
	m.VariationsTotal.WithLabelValues(action).Inc()
}

// IncGroup counts a processed group.
func (m *Metrics) IncGroup() {
	if m == nil {
		return
	}
	m.GroupsTotal.Inc()
}

// IncImage counts an attached image.
func (m *Metrics) IncImage() {
	if m == nil {
		return
	}
	m.ImagesTotal.Inc()
}

// IncError counts an import error ("group" or "row").
func (m *Metrics) IncError(level string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(level).Inc()
}

// IncLink counts a link-check result ("ok" or "broken").
func (m *Metrics) IncLink(result string) {
	if m == nil {
		return
	}
	m.LinksTotal.WithLabelValues(result).Inc()
}
