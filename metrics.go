package pagebook

import "github.com/prometheus/client_golang/prometheus"

// bookMetrics holds the Prometheus collectors registered for a single
// Book. A Book opened without WithMetrics(registerer) gets collectors
// that are never registered anywhere and simply accumulate in memory, so
// the instrumentation never changes behaviour for callers who don't care
// about it. With a registerer, a collector that is already registered is
// skipped; any other registration error panics.
type bookMetrics struct {
	pageCount    prometheus.Gauge
	partialCount prometheus.Gauge
	inserts      prometheus.Counter
	deletes      prometheus.Counter
}

func newBookMetrics(id BookId, reg prometheus.Registerer) *bookMetrics {
	labels := prometheus.Labels{"book_id": id.String()}

	m := &bookMetrics{
		pageCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pagebook",
			Name:        "book_page_count",
			Help:        "Number of pages currently open for a book.",
			ConstLabels: labels,
		}),
		partialCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pagebook",
			Name:        "book_partial_page_count",
			Help:        "Number of pages in a book with at least one vacant slot.",
			ConstLabels: labels,
		}),
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pagebook",
			Name:        "book_inserts_total",
			Help:        "Total successful inserts into a book.",
			ConstLabels: labels,
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pagebook",
			Name:        "book_deletes_total",
			Help:        "Total successful deletes from a book.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.pageCount, m.partialCount, m.inserts, m.deletes} {
			if err := reg.Register(c); err != nil {
				if _, dup := err.(prometheus.AlreadyRegisteredError); !dup {
					panic(err)
				}
			}
		}
	}
	return m
}
