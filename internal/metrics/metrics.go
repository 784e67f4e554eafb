// Package metrics exposes prometheus counters for the document store and the
// import pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DocumentSaves counts full rewrites of the persisted store document.
	DocumentSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "allergen_matrix_document_saves_total",
		Help: "Number of times the store document was persisted.",
	})

	// ItemsImported counts items brought in through CSV imports, labelled by
	// import mode (single, bulk_created, bulk_updated).
	ItemsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allergen_matrix_items_imported_total",
		Help: "Number of items created or updated by CSV imports.",
	}, []string{"mode"})

	// TakeawaysCreated counts takeaway creations, labelled by origin
	// (api, bulk_import, restore).
	TakeawaysCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allergen_matrix_takeaways_created_total",
		Help: "Number of takeaways created.",
	}, []string{"origin"})
)

// Handler returns the HTTP handler serving the default prometheus registry
func Handler() http.Handler {
	return promhttp.Handler()
}
