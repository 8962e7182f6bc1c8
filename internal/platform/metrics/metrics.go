// Package metrics exposes process-wide Prometheus collectors and the scrape handler.
package metrics

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterDBStats exports connection pool statistics for db under dbName.
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB, dbName string) error {
	return reg.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
