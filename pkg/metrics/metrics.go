package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores Prometheus del motor de inventario. Se exponen en GET /metrics.
var (
	adjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comedor_inventory_adjustments_total",
		Help: "Entradas de ajuste aceptadas, por tipo de cambio y ruta de aplicación.",
	}, []string{"change_type", "path"})

	writeConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comedor_inventory_write_conflicts_total",
		Help: "Escrituras rechazadas por conflicto de versión o aislamiento.",
	})
)

// AdjustmentApplied registra una entrada de ajuste aceptada.
// path: "bulk" (lote atómico) o "direct" (escritura individual).
func AdjustmentApplied(changeType, path string) {
	adjustmentsTotal.WithLabelValues(changeType, path).Inc()
}

// WriteConflict registra una escritura rechazada por conflicto.
func WriteConflict() {
	writeConflictsTotal.Inc()
}
