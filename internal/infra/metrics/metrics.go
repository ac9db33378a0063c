package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedido_documents_rendered_total",
		Help: "Formatos de pedido generados, por formato.",
	}, []string{"format"})

	CatalogLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedido_catalog_load_failures_total",
		Help: "Cargas del catálogo de artículos que fallaron.",
	})

	Dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedido_dispatch_total",
		Help: "Envíos del formato por Telegram, por resultado.",
	}, []string{"result"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pedido_sessions_active",
		Help: "Pedidos en captura.",
	})
)

// SetSessions sirve como hook de tamaño del store de sesiones.
func SetSessions(n int) { SessionsActive.Set(float64(n)) }
