package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del servicio. Se registran en el registry default de prometheus
// y se exponen vía /metrics en el router.
var (
	AccessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetcare_access_denied_total",
		Help: "Operaciones rechazadas por control de acceso.",
	}, []string{"operation"})

	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetcare_notifications_emitted_total",
		Help: "Notificaciones best-effort creadas, por tipo.",
	}, []string{"kind"})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vetcare_notification_failures_total",
		Help: "Notificaciones best-effort que fallaron al persistirse.",
	})

	RemindersDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vetcare_reminders_dispatched_total",
		Help: "Recordatorios de turno despachados por el batch.",
	})

	HistoryEntriesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetcare_history_entries_appended_total",
		Help: "Entradas agregadas al historial clínico, por tipo.",
	}, []string{"type"})

	AssetCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vetcare_asset_cache_requests_total",
		Help: "Requests al cache de assets, por resultado (hit/miss/error).",
	}, []string{"result"})
)
