package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of order messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of order messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of order messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_cache_operations_total",
			Help: "Report cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired|purged
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "report_cache_size",
			Help: "Number of reports currently in cache",
		},
	)
)

var (
	ReportsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_served_total",
			Help: "Sales reports built, by range kind",
		},
		[]string{"kind"},
	)
	ReportExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_exports_total",
			Help: "CSV export attempts by result",
		},
		[]string{"result"}, // file|empty|invalid
	)
)

var (
	OfflineQueueOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offline_queue_operations_total",
			Help: "Offline queue operations",
		},
		[]string{"type", "op"}, // enqueued|dropped|removed|cleared
	)
	OfflineQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "offline_queue_depth",
			Help: "Entries currently waiting in the offline queue",
		},
		[]string{"type"},
	)
	SyncReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offline_sync_replays_total",
			Help: "Queued mutations replayed against the upstream",
		},
		[]string{"result"}, // synced|failed
	)
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offline_sync_runs_total",
			Help: "Sync coordinator trigger outcomes",
		},
		[]string{"result"}, // drained|empty|busy
	)
	NoticesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notices_published_total",
			Help: "User notices published by severity",
		},
		[]string{"severity"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует все метрики в default registry; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CacheOps, CacheSize,
			ReportsServed, ReportExports,
			OfflineQueueOps, OfflineQueueDepth, SyncReplays, SyncRuns,
			NoticesPublished,
		)
	})
}
