package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Повторный вызов не должен паниковать.
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestKafkaCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	beforeConsumed := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues("orders"))
	beforeFailed := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues("orders"))

	metrics.KafkaMessagesConsumed.WithLabelValues("orders").Inc()
	metrics.KafkaMessagesFailed.WithLabelValues("orders").Inc()

	if got := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues("orders")); got != beforeConsumed+1 {
		t.Fatalf("KafkaMessagesConsumed: got=%v want=%v", got, beforeConsumed+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues("orders")); got != beforeFailed+1 {
		t.Fatalf("KafkaMessagesFailed: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestOfflineQueueOps_ByTypeAndOp(t *testing.T) {
	metrics.MustRegister()

	enq := metrics.OfflineQueueOps.WithLabelValues("user-registration", "enqueued")
	drop := metrics.OfflineQueueOps.WithLabelValues("user-registration", "dropped")
	enqBefore, dropBefore := testutil.ToFloat64(enq), testutil.ToFloat64(drop)

	enq.Inc()
	enq.Inc()

	if got := testutil.ToFloat64(enq); got != enqBefore+2 {
		t.Fatalf("enqueued: got=%v want=%v", got, enqBefore+2)
	}
	if got := testutil.ToFloat64(drop); got != dropBefore {
		t.Fatalf("dropped must not change: got=%v want=%v", got, dropBefore)
	}
}

func TestGauges_Set(t *testing.T) {
	metrics.MustRegister()

	depth := metrics.OfflineQueueDepth.WithLabelValues("metrics-test")
	depth.Set(3)
	if got := testutil.ToFloat64(depth); got != 3 {
		t.Fatalf("OfflineQueueDepth: got=%v want=3", got)
	}

	cur := testutil.ToFloat64(metrics.CacheSize)
	metrics.CacheSize.Set(cur + 5)
	if got := testutil.ToFloat64(metrics.CacheSize); got != cur+5 {
		t.Fatalf("CacheSize after +5: got=%v want=%v", got, cur+5)
	}
	metrics.CacheSize.Set(cur)
}
