package observability

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CategoryCascadeTasks counts tasks touched by a category rename or delete.
	CategoryCascadeTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_category_cascade_tasks_total",
		Help: "Total number of tasks renamed or deleted by category cascades",
	}, []string{"operation"})

	// AuthEvents counts register/login/refresh outcomes.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_auth_events_total",
		Help: "Total auth attempts by operation and outcome",
	}, []string{"operation", "outcome"})

	// RedisErrors counts failed limiter storage calls.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

var (
	httpOnce    sync.Once
	httpMetrics *fiberprometheus.FiberPrometheus
)

// HTTPMetrics returns the process-wide request metrics middleware. It
// registers against the default registry exactly once.
func HTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	return httpMetrics
}

// RecordCascade adds n affected tasks for a cascade operation.
func RecordCascade(operation string, n int64) {
	if n > 0 {
		CategoryCascadeTasks.WithLabelValues(operation).Add(float64(n))
	}
}

// RecordAuth increments the auth outcome counter.
func RecordAuth(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	AuthEvents.WithLabelValues(operation, outcome).Inc()
}
