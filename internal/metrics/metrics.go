// Package metrics instruments the simulation core with Prometheus
// collectors: live task count, live entity counts per subsystem class,
// per-frame step duration, and scheduler-pass duration. Grounded on
// `r3e-network-service_layer`'s `pkg/metrics`: one package-level
// `prometheus.Registry`, `NewGaugeVec`/`NewHistogramVec` collectors
// registered in `init`, and a handful of `Record*` functions the rest
// of the codebase calls without importing `prometheus` directly.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector this package registers, kept separate
// from prometheus.DefaultRegisterer the way the teacher's retrieval
// pack does, so embedding this core in a larger binary never collides
// with that binary's own default-registry metrics.
var Registry = prometheus.NewRegistry()

var (
	liveTasks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "taisei",
		Subsystem: "sim",
		Name:      "live_tasks",
		Help:      "Number of tasks not yet dead in the scheduler.",
	})

	liveEntities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "taisei",
		Subsystem: "sim",
		Name:      "live_entities",
		Help:      "Number of live entities per subsystem class.",
	}, []string{"class"})

	frameDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taisei",
		Subsystem: "sim",
		Name:      "frame_duration_seconds",
		Help:      "Wall-clock duration of one Sim.Step call.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
	})

	schedulerPassDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taisei",
		Subsystem: "sim",
		Name:      "scheduler_pass_duration_seconds",
		Help:      "Wall-clock duration of one Scheduler.Step call.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
	})

	tasksResumedPerPass = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "taisei",
		Subsystem: "sim",
		Name:      "scheduler_tasks_resumed",
		Help:      "Number of tasks resumed in a single scheduler pass.",
		Buckets:   prometheus.LinearBuckets(0, 10, 10),
	})
)

func init() {
	Registry.MustRegister(
		liveTasks,
		liveEntities,
		frameDuration,
		schedulerPassDuration,
		tasksResumedPerPass,
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registered collectors for a telemetry server's
// /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// EntityClass names the subsystems LiveCount gauges are reported per,
// matching the pooled subsystem managers in internal/sim.
type EntityClass string

const (
	ClassProjectile EntityClass = "projectile"
	ClassLaser      EntityClass = "laser"
	ClassEnemy      EntityClass = "enemy"
	ClassItem       EntityClass = "item"
)

// RecordLiveEntities publishes one subsystem's current live count. The
// caller (internal/sim, once per frame or on a slower cadence) decides
// when this is worth the gauge-set cost; this package has no opinion
// on frequency.
func RecordLiveEntities(class EntityClass, count int) {
	liveEntities.WithLabelValues(string(class)).Set(float64(count))
}

// RecordLiveTasks publishes the scheduler's current live task count.
func RecordLiveTasks(count int) {
	liveTasks.Set(float64(count))
}

// ObserveFrameDuration records how long one Sim.Step call took.
func ObserveFrameDuration(seconds float64) {
	frameDuration.Observe(seconds)
}

// ObserveSchedulerPass records one Scheduler.Step call's duration and
// how many tasks it resumed.
func ObserveSchedulerPass(seconds float64, tasksResumed int) {
	schedulerPassDuration.Observe(seconds)
	tasksResumedPerPass.Observe(float64(tasksResumed))
}
