// Package metrics defines and registers the Prometheus metrics of the HRMS
// client. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package load and
// are served by the diagnostics server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hrms"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreRequestsTotal counts calls made through the store contract.
// Labels:
//   - collection: "employees" or "attendance"
//   - op: "list" or "insert"
//   - result: "ok", "conflict", "unauthorized", or "error"
var StoreRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_requests_total",
		Help:      "Total number of store calls, by collection, operation and result.",
	},
	[]string{"collection", "op", "result"},
)

// StoreRequestDuration measures store call latency including transport.
var StoreRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_request_duration_seconds",
		Help:      "Duration of store calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection", "op"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// EmployeesCreatedTotal counts employees accepted by the store.
// Label:
//   - department: one of the fixed departments
var EmployeesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "employees_created_total",
		Help:      "Total number of employees created, by department.",
	},
	[]string{"department"},
)

// AttendanceMarkedTotal counts attendance records accepted by the store.
// Label:
//   - status: "Present" or "Absent"
var AttendanceMarkedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_marked_total",
		Help:      "Total number of attendance records created, by status.",
	},
	[]string{"status"},
)

// MarkLockTotal counts cross-process mark lock attempts.
// Label:
//   - result: "acquired", "held" (another process is marking), or "error"
var MarkLockTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mark_lock_total",
		Help:      "Total number of mark lock attempts, labelled by result.",
	},
	[]string{"result"},
)
