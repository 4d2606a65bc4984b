package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LiveDeliveries counts real-time event deliveries by outcome
	// ("delivered" or "dropped").
	LiveDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_live_deliveries_total",
		Help: "Total number of real-time event delivery attempts by outcome",
	}, []string{"outcome"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lumen_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FollowMutations counts follow-graph mutations by kind.
	FollowMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lumen_follow_mutations_total",
		Help: "Total number of follow and unfollow operations",
	}, []string{"kind"})
)
