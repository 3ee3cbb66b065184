package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_requests_submitted_total",
		Help: "Total number of marriage requests submitted",
	})

	requestsResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_requests_resolved_total",
		Help: "Total number of marriage requests resolved by outcome",
	}, []string{"outcome"})

	messagesSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_messages_submitted_total",
		Help: "Total number of chat messages by moderation outcome",
	}, []string{"status"})

	messagesRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_messages_rate_limited_total",
		Help: "Total number of message submissions rejected by rate limiting",
	})
)
