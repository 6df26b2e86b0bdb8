package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Consumer outcomes.
const (
	outcomeProcessed  = "processed"
	outcomeFailed     = "failed"
	outcomeMalformed  = "malformed"
	outcomeDeadLetter = "dead_lettered"
)

var (
	consumerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_messages_total",
		Help: "Kafka messages handled by the consumers, by outcome.",
	}, []string{"topic", "consumer_group", "outcome"})

	consumerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_consumer_processing_duration_seconds",
		Help:    "Time spent in the message handler including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic", "consumer_group"})

	duplicateEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_duplicate_events_total",
		Help: "Events skipped because their id was already processed.",
	}, []string{"event_type"})

	producerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_producer_messages_total",
		Help: "Kafka publish attempts, by outcome.",
	}, []string{"topic", "outcome"})

	producerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_producer_publish_duration_seconds",
		Help:    "Duration of Kafka publish calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
)
