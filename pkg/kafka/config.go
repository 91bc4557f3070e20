package kafka

import "time"

// ProducerConfig configures the people event producer.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	MaxAttempts  int
	WriteTimeout time.Duration
	RequiredAcks int
	Compression  string
	Async        bool
}
