// Package events handles event emission for people lifecycle changes
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Event names published around people mutations. Consumers key off these.
const (
	EventPeopleCreated       = "people.created"
	EventPeopleUpdated       = "people.updated"
	EventPeopleBeforeDelete  = "people.before_delete"
	EventPeopleAfterDelete   = "people.after_delete"
	EventPeopleBeforeRestore = "people.before_restore"
	EventPeopleAfterRestore  = "people.after_restore"
)

// Emitter is the notification surface the people service fires into.
// Emission is fire-and-forget: the service logs emit failures but never
// fails the triggering operation on them.
type Emitter interface {
	EmitCreated(ctx context.Context, peopleID int64, fields map[string]any) error
	EmitUpdated(ctx context.Context, peopleID int64, fields map[string]any) error
	EmitBeforeDelete(ctx context.Context, peopleID int64, peopleType string, hard bool) error
	EmitAfterDelete(ctx context.Context, peopleID int64, peopleType string, hard bool) error
	EmitBeforeRestore(ctx context.Context, peopleID int64, peopleType string) error
	EmitAfterRestore(ctx context.Context, peopleID int64, peopleType string) error
}

// KafkaEmitter publishes people events to the configured topic.
type KafkaEmitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

func NewKafkaEmitter(producer *kafka.Producer, logger ectologger.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		producer: producer,
		logger:   logger,
	}
}

func (e *KafkaEmitter) emit(ctx context.Context, event *kafka.PeopleEvent) error {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now().UTC()
	event.TraceID = tracing.GetTraceID(ctx)
	event.SpanID = tracing.GetSpanID(ctx)

	if err := e.producer.PublishPeopleEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("event_type", event.EventType).Error("Failed to emit people event")
		return err
	}

	metrics.EventsEmittedTotal.WithLabelValues(event.EventType).Inc()
	return nil
}

func (e *KafkaEmitter) EmitCreated(ctx context.Context, peopleID int64, fields map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "events.KafkaEmitter.EmitCreated")
	defer span.End()

	return e.emit(ctx, &kafka.PeopleEvent{
		EventType: EventPeopleCreated,
		PeopleID:  peopleID,
		Fields:    fields,
	})
}

func (e *KafkaEmitter) EmitUpdated(ctx context.Context, peopleID int64, fields map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "events.KafkaEmitter.EmitUpdated")
	defer span.End()

	return e.emit(ctx, &kafka.PeopleEvent{
		EventType: EventPeopleUpdated,
		PeopleID:  peopleID,
		Fields:    fields,
	})
}

func (e *KafkaEmitter) EmitBeforeDelete(ctx context.Context, peopleID int64, peopleType string, hard bool) error {
	ctx, span := tracing.StartSpan(ctx, "events.KafkaEmitter.EmitBeforeDelete")
	defer span.End()

	return e.emit(ctx, &kafka.PeopleEvent{
		EventType: EventPeopleBeforeDelete,
		PeopleID:  peopleID,
		Type:      peopleType,
		Hard:      hard,
	})
}

func (e *KafkaEmitter) EmitAfterDelete(ctx context.Context, peopleID int64, peopleType string, hard bool) error {
	ctx, span := tracing.StartSpan(ctx, "events.KafkaEmitter.EmitAfterDelete")
	defer span.End()

	return e.emit(ctx, &kafka.PeopleEvent{
		EventType: EventPeopleAfterDelete,
		PeopleID:  peopleID,
		Type:      peopleType,
		Hard:      hard,
	})
}

func (e *KafkaEmitter) EmitBeforeRestore(ctx context.Context, peopleID int64, peopleType string) error {
	ctx, span := tracing.StartSpan(ctx, "events.KafkaEmitter.EmitBeforeRestore")
	defer span.End()

	return e.emit(ctx, &kafka.PeopleEvent{
		EventType: EventPeopleBeforeRestore,
		PeopleID:  peopleID,
		Type:      peopleType,
	})
}

func (e *KafkaEmitter) EmitAfterRestore(ctx context.Context, peopleID int64, peopleType string) error {
	ctx, span := tracing.StartSpan(ctx, "events.KafkaEmitter.EmitAfterRestore")
	defer span.End()

	return e.emit(ctx, &kafka.PeopleEvent{
		EventType: EventPeopleAfterRestore,
		PeopleID:  peopleID,
		Type:      peopleType,
	})
}
