package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/events"
	"github.com/spec-kit/secops-service/internal/repository"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

const activityTimeout = 5 * time.Second

// Dependencies are shared by every service that records activity and publishes events.
type Dependencies struct {
	Activities repository.ActivityLog
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

func (d Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// RecordService implements CRUD for one record kind on top of a collection.
// Writes append an activity entry and publish an <entity>_<action> event.
type RecordService[T any, P repository.EntityPtr[T]] struct {
	entity   domain.EntityType
	resource string
	records  repository.Collection[T]
	deps     Dependencies
	logger   *zap.Logger
}

// NewRecordService builds the service. resource is the human noun used in messages.
func NewRecordService[T any, P repository.EntityPtr[T]](entity domain.EntityType, resource string, records repository.Collection[T], deps Dependencies) *RecordService[T, P] {
	return &RecordService[T, P]{
		entity:   entity,
		resource: resource,
		records:  records,
		deps:     deps,
		logger:   deps.logger().With(zap.String("entity", string(entity))),
	}
}

// Entity reports the record kind served.
func (s *RecordService[T, P]) Entity() domain.EntityType {
	return s.entity
}

// List returns every record, newest first.
func (s *RecordService[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := s.records.List(ctx)
	if err != nil {
		return nil, translate(s.resource, "", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns one record.
func (s *RecordService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, translate(s.resource, id, err)
	}
	return record, nil
}

// Create decodes body into a new record, validates it and stores it.
// Server-assigned fields in the body are ignored.
func (s *RecordService[T, P]) Create(ctx context.Context, actorID string, body []byte) (*T, error) {
	record := new(T)
	if err := decodeObject(body, record); err != nil {
		return nil, err
	}
	*P(record).Metadata() = domain.Meta{}
	if err := validate(P(record)); err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, translate(s.resource, "", err)
	}

	id := P(record).Metadata().ID
	s.recordActivity(ctx, actorID, domain.ActivityCreated, id)
	s.publish(ctx, events.ActionCreated, id, actorID, record)
	return record, nil
}

// Update merges the fields present in patch onto the stored record.
// Absent fields keep their value and server-assigned fields cannot be changed.
func (s *RecordService[T, P]) Update(ctx context.Context, actorID, id string, patch []byte) (*T, error) {
	existing, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, translate(s.resource, id, err)
	}
	meta := *P(existing).Metadata()

	var merged T
	if err := clone(existing, &merged); err != nil {
		return nil, translate(s.resource, id, err)
	}
	if err := decodeObject(patch, &merged); err != nil {
		return nil, err
	}
	*P(&merged).Metadata() = meta
	if err := validate(P(&merged)); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, &merged); err != nil {
		return nil, translate(s.resource, id, err)
	}

	s.recordActivity(ctx, actorID, domain.ActivityUpdated, id)
	s.publish(ctx, events.ActionUpdated, id, actorID, &merged)
	return &merged, nil
}

// Delete removes a record.
func (s *RecordService[T, P]) Delete(ctx context.Context, actorID, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		return translate(s.resource, id, err)
	}
	s.recordActivity(ctx, actorID, domain.ActivityDeleted, id)
	s.publish(ctx, events.ActionDeleted, id, actorID, events.DeletedPayload{ID: id})
	return nil
}

// recordActivity appends to the audit trail. Failures are logged and never
// reach the caller; the primary write has already succeeded.
func (s *RecordService[T, P]) recordActivity(ctx context.Context, actorID string, kind domain.ActivityType, entityID string) {
	appendActivity(ctx, s.deps, s.logger, &domain.Activity{
		ActorID:      actorID,
		ActivityType: kind,
		EntityType:   s.entity,
		EntityID:     entityID,
		Description:  fmt.Sprintf("%s %s %s", pastTense(kind), s.resource, entityID),
	})
}

func (s *RecordService[T, P]) publish(ctx context.Context, action events.Action, id, actorID string, payload interface{}) {
	if s.deps.Dispatcher == nil {
		return
	}
	_ = s.deps.Dispatcher.Publish(ctx, events.NewEntityEvent(s.entity, action, id, actorID, payload))
}

func appendActivity(ctx context.Context, deps Dependencies, logger *zap.Logger, activity *domain.Activity) {
	if deps.Activities == nil {
		return
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityTimeout)
	defer cancel()
	if err := deps.Activities.Append(actx, activity); err != nil {
		logger.Warn("activity append failed",
			zap.String("activity_type", string(activity.ActivityType)),
			zap.String("entity_id", activity.EntityID),
			zap.Error(err))
	}
}

func pastTense(kind domain.ActivityType) string {
	switch kind {
	case domain.ActivityCreated:
		return "created"
	case domain.ActivityUpdated:
		return "updated"
	case domain.ActivityDeleted:
		return "deleted"
	default:
		return string(kind)
	}
}

// decodeObject unmarshals a JSON object onto dst, leaving fields absent from body untouched.
func decodeObject(body []byte, dst any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return apperrors.NewValidationError("request body must be a JSON object", nil)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"error": err.Error()})
	}
	return nil
}

// clone deep-copies through JSON so merging never writes through pointers shared with src.
func clone(src, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func validate(record any) error {
	v, ok := record.(domain.Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return nil
}
