// Package people implements the people access layer: memoized listing and
// lookup, the create-or-update flow, the per-type delete/restore lifecycle,
// and the metadata pass-through.
package people

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/fern/internal/repositories/people"
	"github.com/Ramsey-B/fern/internal/repositories/peoplemeta"
	"github.com/Ramsey-B/fern/internal/repositories/peopletype"
	"github.com/Ramsey-B/fern/pkg/accounts"
	"github.com/Ramsey-B/fern/pkg/cache"
	ferncontext "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/fingerprint"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/peopleerr"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	listNamespace   = "people:list"
	countNamespace  = "people:count"
	lookupNamespace = "people:lookup"
)

// ValidationHook lets callers append their own checks to the upsert flow.
// All hooks run; their failures are aggregated into one ValidationFailed.
type ValidationHook func(ctx context.Context, req *models.InsertPeopleRequest) error

// Summary is the compact listing entry used by pickers and dropdowns.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PeopleService interface {
	List(ctx context.Context, req *models.ListPeopleRequest) ([]models.PersonWithTypes, error)
	Count(ctx context.Context, req *models.ListPeopleRequest) (int64, error)
	PeoplesArray(ctx context.Context, req *models.ListPeopleRequest) ([]Summary, error)
	CountByType(ctx context.Context, typeName string) (int64, error)
	GetBy(ctx context.Context, field string, value any) (*models.PersonWithTypes, error)
	GetAllBy(ctx context.Context, field string, value any, limit, offset int) ([]models.PersonWithTypes, error)
	Upsert(ctx context.Context, req *models.InsertPeopleRequest) (int64, error)
	Delete(ctx context.Context, req *models.DeletePeopleRequest) error
	Restore(ctx context.Context, req *models.DeletePeopleRequest) error
	AddMeta(ctx context.Context, peopleID int64, key, value string, unique bool) (int64, error)
	GetMeta(ctx context.Context, peopleID int64, key string) ([]string, error)
	GetMetaSingle(ctx context.Context, peopleID int64, key string) (string, bool, error)
	UpdateMeta(ctx context.Context, peopleID int64, key, value, prevValue string) error
	DeleteMeta(ctx context.Context, peopleID int64, key, value string) error
}

type Service struct {
	people   people.PeopleRepository
	types    peopletype.PeopleTypeRepository
	meta     peoplemeta.PeopleMetaRepository
	accounts accounts.Provider
	cache    cache.Cache
	emitter  events.Emitter
	logger   ectologger.Logger
	validate *validator.Validate
	hooks    []ValidationHook
}

func NewService(
	peopleRepo people.PeopleRepository,
	typeRepo peopletype.PeopleTypeRepository,
	metaRepo peoplemeta.PeopleMetaRepository,
	accountProvider accounts.Provider,
	cacheClient cache.Cache,
	emitter events.Emitter,
	logger ectologger.Logger,
) *Service {
	return &Service{
		people:   peopleRepo,
		types:    typeRepo,
		meta:     metaRepo,
		accounts: accountProvider,
		cache:    cacheClient,
		emitter:  emitter,
		logger:   logger,
		validate: validator.New(),
	}
}

// RegisterValidationHook appends a caller supplied upsert check.
func (s *Service) RegisterValidationHook(hook ValidationHook) {
	s.hooks = append(s.hooks, hook)
}

// List returns the matching records with their active type names. Results
// are memoized by a fingerprint of the normalized request; entries are never
// invalidated by writes, only by external eviction.
func (s *Service) List(ctx context.Context, req *models.ListPeopleRequest) ([]models.PersonWithTypes, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.List")
	defer span.End()

	req.Normalize()
	key := fingerprint.Generate(req.CacheMap())

	if raw, ok, err := s.cache.Get(ctx, key, listNamespace); err == nil && ok {
		var peoples []models.PersonWithTypes
		if err := json.Unmarshal(raw, &peoples); err == nil {
			metrics.PeopleQueriesTotal.WithLabelValues("list", "hit").Inc()
			return peoples, nil
		}
	}

	start := time.Now()
	peoples, err := s.people.List(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.QueryDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	metrics.PeopleQueriesTotal.WithLabelValues("list", "miss").Inc()

	if raw, err := json.Marshal(peoples); err == nil {
		if err := s.cache.Set(ctx, key, listNamespace, raw); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to cache people listing")
		}
	}
	return peoples, nil
}

// Count returns the number of records the same filters would list.
func (s *Service) Count(ctx context.Context, req *models.ListPeopleRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.Count")
	defer span.End()

	req.Normalize()
	key := fingerprint.Generate(req.CacheMap())

	if raw, ok, err := s.cache.Get(ctx, key, countNamespace); err == nil && ok {
		if total, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			metrics.PeopleQueriesTotal.WithLabelValues("count", "hit").Inc()
			return total, nil
		}
	}

	start := time.Now()
	total, err := s.people.Count(ctx, req)
	if err != nil {
		return 0, err
	}
	metrics.QueryDuration.WithLabelValues("count").Observe(time.Since(start).Seconds())
	metrics.PeopleQueriesTotal.WithLabelValues("count", "miss").Inc()

	if err := s.cache.Set(ctx, key, countNamespace, []byte(strconv.FormatInt(total, 10))); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to cache people count")
	}
	return total, nil
}

// PeoplesArray lists records in id/display-name form.
func (s *Service) PeoplesArray(ctx context.Context, req *models.ListPeopleRequest) ([]Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.PeoplesArray")
	defer span.End()

	peoples, err := s.List(ctx, req)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(peoples))
	for i := range peoples {
		summaries = append(summaries, Summary{
			ID:   peoples[i].ID,
			Name: peoples[i].DisplayName(),
		})
	}
	return summaries, nil
}

func (s *Service) CountByType(ctx context.Context, typeName string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.CountByType")
	defer span.End()

	req := &models.ListPeopleRequest{Types: []string{typeName}}
	return s.Count(ctx, req.Normalize())
}

// GetBy fetches one record by an allowlisted field. The cache key hashes the
// value only, not the field: two lookups by different fields on equal values
// share a cache entry. Callers relying on distinct fields must evict first.
func (s *Service) GetBy(ctx context.Context, field string, value any) (*models.PersonWithTypes, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.GetBy")
	defer span.End()

	if field == "" || value == nil || value == "" {
		return nil, peopleerr.New(peopleerr.CodeInvalidArgument, "lookup field and value are required")
	}

	key, err := fingerprint.FromValue(value)
	if err != nil {
		return nil, peopleerr.Newf(peopleerr.CodeInvalidArgument, "unhashable lookup value: %v", err)
	}

	if raw, ok, err := s.cache.Get(ctx, key, lookupNamespace); err == nil && ok {
		var person models.PersonWithTypes
		if err := json.Unmarshal(raw, &person); err == nil {
			metrics.PeopleQueriesTotal.WithLabelValues("get_by", "hit").Inc()
			return &person, nil
		}
	}

	person, err := s.people.GetBy(ctx, field, value)
	if err != nil {
		return nil, err
	}
	metrics.PeopleQueriesTotal.WithLabelValues("get_by", "miss").Inc()
	if person == nil {
		return nil, nil
	}

	if raw, err := json.Marshal(person); err == nil {
		if err := s.cache.Set(ctx, key, lookupNamespace, raw); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to cache people lookup")
		}
	}
	return person, nil
}

// GetAllBy fetches every record matching an allowlisted field. A miss is an
// empty slice, never an error.
func (s *Service) GetAllBy(ctx context.Context, field string, value any, limit, offset int) ([]models.PersonWithTypes, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.GetAllBy")
	defer span.End()

	if field == "" || value == nil || value == "" {
		return nil, peopleerr.New(peopleerr.CodeInvalidArgument, "lookup field and value are required")
	}

	metrics.PeopleQueriesTotal.WithLabelValues("get_all_by", "miss").Inc()
	return s.people.GetAllBy(ctx, field, value, limit, offset)
}

// Upsert creates or updates one record and returns its id. ID zero means
// create; dedup by email may instead reuse an existing record by adding the
// requested type to it.
func (s *Service) Upsert(ctx context.Context, req *models.InsertPeopleRequest) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.Upsert")
	defer span.End()

	if req.Fields == nil {
		req.Fields = map[string]any{}
	}

	var existing *models.PersonWithTypes
	if req.ID != 0 {
		found, err := s.people.GetBy(ctx, "id", req.ID)
		if err != nil {
			return 0, err
		}
		if found == nil {
			return 0, peopleerr.Newf(peopleerr.CodeInvalidArgument, "people record %d not found", req.ID)
		}
		existing = found
	}

	if existing == nil && req.Type == "" {
		return 0, peopleerr.New(peopleerr.CodeMissingType, "people type is required")
	}

	var typeRow *models.PeopleType
	if req.Type != "" {
		found, err := s.types.GetByName(ctx, req.Type)
		if err != nil {
			return 0, err
		}
		if found == nil {
			return 0, peopleerr.Newf(peopleerr.CodeUnknownType, "unknown people type %q", req.Type)
		}
		typeRow = found
	}

	// Caller fields win; the current row fills the gaps on update.
	fields := make(map[string]any, len(req.Fields))
	for key, value := range req.Fields {
		fields[key] = value
	}
	if existing != nil {
		for key, value := range personFieldMap(&existing.Person) {
			if _, ok := fields[key]; !ok {
				fields[key] = value
			}
		}
	}

	email := stringField(fields, "email")

	account, err := s.resolveAccount(ctx, fields, email)
	if err != nil {
		return 0, err
	}

	if typeRow != nil {
		if err := checkRequiredFields(typeRow.Name, fields, account != nil); err != nil {
			return 0, err
		}
	}

	if email != "" {
		if err := s.validate.Var(email, "email"); err != nil {
			return 0, peopleerr.Newf(peopleerr.CodeInvalidEmail, "invalid email address %q", email)
		}
	}

	var failures []error
	for _, hook := range s.hooks {
		if err := hook(ctx, req); err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return 0, peopleerr.NewValidationFailed(failures)
	}

	// Dedup by email on create: an existing record with the requested type
	// active is a conflict, one without it gets the type instead of a twin.
	if existing == nil && email != "" {
		match, err := s.people.GetBy(ctx, "email", email)
		if err != nil {
			return 0, err
		}
		if match != nil {
			rel, err := s.people.GetRelation(ctx, match.ID, typeRow.ID)
			if err != nil {
				return 0, err
			}
			if rel != nil && rel.DeletedAt == nil {
				return 0, peopleerr.Newf(peopleerr.CodeDuplicateEmailForType, "a %s with email %q already exists", typeRow.Name, email)
			}
			existing = match
		}
	}

	if existing == nil {
		return s.create(ctx, typeRow, account, fields, req.Fields)
	}
	return s.update(ctx, existing, typeRow, fields, req.Fields)
}

func (s *Service) resolveAccount(ctx context.Context, fields map[string]any, email string) (*accounts.Account, error) {
	if uid := intField(fields, "user_id"); uid != 0 {
		return s.accounts.FindByID(ctx, uid)
	}
	if email != "" {
		return s.accounts.FindByEmail(ctx, email)
	}
	return nil, nil
}

func (s *Service) create(ctx context.Context, typeRow *models.PeopleType, account *accounts.Account, fields, submitted map[string]any) (int64, error) {
	if account != nil {
		fields["user_id"] = account.ID
		if stringField(fields, "email") == "" {
			fields["email"] = account.Email
		}
		if stringField(fields, "website") == "" {
			fields["website"] = account.Website
		}
	}
	if _, ok := fields["created"]; !ok {
		fields["created"] = time.Now().UTC()
	}
	if intField(fields, "created_by") == 0 {
		fields["created_by"] = ferncontext.GetUserID(ctx)
	}

	id, err := s.people.Create(ctx, fields)
	if err != nil {
		metrics.PeopleWritesTotal.WithLabelValues("create", "error").Inc()
		return 0, peopleerr.Newf(peopleerr.CodeCreateFailed, "could not create people record: %v", err)
	}

	if err := s.people.AssignType(ctx, id, typeRow.ID); err != nil {
		return 0, err
	}

	userID := int64(0)
	if account != nil {
		userID = account.ID
	}
	if err := s.writeExtraFields(ctx, id, userID, submitted); err != nil {
		return 0, err
	}

	metrics.PeopleWritesTotal.WithLabelValues("create", "success").Inc()
	if err := s.emitter.EmitCreated(ctx, id, fields); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to emit people created event")
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"people_id": id,
		"type":      typeRow.Name,
	}).Info("created people record")
	return id, nil
}

func (s *Service) update(ctx context.Context, existing *models.PersonWithTypes, typeRow *models.PeopleType, fields, submitted map[string]any) (int64, error) {
	email := stringField(fields, "email")

	// Another record already holding this email under the same type wins.
	if email != "" && typeRow != nil {
		match, err := s.people.GetBy(ctx, "email", email)
		if err != nil {
			return 0, err
		}
		if match != nil && match.ID != existing.ID {
			rel, err := s.people.GetRelation(ctx, match.ID, typeRow.ID)
			if err != nil {
				return 0, err
			}
			if rel != nil && rel.DeletedAt == nil {
				return 0, peopleerr.Newf(peopleerr.CodeDuplicateEmailForType, "a %s with email %q already exists", typeRow.Name, email)
			}
		}
	}

	if existing.UserID != 0 {
		changes := map[string]string{}
		if email != "" && email != existing.Email {
			changes["email"] = email
		}
		if website := stringField(fields, "website"); website != "" && website != existing.Website {
			changes["website"] = website
		}
		if len(changes) > 0 {
			if _, err := s.accounts.Update(ctx, existing.UserID, changes); err != nil {
				metrics.PeopleWritesTotal.WithLabelValues("update", "error").Inc()
				return 0, peopleerr.Newf(peopleerr.CodeLinkedAccountUpdateFailed, "linked account update failed: %v", err)
			}
			if key, err := fingerprint.FromValue(existing.UserID); err == nil {
				if err := s.cache.Delete(ctx, key, lookupNamespace); err != nil {
					s.logger.WithContext(ctx).WithError(err).Warn("failed to evict people-by-account cache entry")
				}
			}
		}
	}

	current := personFieldMap(&existing.Person)
	mainChanges := map[string]any{}
	for key, value := range submitted {
		if !models.IsMainField(key) {
			continue
		}
		if fmt.Sprint(current[key]) != fmt.Sprint(value) {
			mainChanges[key] = value
		}
	}
	if len(mainChanges) > 0 {
		if err := s.people.UpdateFields(ctx, existing.ID, mainChanges); err != nil {
			metrics.PeopleWritesTotal.WithLabelValues("update", "error").Inc()
			return 0, err
		}
	}

	if typeRow != nil {
		rel, err := s.people.GetRelation(ctx, existing.ID, typeRow.ID)
		if err != nil {
			return 0, err
		}
		switch {
		case rel == nil:
			err = s.people.AssignType(ctx, existing.ID, typeRow.ID)
		case rel.DeletedAt != nil:
			err = s.people.RestoreType(ctx, existing.ID, typeRow.ID)
		}
		if err != nil {
			return 0, err
		}
	}

	if err := s.writeExtraFields(ctx, existing.ID, existing.UserID, submitted); err != nil {
		return 0, err
	}

	metrics.PeopleWritesTotal.WithLabelValues("update", "success").Inc()
	if err := s.emitter.EmitUpdated(ctx, existing.ID, fields); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to emit people updated event")
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"people_id": existing.ID,
	}).Info("updated people record")
	return existing.ID, nil
}

// writeExtraFields routes non-column fields into storage. For linked records
// the account's metadata is preferred; a field the provider rejects lands in
// the person's own metadata instead of failing the operation.
func (s *Service) writeExtraFields(ctx context.Context, peopleID, userID int64, submitted map[string]any) error {
	keys := make([]string, 0, len(submitted))
	for key := range submitted {
		if models.IsMainField(key) || key == "id" || key == "type" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := stringify(submitted[key])
		if userID != 0 {
			if err := s.accounts.SetMeta(ctx, userID, key, value); err == nil {
				continue
			} else {
				s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
					"people_id": peopleID,
					"meta_key":  key,
				}).Warn("linked account rejected field, storing locally")
			}
		}
		if err := s.meta.Update(ctx, peopleID, key, value, ""); err != nil {
			return err
		}
	}
	return nil
}

// Delete revokes one type membership per id. A hard delete removes the
// membership row and, once no active types remain, the record itself with
// its metadata.
func (s *Service) Delete(ctx context.Context, req *models.DeletePeopleRequest) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.Delete")
	defer span.End()

	typeRow, err := s.resolveLifecycleType(ctx, req)
	if err != nil {
		return err
	}

	for _, id := range req.IDs {
		if err := s.emitter.EmitBeforeDelete(ctx, id, typeRow.Name, req.Hard); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to emit before delete event")
		}

		if req.Hard {
			if err := s.people.RemoveType(ctx, id, typeRow.ID); err != nil {
				metrics.PeopleWritesTotal.WithLabelValues("delete", "error").Inc()
				return err
			}
			active, err := s.people.CountActiveTypes(ctx, id)
			if err != nil {
				return err
			}
			if active == 0 {
				if err := s.people.DeletePerson(ctx, id); err != nil {
					metrics.PeopleWritesTotal.WithLabelValues("delete", "error").Inc()
					return err
				}
			}
		} else {
			if err := s.people.SoftDeleteType(ctx, id, typeRow.ID); err != nil {
				metrics.PeopleWritesTotal.WithLabelValues("delete", "error").Inc()
				return err
			}
		}

		metrics.PeopleWritesTotal.WithLabelValues("delete", "success").Inc()
		if err := s.emitter.EmitAfterDelete(ctx, id, typeRow.Name, req.Hard); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to emit after delete event")
		}
	}
	return nil
}

// Restore clears the soft-delete marker on one type membership per id.
func (s *Service) Restore(ctx context.Context, req *models.DeletePeopleRequest) error {
	ctx, span := tracing.StartSpan(ctx, "PeopleService.Restore")
	defer span.End()

	typeRow, err := s.resolveLifecycleType(ctx, req)
	if err != nil {
		return err
	}

	for _, id := range req.IDs {
		if err := s.emitter.EmitBeforeRestore(ctx, id, typeRow.Name); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to emit before restore event")
		}

		if err := s.people.RestoreType(ctx, id, typeRow.ID); err != nil {
			metrics.PeopleWritesTotal.WithLabelValues("restore", "error").Inc()
			return err
		}

		metrics.PeopleWritesTotal.WithLabelValues("restore", "success").Inc()
		if err := s.emitter.EmitAfterRestore(ctx, id, typeRow.Name); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to emit after restore event")
		}
	}
	return nil
}

func (s *Service) resolveLifecycleType(ctx context.Context, req *models.DeletePeopleRequest) (*models.PeopleType, error) {
	if len(req.IDs) == 0 {
		return nil, peopleerr.New(peopleerr.CodeMissingIDs, "at least one people id is required")
	}
	if req.Type == "" {
		return nil, peopleerr.New(peopleerr.CodeMissingType, "people type is required")
	}

	typeRow, err := s.types.GetByName(ctx, req.Type)
	if err != nil {
		return nil, err
	}
	if typeRow == nil {
		return nil, peopleerr.Newf(peopleerr.CodeUnknownType, "unknown people type %q", req.Type)
	}
	return typeRow, nil
}

func (s *Service) AddMeta(ctx context.Context, peopleID int64, key, value string, unique bool) (int64, error) {
	return s.meta.Add(ctx, peopleID, key, value, unique)
}

func (s *Service) GetMeta(ctx context.Context, peopleID int64, key string) ([]string, error) {
	return s.meta.Get(ctx, peopleID, key)
}

func (s *Service) GetMetaSingle(ctx context.Context, peopleID int64, key string) (string, bool, error) {
	return s.meta.GetSingle(ctx, peopleID, key)
}

func (s *Service) UpdateMeta(ctx context.Context, peopleID int64, key, value, prevValue string) error {
	return s.meta.Update(ctx, peopleID, key, value, prevValue)
}

func (s *Service) DeleteMeta(ctx context.Context, peopleID int64, key, value string) error {
	return s.meta.Delete(ctx, peopleID, key, value)
}

// checkRequiredFields enforces the per-type minimum identity rules. A linked
// account stands in for a contact's own identifying fields.
func checkRequiredFields(typeName string, fields map[string]any, hasAccount bool) error {
	anyOf := func(keys ...string) bool {
		for _, key := range keys {
			if stringField(fields, key) != "" {
				return true
			}
		}
		return false
	}

	switch typeName {
	case models.TypeContact, models.TypeEmployee:
		if hasAccount {
			return nil
		}
		if !anyOf("first_name", "phone", "email") {
			return peopleerr.Newf(peopleerr.CodeMissingRequiredField, "a %s requires a first name, phone, or email", typeName)
		}
	case models.TypeCompany, models.TypeVendor:
		if !anyOf("company", "email", "phone") {
			return peopleerr.Newf(peopleerr.CodeMissingRequiredField, "a %s requires a company name, email, or phone", typeName)
		}
	}
	return nil
}

func personFieldMap(p *models.Person) map[string]any {
	return map[string]any{
		"user_id":     p.UserID,
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"company":     p.Company,
		"email":       p.Email,
		"phone":       p.Phone,
		"mobile":      p.Mobile,
		"other":       p.Other,
		"website":     p.Website,
		"fax":         p.Fax,
		"notes":       p.Notes,
		"street_1":    p.Street1,
		"street_2":    p.Street2,
		"city":        p.City,
		"state":       p.State,
		"postal_code": p.PostalCode,
		"country":     p.Country,
		"currency":    p.Currency,
		"created_by":  p.CreatedBy,
		"created":     p.Created,
	}
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func intField(fields map[string]any, key string) int64 {
	switch value := fields[key].(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case float64:
		return int64(value)
	case string:
		parsed, _ := strconv.ParseInt(value, 10, 64)
		return parsed
	default:
		return 0
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		if raw, err := json.Marshal(v); err == nil {
			return string(raw)
		}
		return fmt.Sprint(v)
	}
}
