package people

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	peopleservice "github.com/Ramsey-B/fern/internal/services/people"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/peopleerr"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Register registers people routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/count", Count)
	g.GET("/array", Array)
	g.GET("/lookup", Lookup)
	g.GET("/:id", Get)
	g.POST("", Create)
	g.PUT("/:id", Update)
	g.DELETE("", Delete)
	g.PUT("/restore", Restore)
	g.GET("/:id/meta/:key", GetMeta)
	g.POST("/:id/meta", AddMeta)
	g.PUT("/:id/meta/:key", UpdateMeta)
	g.DELETE("/:id/meta/:key", DeleteMeta)
}

func toHTTPError(err error, fallback string) error {
	var typed *peopleerr.Error
	if errors.As(err, &typed) {
		return typed.ToHTTPError()
	}
	return httperror.NewHTTPError(http.StatusInternalServerError, fallback)
}

func parseListRequest(c echo.Context) *models.ListPeopleRequest {
	req := &models.ListPeopleRequest{
		OrderBy: c.QueryParam("orderby"),
		Order:   c.QueryParam("order"),
		Trashed: c.QueryParam("trashed") == "true",
		Search:  c.QueryParam("s"),
	}
	if types := c.QueryParam("type"); types != "" {
		req.Types = strings.Split(types, ",")
	}
	req.Number, _ = strconv.Atoi(c.QueryParam("number"))
	req.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if key := c.QueryParam("meta_key"); key != "" {
		req.Meta = &models.MetaQuery{
			Key:     key,
			Value:   c.QueryParam("meta_value"),
			Compare: c.QueryParam("meta_compare"),
		}
	}
	req.Include = parseIDList(c.QueryParam("include"))
	req.Exclude = parseIDList(c.QueryParam("exclude"))
	return req
}

func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// List returns the matching people records with their type names
func List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.List")
	defer span.End()

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	peoples, err := service.List(ctx, parseListRequest(c))
	if err != nil {
		return toHTTPError(err, "failed to list people")
	}

	return c.JSON(http.StatusOK, map[string]any{"items": peoples})
}

// Count returns the number of records the same filters would list
func Count(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Count")
	defer span.End()

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	total, err := service.Count(ctx, parseListRequest(c))
	if err != nil {
		return toHTTPError(err, "failed to count people")
	}

	return c.JSON(http.StatusOK, map[string]any{"count": total})
}

// Array returns records in compact id/display-name form
func Array(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Array")
	defer span.End()

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	summaries, err := service.PeoplesArray(ctx, parseListRequest(c))
	if err != nil {
		return toHTTPError(err, "failed to list people")
	}

	return c.JSON(http.StatusOK, map[string]any{"items": summaries})
}

// Lookup fetches a single record by an allowlisted field/value pair
func Lookup(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Lookup")
	defer span.End()

	field := c.QueryParam("field")
	value := c.QueryParam("value")

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	person, err := service.GetBy(ctx, field, value)
	if err != nil {
		return toHTTPError(err, "failed to look up people record")
	}
	if person == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "people record not found")
	}

	return c.JSON(http.StatusOK, person)
}

// Get fetches a single record by id
func Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Get")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid people id")
	}

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	person, err := service.GetBy(ctx, "id", id)
	if err != nil {
		return toHTTPError(err, "failed to get people record")
	}
	if person == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "people record not found")
	}

	return c.JSON(http.StatusOK, person)
}

// Create runs the upsert flow for a new record
func Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Create")
	defer span.End()

	var req models.InsertPeopleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.ID = 0

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	id, err := service.Upsert(ctx, &req)
	if err != nil {
		return toHTTPError(err, "failed to create people record")
	}

	return c.JSON(http.StatusCreated, map[string]any{"id": id})
}

// Update runs the upsert flow against an existing record
func Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Update")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid people id")
	}

	var req models.InsertPeopleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.ID = id

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	updatedID, err := service.Upsert(ctx, &req)
	if err != nil {
		return toHTTPError(err, "failed to update people record")
	}

	return c.JSON(http.StatusOK, map[string]any{"id": updatedID})
}

// Delete revokes a type membership, optionally removing the record for good
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Delete")
	defer span.End()

	var req models.DeletePeopleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	if err := service.Delete(ctx, &req); err != nil {
		return toHTTPError(err, "failed to delete people records")
	}

	return c.NoContent(http.StatusNoContent)
}

// Restore clears the soft-delete marker on a type membership
func Restore(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.Restore")
	defer span.End()

	var req models.DeletePeopleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	if err := service.Restore(ctx, &req); err != nil {
		return toHTTPError(err, "failed to restore people records")
	}

	return c.NoContent(http.StatusNoContent)
}

type metaRequest struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	PrevValue string `json:"prev_value"`
	Unique    bool   `json:"unique"`
}

// GetMeta returns the values stored under a key, or the first with ?single=true
func GetMeta(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.GetMeta")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid people id")
	}
	key := c.Param("key")

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	if c.QueryParam("single") == "true" {
		value, ok, err := service.GetMetaSingle(ctx, id, key)
		if err != nil {
			return toHTTPError(err, "failed to get people meta")
		}
		if !ok {
			return httperror.NewHTTPError(http.StatusNotFound, "people meta not found")
		}
		return c.JSON(http.StatusOK, map[string]any{"value": value})
	}

	values, err := service.GetMeta(ctx, id, key)
	if err != nil {
		return toHTTPError(err, "failed to get people meta")
	}
	return c.JSON(http.StatusOK, map[string]any{"values": values})
}

// AddMeta appends a key/value pair
func AddMeta(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.AddMeta")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid people id")
	}

	var req metaRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Key == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "meta key is required")
	}

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	metaID, err := service.AddMeta(ctx, id, req.Key, req.Value, req.Unique)
	if err != nil {
		return toHTTPError(err, "failed to add people meta")
	}
	if metaID == 0 {
		return httperror.NewHTTPError(http.StatusConflict, "people meta key already exists")
	}

	return c.JSON(http.StatusCreated, map[string]any{"id": metaID})
}

// UpdateMeta upserts the value for a key
func UpdateMeta(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.UpdateMeta")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid people id")
	}
	key := c.Param("key")

	var req metaRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	if err := service.UpdateMeta(ctx, id, key, req.Value, req.PrevValue); err != nil {
		return toHTTPError(err, "failed to update people meta")
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteMeta removes the rows for a key, optionally only a matching value
func DeleteMeta(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "people_handler.DeleteMeta")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid people id")
	}
	key := c.Param("key")

	ctx, service, err := ectoinject.GetContext[*peopleservice.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get people service")
	}

	if err := service.DeleteMeta(ctx, id, key, c.QueryParam("value")); err != nil {
		return toHTTPError(err, "failed to delete people meta")
	}

	return c.NoContent(http.StatusNoContent)
}
