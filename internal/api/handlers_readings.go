package api

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/healthlog/internal/apperrors"
	"github.com/terraincognita07/healthlog/internal/models"
	"github.com/terraincognita07/healthlog/internal/services"
)

const displayTimeLayout = "15:04"

var errInvalidID = apperrors.NewValidationError("id", "invalid_id", "record id must be a positive integer")

type readingService[T services.Reading, In any] interface {
	Create(ctx context.Context, userID uint, input In) (T, error)
	Update(ctx context.Context, userID uint, id uint, input In) (T, error)
	Delete(ctx context.Context, userID uint, id uint) error
	List(ctx context.Context, userID uint, limit int, offset int) (services.Page[T], error)
	Location() *time.Location
}

// readingEndpoint serves create, list, update and delete for one reading kind.
type readingEndpoint[T services.Reading, In any] struct {
	handler *Handler
	service readingService[T, In]
	schema  string
	decode  func(body []byte) (In, error)
	present func(record T, location *time.Location) any
}

type readingPage struct {
	Records []any `json:"records"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func (endpoint readingEndpoint[T, In]) create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return endpoint.handler.respondError(c, apperrors.ErrUnauthorized)
	}
	input, err := endpoint.parseBody(c)
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}

	record, err := endpoint.service.Create(c.UserContext(), userID, input)
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(endpoint.present(record, endpoint.service.Location()))
}

func (endpoint readingEndpoint[T, In]) list(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return endpoint.handler.respondError(c, apperrors.ErrUnauthorized)
	}

	page, err := endpoint.service.List(c.UserContext(), userID, c.QueryInt("limit", services.DefaultPageLimit), c.QueryInt("offset", 0))
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}

	response := readingPage{
		Records: make([]any, 0, len(page.Records)),
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}
	for _, record := range page.Records {
		response.Records = append(response.Records, endpoint.present(record, endpoint.service.Location()))
	}
	return c.JSON(response)
}

func (endpoint readingEndpoint[T, In]) update(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return endpoint.handler.respondError(c, apperrors.ErrUnauthorized)
	}
	id, err := recordIDParam(c)
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}
	input, err := endpoint.parseBody(c)
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}

	record, err := endpoint.service.Update(c.UserContext(), userID, id, input)
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}
	return c.JSON(endpoint.present(record, endpoint.service.Location()))
}

func (endpoint readingEndpoint[T, In]) delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return endpoint.handler.respondError(c, apperrors.ErrUnauthorized)
	}
	id, err := recordIDParam(c)
	if err != nil {
		return endpoint.handler.respondError(c, err)
	}

	if err := endpoint.service.Delete(c.UserContext(), userID, id); err != nil {
		return endpoint.handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (endpoint readingEndpoint[T, In]) parseBody(c *fiber.Ctx) (In, error) {
	var zero In
	body := c.Body()
	if err := endpoint.handler.schemas.validate(endpoint.schema, body); err != nil {
		return zero, err
	}
	return endpoint.decode(body)
}

func recordIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

type pressureRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Pulse     *int   `json:"pulse"`
	TimeOfDay string `json:"time_of_day"`
	Notes     string `json:"notes"`
}

func decodePressureRequest(body []byte) (services.PressureInput, error) {
	var request pressureRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return services.PressureInput{}, errInvalidPayload
	}
	return services.PressureInput{
		Date:      strings.TrimSpace(request.Date),
		Time:      strings.TrimSpace(request.Time),
		Systolic:  request.Systolic,
		Diastolic: request.Diastolic,
		Pulse:     request.Pulse,
		TimeOfDay: request.TimeOfDay,
		Notes:     request.Notes,
	}, nil
}

type sugarRequest struct {
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Value     json.RawMessage `json:"value"`
	Unit      string          `json:"unit"`
	TimeOfDay string          `json:"time_of_day"`
	Notes     string          `json:"notes"`
}

// decodeSugarRequest accepts the value as a JSON number or string and hands
// its text to the sugar parser, so 12.5 fails the same way "12.5" does.
func decodeSugarRequest(body []byte) (services.SugarInput, error) {
	var request sugarRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return services.SugarInput{}, errInvalidPayload
	}

	value := strings.TrimSpace(string(request.Value))
	if strings.HasPrefix(value, `"`) {
		if err := json.Unmarshal(request.Value, &value); err != nil {
			return services.SugarInput{}, errInvalidPayload
		}
	}

	return services.SugarInput{
		Date:      strings.TrimSpace(request.Date),
		Time:      strings.TrimSpace(request.Time),
		Value:     strings.TrimSpace(value),
		Unit:      strings.TrimSpace(request.Unit),
		TimeOfDay: request.TimeOfDay,
		Notes:     request.Notes,
	}, nil
}

type pressureResponse struct {
	models.BloodPressureRecord
	DisplayDate string `json:"display_date"`
	DisplayTime string `json:"display_time"`
}

func presentPressure(record models.BloodPressureRecord, location *time.Location) any {
	return pressureResponse{
		BloodPressureRecord: record,
		DisplayDate:         services.ToDisplayDate(record.RecordedAt, location),
		DisplayTime:         record.RecordedAt.In(location).Format(displayTimeLayout),
	}
}

type sugarResponse struct {
	models.BloodSugarRecord
	DisplayDate string `json:"display_date"`
	DisplayTime string `json:"display_time"`
}

func presentSugar(record models.BloodSugarRecord, location *time.Location) any {
	return sugarResponse{
		BloodSugarRecord: record,
		DisplayDate:      services.ToDisplayDate(record.RecordedAt, location),
		DisplayTime:      record.RecordedAt.In(location).Format(displayTimeLayout),
	}
}
