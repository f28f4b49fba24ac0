package fiber

import (
	"context"
	"errors"
	"net/http"

	"market-insights-service/internal/records/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type StoreRecordUseCase interface {
	Execute(ctx context.Context, in usecase.StoreRecordInput) (bool, error)
	BulkStore(ctx context.Context, in usecase.BulkStoreRecordsInput) (usecase.BulkStoreRecordsResult, error)
}

type RecordHandler struct {
	storeUC StoreRecordUseCase
}

func NewRecordHandler(storeUC StoreRecordUseCase) *RecordHandler {
	return &RecordHandler{storeUC: storeUC}
}

// Register mounts the record routes.
func (h *RecordHandler) Register(r fiber.Router) {
	r.Post("/records", h.CreateRecord)
	r.Post("/records/bulk", h.BulkCreateRecords)
}

func toInput(req CreateRecordRequest) usecase.StoreRecordInput {
	return usecase.StoreRecordInput{
		Timestamp:  req.Timestamp,
		Count:      req.Count,
		Attributes: req.Attributes,
		Values:     req.Values,
	}
}

// CreateRecord godoc
// @Summary Store a market record
// @Description Stores a single usage, error or response-time record with idempotency handling
// @Tags Records
// @Accept json
// @Produce json
// @Param request body CreateRecordRequest true "Record payload"
// @Success 201 {object} CreateRecordResponse
// @Success 200 {object} CreateRecordResponse "Duplicate record"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records [post]
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	var req CreateRecordRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	created, err := h.storeUC.Execute(c.UserContext(), toInput(req))
	if err != nil {
		return writeStoreError(c, err)
	}

	if !created {
		return c.Status(http.StatusOK).JSON(CreateRecordResponse{Status: "duplicate"})
	}

	return c.Status(http.StatusCreated).JSON(CreateRecordResponse{Status: "created"})
}

// BulkCreateRecords godoc
// @Summary Bulk store market records
// @Description Validates every record first, then stores them individually
// @Tags Records
// @Accept json
// @Produce json
// @Param request body BulkCreateRecordsRequest true "Bulk record payload"
// @Success 201 {object} BulkCreateRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/bulk [post]
func (h *RecordHandler) BulkCreateRecords(c *fiber.Ctx) error {
	var req BulkCreateRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Records) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "records_list_required",
		})
	}

	inputs := make([]usecase.StoreRecordInput, len(req.Records))
	for i, r := range req.Records {
		inputs[i] = toInput(r)
	}

	result, err := h.storeUC.BulkStore(c.UserContext(), usecase.BulkStoreRecordsInput{Records: inputs})
	if err != nil {
		return writeStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(BulkCreateRecordsResponse{
		Created:    result.Created,
		Duplicates: result.Duplicates,
	})
}

func writeStoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRecord),
		errors.Is(err, usecase.ErrFutureTime):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_record",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
