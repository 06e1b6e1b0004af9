package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"beanbags/internal/domain"
	"beanbags/internal/dto"
	apperrors "beanbags/internal/errors"
	"beanbags/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var snapshotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type BeanBagStore interface {
	AddBeanBags(num int, manufacturer, name, id string, year int, month int) error
	AddBeanBagsWithInformation(num int, manufacturer, name, id string, year int, month int, information string) error
	SetBeanBagPrice(id string, priceInPence int64) error
	SellBeanBags(num int, id string) error
	SellReservation(reservationID int64) error
	ReserveBeanBags(num int, id string) (int64, error)
	UnreserveBeanBags(reservationID int64) error
	Replace(oldID, newID string) error
	Empty()
	ResetSaleAndCostTracking()
	SaveStoreContents(ctx context.Context, name string) error
	LoadStoreContents(ctx context.Context, name string) error

	BeanBagsInStock() int
	ReservedBeanBagsInStock() int
	NumberOfDifferentBeanBagsInStock() int
	NumberOfSoldBeanBags() int
	TotalPriceOfSoldBeanBags() int64
	TotalPriceOfReservedBeanBags() int64
	BeanBagDetails(id string) (string, error)
	Lookup(id string) (*domain.BeanBag, bool)
	BeanBags() []*domain.BeanBag
}

type Recorder interface {
	Sold(quantity int)
	Reservation(event string)
	Failure(operation string, err error)
}

type Controller struct {
	store   BeanBagStore
	metrics Recorder
	logger  *zap.Logger
}

func NewController(store BeanBagStore, metrics Recorder, logger *zap.Logger) *Controller {
	return &Controller{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Controller) AddBeanBags(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Decode request body
	var req dto.AddBeanBagsRequest
	if !c.decode(w, r, logger, &req) {
		return
	}

	// Validate request
	if validationErr := validateAddRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	// Call store
	var err error
	if req.Information != nil {
		err = c.store.AddBeanBagsWithInformation(*req.Quantity, req.Manufacturer, req.Name, req.ID, req.Year, req.Month, *req.Information)
	} else {
		err = c.store.AddBeanBags(*req.Quantity, req.Manufacturer, req.Name, req.ID, req.Year, req.Month)
	}
	if err != nil {
		c.handleStoreError(w, traceID, "add", err, logger)
		return
	}

	logger.Info("bean bags added", zap.String("beanBagId", req.ID), zap.Int("quantity", *req.Quantity))

	// Write response
	c.writeBeanBag(w, traceID, http.StatusCreated, req.ID, logger)
}

func (c *Controller) ListBeanBags(w http.ResponseWriter, r *http.Request) {
	traceID, _ := c.trace()

	bags := c.store.BeanBags()
	resp := dto.BeanBagListResponse{
		TraceID:  traceID,
		BeanBags: make([]dto.BeanBagResponse, 0, len(bags)),
	}
	for _, bag := range bags {
		resp.BeanBags = append(resp.BeanBags, dto.NewBeanBagResponse(bag))
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) GetBeanBag(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse id from path
	id := chi.URLParam(r, "id")

	details, err := c.store.BeanBagDetails(id)
	if err != nil {
		c.handleStoreError(w, traceID, "details", err, logger)
		return
	}

	bag, ok := c.store.Lookup(id)
	if !ok {
		c.handleStoreError(w, traceID, "details",
			apperrors.NewStoreError(apperrors.KindIdentifierNotFound, "bean bag id "+id+" not recognised"), logger)
		return
	}

	resp := dto.NewBeanBagResponse(bag)
	resp.Details = details
	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) SetPrice(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse id from path
	id := chi.URLParam(r, "id")

	// Decode request body
	var req dto.SetPriceRequest
	if !c.decode(w, r, logger, &req) {
		return
	}

	// Validate request
	if validationErr := validatePriceRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	// Call store
	if err := c.store.SetBeanBagPrice(id, *req.PriceInPence); err != nil {
		c.handleStoreError(w, traceID, "set_price", err, logger)
		return
	}

	c.writeBeanBag(w, traceID, http.StatusOK, id, logger)
}

func (c *Controller) SellBeanBags(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse id from path
	id := chi.URLParam(r, "id")

	// Decode and validate request body
	quantity, ok := c.decodeQuantity(w, r, logger)
	if !ok {
		return
	}

	// Call store
	if err := c.store.SellBeanBags(quantity, id); err != nil {
		c.handleStoreError(w, traceID, "sell", err, logger)
		return
	}

	c.metrics.Sold(quantity)
	logger.Info("bean bags sold", zap.String("beanBagId", id), zap.Int("quantity", quantity))
	c.writeBeanBag(w, traceID, http.StatusOK, id, logger)
}

func (c *Controller) ReserveBeanBags(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse id from path
	id := chi.URLParam(r, "id")

	// Decode and validate request body
	quantity, ok := c.decodeQuantity(w, r, logger)
	if !ok {
		return
	}

	// Call store
	reservationID, err := c.store.ReserveBeanBags(quantity, id)
	if err != nil {
		c.handleStoreError(w, traceID, "reserve", err, logger)
		return
	}

	c.metrics.Reservation(metrics.ReservationCreated)
	logger.Info("bean bags reserved", zap.String("beanBagId", id), zap.Int64("reservationId", reservationID))

	// Write response
	c.writeJSON(w, http.StatusCreated, dto.ReservationResponse{
		TraceID:       traceID,
		ReservationID: reservationID,
		BeanBagID:     id,
		Quantity:      quantity,
	})
}

func (c *Controller) ReplaceID(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse id from path
	id := chi.URLParam(r, "id")

	// Decode request body
	var req dto.ReplaceRequest
	if !c.decode(w, r, logger, &req) {
		return
	}

	// Call store
	if err := c.store.Replace(id, req.NewID); err != nil {
		c.handleStoreError(w, traceID, "replace", err, logger)
		return
	}

	c.writeBeanBag(w, traceID, http.StatusOK, req.NewID, logger)
}

func (c *Controller) SellReservation(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse reservationId from path
	reservationID, ok := c.reservationID(w, r, logger)
	if !ok {
		return
	}

	// Call store
	if err := c.store.SellReservation(reservationID); err != nil {
		c.handleStoreError(w, traceID, "sell_reservation", err, logger)
		return
	}

	c.metrics.Reservation(metrics.ReservationSold)
	logger.Info("reservation sold", zap.Int64("reservationId", reservationID))
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) CancelReservation(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse reservationId from path
	reservationID, ok := c.reservationID(w, r, logger)
	if !ok {
		return
	}

	// Call store
	if err := c.store.UnreserveBeanBags(reservationID); err != nil {
		c.handleStoreError(w, traceID, "unreserve", err, logger)
		return
	}

	c.metrics.Reservation(metrics.ReservationCancelled)
	logger.Info("reservation cancelled", zap.Int64("reservationId", reservationID))
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	traceID, _ := c.trace()

	sold := c.store.TotalPriceOfSoldBeanBags()
	reserved := c.store.TotalPriceOfReservedBeanBags()

	c.writeJSON(w, http.StatusOK, dto.StatsResponse{
		TraceID:              traceID,
		BeanBagsInStock:      c.store.BeanBagsInStock(),
		ReservedBeanBags:     c.store.ReservedBeanBagsInStock(),
		DifferentBeanBags:    c.store.NumberOfDifferentBeanBagsInStock(),
		SoldBeanBags:         c.store.NumberOfSoldBeanBags(),
		SoldValueInPence:     sold,
		SoldValue:            dto.Pounds(sold),
		ReservedValueInPence: reserved,
		ReservedValue:        dto.Pounds(reserved),
	})
}

func (c *Controller) EmptyStore(w http.ResponseWriter, r *http.Request) {
	_, logger := c.trace()

	c.store.Empty()

	logger.Info("store emptied")
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) ResetSales(w http.ResponseWriter, r *http.Request) {
	_, logger := c.trace()

	c.store.ResetSaleAndCostTracking()

	logger.Info("sales tracking reset")
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse snapshot name from path
	name, ok := c.snapshotName(w, r)
	if !ok {
		return
	}

	// Call store
	if err := c.store.SaveStoreContents(r.Context(), name); err != nil {
		c.handleStoreError(w, traceID, "save", err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()

	// Parse snapshot name from path
	name, ok := c.snapshotName(w, r)
	if !ok {
		return
	}

	// Call store
	if err := c.store.LoadStoreContents(r.Context(), name); err != nil {
		c.handleStoreError(w, traceID, "load", err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) trace() (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, c.logger.With(zap.String("traceId", traceID))
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func (c *Controller) decodeQuantity(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	var req dto.QuantityRequest
	if !c.decode(w, r, logger, &req) {
		return 0, false
	}
	if validationErr := validateQuantityRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return 0, false
	}
	return *req.Quantity, true
}

// Only presence is checked here; ranges, months and identifiers are the store's to reject.
func validateAddRequest(req dto.AddBeanBagsRequest) error {
	var details []apperrors.ValidationDetail

	if req.ID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "id",
			Message: "id is required",
		})
	}

	if req.Quantity == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity is required",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func validatePriceRequest(req dto.SetPriceRequest) error {
	if req.PriceInPence == nil {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "priceInPence",
			Message: "priceInPence is required",
		})
	}
	return nil
}

func validateQuantityRequest(req dto.QuantityRequest) error {
	if req.Quantity == nil {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity is required",
		})
	}
	return nil
}

func (c *Controller) reservationID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	raw := chi.URLParam(r, "reservationId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("invalid reservationId in path", zap.String("reservationId", raw), zap.Error(err))
		c.writeValidationError(w, "invalid reservationId", apperrors.ValidationDetail{
			Field:   "reservationId",
			Message: "reservationId must be an integer",
		})
		return 0, false
	}
	return id, true
}

func (c *Controller) snapshotName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if !snapshotNamePattern.MatchString(name) {
		c.writeValidationError(w, "invalid snapshot name", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must be 1-64 letters, digits, '-' or '_'",
		})
		return "", false
	}
	return name, true
}

func (c *Controller) writeBeanBag(w http.ResponseWriter, traceID string, status int, id string, logger *zap.Logger) {
	bag, ok := c.store.Lookup(id)
	if !ok {
		// Another request removed the model between the mutation and the read.
		logger.Warn("bean bag vanished after update", zap.String("beanBagId", id))
		c.writeErrorResponse(w, traceID, http.StatusNotFound, string(apperrors.KindIdentifierNotFound), "bean bag id "+id+" not recognised")
		return
	}
	c.writeJSON(w, status, dto.NewBeanBagResponse(bag))
}

func (c *Controller) handleStoreError(w http.ResponseWriter, traceID, operation string, err error, logger *zap.Logger) {
	c.metrics.Failure(operation, err)

	kind, ok := apperrors.KindOf(err)
	if !ok {
		logger.Error("unexpected error", zap.String("operation", operation), zap.Error(err))
		c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}

	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		c.writeErrorResponse(w, traceID, status, string(kind), "snapshot storage failed")
		return
	}

	logger.Info("store operation rejected", zap.String("operation", operation), zap.String("kind", string(kind)))
	c.writeErrorResponse(w, traceID, status, string(kind), err.Error())
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindIllegalQuantity,
		apperrors.KindIllegalIdentifier,
		apperrors.KindInvalidMonth,
		apperrors.KindInvalidPrice,
		apperrors.KindIllegalReservedQuantity:
		return http.StatusBadRequest
	case apperrors.KindIdentifierNotFound, apperrors.KindReservationNotFound:
		return http.StatusNotFound
	case apperrors.KindMismatch,
		apperrors.KindNotInStock,
		apperrors.KindInsufficientStock,
		apperrors.KindPriceNotSet:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
