// Package http exposes the order management use cases over a REST API.
// Handlers translate between wire DTOs and application commands; all
// business decisions stay in the use case layer.
package http

import (
	"errors"
	"net/http"

	"ordercore/internal/core/application/usecases/commands"
	"ordercore/internal/core/application/usecases/queries"
	"ordercore/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	routeOrderHandler        commands.RouteOrderCommandHandler
	recordFulfillmentHandler commands.RecordFulfillmentCommandHandler
	createOrderEditHandler   commands.CreateOrderEditCommandHandler
	stageEditChangeHandler   commands.StageEditChangeCommandHandler
	commitOrderEditHandler   commands.CommitOrderEditCommandHandler
	discardOrderEditHandler  commands.DiscardOrderEditCommandHandler
	createRefundHandler      commands.CreateRefundCommandHandler
	cancelOrderHandler       commands.CancelOrderCommandHandler
	upsertTaxSettingHandler  commands.UpsertTaxSettingCommandHandler

	// Query handlers
	getOrderHandler             queries.GetOrderQueryHandler
	getUnfulfilledOrdersHandler queries.GetUnfulfilledOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	routeOrderHandler commands.RouteOrderCommandHandler,
	recordFulfillmentHandler commands.RecordFulfillmentCommandHandler,
	createOrderEditHandler commands.CreateOrderEditCommandHandler,
	stageEditChangeHandler commands.StageEditChangeCommandHandler,
	commitOrderEditHandler commands.CommitOrderEditCommandHandler,
	discardOrderEditHandler commands.DiscardOrderEditCommandHandler,
	createRefundHandler commands.CreateRefundCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	upsertTaxSettingHandler commands.UpsertTaxSettingCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getUnfulfilledOrdersHandler queries.GetUnfulfilledOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		routeOrderHandler:           routeOrderHandler,
		recordFulfillmentHandler:    recordFulfillmentHandler,
		createOrderEditHandler:      createOrderEditHandler,
		stageEditChangeHandler:      stageEditChangeHandler,
		commitOrderEditHandler:      commitOrderEditHandler,
		discardOrderEditHandler:     discardOrderEditHandler,
		createRefundHandler:         createRefundHandler,
		cancelOrderHandler:          cancelOrderHandler,
		upsertTaxSettingHandler:     upsertTaxSettingHandler,
		getOrderHandler:             getOrderHandler,
		getUnfulfilledOrdersHandler: getUnfulfilledOrdersHandler,
	}
}

// RegisterRoutes mounts every endpoint on the given echo instance. All
// resource routes are store scoped.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1/stores/:storeId")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/unfulfilled", s.GetUnfulfilledOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/route", s.RouteOrder)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/edits", s.CreateOrderEdit)
	api.POST("/orders/:orderId/refunds", s.CreateRefund)
	api.POST("/edits/:editId/changes", s.StageEditChange)
	api.POST("/edits/:editId/commit", s.CommitOrderEdit)
	api.POST("/edits/:editId/discard", s.DiscardOrderEdit)
	api.POST("/fulfillment-orders/:fulfillmentOrderId/fulfillments", s.RecordFulfillment)
	api.PUT("/tax-settings", s.UpsertTaxSetting)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/stores/:storeId/orders - creates a new
// order with its line items and shipping charges.
func (s *Server) CreateOrder(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var request CreateOrderDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := request.toCommand(storeID)
	if err != nil {
		return badRequest(ctx, err)
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedDTO{ID: orderID.Int64()})
}

// GetOrder handles GET /api/v1/stores/:storeId/orders/:orderId - retrieves
// one order with its lines.
func (s *Server) GetOrder(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	orderID, err := parsePathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(storeID, orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrderDTO(response))
}

// GetUnfulfilledOrders handles GET /api/v1/stores/:storeId/orders/unfulfilled
// - lists open orders that still have units to fulfill.
func (s *Server) GetUnfulfilledOrders(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetUnfulfilledOrdersQuery(storeID)
	if err != nil {
		return badRequest(ctx, err)
	}

	responses, err := s.getUnfulfilledOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrderSummaryDTOs(responses))
}

// RouteOrder handles POST /api/v1/stores/:storeId/orders/:orderId/route -
// splits the order's unfulfilled units into fulfillment orders per location.
func (s *Server) RouteOrder(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	orderID, err := parsePathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var request RouteOrderDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := request.toCommand(storeID, orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.routeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, newRouteOrderResultDTO(result))
}

// RecordFulfillment handles POST
// /api/v1/stores/:storeId/fulfillment-orders/:fulfillmentOrderId/fulfillments
// - records shipped units against a fulfillment order. Retries with the same
// idempotency key return 409 without shipping twice.
func (s *Server) RecordFulfillment(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	fulfillmentOrderID, err := parsePathID(ctx, "fulfillmentOrderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var request RecordFulfillmentDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	idempotencyKey := ctx.Request().Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = request.IdempotencyKey
	}

	cmd, err := request.toCommand(storeID, fulfillmentOrderID, idempotencyKey)
	if err != nil {
		return badRequest(ctx, err)
	}

	fulfillmentID, err := s.recordFulfillmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedDTO{ID: fulfillmentID.Int64()})
}

// CreateOrderEdit handles POST /api/v1/stores/:storeId/orders/:orderId/edits
// - opens an edit session on the order.
func (s *Server) CreateOrderEdit(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	orderID, err := parsePathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCreateOrderEditCommand(storeID, orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	editID, err := s.createOrderEditHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedDTO{ID: editID.Int64()})
}

// StageEditChange handles POST /api/v1/stores/:storeId/edits/:editId/changes
// - stages one change on an open edit session.
func (s *Server) StageEditChange(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	editID, err := parsePathID(ctx, "editId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var request EditChangeDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	change, err := request.toChange()
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewStageEditChangeCommand(storeID, editID, change)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.stageEditChangeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return handlerError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CommitOrderEdit handles POST /api/v1/stores/:storeId/edits/:editId/commit
// - applies every staged change to the order atomically.
func (s *Server) CommitOrderEdit(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	editID, err := parsePathID(ctx, "editId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCommitOrderEditCommand(storeID, editID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.commitOrderEditHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return handlerError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DiscardOrderEdit handles POST /api/v1/stores/:storeId/edits/:editId/discard
// - abandons the edit session; the order is untouched.
func (s *Server) DiscardOrderEdit(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	editID, err := parsePathID(ctx, "editId")
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewDiscardOrderEditCommand(storeID, editID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.discardOrderEditHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return handlerError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateRefund handles POST /api/v1/stores/:storeId/orders/:orderId/refunds
// - refunds line quantities, the shipping charge, or both.
func (s *Server) CreateRefund(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	orderID, err := parsePathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var request CreateRefundDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := request.toCommand(storeID, orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	refundID, err := s.createRefundHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedDTO{ID: refundID.Int64()})
}

// CancelOrder handles POST /api/v1/stores/:storeId/orders/:orderId/cancel -
// cancels the order and closes its open fulfillment orders.
func (s *Server) CancelOrder(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	orderID, err := parsePathID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, err)
	}

	var request CancelOrderDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(storeID, orderID, request.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return handlerError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpsertTaxSetting handles PUT /api/v1/stores/:storeId/tax-settings -
// creates or replaces the store's tax configuration.
func (s *Server) UpsertTaxSetting(ctx echo.Context) error {
	storeID, err := parseStoreID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var request UpsertTaxSettingDTO
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := request.toCommand(storeID)
	if err != nil {
		return badRequest(ctx, err)
	}

	settingID, err := s.upsertTaxSettingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handlerError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CreatedDTO{ID: settingID.Int64()})
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorDTO{
		Code:    http.StatusBadRequest,
		Message: "Invalid request: " + err.Error(),
	})
}

// handlerError maps use case failures to HTTP statuses. Unrecognized errors
// become 500 without leaking internals.
func handlerError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	var conflict *errs.ConflictError
	var ruleViolation *errs.DomainRuleViolationError

	switch {
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, ErrorDTO{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.As(err, &conflict):
		return ctx.JSON(http.StatusConflict, ErrorDTO{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.As(err, &ruleViolation):
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorDTO{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorDTO{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
