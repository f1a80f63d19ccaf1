package floor

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pochaclub/pocha/pkg"
)

const MaxBodyBytes = 1 << 20

const floorEventSource = "floor-service"

type Handler struct {
	engine     *Engine
	logger     apt.Logger
	config     *apt.Config
	tlm        *telemetry.HTTP
	publisher  events.Publisher
	adminToken string
}

func NewHandler(engine *Engine, logger apt.Logger, config *apt.Config, publisher events.Publisher, adminToken string) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		engine:     engine,
		logger:     logger,
		config:     config,
		tlm:        telemetry.NewHTTP(),
		publisher:  publisher,
		adminToken: adminToken,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)

		r.Post("/{id}/enter", h.EnterTable)
		r.Post("/{id}/exit", h.ExitTable)
		r.Post("/{id}/favorite", h.ToggleFavorite)
		r.Post("/{id}/time", h.AdjustTime)
		r.Post("/{id}/combine", h.CombineTables)
		r.Post("/{id}/move", h.MoveTable)

		r.Post("/{id}/orders", h.CreateOrder)
		r.Post("/{id}/orders/cancel", h.CancelOrderGroup)
		r.Post("/{id}/orders/{orderID}/serve", h.ServeOrder)
		r.Post("/{id}/orders/{orderID}/cancel", h.CancelOrder)
	})

	r.Route("/floor", func(r chi.Router) {
		r.Get("/summary", h.PendingSummary)
		r.Get("/queue", h.ServiceQueue)
	})

	r.Get("/menu", h.ListMenu)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)

		r.Post("/menu", h.CreateMenuItem)
		r.Patch("/menu/{menuID}", h.UpdateMenuItem)
		r.Delete("/menu/{menuID}", h.DeleteMenuItem)

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", h.GetInsights)
			r.Get("/report", h.DownloadSalesReport)
			r.Post("/close", h.CloseBusiness)
		})
	})
}

// requireAdmin guards insights and menu management behind a shared token.
// The engine itself holds no authentication; this is the collaborator seam
// the access-control service plugs into.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			apt.RespondError(w, http.StatusForbidden, "Admin access is not configured")
			return
		}
		token := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			apt.RespondError(w, http.StatusForbidden, "Admin access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Table handlers

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	tables := h.engine.Tables()

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]*Table, 0, len(tables))
		for _, t := range tables {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		tables = filtered
	}

	apt.RespondCollection(w, tables, "table")
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.engine.Table(id)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) EnterTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.EnterTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	table, applied, err := h.engine.Enter(id)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	if applied {
		h.publishTableStatus(ctx, table, TableAvailable, "enter")
	} else {
		log.Debug("enter ignored, table not available", "table_id", id, "status", table.Status)
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) ExitTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ExitTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	previous, err := h.engine.Table(id)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	table, applied, err := h.engine.Exit(id)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	if applied {
		h.publishTableStatus(ctx, table, previous.Status, "exit")
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleFavorite")
	defer finish()

	log := h.log(r)

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	table, _, err := h.engine.ToggleFavorite(id)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) AdjustTime(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdjustTime")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	var req TimeAdjustRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateTimeAdjust(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	previous, err := h.engine.Table(id)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	table, applied, err := h.engine.AdjustTime(id, req.DeltaMinutes)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	if applied && table.Status != previous.Status {
		reason := "expired"
		if table.Status == TableInUse {
			reason = "revived"
		}
		h.publishTableStatus(ctx, table, previous.Status, reason)
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) CombineTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CombineTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	var req CombineRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateCombine(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	table, err := h.engine.Combine(id, req.TargetID)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	h.publishTableStatus(ctx, table, "", "combine")
	if freed, ferr := h.engine.Table(req.TargetID); ferr == nil {
		h.publishTableStatus(ctx, freed, "", "combine")
	}

	apt.RespondSuccess(w, table)
}

func (h *Handler) MoveTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MoveTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	var req MoveRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateMove(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	table, err := h.engine.Move(id, req.TargetID)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	h.publishTableStatus(ctx, table, TableAvailable, "move")
	if freed, ferr := h.engine.Table(id); ferr == nil {
		h.publishTableStatus(ctx, freed, "", "move")
	}

	apt.RespondSuccess(w, table)
}

// Order handlers

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	var req OrderCreateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateOrderCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	order, err := h.engine.AddOrder(id, req.MenuID, req.Quantity)
	if err != nil {
		h.respondEngineError(w, log, err, "order", id)
		return
	}

	h.publishOrderStatus(ctx, id, order)

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order)
}

func (h *Handler) ServeOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ServeOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}
	orderID, ok := h.parseOrderIDParam(w, r, log)
	if !ok {
		return
	}

	order, applied, err := h.engine.MarkServed(id, orderID)
	if err != nil {
		h.respondEngineError(w, log, err, "order", id)
		return
	}

	if applied {
		h.publishOrderStatus(ctx, id, order)
	} else {
		log.Debug("serve ignored, order not pending", "table_id", id, "order_id", orderID.String(), "status", order.Status)
	}

	apt.RespondSuccess(w, order)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}
	orderID, ok := h.parseOrderIDParam(w, r, log)
	if !ok {
		return
	}

	order, applied, err := h.engine.CancelOrder(id, orderID)
	if err != nil {
		h.respondEngineError(w, log, err, "order", id)
		return
	}

	if applied {
		h.publishOrderStatus(ctx, id, order)
	}

	apt.RespondSuccess(w, order)
}

func (h *Handler) CancelOrderGroup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrderGroup")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseTableIDParam(w, r, log)
	if !ok {
		return
	}

	var req OrderGroupCancelRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateOrderGroupCancel(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	// Malformed ids are skipped like unknown ones: group cancel is
	// best-effort over whatever subset still is pending.
	orderIDs := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		orderID, err := uuid.Parse(raw)
		if err != nil {
			log.Debug("skipping invalid order id", "order_id", raw)
			continue
		}
		orderIDs = append(orderIDs, orderID)
	}

	cancelled, err := h.engine.CancelGroup(id, orderIDs)
	if err != nil {
		h.respondEngineError(w, log, err, "table", id)
		return
	}

	if cancelled > 0 {
		if table, terr := h.engine.Table(id); terr == nil {
			h.publishTableStatus(ctx, table, table.Status, "orders-cancelled")
		}
	}

	apt.RespondSuccess(w, map[string]int{"cancelled": cancelled})
}

// View handlers

func (h *Handler) PendingSummary(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PendingSummary")
	defer finish()

	apt.RespondSuccess(w, h.engine.PendingSummary())
}

func (h *Handler) ServiceQueue(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ServiceQueue")
	defer finish()

	apt.RespondSuccess(w, h.engine.ServiceQueue())
}

// Menu handlers

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenu")
	defer finish()

	apt.RespondCollection(w, h.engine.Catalog().List(), "menu-item")
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req MenuItemCreateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateMenuItemCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	item, err := h.engine.Catalog().Add(req.Name, req.Price)
	if err != nil {
		h.respondEngineError(w, log, err, "menu-item", 0)
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	menuID := chi.URLParam(r, "menuID")
	if menuID == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing menu id parameter")
		return
	}

	var req MenuItemUpdateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	validationErrors := ValidateMenuItemUpdate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	item, err := h.engine.Catalog().Update(menuID, req.Name, req.Price)
	if err != nil {
		h.respondEngineError(w, log, err, "menu-item", 0)
		return
	}

	apt.RespondSuccess(w, item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()

	log := h.log(r)

	menuID := chi.URLParam(r, "menuID")
	if menuID == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing menu id parameter")
		return
	}

	if err := h.engine.Catalog().Remove(menuID); err != nil {
		h.respondEngineError(w, log, err, "menu-item", 0)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Insights handlers

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetInsights")
	defer finish()

	apt.RespondSuccess(w, h.engine.Stats())
}

func (h *Handler) DownloadSalesReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DownloadSalesReport")
	defer finish()

	log := h.log(r)

	report := BuildSalesReport(h.engine.Stats(), h.engine.Catalog())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales-report.csv"`)
	if err := report.WriteCSV(w); err != nil {
		log.Error("cannot write sales report", "error", err)
	}
}

func (h *Handler) CloseBusiness(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseBusiness")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	snapshot := h.engine.EndBusiness()

	event := pkg.BusinessClosedEvent{
		EventType:    pkg.EventBusinessClosed,
		TablesServed: snapshot.TablesServed,
		TotalRevenue: snapshot.TotalRevenue,
		QuantitySold: snapshot.QuantitySold,
		Source:       floorEventSource,
		OccurredAt:   time.Now().UTC(),
	}
	if err := pkg.PublishJSON(ctx, h.publisher, pkg.FloorBusinessTopic, event); err != nil {
		log.Error("cannot publish business closed event", "error", err)
	}

	apt.RespondSuccess(w, snapshot)
}

// Event helpers

func (h *Handler) publishTableStatus(ctx context.Context, table *Table, previousStatus, reason string) {
	if h.publisher == nil || table == nil {
		return
	}

	event := pkg.TableStatusEvent{
		EventType:        pkg.EventTableStatusChanged,
		TableID:          table.ID,
		Status:           table.Status,
		PreviousStatus:   previousStatus,
		RemainingMinutes: table.RemainingMinutes,
		Reason:           reason,
		Source:           floorEventSource,
		OccurredAt:       time.Now().UTC(),
	}
	if err := pkg.PublishJSON(ctx, h.publisher, pkg.FloorTableTopic, event); err != nil {
		h.logger.Error("cannot publish table status event", "error", err, "table_id", table.ID)
	}
}

func (h *Handler) publishOrderStatus(ctx context.Context, tableID int, order *Order) {
	if h.publisher == nil || order == nil {
		return
	}

	event := pkg.OrderStatusEvent{
		EventType:  pkg.EventOrderStatusChanged,
		TableID:    tableID,
		OrderID:    order.ID.String(),
		MenuID:     order.MenuID,
		Quantity:   order.Quantity,
		Status:     order.Status,
		Source:     floorEventSource,
		OccurredAt: time.Now().UTC(),
	}
	if err := pkg.PublishJSON(ctx, h.publisher, pkg.FloorOrderTopic, event); err != nil {
		h.logger.Error("cannot publish order status event", "error", err, "table_id", tableID, "order_id", order.ID.String())
	}
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) parseTableIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (int, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return 0, false
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}

	return id, true
}

func (h *Handler) parseOrderIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "orderID")
	if idStr == "" {
		log.Debug("missing order id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing order id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid order id parameter", "order_id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid order id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		apt.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

func (h *Handler) respondEngineError(w http.ResponseWriter, log apt.Logger, err error, resource string, id int) {
	switch {
	case errors.Is(err, ErrTableNotFound):
		log.Debug("table not found", "table_id", id)
		apt.RespondError(w, http.StatusNotFound, "Table not found")
	case errors.Is(err, ErrOrderNotFound):
		log.Debug("order not found", "table_id", id)
		apt.RespondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrMenuItemNotFound):
		log.Debug("menu item not found")
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
	case errors.Is(err, ErrMenuItemExists):
		apt.RespondError(w, http.StatusConflict, "Menu item already exists")
	case errors.Is(err, ErrInvalidTransition):
		log.Debug("invalid transition", "resource", resource, "id", id)
		apt.RespondError(w, http.StatusConflict, "Operation not allowed in current state")
	case IsValidation(err):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("unexpected engine error", "error", err, "resource", resource, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}
