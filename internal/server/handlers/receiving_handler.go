package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/receiving"
)

// ReceivingService is the goods receipt workflow used by the HTTP layer.
type ReceivingService interface {
	Start(ctx context.Context, branchID string) (receiving.Snapshot, error)
	Get(ctx context.Context, id string) (receiving.Snapshot, error)
	Catalog(ctx context.Context, branchID string) (receiving.CatalogView, error)
	AddProduct(ctx context.Context, id, productID string) (receiving.Snapshot, error)
	UpdateItem(ctx context.Context, id string, index int, qty *int, cost *decimal.Decimal) (receiving.Snapshot, error)
	RemoveItem(ctx context.Context, id string, index int) (receiving.Snapshot, error)
	SelectSupplier(ctx context.Context, id, supplierID string) (receiving.Snapshot, error)
	UpdateDetails(ctx context.Context, id string, patch receiving.DetailsPatch) (receiving.Snapshot, error)
	Advance(ctx context.Context, id string) (receiving.Snapshot, error)
	Retreat(ctx context.Context, id string) (receiving.Snapshot, error)
	Reset(ctx context.Context, id string) (receiving.Snapshot, error)
	Submit(ctx context.Context, id string) (models.ReceiptBatch, error)
	Document(ctx context.Context, id string) (string, error)
	Discard(ctx context.Context, id string) error
}

// ReceivingHandler exposes the goods receipt wizard over HTTP.
type ReceivingHandler struct {
	svc    ReceivingService
	logger *zap.Logger
}

// NewReceivingHandler constructs the HTTP handler adapter.
func NewReceivingHandler(svc ReceivingService, logger *zap.Logger) *ReceivingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingHandler{svc: svc, logger: logger}
}

// Register mounts the receipt routes on the group.
func (h *ReceivingHandler) Register(g *gin.RouterGroup) {
	g.GET("/catalog", h.Catalog)
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Discard)
	g.POST("/:id/items", h.AddItem)
	g.PATCH("/:id/items/:index", h.UpdateItem)
	g.DELETE("/:id/items/:index", h.RemoveItem)
	g.PUT("/:id/supplier", h.SelectSupplier)
	g.PATCH("/:id/details", h.UpdateDetails)
	g.POST("/:id/next", h.Advance)
	g.POST("/:id/back", h.Retreat)
	g.POST("/:id/reset", h.Reset)
	g.POST("/:id/submit", h.Submit)
	g.GET("/:id/document", h.Document)
}

type startRequest struct {
	BranchID string `json:"branch_id"`
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type updateItemRequest struct {
	Quantity *int             `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

type supplierRequest struct {
	SupplierID string `json:"supplier_id" binding:"required"`
}

// Catalog lists the active products and suppliers of ?branch_id.
func (h *ReceivingHandler) Catalog(c *gin.Context) {
	view, err := h.svc.Catalog(c.Request.Context(), c.Query("branch_id"))
	if err != nil {
		writeError(c, h.logger, "failed loading catalog", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Start opens a new receipt draft.
func (h *ReceivingHandler) Start(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid start payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	snap, err := h.svc.Start(c.Request.Context(), req.BranchID)
	if err != nil {
		writeError(c, h.logger, "failed starting receipt", err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// Get returns the draft state.
func (h *ReceivingHandler) Get(c *gin.Context) {
	h.respond(c, "failed loading receipt")(h.svc.Get(c.Request.Context(), c.Param("id")))
}

// Discard deletes an unsubmitted draft.
func (h *ReceivingHandler) Discard(c *gin.Context) {
	if err := h.svc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, "failed discarding receipt", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItem adds one unit of a product.
func (h *ReceivingHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if !h.bind(c, &req) {
		return
	}
	h.respond(c, "failed adding item")(h.svc.AddProduct(c.Request.Context(), c.Param("id"), req.ProductID))
}

// UpdateItem changes the quantity and/or unit cost of a line.
func (h *ReceivingHandler) UpdateItem(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Quantity == nil && req.UnitCost == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity or unit_cost is required"})
		return
	}

	snap, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), index, req.Quantity, req.UnitCost)
	if err != nil {
		writeError(c, h.logger, "failed updating item", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// RemoveItem deletes a line.
func (h *ReceivingHandler) RemoveItem(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	h.respond(c, "failed removing item")(h.svc.RemoveItem(c.Request.Context(), c.Param("id"), index))
}

// SelectSupplier binds the supplier.
func (h *ReceivingHandler) SelectSupplier(c *gin.Context) {
	var req supplierRequest
	if !h.bind(c, &req) {
		return
	}
	h.respond(c, "failed selecting supplier")(h.svc.SelectSupplier(c.Request.Context(), c.Param("id"), req.SupplierID))
}

// UpdateDetails patches the receipt header.
func (h *ReceivingHandler) UpdateDetails(c *gin.Context) {
	var patch receiving.DetailsPatch
	if !h.bind(c, &patch) {
		return
	}
	h.respond(c, "failed updating details")(h.svc.UpdateDetails(c.Request.Context(), c.Param("id"), patch))
}

// Advance validates the current step and moves forward.
func (h *ReceivingHandler) Advance(c *gin.Context) {
	h.respond(c, "step transition blocked")(h.svc.Advance(c.Request.Context(), c.Param("id")))
}

// Retreat moves back one step.
func (h *ReceivingHandler) Retreat(c *gin.Context) {
	h.respond(c, "failed moving back")(h.svc.Retreat(c.Request.Context(), c.Param("id")))
}

// Reset clears the draft.
func (h *ReceivingHandler) Reset(c *gin.Context) {
	h.respond(c, "failed resetting receipt")(h.svc.Reset(c.Request.Context(), c.Param("id")))
}

// Submit commits the receipt.
func (h *ReceivingHandler) Submit(c *gin.Context) {
	batch, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed submitting receipt", err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// Document returns the printable receipt as plain text.
func (h *ReceivingHandler) Document(c *gin.Context) {
	doc, err := h.svc.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed rendering document", err)
		return
	}
	c.String(http.StatusOK, doc)
}

func (h *ReceivingHandler) respond(c *gin.Context, msg string) func(receiving.Snapshot, error) {
	return func(snap receiving.Snapshot, err error) {
		if err != nil {
			writeError(c, h.logger, msg, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func (h *ReceivingHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid request payload", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *ReceivingHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item index must be a non-negative integer"})
		return 0, false
	}
	return index, true
}
