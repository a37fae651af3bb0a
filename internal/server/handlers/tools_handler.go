package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/installments"
)

const maxPreviewSerials = 100

// SerialGenerator produces serial numbers for a product code.
type SerialGenerator interface {
	GenerateN(productCode string, n int) []string
}

// ToolsHandler serves the stateless calculators used around the receiving desk.
type ToolsHandler struct {
	serials SerialGenerator
	logger  *zap.Logger
}

// NewToolsHandler constructs the handler.
func NewToolsHandler(serials SerialGenerator, logger *zap.Logger) *ToolsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolsHandler{serials: serials, logger: logger}
}

// PreviewSerials returns ?count serials for ?code without storing them.
func (h *ToolsHandler) PreviewSerials(c *gin.Context) {
	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPreviewSerials {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 100"})
			return
		}
		count = n
	}

	code := strings.TrimSpace(c.Query("code"))
	c.JSON(http.StatusOK, gin.H{"serials": h.serials.GenerateN(code, count)})
}

// QuoteInstallments computes a flat-rate installment plan.
func (h *ToolsHandler) QuoteInstallments(c *gin.Context) {
	var req installments.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid quote payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quote, err := installments.Calculate(req)
	if err != nil {
		writeError(c, h.logger, "failed computing installment quote", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
