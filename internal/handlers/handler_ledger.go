package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers the read-only audit routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}
	rg.GET("/ledger", h.listLedger)
	rg.GET("/void-ranges", h.listVoidRanges)
}

// listLedger godoc
// @Summary List printed and failed cheques, newest first
// @Tags ledger
// @Produce  json
// @Param   bookID query string false "Filter by book"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerResponse
// @Security BearerAuth
// @Router /ledger [get]
func (h *ledgerHandler) listLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.ledgerService.ListLedger(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger")
		return
	}
	c.JSON(http.StatusOK, page)
}

// listVoidRanges godoc
// @Summary List reserved numbers that were never printed
// @Tags ledger
// @Produce  json
// @Param   bookID query string false "Filter by book"
// @Success 200 {array} domain.VoidRange
// @Security BearerAuth
// @Router /void-ranges [get]
func (h *ledgerHandler) listVoidRanges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ranges, err := h.ledgerService.ListVoidRanges(c.Request.Context(), c.Query("bookID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list void ranges")
		return
	}
	c.JSON(http.StatusOK, ranges)
}
