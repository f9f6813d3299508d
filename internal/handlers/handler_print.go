package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/cheque_printer/internal/core/domain"
	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// printHandler handles the print queue, batch printing and previews.
type printHandler struct {
	queueService   portssvc.PrintQueueSvcFacade
	batchService   portssvc.BatchPrintSvc
	previewService portssvc.PreviewSvc
}

// RegisterPrintRoutes registers queue, batch and preview routes. The batch
// endpoint is rate limited when batchLimiter is non-nil.
func RegisterPrintRoutes(rg *gin.RouterGroup, queueService portssvc.PrintQueueSvcFacade, batchService portssvc.BatchPrintSvc, previewService portssvc.PreviewSvc, batchLimiter *limiter.Limiter) {
	registerValidators()
	h := &printHandler{queueService: queueService, batchService: batchService, previewService: previewService}

	queue := rg.Group("/queue")
	{
		queue.POST("", h.enqueue)
		queue.GET("", h.listQueue)
		queue.POST("/remove", h.removeQueueItems)
	}

	batchHandlers := []gin.HandlerFunc{h.printBatch}
	if batchLimiter != nil {
		batchHandlers = append([]gin.HandlerFunc{middleware.RateLimit(batchLimiter)}, batchHandlers...)
	}
	rg.POST("/batches", batchHandlers...)
	rg.POST("/preview", h.preview)
}

// enqueue godoc
// @Summary Queue a cheque for printing
// @Tags queue
// @Accept  json
// @Produce  json
// @Param   cheque body dto.EnqueueChequeRequest true "Cheque"
// @Success 201 {object} domain.PrintQueueItem
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /queue [post]
func (h *printHandler) enqueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EnqueueChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Enqueue", slog.String("error", err.Error()))
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	item, err := h.queueService.Enqueue(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to queue cheque")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// listQueue godoc
// @Summary List the print queue in print order
// @Tags queue
// @Produce  json
// @Success 200 {array} domain.PrintQueueItem
// @Security BearerAuth
// @Router /queue [get]
func (h *printHandler) listQueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	items, err := h.queueService.ListQueue(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list print queue")
		return
	}
	c.JSON(http.StatusOK, items)
}

// removeQueueItems godoc
// @Summary Remove cheques from the print queue
// @Tags queue
// @Accept  json
// @Param   items body dto.RemoveQueueItemsRequest true "Item IDs"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /queue/remove [post]
func (h *printHandler) removeQueueItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RemoveQueueItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.queueService.RemoveItems(c.Request.Context(), req.ItemIDs, userID); err != nil {
		respondError(c, logger, err, "Failed to remove queue items")
		return
	}
	c.Status(http.StatusNoContent)
}

// printBatch godoc
// @Summary Print every queued cheque
// @Description Reserves numbers from the active book, renders and submits one print job.
// @Description A 200 response may still carry a warning when post-print bookkeeping was incomplete.
// @Tags batches
// @Accept  json
// @Produce  json
// @Param   batch body dto.PrintBatchRequest true "Batch"
// @Success 200 {object} dto.PrintBatchResponse
// @Failure 409 {object} map[string]interface{} "Batch already running or print cancelled"
// @Failure 422 {object} map[string]interface{} "Not enough leaves"
// @Failure 503 {object} map[string]interface{} "Printer unavailable"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /batches [post]
func (h *printHandler) printBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PrintBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.batchService.PrintBatch(c.Request.Context(), domain.BatchPrintRequest{
		BookID:      req.BookID,
		TemplateID:  req.TemplateID,
		SignatureID: req.SignatureID,
		UserID:      userID,
	})
	if err != nil {
		status := statusFor(err)
		body := gin.H{"error": err.Error()}
		if status == http.StatusInternalServerError {
			logger.Error("Batch print failed", slog.String("error", err.Error()))
			body["error"] = "Batch print failed"
		} else {
			logger.Warn("Batch print failed", slog.String("error", err.Error()), slog.Int("status", status))
		}
		if result != nil {
			body["result"] = dto.ToPrintBatchResponse(*result)
		}
		c.JSON(status, body)
		return
	}

	if result.Warning != nil {
		logger.Warn("Batch printed with warning", slog.String("batch_id", result.BatchID), slog.String("warning", result.Warning.Error()))
	}
	c.JSON(http.StatusOK, dto.ToPrintBatchResponse(*result))
}

// preview godoc
// @Summary Preview a cheque over its template background
// @Tags batches
// @Accept  json
// @Produce  application/pdf
// @Param   cheque body dto.PreviewRequest true "Cheque"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /preview [post]
func (h *printHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pdf, err := h.previewService.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to render preview")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "cheque-preview.pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
