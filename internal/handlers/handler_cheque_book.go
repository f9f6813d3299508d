package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chequeBookHandler handles HTTP requests related to cheque books.
type chequeBookHandler struct {
	bookService portssvc.ChequeBookSvcFacade
}

// RegisterChequeBookRoutes registers routes related to cheque books.
func RegisterChequeBookRoutes(rg *gin.RouterGroup, bookService portssvc.ChequeBookSvcFacade) {
	h := &chequeBookHandler{bookService: bookService}

	books := rg.Group("/books")
	{
		books.POST("", h.createChequeBook)
		books.GET("", h.listChequeBooks)
		books.GET("/active", h.getActiveChequeBook)
		books.GET("/:bookID", h.getChequeBook)
		books.PATCH("/:bookID", h.updateChequeBook)
		books.POST("/:bookID/activate", h.activateChequeBook)
		books.POST("/:bookID/deactivate", h.deactivateChequeBook)
	}
}

// createChequeBook godoc
// @Summary Register a cheque book
// @Description Adds a cheque book with its leaf number range, optionally making it the active book
// @Tags books
// @Accept  json
// @Produce  json
// @Param   book body dto.CreateChequeBookRequest true "Cheque book details"
// @Success 201 {object} dto.ChequeBookResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create cheque book"
// @Security BearerAuth
// @Router /books [post]
func (h *chequeBookHandler) createChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateChequeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateChequeBook", slog.String("error", err.Error()))
		badRequest(c, err)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	book, err := h.bookService.CreateChequeBook(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create cheque book")
		return
	}

	logger.Info("Cheque book created successfully", slog.String("book_id", book.BookID))
	c.JSON(http.StatusCreated, dto.ToChequeBookResponse(book))
}

// listChequeBooks godoc
// @Summary List cheque books
// @Tags books
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.ChequeBookResponse
// @Failure 500 {object} map[string]string "Failed to list cheque books"
// @Security BearerAuth
// @Router /books [get]
func (h *chequeBookHandler) listChequeBooks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListChequeBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	books, err := h.bookService.ListChequeBooks(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list cheque books")
		return
	}
	c.JSON(http.StatusOK, dto.ToListChequeBookResponse(books))
}

// getActiveChequeBook godoc
// @Summary Get the active cheque book
// @Tags books
// @Produce  json
// @Success 200 {object} dto.ChequeBookResponse
// @Failure 422 {object} map[string]string "No active book"
// @Security BearerAuth
// @Router /books/active [get]
func (h *chequeBookHandler) getActiveChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	book, err := h.bookService.GetActiveChequeBook(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to get active cheque book")
		return
	}
	c.JSON(http.StatusOK, dto.ToChequeBookResponse(book))
}

// getChequeBook godoc
// @Summary Get a cheque book
// @Tags books
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.ChequeBookResponse
// @Failure 404 {object} map[string]string "Cheque book not found"
// @Security BearerAuth
// @Router /books/{bookID} [get]
func (h *chequeBookHandler) getChequeBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("book_id", c.Param("bookID")))
	book, err := h.bookService.GetChequeBook(c.Request.Context(), c.Param("bookID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get cheque book")
		return
	}
	c.JSON(http.StatusOK, dto.ToChequeBookResponse(book))
}

// updateChequeBook godoc
// @Summary Correct a cheque book
// @Description Edits names or numbers. The next number may skip forward over spoiled leaves but never move back.
// @Tags books
// @Accept  json
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Param   book body dto.UpdateChequeBookRequest true "Fields to change"
// @Success 200 {object} dto.ChequeBookResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Cheque book not found"
// @Failure 409 {object} map[string]string "Would reissue numbers"
// @Security BearerAuth
// @Router /books/{bookID} [patch]
func (h *chequeBookHandler) updateChequeBook(c *gin.Context) {
	bookID := c.Param("bookID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("book_id", bookID))
	var req dto.UpdateChequeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	book, err := h.bookService.UpdateChequeBook(c.Request.Context(), bookID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update cheque book")
		return
	}
	c.JSON(http.StatusOK, dto.ToChequeBookResponse(book))
}

// activateChequeBook godoc
// @Summary Make a cheque book the active one
// @Tags books
// @Produce  json
// @Param   bookID path string true "Book ID"
// @Success 200 {object} dto.ChequeBookResponse
// @Failure 404 {object} map[string]string "Cheque book not found"
// @Security BearerAuth
// @Router /books/{bookID}/activate [post]
func (h *chequeBookHandler) activateChequeBook(c *gin.Context) {
	bookID := c.Param("bookID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("book_id", bookID))
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	book, err := h.bookService.ActivateChequeBook(c.Request.Context(), bookID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to activate cheque book")
		return
	}
	c.JSON(http.StatusOK, dto.ToChequeBookResponse(book))
}

// deactivateChequeBook godoc
// @Summary Clear the active cheque book
// @Tags books
// @Param   bookID path string true "Book ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Cheque book not found"
// @Security BearerAuth
// @Router /books/{bookID}/deactivate [post]
func (h *chequeBookHandler) deactivateChequeBook(c *gin.Context) {
	bookID := c.Param("bookID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("book_id", bookID))
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.bookService.DeactivateChequeBook(c.Request.Context(), bookID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate cheque book")
		return
	}
	c.Status(http.StatusNoContent)
}
