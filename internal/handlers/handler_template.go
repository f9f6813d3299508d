package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cheque_printer/internal/core/ports/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxBackgroundUploadBytes caps scanned cheque images.
const maxBackgroundUploadBytes = 10 << 20

// templateHandler handles HTTP requests related to cheque templates and signatures.
type templateHandler struct {
	templateService  portssvc.TemplateSvcFacade
	signatureService portssvc.SignatureSvcFacade
}

// RegisterTemplateRoutes registers template and signature routes.
func RegisterTemplateRoutes(rg *gin.RouterGroup, templateService portssvc.TemplateSvcFacade, signatureService portssvc.SignatureSvcFacade) {
	h := &templateHandler{templateService: templateService, signatureService: signatureService}

	templates := rg.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
		templates.PUT("/:templateID", h.updateTemplate)
		templates.PUT("/:templateID/canvas-layout", h.applyCanvasLayout)
		templates.POST("/:templateID/background", h.uploadBackground)
	}

	signatures := rg.Group("/signatures")
	{
		signatures.POST("", h.createSignature)
		signatures.GET("", h.listSignatures)
	}
}

// createTemplate godoc
// @Summary Create a cheque template
// @Description Field positions are millimeters from the top-left corner of the cheque
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   template body dto.TemplateRequest true "Template"
// @Success 201 {object} domain.ChequeTemplate
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Template name already used for this bank"
// @Security BearerAuth
// @Router /templates [post]
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tpl, err := h.templateService.CreateTemplate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// listTemplates godoc
// @Summary List cheque templates
// @Tags templates
// @Produce  json
// @Success 200 {array} domain.ChequeTemplate
// @Security BearerAuth
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tpls, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list templates")
		return
	}
	c.JSON(http.StatusOK, tpls)
}

// getTemplate godoc
// @Summary Get a cheque template
// @Tags templates
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Success 200 {object} domain.ChequeTemplate
// @Failure 404 {object} map[string]string "Template not found"
// @Security BearerAuth
// @Router /templates/{templateID} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tpl, err := h.templateService.GetTemplate(c.Request.Context(), c.Param("templateID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// updateTemplate godoc
// @Summary Replace a cheque template layout
// @Description Templates that have printed cheques cannot be changed
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Param   template body dto.TemplateRequest true "Template"
// @Success 200 {object} domain.ChequeTemplate
// @Failure 409 {object} map[string]string "Template already used"
// @Security BearerAuth
// @Router /templates/{templateID} [put]
func (h *templateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tpl, err := h.templateService.UpdateTemplate(c.Request.Context(), c.Param("templateID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// applyCanvasLayout godoc
// @Summary Save field positions from the template designer
// @Description Positions are canvas pixels; they are converted to millimeters using the canvas width
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Param   layout body dto.CanvasLayoutRequest true "Canvas layout"
// @Success 200 {object} domain.ChequeTemplate
// @Security BearerAuth
// @Router /templates/{templateID}/canvas-layout [put]
func (h *templateHandler) applyCanvasLayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))
	var req dto.CanvasLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tpl, err := h.templateService.ApplyCanvasLayout(c.Request.Context(), c.Param("templateID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to apply canvas layout")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// uploadBackground godoc
// @Summary Upload a scanned cheque image
// @Tags templates
// @Accept  multipart/form-data
// @Produce  json
// @Param   templateID path string true "Template ID"
// @Param   background formData file true "PNG or JPEG image"
// @Success 200 {object} domain.ChequeTemplate
// @Security BearerAuth
// @Router /templates/{templateID}/background [post]
func (h *templateHandler) uploadBackground(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("template_id", c.Param("templateID")))
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBackgroundUploadBytes)
	header, err := c.FormFile("background")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "background file is required: " + err.Error()})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload: " + err.Error()})
		return
	}
	defer file.Close()

	tpl, err := h.templateService.UploadBackground(c.Request.Context(), c.Param("templateID"), header.Filename, file, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to upload template background")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// createSignature godoc
// @Summary Register a signature image
// @Tags signatures
// @Accept  json
// @Produce  json
// @Param   signature body dto.CreateSignatureRequest true "Signature"
// @Success 201 {object} domain.SignatureAsset
// @Security BearerAuth
// @Router /signatures [post]
func (h *templateHandler) createSignature(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sig, err := h.signatureService.CreateSignature(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create signature")
		return
	}
	c.JSON(http.StatusCreated, sig)
}

// listSignatures godoc
// @Summary List signature images
// @Tags signatures
// @Produce  json
// @Success 200 {array} domain.SignatureAsset
// @Security BearerAuth
// @Router /signatures [get]
func (h *templateHandler) listSignatures(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sigs, err := h.signatureService.ListSignatures(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list signatures")
		return
	}
	c.JSON(http.StatusOK, sigs)
}

