package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/feedback-form-service/internal/services"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
)

// ResponseHandler serves response retrieval and exports, for form
// owners and for respondents reading their own submissions.
type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
	exportService   services.ExportService
}

func NewResponseHandler(responseService services.ResponseService, exportService services.ExportService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger),
		responseService: responseService,
		exportService:   exportService,
	}
}

// ===== OWNER ROUTES =====

// ListFormResponses handles GET /api/forms/:id/responses
func (h *ResponseHandler) ListFormResponses(c *gin.Context) {
	principal := currentPrincipal(c)

	formID := h.parseIDParam(c, "id")
	if formID == 0 {
		return
	}

	responses, err := h.responseService.ListByForm(c.Request.Context(), formID, principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// DownloadFormResponses handles GET /api/forms/:id/responses/download
func (h *ResponseHandler) DownloadFormResponses(c *gin.Context) {
	principal := currentPrincipal(c)

	formID := h.parseIDParam(c, "id")
	if formID == 0 {
		return
	}

	file, err := h.exportService.FormResponsesCSV(c.Request.Context(), formID, principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Responses exported", "form_id", formID, "format", "csv")
	writeDownload(c, file)
}

// DownloadFormResponsesXLSX handles GET /api/forms/:id/responses/download-xlsx
func (h *ResponseHandler) DownloadFormResponsesXLSX(c *gin.Context) {
	principal := currentPrincipal(c)

	formID := h.parseIDParam(c, "id")
	if formID == 0 {
		return
	}

	file, err := h.exportService.FormResponsesXLSX(c.Request.Context(), formID, principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Responses exported", "form_id", formID, "format", "xlsx")
	writeDownload(c, file)
}

// GetResponse handles GET /api/responses/:id
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	principal := currentPrincipal(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	response, err := h.responseService.GetByID(c.Request.Context(), id, principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DownloadResponse handles GET /api/responses/:id/download
func (h *ResponseHandler) DownloadResponse(c *gin.Context) {
	principal := currentPrincipal(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	file, err := h.exportService.ResponseCSV(c.Request.Context(), id, principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeDownload(c, file)
}

// ===== RESPONDENT ROUTES =====
// Respondents are matched by the email on their token, not ownership.

// respondentEmail returns the caller's token email. Tokens minted
// without an email cannot match any submission and are rejected.
func (h *ResponseHandler) respondentEmail(c *gin.Context) (string, bool) {
	principal := currentPrincipal(c)
	if !principal.IsAuthenticated() || principal.Email == "" {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})
		return "", false
	}
	return principal.Email, true
}

// ListMyResponses handles GET /api/responses/my
func (h *ResponseHandler) ListMyResponses(c *gin.Context) {
	email, ok := h.respondentEmail(c)
	if !ok {
		return
	}

	responses, err := h.responseService.ListByEmail(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// GetMyResponse handles GET /api/responses/my/:id
func (h *ResponseHandler) GetMyResponse(c *gin.Context) {
	email, ok := h.respondentEmail(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	response, err := h.responseService.GetByIDForRespondent(c.Request.Context(), id, email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DownloadMyResponse handles GET /api/responses/my/:id/download
func (h *ResponseHandler) DownloadMyResponse(c *gin.Context) {
	email, ok := h.respondentEmail(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	file, err := h.exportService.RespondentResponseCSV(c.Request.Context(), id, email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	writeDownload(c, file)
}
