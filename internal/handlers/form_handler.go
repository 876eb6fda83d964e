package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/feedback-form-service/internal/services"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
)

// FormHandler serves form authoring and the anonymous public surface
type FormHandler struct {
	BaseHandler
	formService       services.FormService
	submissionService services.SubmissionService
}

func NewFormHandler(formService services.FormService, submissionService services.SubmissionService, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler:       NewBaseHandler(logger),
		formService:       formService,
		submissionService: submissionService,
	}
}

// CreateForm handles POST /api/forms
func (h *FormHandler) CreateForm(c *gin.Context) {
	principal := currentPrincipal(c)

	var req services.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	form, err := h.formService.Create(c.Request.Context(), principal.Username, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Form created", "form_id", form.ID, "owner", principal.Username)
	c.JSON(http.StatusCreated, form)
}

// ListForms handles GET /api/forms
func (h *FormHandler) ListForms(c *gin.Context) {
	principal := currentPrincipal(c)

	forms, err := h.formService.ListByOwner(c.Request.Context(), principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, forms)
}

// GetForm handles GET /api/forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	principal := currentPrincipal(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	form, err := h.formService.GetByID(c.Request.Context(), id, principal.Username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// DeleteForm handles DELETE /api/forms/:id
func (h *FormHandler) DeleteForm(c *gin.Context) {
	principal := currentPrincipal(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), id, principal.Username); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Form deleted", "form_id", id, "owner", principal.Username)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Form deleted"})
}

// GetPublicForm handles GET /api/forms/public/:publicUrl. Anonymous;
// the response count is not disclosed to respondents.
func (h *FormHandler) GetPublicForm(c *gin.Context) {
	publicURL := c.Param("publicUrl")
	if publicURL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid publicUrl parameter"})
		return
	}

	form, err := h.formService.GetByPublicURL(c.Request.Context(), publicURL)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	form.ResponseCount = 0
	c.JSON(http.StatusOK, form)
}

// SubmitResponse handles POST /api/forms/public/:publicUrl/submit
func (h *FormHandler) SubmitResponse(c *gin.Context) {
	publicURL := c.Param("publicUrl")
	if publicURL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid publicUrl parameter"})
		return
	}

	var req services.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	response, err := h.submissionService.Submit(c.Request.Context(), publicURL, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Response submitted", "form_id", response.FormID, "response_id", response.ID)
	c.JSON(http.StatusCreated, response)
}
