package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/middleware"
	"github.com/noah-isme/formdesk-api/internal/service"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
	"github.com/noah-isme/formdesk-api/pkg/response"
)

// SubmissionHandler serves public intake and the admin review endpoints.
type SubmissionHandler struct {
	intake     *service.IntakeService
	search     *service.SubmissionService
	annotation *service.AnnotationService
	export     *service.ExportService
}

// NewSubmissionHandler constructs the handler. export may be nil when exports are disabled.
func NewSubmissionHandler(intake *service.IntakeService, search *service.SubmissionService, annotation *service.AnnotationService, export *service.ExportService) *SubmissionHandler {
	return &SubmissionHandler{intake: intake, search: search, annotation: annotation, export: export}
}

// Submit godoc
// @Summary Submit a filled form
// @Description Stores the payload as a new submission. Form fields may be flat or nested under formData.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body object true "Form payload"
// @Success 201 {object} dto.SubmitResponse
// @Failure 400 {object} response.ErrorBody
// @Router /submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	res, err := h.intake.Submit(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// List godoc
// @Summary Search submissions by account
// @Description Returns the account's submissions newest first
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param accountNumber query string true "Account number"
// @Param formType query string false "Form type"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.SubmissionListResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /admin/submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	var query dto.SubmissionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	res, hit, err := h.search.FindByAccount(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, res)
}

// UpdateComments godoc
// @Summary Update official comments
// @Description Replaces a submission's official comments and records an audit entry
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.UpdateCommentsRequest true "Comment payload"
// @Success 200 {object} dto.UpdateCommentsResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/submissions/comments [post]
func (h *SubmissionHandler) UpdateComments(c *gin.Context) {
	var req dto.UpdateCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	res, err := h.annotation.UpdateComments(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// History godoc
// @Summary Audit history
// @Description Lists comment edits of a submission, oldest first
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} dto.AuditHistoryResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/submissions/{id}/audit [get]
func (h *SubmissionHandler) History(c *gin.Context) {
	res, err := h.annotation.History(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Export godoc
// @Summary Export submissions
// @Description Downloads an account's submissions as CSV or PDF
// @Tags Admin
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param accountNumber query string true "Account number"
// @Param formType query string false "Form type"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /admin/submissions/export [get]
func (h *SubmissionHandler) Export(c *gin.Context) {
	if h.export == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	res, err := h.export.Export(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, res.Filename, res.ContentType, res.Body)
}
