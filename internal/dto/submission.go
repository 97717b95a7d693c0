package dto

import (
	"time"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// SubmitResponse acknowledges an intake.
type SubmitResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// SubmissionListQuery captures GET /admin/submissions query parameters.
type SubmissionListQuery struct {
	AccountNumber string `form:"accountNumber"`
	FormType      string `form:"formType"`
	Page          int    `form:"page" validate:"omitempty,min=1"`
	PageSize      int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Pagination is present only when the caller asked for a page.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// SubmissionListResponse is the admin search result.
type SubmissionListResponse struct {
	Submissions   []models.Submission `json:"submissions"`
	Total         int                 `json:"total"`
	AccountNumber string              `json:"accountNumber"`
	Pagination    *Pagination         `json:"pagination,omitempty"`
}

// UpdateCommentsRequest captures POST /admin/submissions/comments payload.
type UpdateCommentsRequest struct {
	SubmissionID string `json:"submissionId" validate:"required"`
	Comments     string `json:"comments"`
}

// UpdateCommentsResponse reports the applied annotation.
type UpdateCommentsResponse struct {
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
	AuditID   string    `json:"auditId"`
}

// AuditHistoryResponse lists the comment edits of one submission, oldest first.
type AuditHistoryResponse struct {
	SubmissionID string              `json:"submissionId"`
	Entries      []models.AuditEntry `json:"entries"`
	Total        int                 `json:"total"`
}

// ExportQuery captures GET /admin/submissions/export query parameters.
type ExportQuery struct {
	AccountNumber string `form:"accountNumber"`
	FormType      string `form:"formType"`
	Format        string `form:"format"`
}

// FormCatalogResponse lists the available forms.
type FormCatalogResponse struct {
	Forms []models.FormDefinition `json:"forms"`
	Total int                     `json:"total"`
}
