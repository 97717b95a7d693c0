package models

import "time"

// AuditActionUpdateComments is the only action recorded by the review workflow.
const AuditActionUpdateComments = "UPDATE_COMMENTS"

// AuditEntry records one comment edit on a submission. Entries are never mutated.
type AuditEntry struct {
	ID           string    `db:"id" json:"id"`
	SubmissionID string    `db:"submission_id" json:"submissionId"`
	AdminID      string    `db:"admin_id" json:"adminId"`
	AdminName    string    `db:"admin_name" json:"adminName"`
	Action       string    `db:"action" json:"action"`
	Timestamp    time.Time `db:"created_at" json:"timestamp"`
	OldValue     string    `db:"old_value" json:"oldValue"`
	NewValue     string    `db:"new_value" json:"newValue"`
}
