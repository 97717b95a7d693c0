package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FormType names the kind of customer form a submission was filled from.
type FormType string

const (
	FormStatementOfAccount  FormType = "Application for Statement of Account"
	FormEDispute            FormType = "E-Dispute Form"
	FormAccountReactivation FormType = "Account Reactivation & Asset Reclamation"
	FormChequeRequisition   FormType = "Cheque Requisition"
	FormEChannelEnrolment   FormType = "E-Channel Enrolment & Limit Enhancement"
)

const formTypeOtherMetricLabel = "other"

// KnownFormTypes lists the catalog in display order.
var KnownFormTypes = []FormType{
	FormStatementOfAccount,
	FormEDispute,
	FormAccountReactivation,
	FormChequeRequisition,
	FormEChannelEnrolment,
}

// Known reports whether the form type is part of the catalog.
func (f FormType) Known() bool {
	for _, k := range KnownFormTypes {
		if f == k {
			return true
		}
	}
	return false
}

// MetricLabel bounds label cardinality for unknown client-supplied types.
func (f FormType) MetricLabel() string {
	if f.Known() {
		return string(f)
	}
	return formTypeOtherMetricLabel
}

// FormData holds the submitted fields verbatim. Stored as JSONB.
type FormData map[string]interface{}

// Value implements driver.Valuer.
func (d FormData) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *FormData) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = FormData{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan form data: unsupported type %T", src)
	}
	out := FormData{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan form data: %w", err)
	}
	*d = out
	return nil
}

// Submission is one filled form received through intake.
type Submission struct {
	ID               string     `db:"id" json:"id"`
	FormType         FormType   `db:"form_type" json:"formType"`
	AccountNumber    string     `db:"account_number" json:"accountNumber"`
	SubmittedAt      time.Time  `db:"submitted_at" json:"submittedAt"`
	FormData         FormData   `db:"form_data" json:"formData"`
	OfficialComments string     `db:"official_comments" json:"officialComments"`
	LastUpdatedBy    *string    `db:"last_updated_by" json:"lastUpdatedBy,omitempty"`
	LastUpdatedAt    *time.Time `db:"last_updated_at" json:"lastUpdatedAt,omitempty"`
	Version          int64      `db:"version" json:"-"`
}

// Clone returns a copy that does not share the form data map or pointer fields.
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}
	out := *s
	if s.FormData != nil {
		out.FormData = make(FormData, len(s.FormData))
		for k, v := range s.FormData {
			out.FormData[k] = v
		}
	}
	if s.LastUpdatedBy != nil {
		by := *s.LastUpdatedBy
		out.LastUpdatedBy = &by
	}
	if s.LastUpdatedAt != nil {
		at := *s.LastUpdatedAt
		out.LastUpdatedAt = &at
	}
	return &out
}

// SubmissionFilter narrows the admin account search.
type SubmissionFilter struct {
	AccountNumber string
	FormType      FormType
	Page          int
	PageSize      int
}
