package record

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDeleted   Status = "deleted"
)

// SavedAtLayout is the wire format of every record timestamp. Timestamps are
// stored as strings so recency comparisons survive round-trips through tiers
// that only know strings (the browser-local tier in particular). The layout
// keeps sub-second precision so back-to-back saves get distinct stamps, and
// still parses plain RFC3339 input.
const SavedAtLayout = time.RFC3339Nano

// Record is one versioned instance of an indicator submission. The composite
// (IndicatorID, SavedAt) pair is the real primary key: an indicator id alone
// resolves to a history of versions, and every "current record" lookup must
// pick by recency or by expected status.
type Record struct {
	IndicatorID string `gorm:"primaryKey;column:indicator_id;size:64" json:"id"`
	SavedAt     string `gorm:"primaryKey;column:saved_at;size:40" json:"savedAt"`
	Status      Status `gorm:"size:20;not null;default:'draft'" json:"status"`

	Value          string `gorm:"size:255" json:"value"`
	Unit           string `gorm:"size:50" json:"unit"`
	Frequency      string `gorm:"size:50" json:"frequency"`
	Period         string `gorm:"size:50" json:"period"`
	Responsible    string `gorm:"size:100" json:"responsible"`
	Disaggregation string `gorm:"size:255" json:"disaggregation"`
	Notes          string `gorm:"type:text" json:"notes"`

	// User is the submitter's identity and doubles as current-assignee
	// bookkeeping once the record is routed (workload scans key off it).
	User string `gorm:"column:user_email;size:100;index" json:"user"`

	SubmitterMessage string `gorm:"type:text" json:"submitterMessage"`
	ReviewerMessage  string `gorm:"type:text" json:"reviewerMessage"`
	ApproverMessage  string `gorm:"type:text" json:"approverMessage"`

	SubmittedBy string `gorm:"size:100" json:"submittedBy,omitempty"`
	SubmittedAt string `gorm:"size:40" json:"submittedAt,omitempty"`
	ReviewedBy  string `gorm:"size:100" json:"reviewedBy,omitempty"`
	ReviewedAt  string `gorm:"size:40" json:"reviewedAt,omitempty"`
	ApprovedBy  string `gorm:"size:100" json:"approvedBy,omitempty"`
	ApprovedAt  string `gorm:"size:40" json:"approvedAt,omitempty"`
	RejectedBy  string `gorm:"size:100" json:"rejectedBy,omitempty"`
	RejectedAt  string `gorm:"size:40" json:"rejectedAt,omitempty"`
	DeletedBy   string `gorm:"size:100" json:"deletedBy,omitempty"`
	DeletedAt   string `gorm:"size:40" json:"deletedAt,omitempty"`
	RestoredBy  string `gorm:"size:100" json:"restoredBy,omitempty"`
	RestoredAt  string `gorm:"size:40" json:"restoredAt,omitempty"`
	EditedBy    string `gorm:"size:100" json:"editedBy,omitempty"`
	EditedAt    string `gorm:"size:40" json:"editedAt,omitempty"`

	AssignedReviewer string `gorm:"size:100" json:"assignedReviewer,omitempty"`
	AssignedApprover string `gorm:"size:100" json:"assignedApprover,omitempty"`
}

func (Record) TableName() string {
	return "records"
}

// SavedAtTime parses the saved_at stamp. Non-parseable stamps sort as the
// earliest possible time so they always lose a recency comparison.
func (r Record) SavedAtTime() time.Time {
	t, err := time.Parse(SavedAtLayout, r.SavedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NewerThan compares two versions by saved_at.
func (r Record) NewerThan(other Record) bool {
	return r.SavedAtTime().After(other.SavedAtTime())
}

// Displayable reports whether the record carries enough payload to show in a
// listing. Empty shells are still stored, just never listed.
func (r Record) Displayable() bool {
	return r.Value != "" || r.Notes != ""
}

// ClearMessages wipes the per-stage notes, used when a deleted record is
// restored back to draft.
func (r *Record) ClearMessages() {
	r.SubmitterMessage = ""
	r.ReviewerMessage = ""
	r.ApproverMessage = ""
}
