package audit

import "time"

// AuditLog records one workflow or admin action. OldData/NewData hold JSON
// snapshots of the touched record before and after the action.
type AuditLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserEmail    string    `gorm:"size:100;index" json:"user_email"`
	Action       string    `gorm:"size:50;not null" json:"action"`
	ResourceType string    `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   string    `gorm:"size:100" json:"resource_id"`
	OldData      []byte    `gorm:"type:bytea" json:"old_data,omitempty"`
	NewData      []byte    `gorm:"type:bytea" json:"new_data,omitempty"`
	Description  string    `gorm:"size:255" json:"description"`
	IP           string    `gorm:"size:45" json:"ip"`
	UserAgent    string    `gorm:"size:255" json:"user_agent"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
