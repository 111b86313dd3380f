package user

import "time"

type Role string

const (
	RoleSubmitter Role = "submitter"
	RoleReviewer  Role = "reviewer"
	RoleApprover  Role = "approver"
	RoleAdmin     Role = "admin"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

type User struct {
	UID       uint           `gorm:"primaryKey;column:u_id" json:"uid"`
	Email     string         `gorm:"size:100;not null;unique" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  *string        `gorm:"size:100" json:"full_name"`
	Role      Role           `gorm:"size:20;not null;default:'submitter'" json:"role"`
	Status    ApprovalStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	IsActive  bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time      `gorm:"column:create_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:update_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Eligible reports whether the user can be handed work for the given role.
func (u User) Eligible(role Role) bool {
	return u.Role == role && u.IsActive
}

// Actor is the identity a request acts on behalf of, as carried in the
// session claims.
type Actor struct {
	Email string
	Role  Role
}
