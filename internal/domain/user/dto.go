package user

type CreateUserInput struct {
	Email    string  `form:"email" binding:"required,email,max=100" example:"user@example.com"`
	Password string  `form:"password" binding:"required,min=6,max=72" example:"password123"`
	FullName *string `form:"full_name" example:"John Doe"`
	Role     *Role   `form:"role" binding:"omitempty,oneof=submitter reviewer approver admin" example:"submitter"`
}

type UpdateUserInput struct {
	OldPassword *string         `form:"old_password" example:"oldPass123"`
	Password    *string         `form:"password" binding:"omitempty,min=6,max=72" example:"newPass123"`
	FullName    *string         `form:"full_name" example:"John Doe"`
	Role        *Role           `form:"role" binding:"omitempty,oneof=submitter reviewer approver admin" example:"reviewer"`
	Status      *ApprovalStatus `form:"status" binding:"omitempty,oneof=pending approved rejected" example:"approved"`
	IsActive    *bool           `form:"is_active" example:"true"`
}

type LoginInput struct {
	Email    string `form:"email" binding:"required,email" example:"user@example.com"`
	Password string `form:"password" binding:"required" example:"password123"`
}

type UserDTO struct {
	Uid       uint    `json:"u_id" example:"123"`
	Email     string  `json:"email" example:"user@example.com"`
	FullName  *string `json:"full_name" example:"John Doe"`
	Role      string  `json:"role" example:"submitter"`
	Status    string  `json:"status" example:"approved"`
	IsActive  bool    `json:"is_active" example:"true"`
	CreatedAt string  `json:"create_at" example:"2025-07-17 15:20:41"`
	UpdatedAt string  `json:"update_at" example:"2025-07-17 15:20:41"`
}
