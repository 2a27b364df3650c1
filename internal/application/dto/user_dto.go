package dto

import "time"

// UserInfo datos del usuario autenticado (acción user-info y login).
type UserInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	Shift     string `json:"shift"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserInfoResponse envoltorio de user-info.
type UserInfoResponse struct {
	User UserInfo `json:"user"`
}

// UserResponse usuario en listados de administración.
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	Shift     string    `json:"shift"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ApproveUserRequest entrada de admin-approve-user.
type ApproveUserRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Shift  string `json:"shift" validate:"required"`
}

// DeleteUserRequest entrada de admin-delete-user.
type DeleteUserRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}
