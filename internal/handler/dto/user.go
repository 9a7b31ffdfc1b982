package dto

import (
	"time"

	"github.com/recipeshare/recipeshare/internal/model"
)

// CreateUserRequest is the request body for POST /api/v1/users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserResponse is the response body for a user.
type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CreateTime time.Time `json:"create_time"`
}

// UserSummary is the owner shown inside a recipe.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		CreateTime: user.CreatedAt,
	}
}

// ToUserListResponse converts users to a list response.
func ToUserListResponse(users []*model.User) *ListResponse[*UserResponse] {
	data := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, ToUserResponse(u))
	}
	return &ListResponse[*UserResponse]{Data: data}
}
