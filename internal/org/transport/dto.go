package transport

import (
	"time"

	"anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"`
	ManagerID *uuid.UUID `json:"managerId,omitempty"`
	Region    string     `json:"region,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CreateUserRequest struct {
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role" validate:"required"`
	ManagerID *uuid.UUID `json:"managerId"`
	Region    string     `json:"region"`
	Password  string     `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name      *string    `json:"name"`
	Phone     *string    `json:"phone"`
	Role      *string    `json:"role"`
	ManagerID *uuid.UUID `json:"managerId"`
	// ManagerIDSet marks an explicit manager change, including clearing.
	ManagerIDSet bool    `json:"managerIdSet"`
	Region       *string `json:"region"`
	Status       *string `json:"status"`
}

type SubordinatesResponse struct {
	UserID       uuid.UUID   `json:"userId"`
	Subordinates []uuid.UUID `json:"subordinates"`
}

type IntegrityResponse struct {
	CyclicUsers []uuid.UUID `json:"cyclicUsers"`
	Healthy     bool        `json:"healthy"`
}

func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		ManagerID: u.ManagerID,
		Region:    u.Region,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
