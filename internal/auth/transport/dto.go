package transport

import orgtransport "anchor_crm_backend/internal/org/transport"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string                    `json:"accessToken"`
	RefreshToken string                    `json:"refreshToken"`
	ExpiresIn    int64                     `json:"expiresIn"`
	User         orgtransport.UserResponse `json:"user"`
}
