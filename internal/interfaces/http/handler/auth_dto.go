package handler

import (
	"time"

	identityapp "github.com/laundry/backend/internal/application/identity"
)

// RegisterRequest is the customer self-signup body
//
//	@Description	Customer self-signup
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Asha Rao"`
	Email    string `json:"email" binding:"required,email,max=200" example:"asha@example.com"`
	Phone    string `json:"phone" binding:"required,min=10,max=20" example:"+919876543210"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cretpass"`
}

// LoginRequest represents login credentials
//
//	@Description	Login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@laundry.test"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// TokenResponse is the token pair returned on login, signup and refresh
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// LoginResponse pairs the issued tokens with the account
type LoginResponse struct {
	Token TokenResponse        `json:"token"`
	User  identityapp.UserInfo `json:"user"`
}

// RefreshTokenResponse wraps the rotated token pair
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message" example:"Logged out"`
}

func toLoginResponse(r *identityapp.LoginResult) LoginResponse {
	return LoginResponse{
		Token: TokenResponse{
			AccessToken:           r.AccessToken,
			RefreshToken:          r.RefreshToken,
			AccessTokenExpiresAt:  r.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: r.RefreshTokenExpiresAt,
			TokenType:             r.TokenType,
		},
		User: r.User,
	}
}
