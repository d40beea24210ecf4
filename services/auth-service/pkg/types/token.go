package types

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the claims carried by access and refresh tokens.
type JWTClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Tokens is the token pair issued on login and registration. The refresh token
// travels as "aio_token".
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"aio_token"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	CreatedAt     string `json:"created_at"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	FullName      string `json:"full_name"`
	IsActive      bool   `json:"is_active"`
	ProfilePic    string `json:"profile_pic"`
	UpdatedAt     string `json:"updated_at"`
	UserOrigin    string `json:"user_origin"`
	UserRole      string `json:"user_role"`
}
