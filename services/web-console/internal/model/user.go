package model

// UserProfile is the current user as returned by the backend's "who am I" endpoint.
// Every field is passed through as received, whatever its JSON type.
type UserProfile struct {
	CreatedAt     any `json:"created_at"`
	Email         any `json:"email"`
	EmailVerified any `json:"email_verified"`
	FullName      any `json:"full_name"`
	IsActive      any `json:"is_active"`
	ProfilePic    any `json:"profile_pic"`
	UpdatedAt     any `json:"updated_at"`
	UserOrigin    any `json:"user_origin"`
	UserRole      any `json:"user_role"`
}
