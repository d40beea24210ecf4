package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	UserOriginLocal = "local"
	UserRoleMember  = "member"
)

// User represents a user in the authentication system.
type User struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Email         string        `bson:"email"`
	PasswordHash  string        `bson:"password_hash"`
	FullName      string        `bson:"full_name"`
	ProfilePic    string        `bson:"profile_pic"`
	Origin        string        `bson:"origin"`
	Role          string        `bson:"role"`
	Active        bool          `bson:"active"`
	EmailVerified bool          `bson:"email_verified"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
}
