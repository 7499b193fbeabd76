package domain

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleMember UserRole = "MEMBER"
)

// User is the slice of the identity collaborator's record this core needs:
// who owns vehicles and credits, and where reminders go.
type User struct {
	ID          int32     `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name"`
	Role        UserRole  `json:"role"`
	CreatedOn   time.Time `json:"created_on"`
}
