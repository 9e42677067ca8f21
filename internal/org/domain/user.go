package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus marks whether an employee is still with the company.
// Ex-users stay in the table so historical assignments keep resolving.
type UserStatus string

const (
	UserActive UserStatus = "Active"
	UserEx     UserStatus = "Ex-User"
)

// User is an employee in the sales organization. ManagerID back-references
// form a forest: every chain terminates at a user with a nil manager.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Role      Role
	ManagerID *uuid.UUID
	Region    string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
