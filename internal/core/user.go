package core

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleSPC   Role = "SPC"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSPC
}

// DefaultAdminUsername is the seeded administrator, which can never be deactivated.
const DefaultAdminUsername = "admin"

// User is the public view of an account; the password hash never leaves the store.
type User struct {
	ID           int64     `json:"id"`
	EmployeeName string    `json:"employeeName"`
	MobileNumber string    `json:"mobileNumber"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	UpdatedBy    string    `json:"updatedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
