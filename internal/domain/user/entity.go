package user

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusPending  Status = "PENDING"
	StatusDisabled Status = "DISABLED"
)

// User is the external identity the engine punches against. The engine reads
// status, branch and shift assignments, and owns exactly two mutable fields:
// the rolling late counter and the early-exit counter.
type User struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	Status         Status
	BranchID       *string
	ShiftID        *string
	LateCount      int
	EarlyExitCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
