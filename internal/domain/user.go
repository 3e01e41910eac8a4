package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// User is a login bound to an employee record
type User struct {
	Email        string // Unique, matches the employee email
	PasswordHash string // Bcrypt hash, never returned by the API
	EmployeeID   int64
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines data access for logins
type UserRepository interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	Update(user *User) error
	Delete(email string) error
}

// EmployeeRepository defines data access for employees
type EmployeeRepository interface {
	List() []Employee
	Get(id int64) (Employee, error)
	FindByName(name string) (Employee, error)
	FindByEmail(email string) (Employee, error)
	Create(e *Employee) error
	Update(e Employee) error
	Delete(id int64) error
	DeleteAll() int
}

// ProjectRepository defines data access for projects
type ProjectRepository interface {
	List() []Project
	Get(id int64) (Project, error)
	FindByName(name string) (Project, error)
	Create(p *Project) error
	Update(p Project) error
	Delete(id int64) error
	DeleteAll() int
}

// AllocationRepository defines data access for allocations
type AllocationRepository interface {
	List() []Allocation
	Get(id int64) (Allocation, error)
	Create(a *Allocation) error
	Update(a Allocation) error
	Delete(id int64) error
	DeleteWhere(match func(Allocation) bool) []int64
	DeleteAll() int
}
