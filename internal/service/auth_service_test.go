package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/allocdesk/internal/repository"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
)

var errStoreDown = errors.New("store unavailable")

// stuckEmployees refuses every delete.
type stuckEmployees struct {
	*repository.MemoryEmployeeRepository
}

func (stuckEmployees) Delete(int64) error { return errStoreDown }

// stuckUsers refuses every delete.
type stuckUsers struct {
	*repository.MemoryUserRepository
}

func (stuckUsers) Delete(string) error { return errStoreDown }

func TestRegisterAndLogin(t *testing.T) {
	s := seeded(t)

	require.NoError(t, s.Auth.Register(domain.Credentials{Email: "mia@corp.io", Password: "admin123"}))

	res, err := s.Auth.Login("mia@corp.io", "admin123")
	require.NoError(t, err)
	assert.True(t, res.IsAdmin)
	assert.NotEmpty(t, res.Token)

	claims, err := s.Auth.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "mia@corp.io", claims.Email)
	assert.True(t, claims.IsAdmin)

	_, err = s.Auth.Login("mia@corp.io", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = s.Auth.Login("nobody@corp.io", "admin123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegisterRequiresExistingEmployee(t *testing.T) {
	s := seeded(t)
	err := s.Auth.Register(domain.Credentials{Email: "ghost@corp.io", Password: "secret1"})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)

	err = s.Auth.Register(domain.Credentials{Email: "jane@corp.io", Password: "abc"})
	require.ErrorAs(t, err, &inputErr)

	require.NoError(t, s.Auth.Register(domain.Credentials{Email: "jane@corp.io", Password: "secret1"}))
	assert.ErrorIs(t, s.Auth.Register(domain.Credentials{Email: "jane@corp.io", Password: "secret1"}), domain.ErrConflict)
}

func TestRegisterWithDetailsCreatesEmployee(t *testing.T) {
	s := seeded(t)

	e, err := s.Auth.RegisterWithDetails(domain.Registration{
		Email: "raj@corp.io", Password: "secret1", Name: "Raj Patel",
		Role: "Designer", DateOfJoining: "2024-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.ID)
	assert.True(t, e.IsActive)

	id, err := s.Auth.EmployeeIDByEmail("raj@corp.io")
	require.NoError(t, err)
	assert.Equal(t, e.ID, id)

	_, err = s.Auth.Login("raj@corp.io", "secret1")
	require.NoError(t, err)
}

func TestRegisterWithDetailsRollsBackOnLoginConflict(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Auth.Register(domain.Credentials{Email: "mia@corp.io", Password: "admin123"}))
	s.Employees.DeleteAll("mia@corp.io")

	_, err := s.Auth.RegisterWithDetails(domain.Registration{Email: "mia@corp.io", Password: "secret1", Name: "Mia Chen"})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Employees.GetByName("Mia Chen")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// the kept login still works and falls back to its own admin flag
	d, err := s.Auth.Details("mia@corp.io")
	require.NoError(t, err)
	assert.True(t, d.IsAdmin)
}

func TestChangePassword(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Auth.Register(domain.Credentials{Email: "jane@corp.io", Password: "secret1"}))

	req := domain.PasswordChange{Email: "jane@corp.io", OldPassword: "secret1", NewPassword: "secret2"}
	assert.ErrorIs(t, s.Auth.ChangePassword("mia@corp.io", req), ErrForbidden)

	bad := req
	bad.OldPassword = "nope"
	var inputErr *InputError
	require.ErrorAs(t, s.Auth.ChangePassword("jane@corp.io", bad), &inputErr)
	assert.Equal(t, "Current password is incorrect", inputErr.Message)

	require.NoError(t, s.Auth.ChangePassword("jane@corp.io", req))
	_, err := s.Auth.Login("jane@corp.io", "secret2")
	require.NoError(t, err)
}

func TestDetailsFollowEmployeeAdminFlag(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Auth.Register(domain.Credentials{Email: "jane@corp.io", Password: "secret1"}))

	d, err := s.Auth.Details("jane@corp.io")
	require.NoError(t, err)
	assert.False(t, d.IsAdmin)

	jane, err := s.Employees.GetByName("Jane Doe")
	require.NoError(t, err)
	jane.IsAdmin = true
	_, err = s.Employees.UpdateByID(jane.ID, jane)
	require.NoError(t, err)

	isAdmin, err := s.Auth.IsAdmin("jane@corp.io")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestRegisterWithDetailsRollsBackEmployee(t *testing.T) {
	log := logger.Discard()
	users := repository.NewMemoryUserRepository(log)
	s := New(Repositories{
		Users:       users,
		Employees:   repository.NewMemoryEmployeeRepository(log),
		Projects:    repository.NewMemoryProjectRepository(log),
		Allocations: repository.NewMemoryAllocationRepository(log),
	}, auth.NewTokenManager("test-secret", ""), time.Hour, log)

	// A stale login blocks the second half, so the employee is removed again.
	require.NoError(t, users.Create(&domain.User{Email: "raj@corp.io"}))
	_, err := s.Auth.RegisterWithDetails(domain.Registration{
		Name: "Raj Patel", Email: "raj@corp.io", Role: "Engineer", Password: "secret1",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = s.Employees.GetByName("Raj Patel")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCleanupFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug")
	users := repository.NewMemoryUserRepository(log)
	employees := NewEmployeeService(
		stuckEmployees{repository.NewMemoryEmployeeRepository(log)},
		repository.NewMemoryProjectRepository(log),
		repository.NewMemoryAllocationRepository(log),
		stuckUsers{users},
		log,
	)
	authSvc := NewAuthService(users, employees, auth.NewTokenManager("test-secret", ""), time.Hour, log)

	require.NoError(t, users.Create(&domain.User{Email: "raj@corp.io"}))
	_, err := authSvc.RegisterWithDetails(domain.Registration{
		Name: "Raj Patel", Email: "raj@corp.io", Role: "Engineer", Password: "secret1",
	})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "failed to roll back employee")
	assert.Contains(t, buf.String(), errStoreDown.Error())

	buf.Reset()
	employees.DeleteAll("")
	assert.Contains(t, buf.String(), "failed to delete login")
}
