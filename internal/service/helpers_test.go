package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/allocdesk/internal/repository"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
)

// newServices returns services over empty in-memory repositories.
func newServices(t *testing.T) *Services {
	t.Helper()
	log := logger.Discard()
	return New(Repositories{
		Users:       repository.NewMemoryUserRepository(log),
		Employees:   repository.NewMemoryEmployeeRepository(log),
		Projects:    repository.NewMemoryProjectRepository(log),
		Allocations: repository.NewMemoryAllocationRepository(log),
	}, auth.NewTokenManager("test-secret", ""), time.Hour, log)
}

// seeded adds Mia Chen (admin, id 1), Jane Doe (id 2), Ann Lee (id 3),
// project Apollo owned by Mia (id 1) and one active allocation of Jane.
func seeded(t *testing.T) *Services {
	t.Helper()
	s := newServices(t)
	for _, e := range []domain.Employee{
		{Name: "Mia Chen", Email: "mia@corp.io", RoleName: "Manager", IsActive: true, IsAdmin: true},
		{Name: "Jane Doe", Email: "jane@corp.io", RoleName: "Engineer", IsActive: true},
		{Name: "Ann Lee", Email: "ann@corp.io", RoleName: "Analyst"},
	} {
		_, err := s.Employees.Add(e)
		require.NoError(t, err)
	}
	_, err := s.Projects.Add(domain.Project{
		ProjectName: "Apollo", OwnerName: "Mia Chen",
		StartDate: "2024-01-01", EndDate: "2024-12-31", IsActive: true,
	})
	require.NoError(t, err)
	_, err = s.Allocations.Add(domain.Allocation{
		AssigneeName: "Jane Doe", ProjectName: "Apollo",
		StartDate: "2024-02-01", EndDate: "2024-06-30", Percentage: 50, IsActive: true,
	}, "Mia Chen")
	require.NoError(t, err)
	return s
}
