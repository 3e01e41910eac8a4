package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
)

func TestEmployeeRepositoryAssignsIDsAndFindsByName(t *testing.T) {
	repo := NewMemoryEmployeeRepository(logger.Discard())

	jane := domain.Employee{Name: "Jane Doe", Email: "jane@corp.io"}
	require.NoError(t, repo.Create(&jane))
	ann := domain.Employee{Name: "Ann Lee", Email: "ann@corp.io"}
	require.NoError(t, repo.Create(&ann))

	assert.Equal(t, int64(1), jane.ID)
	assert.Equal(t, int64(2), ann.ID)

	got, err := repo.FindByName("  jane doe ")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, got.ID)

	got, err = repo.FindByEmail("ANN@corp.io")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)

	_, err = repo.FindByName("Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeRepositoryRejectsDuplicates(t *testing.T) {
	repo := NewMemoryEmployeeRepository(logger.Discard())
	require.NoError(t, repo.Create(&domain.Employee{Name: "Jane Doe", Email: "jane@corp.io"}))

	err := repo.Create(&domain.Employee{Name: "JANE DOE", Email: "other@corp.io"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = repo.Create(&domain.Employee{Name: "Jane Roe", Email: "jane@corp.io"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEmployeeRepositoryUpdateKeepsOwnName(t *testing.T) {
	repo := NewMemoryEmployeeRepository(logger.Discard())
	e := domain.Employee{Name: "Jane Doe", Email: "jane@corp.io"}
	require.NoError(t, repo.Create(&e))

	e.RoleName = "Engineer"
	require.NoError(t, repo.Update(e))

	got, err := repo.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", got.RoleName)

	assert.ErrorIs(t, repo.Update(domain.Employee{ID: 99, Name: "Ghost"}), domain.ErrNotFound)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	repo := NewMemoryProjectRepository(logger.Discard())
	p := domain.Project{ProjectName: "Apollo"}
	require.NoError(t, repo.Create(&p))
	require.NoError(t, repo.Delete(p.ID))

	q := domain.Project{ProjectName: "Gemini"}
	require.NoError(t, repo.Create(&q))
	assert.Equal(t, int64(2), q.ID)
	assert.ErrorIs(t, repo.Delete(p.ID), domain.ErrNotFound)
}

func TestAllocationDeleteWhere(t *testing.T) {
	repo := NewMemoryAllocationRepository(logger.Discard())
	for _, name := range []string{"Jane Doe", "Ann Lee", "Jane Doe"} {
		a := domain.Allocation{AssigneeName: name, ProjectName: "Apollo", IsActive: true}
		require.NoError(t, repo.Create(&a))
	}

	ids := repo.DeleteWhere(func(a domain.Allocation) bool { return a.AssigneeName == "Jane Doe" })
	assert.Equal(t, []int64{1, 3}, ids)

	left := repo.List()
	require.Len(t, left, 1)
	assert.Equal(t, "Ann Lee", left[0].AssigneeName)
	assert.Equal(t, 1, repo.DeleteAll())
	assert.Empty(t, repo.List())
}

func TestUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository(logger.Discard())
	u := &domain.User{Email: "Mia@Corp.io", PasswordHash: "x", EmployeeID: 2}
	require.NoError(t, repo.Create(u))
	assert.False(t, u.CreatedAt.IsZero())

	assert.ErrorIs(t, repo.Create(&domain.User{Email: "mia@corp.io"}), domain.ErrConflict)

	got, err := repo.GetByEmail("mia@corp.io")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.EmployeeID)

	got.IsAdmin = true
	require.NoError(t, repo.Update(got))
	got, err = repo.GetByEmail("MIA@CORP.IO")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	require.NoError(t, repo.Delete("mia@corp.io"))
	_, err = repo.GetByEmail("mia@corp.io")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
