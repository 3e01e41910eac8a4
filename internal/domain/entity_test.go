package domain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTable(t *testing.T) {
	t.Parallel()

	assert.True(t, KindAllocation.Supports(DeleteEmpID))
	assert.True(t, KindAllocation.Supports(GetAll))
	assert.False(t, KindEmployee.Supports(DeleteEmpID))
	assert.False(t, KindProject.Supports(GetAllNames))
	assert.True(t, KindEmployee.Supports(GetAllNames))
	assert.True(t, KindGeneric.Supports(Login))
	assert.False(t, KindGeneric.Supports(GetAll))
	assert.False(t, Kind{}.Supports(GetAll))
	assert.False(t, Kind{}.Valid())
}

func TestActionVerbs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.MethodPost, Add.Method())
	assert.Equal(t, http.MethodPut, UpdateName.Method())
	assert.Equal(t, http.MethodDelete, DeleteProjID.Method())
	assert.True(t, GetByID.NeedsQualifier())
	assert.False(t, DeleteAll.NeedsQualifier())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := ParseKind(" Allocations ")
	require.NoError(t, err)
	assert.Equal(t, KindAllocation, k)
	assert.Equal(t, "Allocation", k.Title())

	_, err = ParseKind("department")
	require.Error(t, err)
	assert.Equal(t, "", KindGeneric.PathSegment())
}

func TestSummaryFallsBackToNA(t *testing.T) {
	t.Parallel()

	fields := Employee{Name: "Ann Lee", IsActive: true}.Summary()
	require.Len(t, fields, 7)
	assert.Equal(t, Field{"ID", "N/A"}, fields[0])
	assert.Equal(t, Field{"Status", "Active"}, fields[5])
	assert.Equal(t, Field{"Admin", "No"}, fields[6])
}
