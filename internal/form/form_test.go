package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/featureflags"
)

func fill(t *testing.T, d Draft, kv ...string) {
	t.Helper()
	require.Zero(t, len(kv)%2)
	for i := 0; i < len(kv); i += 2 {
		require.NoError(t, d.SetField(kv[i], kv[i+1]), kv[i])
	}
}

func TestAllocationDraftDefaults(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	a := d.Allocation()
	assert.Equal(t, "Mia Chen", a.AllocatorName)
	assert.Equal(t, 100, a.Percentage)
	assert.True(t, a.IsActive)
	assert.False(t, d.IsSubmittable())
}

func TestAllocationDraftSubmittable(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	fill(t, d,
		FieldAssigneeName, "Jane Doe",
		FieldProjectName, "Apollo",
		FieldAllocStart, "2024-01-01",
		FieldAllocEnd, "2024-06-01",
	)
	assert.True(t, d.IsSubmittable())

	blank := NewAllocationDraft("", nil)
	fill(t, blank,
		FieldAssigneeName, "Jane Doe",
		FieldProjectName, "Apollo",
		FieldAllocStart, "2024-01-01",
		FieldAllocEnd, "2024-06-01",
	)
	assert.False(t, blank.IsSubmittable(), "allocator is required")
}

func TestAllocationDraftRejectsEndBeforeStart(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	fill(t, d, FieldAllocStart, "2024-01-01")

	err := d.SetField(FieldAllocEnd, "2023-12-31")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindLocal))
	assert.Equal(t, EndBeforeStart, err.Error())
	assert.Empty(t, d.Allocation().EndDate)

	fill(t, d, FieldAllocEnd, "2024-06-01")
	require.Error(t, d.SetField(FieldAllocEnd, "2023-06-01"))
	assert.Equal(t, "2024-06-01", d.Allocation().EndDate)
}

func TestAllocationDraftStartPastEndClearsEnd(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	fill(t, d, FieldAllocStart, "2024-01-01", FieldAllocEnd, "2024-02-01")
	assert.False(t, d.EndCleared())

	fill(t, d, FieldAllocStart, "2024-03-01")
	assert.True(t, d.EndCleared())
	assert.Equal(t, "2024-03-01", d.Allocation().StartDate)
	assert.Empty(t, d.Allocation().EndDate)

	fill(t, d, FieldAllocEnd, "2024-03-01")
	assert.False(t, d.EndCleared())
}

func TestAllocationDraftReadOnlyFields(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	assert.Error(t, d.SetField(FieldAllocatorName, "Someone Else"))
	assert.Error(t, d.SetField(FieldPercentage, "50"))
	assert.Equal(t, "Mia Chen", d.Allocation().AllocatorName)
	assert.Equal(t, 100, d.Allocation().Percentage)

	editable := NewAllocationDraft("Mia Chen", featureflags.Set{featureflags.EditablePercentage: true})
	require.NoError(t, editable.SetField(FieldPercentage, "50"))
	assert.Equal(t, 50, editable.Allocation().Percentage)
	assert.Error(t, editable.SetField(FieldPercentage, "101"))
	assert.Error(t, editable.SetField(FieldPercentage, "-1"))
	assert.Equal(t, 50, editable.Allocation().Percentage)
}

func TestAllocationDraftFieldValidators(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	assert.Error(t, d.SetField(FieldAssigneeName, "Jane2"))
	assert.Error(t, d.SetField(FieldAllocStart, "01/02/2024"))
	assert.Error(t, d.SetField(FieldAllocStart, "2024-02-30"))
	assert.Error(t, d.SetField(FieldIsActive, "maybe"))
	assert.Error(t, d.SetField("colour", "red"))
	assert.Empty(t, d.Allocation().AssigneeName)
	assert.Empty(t, d.Allocation().StartDate)
}

func TestAllocationDraftResetKeepsAllocator(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("", nil)
	d.SetAllocator("Mia Chen")
	fill(t, d, FieldAssigneeName, "Jane Doe", FieldIsActive, "false")
	d.Reset(nil)

	a := d.Allocation()
	assert.Empty(t, a.AssigneeName)
	assert.True(t, a.IsActive)
	assert.Equal(t, "Mia Chen", a.AllocatorName)

	d.Reset(&domain.Allocation{ID: 4, AssigneeName: "Ann Lee", AllocatorName: "Raj Patel"})
	assert.Equal(t, "Raj Patel", d.Allocation().AllocatorName)
	assert.Equal(t, int64(4), d.Allocation().ID)
}

func TestAllocationDraftCheckDatesOnSeed(t *testing.T) {
	t.Parallel()
	d := NewAllocationDraft("Mia Chen", nil)
	assert.NoError(t, d.CheckDates())

	d.Reset(&domain.Allocation{ID: 9, StartDate: "2024-06-01", EndDate: "2024-01-01"})
	assert.Equal(t, EndBeforeStart, apperror.Message(d.CheckDates(), ""))

	fill(t, d, FieldAllocEnd, "2024-06-01")
	assert.NoError(t, d.CheckDates())
}

func TestLookupName(t *testing.T) {
	t.Parallel()
	v, err := LookupName("  Ann Lee ")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", v)

	_, err = LookupName("Apollo 11")
	assert.Equal(t, LettersOnly, apperror.Message(err, ""))
	_, err = LookupName(" ")
	assert.Equal(t, IncompleteMessage, apperror.Message(err, ""))
}

func TestProjectDraft(t *testing.T) {
	t.Parallel()
	d := NewProjectDraft()
	fill(t, d,
		FieldProjectName, "Apollo",
		FieldDescription, "Moonshot",
		FieldOwnerName, "Ann Lee",
		FieldStartDate, "2024-05-01",
		FieldEndDate, "2024-04-01",
	)
	assert.True(t, d.IsSubmittable())
	assert.Equal(t, EndBeforeStart, apperror.Message(d.CheckDates(), ""))

	fill(t, d, FieldEndDate, "2024-05-01")
	assert.NoError(t, d.CheckDates())
	assert.Error(t, d.SetField(FieldProjectID, "9"))
	assert.Error(t, d.SetField(FieldOwnerName, "Ann_Lee"))
}

func TestEmployeeDraftRegistration(t *testing.T) {
	t.Parallel()
	d := NewEmployeeDraft()
	require.True(t, d.Registering())
	fill(t, d,
		FieldName, "Ann Lee",
		FieldEmail, "ann@corp.io",
		FieldRoleName, "Engineer",
		FieldDateOfJoining, "2023-09-01",
	)
	assert.False(t, d.IsSubmittable(), "password missing")
	fill(t, d, FieldPassword, "s3cret!")
	assert.True(t, d.IsSubmittable())

	reg := d.Registration()
	assert.Equal(t, "Engineer", reg.Role)
	assert.Equal(t, "s3cret!", reg.Password)

	fill(t, d, FieldEmail, "not-an-email")
	assert.False(t, d.IsSubmittable())
}

func TestEmployeeDraftUpdate(t *testing.T) {
	t.Parallel()
	d := NewEmployeeDraft()
	d.Reset(&domain.Employee{ID: 5, Name: "Ann Lee", Email: "ann@corp.io", RoleName: "Engineer", DateOfJoining: "2023-09-01"})
	assert.False(t, d.Registering())
	assert.True(t, d.IsSubmittable())
	assert.Error(t, d.SetField(FieldPassword, "x"))
	assert.Error(t, d.SetField(FieldEmployeeID, "6"))
	assert.NotContains(t, d.Fields(), FieldPassword)
}

func TestParseID(t *testing.T) {
	t.Parallel()
	id, err := ParseID("ID", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("ID", "4a")
	assert.True(t, apperror.Is(err, apperror.KindLocal))

	id, err = ParseID("ID", "")
	require.NoError(t, err)
	assert.Zero(t, id)
}
