package form

import (
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/featureflags"
)

// Allocation field names, as sent on the wire.
const (
	FieldAllocationID  = "allocationId"
	FieldAssigneeName  = "assigneeName"
	FieldProjectName   = "projectName"
	FieldAllocStart    = "allocationStartDate"
	FieldAllocEnd      = "allocationEndDate"
	FieldAllocatorName = "allocatorName"
	FieldPercentage    = "percentageAllocation"
	FieldIsActive      = "isActive"
)

// DefaultPercentage is the fixed allocation share unless the
// editable_percentage flag is on.
const DefaultPercentage = 100

type allocationRequired struct {
	AssigneeName  string `validate:"required"`
	ProjectName   string `validate:"required"`
	AllocatorName string `validate:"required"`
	StartDate     string `validate:"required"`
	EndDate       string `validate:"required"`
	Percentage    int    `validate:"min=0,max=100"`
}

// AllocationDraft is the create/update form for one Allocation.
//
// Setting an end date before the start date is refused and leaves the draft
// untouched. Moving the start date past a chosen end date clears the end date
// instead; EndCleared reports that.
type AllocationDraft struct {
	rec        domain.Allocation
	allocator  string
	flags      featureflags.Set
	endCleared bool
}

var _ Draft = (*AllocationDraft)(nil)

// NewAllocationDraft starts an empty draft with the allocator fixed to the
// signed-in user's name.
func NewAllocationDraft(allocator string, flags featureflags.Set) *AllocationDraft {
	d := &AllocationDraft{allocator: allocator, flags: flags}
	d.Reset(nil)
	return d
}

// Reset replaces the draft with seed, or with a blank draft when seed is nil.
// A blank draft keeps the allocator, a 100% share and the active flag set.
func (d *AllocationDraft) Reset(seed *domain.Allocation) {
	d.endCleared = false
	if seed != nil {
		d.rec = *seed
		if d.rec.AllocatorName == "" {
			d.rec.AllocatorName = d.allocator
		}
		return
	}
	d.rec = domain.Allocation{
		AllocatorName: d.allocator,
		Percentage:    DefaultPercentage,
		IsActive:      true,
	}
}

// SetAllocator fixes the allocator once the session identity is known.
func (d *AllocationDraft) SetAllocator(name string) {
	d.allocator = name
	d.rec.AllocatorName = name
}

func (d *AllocationDraft) Fields() []string {
	return []string{
		FieldAssigneeName, FieldProjectName, FieldAllocStart, FieldAllocEnd,
		FieldAllocatorName, FieldPercentage, FieldIsActive,
	}
}

func (d *AllocationDraft) SetField(name, value string) error {
	d.endCleared = false
	switch name {
	case FieldAssigneeName:
		v, err := checkName("Employee Name", value)
		if err != nil {
			return err
		}
		d.rec.AssigneeName = v
	case FieldProjectName:
		v, err := checkName("Project Name", value)
		if err != nil {
			return err
		}
		d.rec.ProjectName = v
	case FieldAllocStart:
		v, err := checkDate("Allocation Start Date", value)
		if err != nil {
			return err
		}
		d.rec.StartDate = v
		if v != "" && d.rec.EndDate != "" && d.rec.EndDate < v {
			d.rec.EndDate = ""
			d.endCleared = true
		}
	case FieldAllocEnd:
		v, err := checkDate("Allocation End Date", value)
		if err != nil {
			return err
		}
		if v != "" && d.rec.StartDate != "" && v < d.rec.StartDate {
			return apperror.Local(EndBeforeStart)
		}
		d.rec.EndDate = v
	case FieldAllocatorName:
		return readOnly("Allocator Name")
	case FieldPercentage:
		if !d.flags.Enabled(featureflags.EditablePercentage) {
			return readOnly("% Allocation")
		}
		p, err := checkPercentage(value)
		if err != nil {
			return err
		}
		d.rec.Percentage = p
	case FieldIsActive:
		b, err := checkBool("Active", value)
		if err != nil {
			return err
		}
		d.rec.IsActive = b
	case FieldAllocationID:
		return readOnly("Allocation ID")
	default:
		return unknownField(name)
	}
	return nil
}

// EndCleared reports whether the last SetField cleared the end date.
func (d *AllocationDraft) EndCleared() bool {
	return d.endCleared
}

func (d *AllocationDraft) IsSubmittable() bool {
	return complete(allocationRequired{
		AssigneeName:  strings.TrimSpace(d.rec.AssigneeName),
		ProjectName:   strings.TrimSpace(d.rec.ProjectName),
		AllocatorName: strings.TrimSpace(d.rec.AllocatorName),
		StartDate:     d.rec.StartDate,
		EndDate:       d.rec.EndDate,
		Percentage:    d.rec.Percentage,
	})
}

// CheckDates enforces endDate >= startDate on the whole record. SetField
// guards edits, but a loaded record may already be out of order.
func (d *AllocationDraft) CheckDates() error {
	if d.rec.StartDate != "" && d.rec.EndDate != "" && d.rec.EndDate < d.rec.StartDate {
		return apperror.Local(EndBeforeStart)
	}
	return nil
}

// Allocation returns a copy of the draft with names trimmed.
func (d *AllocationDraft) Allocation() domain.Allocation {
	rec := d.rec
	rec.AssigneeName = strings.TrimSpace(rec.AssigneeName)
	rec.ProjectName = strings.TrimSpace(rec.ProjectName)
	return rec
}
