package form

import (
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

const (
	FieldProjectID   = "projectId"
	FieldDescription = "description"
	FieldOwnerName   = "projectOwnerName"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
)

type projectRequired struct {
	ProjectName string `validate:"required"`
	Description string `validate:"required"`
	OwnerName   string `validate:"required"`
	StartDate   string `validate:"required"`
	EndDate     string `validate:"required"`
}

// ProjectDraft is the create/update form for one Project. The owner is typed
// as a name and checked against the employee directory on submit.
type ProjectDraft struct {
	rec domain.Project
}

var _ Draft = (*ProjectDraft)(nil)

func NewProjectDraft() *ProjectDraft {
	d := &ProjectDraft{}
	d.Reset(nil)
	return d
}

func (d *ProjectDraft) Reset(seed *domain.Project) {
	if seed != nil {
		d.rec = *seed
		return
	}
	d.rec = domain.Project{IsActive: true}
}

func (d *ProjectDraft) Fields() []string {
	return []string{FieldProjectName, FieldDescription, FieldOwnerName, FieldStartDate, FieldEndDate, FieldIsActive}
}

func (d *ProjectDraft) SetField(name, value string) error {
	switch name {
	case FieldProjectName:
		v, err := checkName("Project Name", value)
		if err != nil {
			return err
		}
		d.rec.ProjectName = v
	case FieldDescription:
		d.rec.Description = value
	case FieldOwnerName:
		v, err := checkName("Project Owner", value)
		if err != nil {
			return err
		}
		d.rec.OwnerName = v
	case FieldStartDate:
		v, err := checkDate("Start Date", value)
		if err != nil {
			return err
		}
		d.rec.StartDate = v
	case FieldEndDate:
		v, err := checkDate("End Date", value)
		if err != nil {
			return err
		}
		d.rec.EndDate = v
	case FieldIsActive:
		b, err := checkBool("Active", value)
		if err != nil {
			return err
		}
		d.rec.IsActive = b
	case FieldProjectID:
		return readOnly("Project ID")
	default:
		return unknownField(name)
	}
	return nil
}

func (d *ProjectDraft) IsSubmittable() bool {
	return complete(projectRequired{
		ProjectName: strings.TrimSpace(d.rec.ProjectName),
		Description: strings.TrimSpace(d.rec.Description),
		OwnerName:   strings.TrimSpace(d.rec.OwnerName),
		StartDate:   d.rec.StartDate,
		EndDate:     d.rec.EndDate,
	})
}

// CheckDates enforces endDate >= startDate. Project dates are only compared
// at submission.
func (d *ProjectDraft) CheckDates() error {
	if d.rec.StartDate != "" && d.rec.EndDate != "" && d.rec.EndDate < d.rec.StartDate {
		return apperror.Local(EndBeforeStart)
	}
	return nil
}

func (d *ProjectDraft) Project() domain.Project {
	rec := d.rec
	rec.ProjectName = strings.TrimSpace(rec.ProjectName)
	rec.OwnerName = strings.TrimSpace(rec.OwnerName)
	return rec
}
