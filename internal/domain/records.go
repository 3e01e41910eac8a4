package domain

import (
	"strconv"
)

// Employee is a person known to the API.
type Employee struct {
	ID            int64  `json:"employeeId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	RoleName      string `json:"roleName"`
	DateOfJoining string `json:"dateOfJoining"`
	IsActive      bool   `json:"isActive"`
	IsAdmin       bool   `json:"isAdmin"`
}

// Empty reports whether the payload carried no record.
func (e Employee) Empty() bool {
	return e.ID == 0 && e.Name == "" && e.Email == ""
}

// Project is owned by an Employee, referenced by name at the edges.
type Project struct {
	ID          int64  `json:"projectId"`
	ProjectName string `json:"projectName"`
	Description string `json:"description"`
	OwnerID     int64  `json:"projectOwnerId,omitempty"`
	OwnerName   string `json:"projectOwnerName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsActive    bool   `json:"isActive"`
}

func (p Project) Empty() bool {
	return p.ID == 0 && p.ProjectName == ""
}

// Allocation assigns an Employee to a Project for a date range.
type Allocation struct {
	ID            int64  `json:"allocationId,omitempty"`
	AssigneeName  string `json:"assigneeName"`
	ProjectName   string `json:"projectName"`
	AllocatorName string `json:"allocatorName"`
	StartDate     string `json:"allocationStartDate"`
	EndDate       string `json:"allocationEndDate"`
	Percentage    int    `json:"percentageAllocation"`
	IsActive      bool   `json:"isActive"`
}

func (a Allocation) Empty() bool {
	return a.ID == 0 && a.AssigneeName == "" && a.ProjectName == ""
}

// NameRef is one typeahead or directory entry.
type NameRef struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Field is one labelled line of a read-only preview.
type Field struct {
	Label string
	Value string
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func idOrNA(id int64) string {
	if id == 0 {
		return "N/A"
	}
	return strconv.FormatInt(id, 10)
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// Summary renders the employee for a delete confirmation.
func (e Employee) Summary() []Field {
	return []Field{
		{"ID", idOrNA(e.ID)},
		{"Name", orNA(e.Name)},
		{"Email", orNA(e.Email)},
		{"Role", orNA(e.RoleName)},
		{"Date of Joining", orNA(e.DateOfJoining)},
		{"Status", yesNo(e.IsActive, "Active", "Inactive")},
		{"Admin", yesNo(e.IsAdmin, "Yes", "No")},
	}
}

// Summary renders the project for a delete confirmation.
func (p Project) Summary() []Field {
	owner := p.OwnerName
	if owner == "" && p.OwnerID != 0 {
		owner = strconv.FormatInt(p.OwnerID, 10)
	}
	return []Field{
		{"Project ID", idOrNA(p.ID)},
		{"Project Name", orNA(p.ProjectName)},
		{"Description", orNA(p.Description)},
		{"Project Owner", orNA(owner)},
		{"Start Date", orNA(p.StartDate)},
		{"End Date", orNA(p.EndDate)},
		{"Status", yesNo(p.IsActive, "Active", "Inactive")},
	}
}
