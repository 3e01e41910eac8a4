package service

import (
	"strconv"
	"strings"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// Sheet is one exportable table.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// ExportService builds spreadsheet rows for downloadExcel.
type ExportService struct {
	employees   *EmployeeService
	projects    *ProjectService
	allocations *AllocationService
}

func NewExportService(e *EmployeeService, p *ProjectService, a *AllocationService) *ExportService {
	return &ExportService{employees: e, projects: p, allocations: a}
}

// Sheet selects the rows of kind. filterType is one of "" or "all",
// "active", "name" (substring), "id", and for allocations also "employee"
// and "project" (exact name).
func (s *ExportService) Sheet(kind domain.Kind, filterType, value string) (Sheet, error) {
	filterType = strings.ToLower(strings.TrimSpace(filterType))
	switch kind {
	case domain.KindEmployee:
		return s.employeeSheet(filterType, value)
	case domain.KindProject:
		return s.projectSheet(filterType, value)
	case domain.KindAllocation:
		return s.allocationSheet(filterType, value)
	}
	return Sheet{}, invalid("%s cannot be exported", kind)
}

func (s *ExportService) employeeSheet(filterType, value string) (Sheet, error) {
	var rows []domain.Employee
	switch filterType {
	case "", "all":
		rows = s.employees.List(false)
	case "active":
		rows = s.employees.List(true)
	case "name":
		rows = s.employees.SearchByName(value)
	case "id":
		e, err := s.employees.Get(parseExportID(value))
		if err != nil {
			return Sheet{}, err
		}
		rows = []domain.Employee{e}
	default:
		return Sheet{}, invalid("Unknown export type %q", filterType)
	}
	sheet := Sheet{
		Name:   "Employees",
		Header: []string{"Employee ID", "Name", "Email", "Role", "Date of Joining", "Active", "Admin"},
	}
	for _, e := range rows {
		sheet.Rows = append(sheet.Rows, []any{e.ID, e.Name, e.Email, e.RoleName, e.DateOfJoining, e.IsActive, e.IsAdmin})
	}
	return sheet, nil
}

func (s *ExportService) projectSheet(filterType, value string) (Sheet, error) {
	var rows []domain.Project
	switch filterType {
	case "", "all":
		rows = s.projects.List(false)
	case "active":
		rows = s.projects.List(true)
	case "name":
		rows = s.projects.SearchByName(value)
	case "id":
		p, err := s.projects.Get(parseExportID(value))
		if err != nil {
			return Sheet{}, err
		}
		rows = []domain.Project{p}
	default:
		return Sheet{}, invalid("Unknown export type %q", filterType)
	}
	sheet := Sheet{
		Name:   "Projects",
		Header: []string{"Project ID", "Project Name", "Description", "Owner", "Start Date", "End Date", "Active"},
	}
	for _, p := range rows {
		sheet.Rows = append(sheet.Rows, []any{p.ID, p.ProjectName, p.Description, p.OwnerName, p.StartDate, p.EndDate, p.IsActive})
	}
	return sheet, nil
}

func (s *ExportService) allocationSheet(filterType, value string) (Sheet, error) {
	var rows []domain.Allocation
	switch filterType {
	case "", "all":
		rows = s.allocations.List(false)
	case "active":
		rows = s.allocations.List(true)
	case "name":
		rows = s.allocations.SearchByName(value)
	case "employee":
		rows = s.allocations.ByEmployeeName(value, false)
	case "project":
		rows = s.allocations.ByProjectName(value, false)
	case "id":
		a, err := s.allocations.Get(parseExportID(value))
		if err != nil {
			return Sheet{}, err
		}
		rows = []domain.Allocation{a}
	default:
		return Sheet{}, invalid("Unknown export type %q", filterType)
	}
	sheet := Sheet{
		Name:   "Allocations",
		Header: []string{"Allocation ID", "Assignee", "Project", "Allocator", "Start Date", "End Date", "Percentage", "Active"},
	}
	for _, a := range rows {
		sheet.Rows = append(sheet.Rows, []any{a.ID, a.AssigneeName, a.ProjectName, a.AllocatorName, a.StartDate, a.EndDate, a.Percentage, a.IsActive})
	}
	return sheet, nil
}

func parseExportID(v string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return id
}
