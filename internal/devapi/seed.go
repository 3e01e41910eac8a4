package devapi

import (
	"fmt"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/service"
)

// DemoAdminEmail is the administrator login created by Seed.
const DemoAdminEmail = "alex@allocdesk.local"

var (
	demoEmployees = []domain.Employee{
		{Name: "Alex Morgan", Email: DemoAdminEmail, RoleName: "Manager", DateOfJoining: "2019-03-04", IsActive: true, IsAdmin: true},
		{Name: "Sam Patel", Email: "sam@allocdesk.local", RoleName: "Engineer", DateOfJoining: "2021-06-14", IsActive: true},
		{Name: "Rita Gomez", Email: "rita@allocdesk.local", RoleName: "Designer", DateOfJoining: "2022-01-10", IsActive: true},
		{Name: "Lee Park", Email: "lee@allocdesk.local", RoleName: "Analyst", DateOfJoining: "2020-09-01"},
	}
	demoProjects = []domain.Project{
		{ProjectName: "Atlas", Description: "Billing platform rewrite", OwnerName: "Alex Morgan", StartDate: "2024-01-01", EndDate: "2030-12-31", IsActive: true},
		{ProjectName: "Beacon", Description: "Customer notifications", OwnerName: "Rita Gomez", StartDate: "2024-04-01", EndDate: "2030-06-30", IsActive: true},
	}
	demoAllocations = []domain.Allocation{
		{AssigneeName: "Sam Patel", ProjectName: "Atlas", StartDate: "2024-01-15", EndDate: "2030-12-31", Percentage: 60, IsActive: true},
		{AssigneeName: "Sam Patel", ProjectName: "Beacon", StartDate: "2024-04-01", EndDate: "2030-06-30", Percentage: 40, IsActive: true},
		{AssigneeName: "Rita Gomez", ProjectName: "Atlas", StartDate: "2024-02-01", EndDate: "2030-12-31", Percentage: 100, IsActive: true},
		{AssigneeName: "Lee Park", ProjectName: "Beacon", StartDate: "2024-04-01", EndDate: "2025-03-31", Percentage: 50},
	}
)

// Seed loads the demo records and a login for every active employee.
func Seed(svc *service.Services, password string) error {
	for _, e := range demoEmployees {
		if _, err := svc.Employees.Add(e); err != nil {
			return fmt.Errorf("employee %s: %w", e.Name, err)
		}
		if !e.IsActive {
			continue
		}
		if err := svc.Auth.Register(domain.Credentials{Email: e.Email, Password: password}); err != nil {
			return fmt.Errorf("login %s: %w", e.Email, err)
		}
	}
	for _, p := range demoProjects {
		if _, err := svc.Projects.Add(p); err != nil {
			return fmt.Errorf("project %s: %w", p.ProjectName, err)
		}
	}
	for _, a := range demoAllocations {
		if _, err := svc.Allocations.Add(a, "Alex Morgan"); err != nil {
			return fmt.Errorf("allocation %s on %s: %w", a.AssigneeName, a.ProjectName, err)
		}
	}
	return nil
}
