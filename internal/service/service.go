package service

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
)

// InputError is a request the caller can correct. Its message is returned
// to the client verbatim.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

var (
	validate    = validator.New(validator.WithRequiredStructEnabled())
	namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s]*$`)
)

func checkName(label, v string) error {
	if !namePattern.MatchString(strings.TrimSpace(v)) {
		return invalid("%s must contain only letters and spaces", label)
	}
	return nil
}

func checkEmail(v string) error {
	if err := validate.Var(v, "required,email"); err != nil {
		return invalid("Invalid email address")
	}
	return nil
}

// checkRange validates optional dates and their order.
func checkRange(start, end, orderMessage string) error {
	if start != "" && !domain.ValidDate(start) {
		return invalid("Start date must be YYYY-MM-DD")
	}
	if end != "" && !domain.ValidDate(end) {
		return invalid("End date must be YYYY-MM-DD")
	}
	if start != "" && end != "" && end < start {
		return invalid("%s", orderMessage)
	}
	return nil
}

// matchNames keeps the refs whose name fuzzily contains partial, in id
// order, so getNames and getIds always line up.
func matchNames(partial string, refs []domain.NameRef) []domain.NameRef {
	partial = strings.TrimSpace(partial)
	out := make([]domain.NameRef, 0, len(refs))
	for _, ref := range refs {
		if fuzzy.MatchNormalizedFold(partial, ref.Name) {
			out = append(out, ref)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func filterActive[T any](rows []T, active bool, isActive func(T) bool) []T {
	if !active {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if isActive(r) {
			out = append(out, r)
		}
	}
	return out
}

// Repositories are the stores the services run on.
type Repositories struct {
	Users       domain.UserRepository
	Employees   domain.EmployeeRepository
	Projects    domain.ProjectRepository
	Allocations domain.AllocationRepository
}

// Services bundles every service of the development API.
type Services struct {
	Auth        *AuthService
	Employees   *EmployeeService
	Projects    *ProjectService
	Allocations *AllocationService
	Export      *ExportService
}

// New wires the services over repos.
func New(repos Repositories, tokens *auth.TokenManager, sessionTTL time.Duration, logger *slog.Logger) *Services {
	employees := NewEmployeeService(repos.Employees, repos.Projects, repos.Allocations, repos.Users, logger)
	projects := NewProjectService(repos.Projects, repos.Employees, repos.Allocations, logger)
	allocations := NewAllocationService(repos.Allocations, repos.Employees, repos.Projects, logger)
	return &Services{
		Auth:        NewAuthService(repos.Users, employees, tokens, sessionTTL, logger),
		Employees:   employees,
		Projects:    projects,
		Allocations: allocations,
		Export:      NewExportService(employees, projects, allocations),
	}
}
