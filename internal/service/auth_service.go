package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/security/auth"
)

// DefaultSessionTTL is how long a login cookie stays valid.
const DefaultSessionTTL = 8 * time.Hour

// ErrForbidden is returned when a signed-in user acts on someone else's login.
var ErrForbidden = errors.New("forbidden")

// AuthService handles logins, registration and session details
type AuthService struct {
	users     domain.UserRepository
	employees *EmployeeService
	tokens    *auth.TokenManager
	ttl       time.Duration
	logger    *slog.Logger
}

// LoginResult is a freshly issued session
type LoginResult struct {
	Email     string
	IsAdmin   bool
	Token     string
	ExpiresIn time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	users domain.UserRepository,
	employees *EmployeeService,
	tokens *auth.TokenManager,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{users: users, employees: employees, tokens: tokens, ttl: ttl, logger: logger}
}

// Login authenticates a user and returns a signed session token
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		s.logger.Info("login attempt with unknown email", slog.String("email", email))
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		return nil, err
	}

	isAdmin := s.isAdmin(user)
	token, err := s.tokens.GenerateToken(user.Email, isAdmin, s.ttl)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("user logged in", slog.String("email", user.Email))
	return &LoginResult{Email: user.Email, IsAdmin: isAdmin, Token: token, ExpiresIn: s.ttl}, nil
}

// VerifyToken parses a session token
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return s.tokens.ValidateToken(token)
}

// Register creates a login for an employee that already exists.
func (s *AuthService) Register(creds domain.Credentials) error {
	e, err := s.employees.employees.FindByEmail(creds.Email)
	if err != nil {
		return invalid("No employee is registered with this email")
	}
	return s.createLogin(e, creds.Password)
}

// RegisterWithDetails creates the employee and its login together. The
// employee is removed again when the login cannot be created.
func (s *AuthService) RegisterWithDetails(reg domain.Registration) (domain.Employee, error) {
	if len(reg.Password) < auth.MinPasswordLength {
		return domain.Employee{}, invalid("%s", auth.ErrWeakPassword.Error())
	}
	e, err := s.employees.Add(domain.Employee{
		Name:          reg.Name,
		Email:         reg.Email,
		RoleName:      reg.Role,
		DateOfJoining: reg.DateOfJoining,
		IsActive:      true,
	})
	if err != nil {
		return domain.Employee{}, err
	}
	if err := s.createLogin(e, reg.Password); err != nil {
		if rbErr := s.employees.employees.Delete(e.ID); rbErr != nil {
			s.logger.Error("failed to roll back employee",
				slog.Int64("employee_id", e.ID),
				slog.String("error", rbErr.Error()),
			)
		}
		return domain.Employee{}, err
	}
	return e, nil
}

func (s *AuthService) createLogin(e domain.Employee, password string) error {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrWeakPassword) {
		return invalid("%s", err.Error())
	}
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return errors.New("failed to register user")
	}
	user := &domain.User{Email: e.Email, PasswordHash: hash, EmployeeID: e.ID, IsAdmin: e.IsAdmin}
	if err := s.users.Create(user); err != nil {
		return err
	}
	s.logger.Info("user registered", slog.String("email", e.Email), slog.Int64("employee_id", e.ID))
	return nil
}

// ChangePassword changes the password of actor. Only the signed-in user
// may change their own password.
func (s *AuthService) ChangePassword(actor string, req domain.PasswordChange) error {
	if !sameName(actor, req.Email) {
		return fmt.Errorf("change password for %s: %w", req.Email, ErrForbidden)
	}
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.OldPassword); err != nil {
		return invalid("Current password is incorrect")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return invalid("%s", err.Error())
	}
	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		s.logger.Error("failed to update user password", slog.String("error", err.Error()))
		return errors.New("failed to change password")
	}
	s.logger.Info("user changed password", slog.String("email", user.Email))
	return nil
}

// Details reports who the session belongs to, with the current admin flag.
func (s *AuthService) Details(email string) (domain.UserDetails, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return domain.UserDetails{}, err
	}
	return domain.UserDetails{Email: user.Email, IsAdmin: s.isAdmin(user)}, nil
}

func (s *AuthService) IsAdmin(email string) (bool, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return false, err
	}
	return s.isAdmin(user), nil
}

// EmployeeIDByEmail returns the employee id behind a login email
func (s *AuthService) EmployeeIDByEmail(email string) (int64, error) {
	e, err := s.employees.employees.FindByEmail(email)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// isAdmin prefers the employee record; the login's copy only matters when
// the employee is gone.
func (s *AuthService) isAdmin(user *domain.User) bool {
	if e, err := s.employees.Get(user.EmployeeID); err == nil {
		return e.IsAdmin
	}
	return user.IsAdmin
}
