package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^0\d{9}$`)
	nicRegex   = regexp.MustCompile(`^(\d{9}[vVxX]|\d{12})$`)
)

// DTOs for Request validation
type CreateEmployeeRequest struct {
	FirstName string   `json:"first_name" binding:"required,min=2,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=2,max=100"`
	Email     string   `json:"email" binding:"required,email"`
	NIC       string   `json:"nic" binding:"required"`
	Role      string   `json:"role" binding:"required,oneof=owner employee"`
	Password  string   `json:"password" binding:"required,min=6"`
	Phones    []string `json:"phones" binding:"required,min=1"`
}

type UpdateEmployeeRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Role      string `json:"role" binding:"omitempty,oneof=owner employee"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// EmployeeResponse returns an employee without exposing credentials
type EmployeeResponse struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	NIC       string   `json:"nic"`
	Role      string   `json:"role"`
	IsActive  bool     `json:"is_active"`
	Phones    []string `json:"phones"`
	CreatedAt string   `json:"created_at"`
}

type EmployeeService interface {
	Register(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetByID(ctx context.Context, id string) (*EmployeeResponse, error)
	List(ctx context.Context, page, limit int, activeOnly bool) ([]EmployeeResponse, int64, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	txManager repository.TransactionManager
}

func NewEmployeeService(repo repository.EmployeeRepository, txManager repository.TransactionManager) EmployeeService {
	return &employeeService{repo: repo, txManager: txManager}
}

func mapEmployee(e *model.Employee) *EmployeeResponse {
	phones := make([]string, 0, len(e.Phones))
	for _, p := range e.Phones {
		phones = append(phones, p.Number)
	}
	return &EmployeeResponse{
		ID:        e.ID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		NIC:       e.NIC,
		Role:      e.Role,
		IsActive:  e.IsActive,
		Phones:    phones,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func (s *employeeService) Register(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	verr := &ValidationError{}

	if !emailRegex.MatchString(req.Email) {
		verr.Fields = append(verr.Fields, fieldError("email", "invalid email format"))
	}
	if !nicRegex.MatchString(req.NIC) {
		verr.Fields = append(verr.Fields, fieldError("nic", "invalid NIC format"))
	}
	for _, number := range req.Phones {
		if !phoneRegex.MatchString(number) {
			verr.Fields = append(verr.Fields, fieldError("phones", "invalid phone number: "+number))
		}
	}

	// Uniqueness pre-checks before any persistence
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		verr.Fields = append(verr.Fields, fieldError("email", "email already exists"))
	}
	if _, err := s.repo.FindByNIC(ctx, req.NIC); err == nil {
		verr.Fields = append(verr.Fields, fieldError("nic", "NIC already exists"))
	}
	for _, number := range req.Phones {
		if _, err := s.repo.FindPhone(ctx, number); err == nil {
			verr.Fields = append(verr.Fields, fieldError("phones", "phone number already exists: "+number))
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	employee := &model.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		NIC:       req.NIC,
		Role:      req.Role,
		Password:  string(hashedPassword),
		IsActive:  true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, employee); err != nil {
			return err
		}
		for _, number := range req.Phones {
			phone := &model.EmployeePhone{EmployeeID: employee.ID, Number: number}
			if err := s.repo.AddPhone(txCtx, phone); err != nil {
				return err
			}
			employee.Phones = append(employee.Phones, *phone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapEmployee(employee), nil
}

func (s *employeeService) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	employee, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !employee.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	accessToken, err := s.signAccessToken(employee)
	if err != nil {
		return nil, err
	}

	refresh := &model.RefreshToken{
		EmployeeID: employee.ID,
		Token:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.StoreRefreshToken(ctx, refresh); err != nil {
		return nil, errors.New("failed to store refresh token")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *employeeService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, errors.New("refresh token expired")
	}

	employee, err := s.repo.FindByID(ctx, stored.EmployeeID)
	if err != nil || !employee.IsActive {
		return nil, errors.New("invalid refresh token")
	}

	accessToken, err := s.signAccessToken(employee)
	if err != nil {
		return nil, err
	}

	// Rotate the refresh token on every use
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, errors.New("failed to rotate refresh token")
	}
	rotated := &model.RefreshToken{
		EmployeeID: employee.ID,
		Token:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.StoreRefreshToken(ctx, rotated); err != nil {
		return nil, errors.New("failed to store refresh token")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: rotated.Token}, nil
}

func (s *employeeService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *employeeService) signAccessToken(employee *model.Employee) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  employee.ID.String(),
		"role": employee.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return "", errors.New("failed to generate token")
	}
	return signed, nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, ErrNotFound
	}
	return mapEmployee(employee), nil
}

func (s *employeeService) List(ctx context.Context, page, limit int, activeOnly bool) ([]EmployeeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	employees, total, err := s.repo.List(ctx, page, limit, activeOnly)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, *mapEmployee(&employees[i]))
	}
	return responses, total, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Email != "" && req.Email != employee.Email {
		if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
			return nil, &ValidationError{Fields: []response.FieldError{fieldError("email", "email already exists")}}
		}
		employee.Email = req.Email
	}
	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Role != "" {
		employee.Role = req.Role
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return mapEmployee(employee), nil
}

// Deactivate flags the employee inactive instead of deleting the row, keeping
// the employee's historical jobs referencable.
func (s *employeeService) Deactivate(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return ErrNotFound
	}
	employee.IsActive = false
	return s.repo.Update(ctx, employee)
}
