package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
	"github.com/avialine/backoffice/internal/security"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidUserEdit = errors.New("invalid user edit")
)

type CreateUserRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleID    uint
	OfficeID  *uint
	Birthdate *time.Time
}

// UserEdit carries the fields an administrator may change. Nil fields
// are left untouched; the email is immutable.
type UserEdit struct {
	FirstName *string
	LastName  *string
	RoleID    *uint
	OfficeID  *uint
	Active    *bool
}

type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo}
}

func (s *UserService) List() ([]domain.User, error) {
	return s.userRepo.List()
}

func (s *UserService) Get(id uint) (*domain.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) Create(req CreateUserRequest) (*domain.User, error) {
	email := normalizeIdentity(req.Email)
	if email == "" || req.Password == "" || req.LastName == "" {
		return nil, fmt.Errorf("%w: email, password and last name are required", ErrInvalidUserEdit)
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.roleRepo.FindByID(req.RoleID); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RoleID:       req.RoleID,
		OfficeID:     req.OfficeID,
		Birthdate:    req.Birthdate,
		Active:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(id uint, edit UserEdit) (*domain.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if edit.FirstName != nil {
		user.FirstName = *edit.FirstName
	}
	if edit.LastName != nil {
		if *edit.LastName == "" {
			return nil, fmt.Errorf("%w: last name must not be empty", ErrInvalidUserEdit)
		}
		user.LastName = *edit.LastName
	}
	if edit.RoleID != nil {
		if _, err := s.roleRepo.FindByID(*edit.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = *edit.RoleID
	}
	if edit.OfficeID != nil {
		user.OfficeID = edit.OfficeID
	}
	if edit.Active != nil {
		user.Active = *edit.Active
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive flips the account switch; a disabled user cannot log in
// until re-enabled.
func (s *UserService) SetActive(id uint, active bool) (*domain.User, error) {
	return s.Update(id, UserEdit{Active: &active})
}
