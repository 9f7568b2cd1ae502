//go:generate go run go.uber.org/mock/mockgen -source=user_service.go -destination=../mocks/mock_user_service.go -package=mocks
package services

import (
	"fmt"
	"log/slog"

	"parent-portal/auth"
	"parent-portal/domain"
	"parent-portal/errors"
	"parent-portal/repositories"
)

type IUserService interface {
	Register(req auth.RegisterRequest) (domain.User, Token, error)
	Login(email, password string) (Token, error)
	GetByID(id int64) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
	GetAll() ([]domain.User, error)
	Update(user domain.User, password string) (domain.User, error)
	Delete(id int64) error
}

type Token string

func (t Token) String() string { return string(t) }

// UserService owns accounts and credentials. Every other service treats
// user ids as foreign references resolved over the wire.
type UserService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenIssuer
	log    *slog.Logger
}

func NewUserService(users repositories.IUserRepository, tokens *auth.TokenIssuer, log *slog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, log: log}
}

// Register validates the request, hashes the password and persists the
// account. Validation runs before any cryptographic work.
func (s *UserService) Register(req auth.RegisterRequest) (domain.User, Token, error) {
	if err := auth.ValidateRegister(req); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.Create(domain.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	}, hash)
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return domain.User{}, "", err
	}

	s.log.Info("user registered", "id", user.ID, "role", user.Role)
	return user, Token(token), nil
}

// Login answers with a generic credentials error on any failure to avoid
// leaking which emails exist.
func (s *UserService) Login(email, password string) (Token, error) {
	user, hash, err := s.users.CredentialsByEmail(email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, hash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}

func (s *UserService) GetByID(id int64) (domain.User, error) {
	return s.users.GetByID(id)
}

func (s *UserService) GetByEmail(email string) (domain.User, error) {
	return s.users.GetByEmail(email)
}

func (s *UserService) GetAll() ([]domain.User, error) {
	return s.users.GetAll()
}

// Update rewrites the profile. An empty password keeps the stored hash, a
// non-empty one is complexity-checked and re-hashed.
func (s *UserService) Update(user domain.User, password string) (domain.User, error) {
	if !user.Role.Valid() {
		return domain.User{}, fmt.Errorf("%w: role %q", errors.ErrValidation, user.Role)
	}

	hash := ""
	if password != "" {
		if err := auth.ValidateRegister(auth.RegisterRequest{
			Username: user.Username,
			Email:    user.Email,
			Password: password,
			Role:     string(user.Role),
		}); err != nil {
			return domain.User{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
		}
		var err error
		hash, err = auth.HashPassword(password)
		if err != nil {
			return domain.User{}, err
		}
	}

	if err := s.users.Update(user, hash); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Delete(id int64) error {
	return s.users.Delete(id)
}
