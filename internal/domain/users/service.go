package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ong-shelter-api/internal/ports/auth"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, issuer auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		now:    time.Now,
	}
}

// Login devuelve el token firmado y el usuario. Email inexistente y password
// incorrecto responden igual: no filtramos cuál falló.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	if s.issuer == nil {
		return "", User{}, errors.New("token issuer not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return "", User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, auth.Claims{
		UserID: strconv.FormatInt(u.ID, 10),
		Email:  u.Email,
		Role:   u.Role,
	})
	if err != nil {
		return "", User{}, err
	}

	return token, u, nil
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if n := len([]rune(in.Name)); n < 2 || n > 100 {
		return User{}, invalidField("name", "name must be between 2 and 100 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return User{}, invalidField("email", "email must be a valid email address")
	}
	if len(in.Password) < 6 {
		return User{}, invalidField("password", "password must be at least 6 characters")
	}

	role := auth.Role(in.Role)
	if role == "" {
		role = auth.RoleEditor
	}
	if role != auth.RoleAdmin && role != auth.RoleEditor {
		return User{}, invalidField("role", "role must be admin or editor")
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	})
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
