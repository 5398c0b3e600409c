package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campus-events/server/internal/auth"
	"github.com/go-playground/validator/v10"
)

// BcryptCost is the cost factor for password hashing.
const BcryptCost = 12

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role"`
}

type Service struct {
	repo   Repository
	tokens *auth.JWTManager
	hash   func(password string) (string, error)
	verify func(hash, password string) error
}

func NewService(repo Repository, tokens *auth.JWTManager) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		hash:   bcryptHash,
		verify: bcryptVerify,
	}
}

// Register creates a new account. The role defaults to student; unknown roles
// are rejected rather than silently downgraded.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if input.Role == "" {
		input.Role = string(auth.RoleStudent)
	}

	if err := validate.Struct(&input); err != nil {
		return nil, firstFieldError(err)
	}
	if !auth.IsValidRole(input.Role) {
		return nil, ValidationError{Field: "role", Message: "must be one of student, club, admin"}
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, CreateParams{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	})
}

// Login verifies the credentials and issues an access token. An unknown email
// surfaces as ErrNotFound and a bad password as ErrInvalidCredentials,
// matching the API's 404/401 split.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if err := s.verify(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func firstFieldError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return ValidationError{Message: err.Error()}
	}
	fe := fieldErrors[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return ValidationError{Field: field, Message: "is required"}
	case "email":
		return ValidationError{Field: field, Message: "must be a valid email"}
	case "min":
		return ValidationError{Field: field, Message: "is too short"}
	case "max":
		return ValidationError{Field: field, Message: "is too long"}
	default:
		return ValidationError{Field: field, Message: "is invalid"}
	}
}
