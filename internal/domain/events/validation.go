package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Event categories. CategoryInterCollege is the only one for which a
// registrant's college is captured.
const (
	CategoryTech         = "Tech"
	CategoryCultural     = "Cultural"
	CategorySports       = "Sports"
	CategoryIntraCollege = "Intra College"
	CategoryInterCollege = "Inter College"
	CategoryWorkshop     = "Workshop"
	CategorySeminar      = "Seminar"
	CategoryOther        = "Other"
)

var categories = []string{
	CategoryTech,
	CategoryCultural,
	CategorySports,
	CategoryIntraCollege,
	CategoryInterCollege,
	CategoryWorkshop,
	CategorySeminar,
	CategoryOther,
}

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

// CreateInput is the request body for event creation.
type CreateInput struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=5000"`
	Category    string         `json:"category"`
	Date        string         `json:"date" validate:"required,max=50"`
	Time        string         `json:"time" validate:"required,max=50"`
	Venue       string         `json:"venue" validate:"required,max=200"`
	PosterURL   string         `json:"posterUrl" validate:"omitempty,url"`
	Question    *QuestionInput `json:"attendanceQuestion"`
}

type QuestionInput struct {
	Text    string   `json:"question" validate:"required,max=500"`
	Options []string `json:"options" validate:"required,min=2,max=10,dive,required,max=200"`
	Answer  string   `json:"correctAnswer" validate:"required,max=200"`
}

// Normalize trims fields and defaults an empty category to Other. It does not
// validate; call Validate afterwards.
func (in *CreateInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Venue = strings.TrimSpace(in.Venue)
	in.PosterURL = strings.TrimSpace(in.PosterURL)
	if in.Category == "" {
		in.Category = CategoryOther
	}
}

// Validate checks the input against the schema. Categories outside the fixed
// enumeration are rejected rather than coerced.
func (in *CreateInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return firstFieldError(err)
	}
	if !IsValidCategory(in.Category) {
		return ValidationError{Field: "category", Message: "must be one of " + strings.Join(categories, ", ")}
	}
	if in.Question != nil {
		if err := validateQuestion(in.Question); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q *QuestionInput) error {
	answer := strings.TrimSpace(q.Answer)
	for _, option := range q.Options {
		if strings.EqualFold(strings.TrimSpace(option), answer) {
			return nil
		}
	}
	return ValidationError{Field: "attendanceQuestion.correctAnswer", Message: "must match one of the options"}
}

func IsValidCategory(value string) bool {
	for _, category := range categories {
		if category == value {
			return true
		}
	}
	return false
}

func IsValidStatus(value string) bool {
	switch value {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// firstFieldError converts the first validator failure into a ValidationError
// keyed by the struct field's JSON-ish name.
func firstFieldError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return ValidationError{Message: err.Error()}
	}
	fe := fieldErrors[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return ValidationError{Field: field, Message: "is required"}
	case "max":
		return ValidationError{Field: field, Message: "is too long"}
	case "min":
		return ValidationError{Field: field, Message: "has too few entries"}
	case "url":
		return ValidationError{Field: field, Message: "must be a valid URL"}
	case "email":
		return ValidationError{Field: field, Message: "must be a valid email"}
	default:
		return ValidationError{Field: field, Message: "is invalid"}
	}
}
