package view

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

// Form-local errors. They never correspond to a network call.
var (
	ErrAuthRequired      = errors.New("Authentication required")
	ErrValidationFailed  = errors.New("validation failed")
	ErrSubmitInFlight    = errors.New("submission already in progress")
	errSaveFailedMessage = "Failed to save student"
)

// StudentForm collects student fields, validates them locally and submits to
// the gateway, choosing create or update depending on whether an existing
// student was supplied. The in-flight flag mirrors the disabled submit
// button: a second Submit while one is running is rejected without a request.
type StudentForm struct {
	api      StudentAPI
	session  *models.Session
	existing *models.Student
	validate *validator.Validate

	Fields      models.NewStudent
	FieldErrors map[string]string
	Err         string

	inFlight atomic.Bool
}

// NewStudentForm builds a form, pre-filled from the existing student when
// editing.
func NewStudentForm(api StudentAPI, sess *models.Session, existing *models.Student) *StudentForm {
	f := &StudentForm{
		api:      api,
		session:  sess,
		existing: existing,
		validate: validator.New(),
	}
	if existing != nil {
		f.Fields = models.NewStudent{
			Name:   existing.Name,
			Email:  existing.Email,
			Phone:  existing.Phone,
			Course: existing.Course,
		}
	}
	return f
}

// Editing reports whether the form updates an existing student.
func (f *StudentForm) Editing() bool {
	return f.existing != nil
}

// Submitting reports whether a submission is in flight.
func (f *StudentForm) Submitting() bool {
	return f.inFlight.Load()
}

// Validate runs the field rules and fills FieldErrors. It returns true when
// every field passes.
func (f *StudentForm) Validate() bool {
	f.FieldErrors = map[string]string{}
	err := f.validate.Struct(f.Fields)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		f.FieldErrors["form"] = errSaveFailedMessage
		return false
	}
	for _, fe := range fieldErrs {
		f.FieldErrors[fe.Field()] = fieldMessage(fe)
	}
	return false
}

// Submit validates, then creates or updates the student. No network call is
// made without a session access token or with invalid fields.
func (f *StudentForm) Submit(ctx context.Context) (*models.Student, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer f.inFlight.Store(false)

	f.Err = ""
	if f.session == nil || f.session.User.AccessToken == "" {
		f.Err = ErrAuthRequired.Error()
		return nil, ErrAuthRequired
	}
	if !f.Validate() {
		return nil, ErrValidationFailed
	}

	token := f.session.User.AccessToken
	var (
		saved *models.Student
		err   error
	)
	if f.existing != nil {
		saved, err = f.api.UpdateStudent(ctx, token, f.existing.ID, f.Fields)
	} else {
		saved, err = f.api.CreateStudent(ctx, token, f.Fields)
	}
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != "request failed" {
			f.Err = apiErr.Message
		} else {
			f.Err = errSaveFailedMessage
		}
		return nil, err
	}
	return saved, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "Name is required"
	case "Email":
		if fe.Tag() == "email" {
			return "Please enter a valid email address"
		}
		return "Email is required"
	case "Phone":
		return "Phone number is required"
	case "Course":
		return "Course is required"
	default:
		return "Invalid value"
	}
}
