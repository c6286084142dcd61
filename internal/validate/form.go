package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/g7food/client/internal/apperr"
)

// FieldErrors maps a form field (its json name) to the message shown next to it.
type FieldErrors map[string]string

// Registration is the sign-up form.
type Registration struct {
	Email     string `json:"email" validate:"required,g7email"`
	Password  string `json:"password" validate:"g7password"`
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Phone     string `json:"telefono" validate:"required"`
	Address   string `json:"direccion" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field
// except the password.
func (r Registration) Trimmed() Registration {
	r.Email = strings.TrimSpace(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	return r
}

// ProfileUpdate is the editable part of the profile screen.
type ProfileUpdate struct {
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Phone     string `json:"telefono" validate:"required"`
	Email     string `json:"email" validate:"required,g7email"`
}

var (
	formValidatorOnce sync.Once
	formValidator     *validator.Validate
)

func formValidation() *validator.Validate {
	formValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		_ = v.RegisterValidation("g7email", func(fl validator.FieldLevel) bool {
			return Email(fl.Field().String())
		})
		_ = v.RegisterValidation("g7password", func(fl validator.FieldLevel) bool {
			return PasswordProblem(fl.Field().String()) == ""
		})
		formValidator = v
	})
	return formValidator
}

// Form validates a Registration or ProfileUpdate (or a pointer to one) and
// returns an apperr Validation error listing every failing field.
func Form(form any) error {
	err := formValidation().Struct(form)
	if err == nil {
		return nil
	}

	fields := fromValidationError(err, form)
	return apperr.InvalidErr(firstMessage(fields, form), fields)
}

func fromValidationError(err error, form any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = "Invalid form data"
		return out
	}

	for _, fe := range ve {
		out[fe.Field()] = messageForTag(fe.Tag(), fieldValue(form, fe.StructField()))
	}
	return out
}

func messageForTag(tag, value string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "g7email":
		return MsgInvalidEmail
	case "g7password":
		return PasswordProblem(value)
	default:
		return "Invalid value"
	}
}

func fieldValue(form any, structField string) string {
	v := reflect.Indirect(reflect.ValueOf(form))
	if v.Kind() != reflect.Struct {
		return ""
	}
	f := v.FieldByName(structField)
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}

// firstMessage picks the message of the first failing field in declaration order,
// so the summary matches what a top-to-bottom form would show first.
func firstMessage(fields FieldErrors, form any) string {
	t := reflect.Indirect(reflect.ValueOf(form)).Type()
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if msg, ok := fields[name]; ok {
			return msg
		}
	}
	for _, msg := range fields {
		return msg
	}
	return "Invalid form data"
}
