package admin

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/siagacs/siaga-admin/internal/authz"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// report fields by their wire name
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
			return authz.InCatalog(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// ValidationError lists the payload fields that failed local checks, keyed
// by wire name with the failed rule as value.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%s)", name, describeRule(e.Fields[name])))
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// ValidationFields returns the failed fields.
func (e *ValidationError) ValidationFields() map[string]string {
	return e.Fields
}

func describeRule(tag string) string {
	switch tag {
	case "required", "notblank":
		return "required"
	case "email":
		return "must be an e-mail address"
	case "datetime":
		return "bad date or time format"
	case "gtefield":
		return "must not be before start_date"
	case "permission":
		return "unknown permission code"
	case "gte", "gt", "min":
		return "too small"
	case "lte", "lt", "max":
		return "too large"
	default:
		return tag
	}
}

// Validate checks a request payload against its `validate` tags.
func Validate(payload any) error {
	if payload == nil {
		return nil
	}
	err := validatorInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if fe.Tag() == "permission" {
			// dive reports the element as permissions[i]
			name = strings.SplitN(name, "[", 2)[0]
		}
		if _, seen := fields[name]; !seen {
			fields[name] = fe.Tag()
		}
	}
	return &ValidationError{Fields: fields}
}
