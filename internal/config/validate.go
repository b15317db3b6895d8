package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kldn/tennis-scorer/internal/scoring"
)

// configValidate checks scoring.Config tags plus the mode rules, which
// span more than one field.
var configValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateMode, scoring.Config{})
	return v
}

// validateMode requires a serve order naming both sides in doubles, and
// none in singles.
func validateMode(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(scoring.Config)
	switch cfg.Mode {
	case scoring.Doubles:
		if len(cfg.ServeOrder) == 0 {
			sl.ReportError(cfg.ServeOrder, "serve_order", "ServeOrder", "required_doubles", "")
			return
		}
		var a, b bool
		for _, slot := range cfg.ServeOrder {
			a = a || slot.Side == scoring.SideA
			b = b || slot.Side == scoring.SideB
		}
		if !a || !b {
			sl.ReportError(cfg.ServeOrder, "serve_order", "ServeOrder", "both_sides", "")
		}
	case scoring.Singles:
		if len(cfg.ServeOrder) > 0 {
			sl.ReportError(cfg.ServeOrder, "serve_order", "ServeOrder", "excluded_singles", "")
		}
	}
}

// Validate checks that cfg describes a playable match. The result joins one
// *ValidationError per broken rule.
func Validate(cfg scoring.Config) error {
	err := configValidate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ValidationError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return errors.Join(errs...)
}

// fieldPath drops the struct name from the namespace: "Config.mode" becomes
// "mode".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "required":
		return "is required"
	case "required_doubles":
		return "doubles needs a serve order"
	case "both_sides":
		return "serve order must include both sides"
	case "excluded_singles":
		return "singles takes no serve order"
	default:
		return fmt.Sprintf("fails %q", fe.Tag())
	}
}
