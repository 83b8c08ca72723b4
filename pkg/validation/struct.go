package validation

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewStructValidator returns a validator that reports fields by their yaml
// key so errors match what users wrote in their configuration.
func NewStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(yamlName)
	return v
}

func yamlName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// ValidateStruct checks every float field of s for NaN or infinity, then
// applies the validate struct tags. Violations are returned as ConfigErrors.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	var violations ConfigErrors

	val := reflect.Indirect(reflect.ValueOf(s))
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type.Kind() != reflect.Float64 {
			continue
		}
		f := val.Field(i).Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			violations = append(violations, NewConfigError(yamlName(typ.Field(i)), "a finite number", f))
		}
	}
	if len(violations) > 0 {
		return violations
	}

	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		violations = append(violations, NewConfigError(fe.Field(), describeConstraint(typ, fe), fe.Value()))
	}
	return violations
}

func describeConstraint(typ reflect.Type, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "set"
	case "gt":
		return "greater than " + fe.Param()
	case "gte":
		return "greater than or equal to " + fe.Param()
	case "lt":
		return "less than " + fe.Param()
	case "lte":
		return "less than or equal to " + fe.Param()
	case "ltfield":
		if f, ok := typ.FieldByName(fe.Param()); ok {
			return "less than " + yamlName(f)
		}
		return "less than " + fe.Param()
	case "oneof":
		return "one of " + fe.Param()
	default:
		return "valid for rule " + fe.Tag()
	}
}
