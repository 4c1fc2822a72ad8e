// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/dailyq/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAndValidate parses the JSON body into v and checks its validate tags.
// Every failure is an errs.ErrValidation carrying a caller-facing message.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := ParseJSONBody(r, v); err != nil {
		return errs.Validation("Invalid JSON")
	}
	return Validate(v)
}

// Validate checks v's validate tags and reports the first failing field
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.Validation("invalid request")
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return errs.Validation("%s is required", fe.Field())
	case "max":
		return errs.Validation("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return errs.Validation("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return errs.Validation("%s must be a valid URL", fe.Field())
	default:
		return errs.Validation("%s is invalid", fe.Field())
	}
}
