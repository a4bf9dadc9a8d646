// Package validate checks incoming payloads against the fixed record
// schemas and turns them into typed records at the boundary.
package validate

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// validate returns the shared validator. Field names in violation reports
// come from json tags so callers see wire-level field paths.
func validate() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// structOnly runs tag-based validation and reports the first violated
// field path as an UnprocessableEntity error.
func structOnly(payload any) error {
	err := validate().Struct(payload)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperrors.NewUnprocessable("payload validation failed", "")
	}
	first := errs[0]
	return apperrors.NewUnprocessable(
		fmt.Sprintf("field %s failed %q validation", fieldPath(first), first.Tag()),
		fieldPath(first),
	)
}

// fieldPath strips the root struct name from the namespace, leaving the
// json path of the violated field, e.g. "metadata.num_results".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
