package httpx

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Binder decodes and validates JSON request bodies.
type Binder struct {
	validate *validator.Validate
}

// NewBinder constructs a Binder using json tag names in field errors.
func NewBinder() *Binder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Binder{validate: v}
}

// Bind decodes r into target and runs struct validation. It writes the 400 response itself
// and reports false when the request must not proceed.
func (b *Binder) Bind(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := DecodeJSON(r, target); err != nil {
		Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return false
	}
	if err := b.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return false
		}
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Error()
		}
		FieldProblem(w, fields)
		return false
	}
	return true
}
