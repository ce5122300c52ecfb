// Package validator wraps go-playground/validator for request structs that
// are validated outside of gin's binding path.
package validator

import (
	"fmt"

	playground "github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *playground.Validate
}

func New() *Validator {
	return &Validator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate checks struct tags and returns the first violation as a plain
// error message suitable for a client response.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	if errs, ok := err.(playground.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("field %s failed on %q", first.Field(), first.Tag())
	}
	return err
}

// Var validates a single value against the given rule, e.g. "required,email".
func (v *Validator) Var(value interface{}, rule string) error {
	return v.validate.Var(value, rule)
}
