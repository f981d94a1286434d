package formz

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldValidator validates a single field value. The first return is the
// error payload stored at the field's path in the error tree — nil or an
// empty string/map/slice means the value is valid. A non-nil error (or a
// panic) is a fault: it never lands in the tree and is surfaced as a
// form-level error instead.
type FieldValidator func(ctx context.Context, value any) (any, error)

// FormValidator validates the whole value tree. It returns a mapping of
// path to error payload, either nested or with dotted keys; an empty mapping
// means the form is valid. Error-return semantics match FieldValidator.
type FormValidator func(ctx context.Context, values Values) (Values, error)

// validate is the shared validator instance backing Rules.
var validate = validator.New()

// Rules builds a FieldValidator from go-playground/validator tag syntax.
//
//	form.Register("profile.age", formz.Rules("required,numeric,min=18"))
//
// Tag violations become field payloads; malformed tags surface as faults.
func Rules(tag string) FieldValidator {
	return func(ctx context.Context, value any) (any, error) {
		err := validate.VarCtx(ctx, value, tag)
		if err == nil {
			return nil, nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		if len(verrs) == 1 {
			return verrs[0].Error(), nil
		}
		msgs := make([]any, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fe.Error()
		}
		return msgs, nil
	}
}

// invokeField calls a field validator, converting panics into faults.
func invokeField(ctx context.Context, fn FieldValidator, value any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("field validator panic: %v", r)
		}
	}()
	return fn(ctx, value)
}

// invokeForm calls a form validator, converting panics into faults.
func invokeForm(ctx context.Context, fn FormValidator, values Values) (result Values, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("form validator panic: %v", r)
		}
	}()
	return fn(ctx, values)
}

// invokeSubmit calls the submit handler, converting panics into errors.
func invokeSubmit(ctx context.Context, fn func(context.Context, Values) error, values Values) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submit handler panic: %v", r)
		}
	}()
	return fn(ctx, values)
}
