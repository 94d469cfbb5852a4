package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/fitness-tracker/internal/apperror"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// Request DTOs. Numeric fields that must be present are pointers so that an
// explicit 0 passes `required` while a missing or null value does not.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Age      float64 `json:"age" validate:"gte=0"`
	Weight   float64 `json:"weight" validate:"gte=0"`
	Height   float64 `json:"height" validate:"gte=0"`
	Gender   string  `json:"gender"`
	BMI      float64 `json:"bmi"`
	BMR      float64 `json:"bmr"`
	TDEE     float64 `json:"tdee"`
}

// exerciseRequest takes its numeric fields as JSON numbers only. A numeric
// string such as "120" is a 400 naming the field; it is not coerced.
type exerciseRequest struct {
	Name     *string  `json:"name" validate:"required"`
	Calories *float64 `json:"calories" validate:"required"`
	Duration *float64 `json:"duration" validate:"required"`
	DateTime *string  `json:"dateTime"`
	Steps    *float64 `json:"steps"`
	Distance *float64 `json:"distance"`
}

type mealRequest struct {
	Name     *string  `json:"name" validate:"required"`
	Calories *float64 `json:"calories" validate:"required"`
	Protein  *float64 `json:"protein" validate:"required"`
	Fat      *float64 `json:"fat" validate:"required"`
	Category *string  `json:"category" validate:"required"`
}

// mealPatchRequest leaves every field optional; absent fields are not changed.
type mealPatchRequest struct {
	Name     *string  `json:"name"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Fat      *float64 `json:"fat"`
	Category *string  `json:"category"`
}

var validate = newValidator()

// newValidator reports fields by their JSON name rather than the Go name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads one JSON value from the body into dst. Syntax and type
// errors come back as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return apperror.ValidationFailed(typeErr.Field,
				fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type)))
		case errors.As(err, &maxErr):
			return apperror.ValidationFailed("", "request body too large")
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("", "request body is empty")
		default:
			return apperror.ValidationFailed("", "invalid JSON body")
		}
	}
	return nil
}

// decodeAndValidate decodes the body and runs the struct's validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("handler: validating request: %w", err)
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(field, field+" is required")
	case "gte":
		return apperror.ValidationFailed(field, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	default:
		return apperror.ValidationFailed(field, field+" is invalid")
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	default:
		return t.Kind().String()
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
