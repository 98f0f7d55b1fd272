package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	apperrors "dealer-admin/internal/common/errors"
)

const maxBodySize = 1 << 20

var validate = validator.New()

// readPayload decodes a JSON object body for schema validation.
func readPayload(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var payload map[string]interface{}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&payload); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
			return nil, apperrors.NewInvalidRequestError("malformed JSON")
		case errors.As(err, &unmarshalTypeError):
			return nil, apperrors.NewInvalidRequestError("body must be a JSON object")
		case errors.As(err, &maxBytesError):
			return nil, apperrors.NewInvalidRequestError("request body too large")
		case errors.Is(err, io.EOF):
			return nil, apperrors.NewInvalidRequestError("request body is empty")
		default:
			return nil, apperrors.NewInvalidRequestError(err.Error())
		}
	}
	if decoder.More() {
		return nil, apperrors.NewInvalidRequestError("body must contain only a single JSON value")
	}
	if payload == nil {
		return nil, apperrors.NewInvalidRequestError("body must be a JSON object")
	}
	return payload, nil
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewInvalidRequestError(name + " must be an integer")
	}
	return n, nil
}

// validateStruct runs struct tag validation and reports each failed field.
func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{
			Field:   lowerFirst(fe.Field()),
			Code:    fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return apperrors.NewValidationFailedError("query", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value must be at least " + fe.Param()
	case "max":
		return "Value must be at most " + fe.Param()
	case "oneof":
		return "Value must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
