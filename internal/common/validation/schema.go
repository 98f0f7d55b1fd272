package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// JSONSchema defines the acceptance rules of one form payload.
type JSONSchema struct {
	Name                 string              `json:"name,omitempty"`
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
	// Rules run on the normalized payload for cross-field constraints.
	Rules []Rule `json:"-"`
}

// Rule inspects the whole normalized payload and reports any errors.
type Rule func(value map[string]interface{}) []ValidationError

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	Format      string              `json:"format,omitempty"` // date, url, email
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MinItems    *int                `json:"minItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`

	// EmptyAsAbsent treats a blank string (or null) as "not entered", so a
	// required field reports missing instead of being parsed as zero.
	EmptyAsAbsent bool `json:"emptyAsAbsent,omitempty"`
	// Coerce converts string input to the declared number/integer/boolean type.
	Coerce    bool `json:"coerce,omitempty"`
	TrimSpace bool `json:"trimSpace,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
	// Value is the normalized payload; only set when Valid.
	Value map[string]interface{} `json:"-"`
}

type ValidationError struct {
	Field   string                 `json:"field"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Params  map[string]interface{} `json:"-"`
}

const (
	CodeRequired     = "REQUIRED_FIELD_MISSING"
	CodeExtraField   = "EXTRA_FIELD"
	CodeInvalidType  = "INVALID_TYPE"
	CodeMinLength    = "MIN_LENGTH_VIOLATION"
	CodeMaxLength    = "MAX_LENGTH_VIOLATION"
	CodePattern      = "PATTERN_MISMATCH"
	CodeEnum         = "INVALID_ENUM_VALUE"
	CodeMinimum      = "MINIMUM_VIOLATION"
	CodeMaximum      = "MAXIMUM_VIOLATION"
	CodeMinItems     = "MIN_ITEMS_VIOLATION"
	CodeFormat       = "INVALID_FORMAT"
	dateLayout       = "2006-01-02"
	schemaTypeObject = "object"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	urlPattern   = regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
)

// ValidateInput preprocesses input, checks it against schema and returns
// either the normalized value or every field-level error found. There is no
// partial success.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	normalized := prepareObject(input, schema.Properties)
	errs := validateObject("", normalized, schema.Properties, schema.Required, schema.AdditionalProperties)
	for _, rule := range schema.Rules {
		errs = append(errs, rule(normalized)...)
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	res := &ValidationResult{Valid: len(errs) == 0, Errors: errs}
	if res.Valid {
		res.Value = normalized
	}
	return res
}

// prepareObject returns a copy of obj with blank/absent values removed and
// string input coerced where the property asks for it.
func prepareObject(obj map[string]interface{}, props map[string]Property) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		prop, known := props[k]
		if !known {
			out[k] = v
			continue
		}
		if pv, present := prepareValue(v, prop); present {
			out[k] = pv
		}
	}
	return out
}

func prepareValue(value interface{}, prop Property) (interface{}, bool) {
	if value == nil {
		return nil, !prop.EmptyAsAbsent
	}

	if prop.Coerce && prop.Type == "string" {
		switch value.(type) {
		case bool, float64, float32, int, int64, json.Number:
			value = cast.ToString(value)
		}
	}

	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if prop.EmptyAsAbsent && trimmed == "" {
			return nil, false
		}
		if prop.TrimSpace {
			v = trimmed
		}
		if prop.Coerce {
			return coerceString(trimmed, v, prop.Type), true
		}
		return v, true
	case map[string]interface{}:
		if prop.Properties != nil {
			return prepareObject(v, prop.Properties), true
		}
	case []interface{}:
		if prop.Items != nil {
			items := make([]interface{}, 0, len(v))
			for _, item := range v {
				if pv, present := prepareValue(item, *prop.Items); present {
					items = append(items, pv)
				}
			}
			return items, true
		}
	}
	return value, true
}

// coerceString falls back to the original string when conversion fails so
// the type check reports it.
func coerceString(trimmed, original, typ string) interface{} {
	switch typ {
	case "number":
		if f, err := cast.ToFloat64E(trimmed); err == nil {
			return f
		}
	case "integer":
		if i, err := cast.ToInt64E(trimmed); err == nil {
			return i
		}
	case "boolean":
		if b, err := cast.ToBoolE(trimmed); err == nil {
			return b
		}
	}
	return original
}

func validateObject(prefix string, obj map[string]interface{}, props map[string]Property, required []string, additional bool) []ValidationError {
	var errs []ValidationError

	for _, field := range required {
		if v, exists := obj[field]; !exists || v == nil {
			errs = append(errs, ValidationError{
				Field:   joinField(prefix, field),
				Message: "required field missing",
				Code:    CodeRequired,
			})
		}
	}

	for name, value := range obj {
		prop, exists := props[name]
		if !exists {
			if !additional {
				errs = append(errs, ValidationError{
					Field:   joinField(prefix, name),
					Message: "field not allowed in schema",
					Code:    CodeExtraField,
				})
			}
			continue
		}
		if value == nil {
			continue
		}
		errs = append(errs, validateField(joinField(prefix, name), value, prop)...)
	}
	return errs
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func validateField(fieldName string, value interface{}, prop Property) []ValidationError {
	if typeErr := validateType(value, prop.Type); typeErr != nil {
		return []ValidationError{{
			Field:   fieldName,
			Message: typeErr.Error(),
			Code:    CodeInvalidType,
			Params:  map[string]interface{}{"type": prop.Type},
		}}
	}

	var errs []ValidationError

	if strVal, ok := value.(string); ok {
		errs = append(errs, validateString(fieldName, strVal, prop)...)
	}

	if numVal, ok := toFloat(value); ok && (prop.Type == "number" || prop.Type == "integer") {
		if prop.Minimum != nil && numVal < *prop.Minimum {
			errs = append(errs, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("value must be >= %s", formatNumber(*prop.Minimum)),
				Code:    CodeMinimum,
				Params:  map[string]interface{}{"min": formatNumber(*prop.Minimum)},
			})
		}
		if prop.Maximum != nil && numVal > *prop.Maximum {
			errs = append(errs, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("value must be <= %s", formatNumber(*prop.Maximum)),
				Code:    CodeMaximum,
				Params:  map[string]interface{}{"max": formatNumber(*prop.Maximum)},
			})
		}
	}

	if arrVal, ok := value.([]interface{}); ok {
		if prop.MinItems != nil && len(arrVal) < *prop.MinItems {
			errs = append(errs, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("at least %d item(s) required", *prop.MinItems),
				Code:    CodeMinItems,
				Params:  map[string]interface{}{"min": *prop.MinItems},
			})
		}
		if prop.Items != nil {
			for i, item := range arrVal {
				errs = append(errs, validateField(fmt.Sprintf("%s[%d]", fieldName, i), item, *prop.Items)...)
			}
		}
	}

	if objVal, ok := value.(map[string]interface{}); ok && prop.Properties != nil {
		// nested objects tolerate extra keys
		errs = append(errs, validateObject(fieldName, objVal, prop.Properties, prop.Required, true)...)
	}

	return errs
}

func validateString(fieldName, strVal string, prop Property) []ValidationError {
	var errs []ValidationError
	length := utf8.RuneCountInString(strVal)

	if prop.MinLength != nil && length < *prop.MinLength {
		errs = append(errs, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be at least %d characters", *prop.MinLength),
			Code:    CodeMinLength,
			Params:  map[string]interface{}{"min": *prop.MinLength},
		})
	}
	if prop.MaxLength != nil && length > *prop.MaxLength {
		errs = append(errs, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be at most %d characters", *prop.MaxLength),
			Code:    CodeMaxLength,
			Params:  map[string]interface{}{"max": *prop.MaxLength},
		})
	}

	if prop.Pattern != nil {
		matched, err := regexp.MatchString(*prop.Pattern, strVal)
		if err != nil || !matched {
			errs = append(errs, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("value must match pattern %s", *prop.Pattern),
				Code:    CodePattern,
			})
		}
	}

	if len(prop.Enum) > 0 {
		found := false
		for _, enumVal := range prop.Enum {
			if strVal == enumVal {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("value must be one of %v", prop.Enum),
				Code:    CodeEnum,
				Params:  map[string]interface{}{"values": strings.Join(prop.Enum, ", ")},
			})
		}
	}

	if prop.Format != "" && !validFormat(prop.Format, strVal) {
		errs = append(errs, ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("value must be a valid %s", prop.Format),
			Code:    CodeFormat,
			Params:  map[string]interface{}{"format": prop.Format},
		})
	}
	return errs
}

func validFormat(format, s string) bool {
	switch format {
	case "date":
		if _, err := time.Parse(dateLayout, s); err == nil {
			return true
		}
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case "url":
		return ValidateURL(s)
	case "email":
		return ValidateEmail(s)
	case "phone":
		return ValidatePhone(s)
	default:
		return true
	}
}

func validateType(value interface{}, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number":
		if _, ok := toFloat(value); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case "integer":
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("expected integer, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case schemaTypeObject:
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func formatNumber(f float64) string {
	return cast.ToString(f)
}

// GetSchemaFromJSON parses JSON schema from string
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a field and everything nested below it.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}

// Float and Int build constraint pointers for schema literals.
func Float(f float64) *float64 { return &f }

func Int(i int) *int { return &i }

func String(s string) *string { return &s }

// Bilingual is an object holding required, non-blank "ar" and "en" strings.
func Bilingual(description string) Property {
	text := Property{Type: "string", TrimSpace: true, EmptyAsAbsent: true, MinLength: Int(1)}
	return Property{
		Type:        schemaTypeObject,
		Description: description,
		Properties:  map[string]Property{"ar": text, "en": text},
		Required:    []string{"ar", "en"},
	}
}
