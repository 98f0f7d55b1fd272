package validation

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/common/i18n"
)

type message struct {
	en string
	ar string
}

var catalog = map[string]message{
	CodeRequired:    {en: "This field is required", ar: "هذا الحقل مطلوب"},
	CodeExtraField:  {en: "This field is not allowed", ar: "هذا الحقل غير مسموح به"},
	CodeInvalidType: {en: "Expected a value of type {type}", ar: "القيمة يجب أن تكون من نوع {type}"},
	CodeMinLength:   {en: "Must be at least {min} characters", ar: "يجب ألا يقل عن {min} حرف"},
	CodeMaxLength:   {en: "Must be at most {max} characters", ar: "يجب ألا يزيد عن {max} حرف"},
	CodePattern:     {en: "Invalid format", ar: "صيغة غير صحيحة"},
	CodeEnum:        {en: "Must be one of: {values}", ar: "يجب أن تكون إحدى القيم: {values}"},
	CodeMinimum:     {en: "Must be greater than or equal to {min}", ar: "يجب أن تكون القيمة أكبر من أو تساوي {min}"},
	CodeMaximum:     {en: "Must be less than or equal to {max}", ar: "يجب أن تكون القيمة أقل من أو تساوي {max}"},
	CodeMinItems:    {en: "Add at least {min} item(s)", ar: "أضف {min} عنصر على الأقل"},
	CodeFormat:      {en: "Must be a valid {format}", ar: "يجب أن تكون {format} صالحة"},
}

// Localize returns a copy of the result with messages rendered for locale.
// Codes without a catalog entry keep their original message.
func (vr *ValidationResult) Localize(locale i18n.Locale) *ValidationResult {
	out := &ValidationResult{Valid: vr.Valid, Value: vr.Value}
	if len(vr.Errors) == 0 {
		return out
	}
	out.Errors = make([]ValidationError, len(vr.Errors))
	for i, e := range vr.Errors {
		out.Errors[i] = e
		if m, ok := catalog[e.Code]; ok {
			out.Errors[i].Message = render(locale.Pick(m.en, m.ar), e.Params)
		}
	}
	return out
}

func render(tmpl string, params map[string]interface{}) string {
	for k, v := range params {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", fmt.Sprint(v))
	}
	return tmpl
}

// FieldErrors converts the result into the application error shape.
func (vr *ValidationResult) FieldErrors() []apperrors.FieldError {
	out := make([]apperrors.FieldError, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		out = append(out, apperrors.FieldError{Field: e.Field, Code: e.Code, Message: e.Message})
	}
	return out
}

// AsError returns nil for a valid result and a VALIDATION_FAILED error
// carrying every field error otherwise.
func (vr *ValidationResult) AsError(schemaName string) error {
	if vr.Valid {
		return nil
	}
	return apperrors.NewValidationFailedError(schemaName, vr.FieldErrors())
}

// Decode maps a normalized payload onto a typed struct using its json tags.
func Decode(value map[string]interface{}, dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dst,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(dateLayout),
		),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Check validates input against schema, localizes failures, and decodes the
// normalized value into dst when valid.
func Check(input map[string]interface{}, schema JSONSchema, locale i18n.Locale, dst interface{}) error {
	res := ValidateInput(input, schema).Localize(locale)
	if err := res.AsError(schema.Name); err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	if err := Decode(res.Value, dst); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}
