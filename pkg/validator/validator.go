package validator

import (
	"reflect"
	"strings"

	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// Report JSON names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", validateTimeOfDay)
	_ = v.RegisterValidation("date", validateDate)
	_ = v.RegisterValidation("weekday", validateWeekday)
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validateTimeOfDay accepts a strict 24h "HH:MM".
func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := wallclock.ParseTimeOfDay(fl.Field().String())
	return err == nil
}

// validateDate accepts a calendar date "YYYY-MM-DD".
func validateDate(fl validator.FieldLevel) bool {
	_, err := wallclock.ParseDate(fl.Field().String())
	return err == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "saturday", "sunday", "monday", "tuesday", "wednesday", "thursday", "friday":
		return true
	}
	return false
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "required_with", "required_if":
				errors[field] = field + " is required here"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "len":
				errors[field] = field + " must be exactly " + e.Param() + " characters"
			case "oneof":
				errors[field] = field + " must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
			case "uuid":
				errors[field] = field + " must be a valid UUID"
			case "hhmm":
				errors[field] = field + " must be a time in HH:MM format"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "weekday":
				errors[field] = field + " must be a lowercase day name such as monday"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
