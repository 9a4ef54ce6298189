// Package validation provides custom validators for the application
package validation

import (
	"milkroute/internal/models"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var pincodePattern = regexp.MustCompile(`^[0-9]{4,10}$`)

var validators = map[string]validator.Func{
	"nospaces":  validateNoSpaces,
	"pincode":   validatePincode,
	"clocktime": validateClockTime,
	"cadence":   validateCadence,
	"weekday":   validateWeekday,
}

// Initialize registers all custom validators with gin's binding engine
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := Register(v); err != nil {
			panic(err)
		}
	}
}

// Register adds the custom validators to v
func Register(v *validator.Validate) error {
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validatePincode accepts 4 to 10 ASCII digits
func validatePincode(fl validator.FieldLevel) bool {
	return pincodePattern.MatchString(fl.Field().String())
}

func validateClockTime(fl validator.FieldLevel) bool {
	_, err := models.ParseClockTime(fl.Field().String())
	return err == nil
}

func validateCadence(fl validator.FieldLevel) bool {
	return models.Cadence(fl.Field().String()).Normalize().IsValid()
}

// validateWeekday accepts 0 (Sunday) through 6 (Saturday)
func validateWeekday(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= 0 && d <= 6
}
