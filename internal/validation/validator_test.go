package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		value interface{}
		tag   string
		valid bool
	}{
		{name: "nospaces with text", value: "Kakkanad", tag: "nospaces", valid: true},
		{name: "nospaces blank", value: "   ", tag: "nospaces", valid: false},
		{name: "pincode six digits", value: "682030", tag: "pincode", valid: true},
		{name: "pincode four digits", value: "2000", tag: "pincode", valid: true},
		{name: "pincode too short", value: "123", tag: "pincode", valid: false},
		{name: "pincode letters", value: "68A030", tag: "pincode", valid: false},
		{name: "pincode padded", value: " 682030", tag: "pincode", valid: false},
		{name: "clocktime", value: "06:30", tag: "clocktime", valid: true},
		{name: "clocktime hour out of range", value: "24:00", tag: "clocktime", valid: false},
		{name: "clocktime free text", value: "morning", tag: "clocktime", valid: false},
		{name: "cadence daily", value: "daily", tag: "cadence", valid: true},
		{name: "cadence alternate", value: "alternate_day", tag: "cadence", valid: true},
		{name: "cadence hyphenated", value: "alternate-day", tag: "cadence", valid: true},
		{name: "cadence unknown", value: "monthly", tag: "cadence", valid: false},
		{name: "weekday sunday", value: 0, tag: "weekday", valid: true},
		{name: "weekday saturday", value: 6, tag: "weekday", valid: true},
		{name: "weekday out of range", value: 7, tag: "weekday", valid: false},
		{name: "weekday negative", value: -1, tag: "weekday", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestWeekdaySlice(t *testing.T) {
	v := newValidator(t)

	type request struct {
		Weekdays []int `validate:"omitempty,dive,weekday"`
	}

	assert.NoError(t, v.Struct(request{}))
	assert.NoError(t, v.Struct(request{Weekdays: []int{1, 3, 5}}))
	assert.Error(t, v.Struct(request{Weekdays: []int{1, 9}}))
}
