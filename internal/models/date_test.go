package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 9th is already the 10th in IST
	instant := time.Date(2024, time.January, 9, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, NewDate(2024, time.January, 9), DateOf(instant))
	assert.Equal(t, NewDate(2024, time.January, 10), DateOf(instant.In(ist)))
}

func TestDate_Arithmetic(t *testing.T) {
	start := NewDate(2024, time.February, 27)

	assert.Equal(t, NewDate(2024, time.March, 1), start.AddDays(3))
	assert.Equal(t, NewDate(2024, time.February, 20), start.AddDays(-7))
	assert.Equal(t, 3, start.AddDays(3).DaysSince(start))
	assert.Equal(t, -3, start.DaysSince(start.AddDays(3)))
	assert.Equal(t, 118338, NewDate(2024, time.January, 1).DaysSince(NewDate(1700, time.January, 1)))
	assert.Equal(t, 118339, NewDate(2024, time.January, 2).DaysSince(NewDate(1700, time.January, 1)))
	assert.Equal(t, 29, start.DaysInMonth())
	assert.Equal(t, 28, NewDate(2023, time.February, 1).DaysInMonth())
	assert.Equal(t, 31, NewDate(2024, time.December, 31).DaysInMonth())

	assert.True(t, start.Before(start.AddDays(1)))
	assert.True(t, start.AddDays(1).After(start))
	assert.True(t, start.Equal(NewDate(2024, time.February, 27)))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-01-10","end":null}`), &p))
	assert.Equal(t, NewDate(2024, time.January, 10), p.Start)
	assert.Nil(t, p.End)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-01-10","end":null}`, string(out))

	out, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":null,"end":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"10/01/2024"}`), &p))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want Date
	}{
		{name: "nil", src: nil, want: Date{}},
		{name: "time", src: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), want: NewDate(2024, time.March, 5)},
		{name: "string", src: "2024-03-05", want: NewDate(2024, time.March, 5)},
		{name: "timestamp string", src: "2024-03-05T00:00:00Z", want: NewDate(2024, time.March, 5)},
		{name: "bytes", src: []byte("2024-03-05"), want: NewDate(2024, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))

	v, err := NewDate(2024, time.March, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
