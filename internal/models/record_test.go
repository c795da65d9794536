package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect float64
		ok     bool
	}{
		{"float64", 9.99, 9.99, true},
		{"int", 7, 7, true},
		{"json.Number", json.Number("12.5"), 12.5, true},
		{"numeric string", " 12.5 ", 12.5, true},
		{"word", "cheap", 0, false},
		{"empty string", "", 0, false},
		{"NaN", math.NaN(), 0, false},
		{"NaN string", "NaN", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ToFloat(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestRecordDisplay(t *testing.T) {
	products, _ := DefaultRegistry().Describe(KindProducts)
	users, _ := DefaultRegistry().Describe(KindUsers)
	precio, _ := products.Field("precio")
	telefono, _ := users.Field("telefono")
	nombre, _ := users.Field("nombre")

	rec := Record{ID: "1", Fields: Resource{"nombre": "Ana", "precio": 9.5, "telefono": ""}}
	assert.Equal(t, "9.50", rec.Display(precio))
	assert.Equal(t, "N/A", rec.Display(telefono))
	assert.Equal(t, "Ana", rec.Display(nombre))
}

func TestNewRecord(t *testing.T) {
	users, _ := DefaultRegistry().Describe(KindUsers)

	rec, err := NewRecord(users, Resource{"_id": "abc", "nombre": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.ID)

	rec, err = NewRecord(users, Resource{"id": "", "_id": "p9"})
	require.NoError(t, err)
	assert.Equal(t, "p9", rec.ID)

	_, err = NewRecord(users, Resource{"nombre": "Ana"})
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank("  "))
	assert.False(t, IsBlank("x"))
	assert.False(t, IsBlank(0.0))
}
