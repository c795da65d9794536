package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityOf(t *testing.T) {
	kind := DefaultRegistry().kinds[0]
	tests := []struct {
		name   string
		res    Resource
		expect string
	}{
		{"primary string", Resource{"id": "abc"}, "abc"},
		{"primary number", Resource{"id": float64(7)}, "7"},
		{"fallback", Resource{"_id": "65f0c1"}, "65f0c1"},
		{"primary wins", Resource{"id": "1", "_id": "2"}, "1"},
		{"nil primary falls back", Resource{"id": nil, "_id": "2"}, "2"},
		{"empty primary falls back", Resource{"id": "", "_id": "x"}, "x"},
		{"blank primary falls back", Resource{"id": "  ", "_id": "p9"}, "p9"},
		{"zero primary kept", Resource{"id": float64(0), "_id": "x"}, "0"},
		{"fractional number", Resource{"id": 1.5}, "1.5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := kind.IdentityOf(tc.res)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestIdentityOf_Missing(t *testing.T) {
	kind := DefaultRegistry().kinds[1]
	for _, res := range []Resource{
		{"nombre": "Widget"},
		{"id": "", "_id": ""},
		{"id": nil},
	} {
		_, err := kind.IdentityOf(res)
		assert.ErrorIs(t, err, ErrMissingIdentity, "%v", res)
	}
}

func TestRegistry_Describe(t *testing.T) {
	reg := DefaultRegistry()

	users, err := reg.Describe(KindUsers)
	require.NoError(t, err)
	assert.Equal(t, "/usuarios", users.APIPath)
	require.Len(t, users.Fields, 3)
	f, ok := users.Field("telefono")
	require.True(t, ok)
	assert.False(t, f.Required, "telefono is optional")

	products, err := reg.Describe(KindProducts)
	require.NoError(t, err)
	f, ok = products.Field("precio")
	require.True(t, ok)
	assert.True(t, f.Input.Numeric())
	assert.True(t, f.Required)

	_, err = reg.Describe("orders")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{KindUsers, KindProducts}, DefaultRegistry().Names())
}

func TestNewRegistry_PathOverrides(t *testing.T) {
	reg, err := NewRegistry(map[string]string{KindProducts: "/products"})
	require.NoError(t, err)

	products, _ := reg.Describe(KindProducts)
	assert.Equal(t, "/products", products.APIPath)
	users, _ := reg.Describe(KindUsers)
	assert.Equal(t, "/usuarios", users.APIPath)
	assert.Equal(t, "/productos", DefaultRegistry().kinds[1].APIPath, "override leaked into the default registry")

	_, err = NewRegistry(map[string]string{"orders": "/orders"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}
