package models

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownKind is returned when a kind name is not registered.
	ErrUnknownKind = errors.New("unknown resource kind")

	// ErrMissingIdentity means a record carries neither identifier field.
	// Servers are expected to always return one, so this is a malformed response.
	ErrMissingIdentity = errors.New("record has no identity")
)

// Identifier field names, in resolution order.
const (
	PrimaryIDField   = "id"
	SecondaryIDField = "_id"
)

// InputKind describes how a field is edited and coerced.
type InputKind string

const (
	InputText   InputKind = "text"
	InputEmail  InputKind = "email"
	InputNumber InputKind = "number"
)

// Numeric reports whether values of this input kind are stored as numbers.
func (k InputKind) Numeric() bool {
	return k == InputNumber
}

// Field describes one editable field of a resource kind.
type Field struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Input    InputKind `json:"input"`
	Required bool      `json:"required"`
}

// Kind describes a manageable resource kind on the remote API.
type Kind struct {
	Name     string  `json:"name"`     // "users", "products"
	Label    string  `json:"label"`    // Human-readable plural: "Usuarios"
	Singular string  `json:"singular"` // "Usuario"
	APIPath  string  `json:"api_path"` // "/usuarios"
	Fields   []Field `json:"fields"`
}

// Field returns the descriptor for key, if the kind declares it.
func (k *Kind) Field(key string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// IdentityOf resolves the identity of a record, preferring "id" over "_id".
// A blank "id" falls through to "_id".
func (k *Kind) IdentityOf(r Resource) (string, error) {
	for _, key := range []string{PrimaryIDField, SecondaryIDField} {
		v, ok := r[key]
		if !ok || IsBlank(v) {
			continue
		}
		return identityString(v), nil
	}
	return "", fmt.Errorf("%s: %w", k.Name, ErrMissingIdentity)
}

// identityString renders an identifier without float noise: 7 -> "7".
func identityString(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v)
}

// Default kind names.
const (
	KindUsers    = "users"
	KindProducts = "products"
)

// defaultKinds is the static kind registry as deployed.
var defaultKinds = []Kind{
	{
		Name: KindUsers, Label: "Usuarios", Singular: "Usuario", APIPath: "/usuarios",
		Fields: []Field{
			{Key: "nombre", Label: "Nombre", Input: InputText, Required: true},
			{Key: "email", Label: "Email", Input: InputEmail, Required: true},
			{Key: "telefono", Label: "Teléfono", Input: InputText},
		},
	},
	{
		Name: KindProducts, Label: "Productos", Singular: "Producto", APIPath: "/productos",
		Fields: []Field{
			{Key: "nombre", Label: "Nombre del Producto", Input: InputText, Required: true},
			{Key: "precio", Label: "Precio", Input: InputNumber, Required: true},
		},
	},
}

// Registry is the read-only set of resource kinds. Build it once at startup.
type Registry struct {
	kinds []Kind
}

// NewRegistry builds the registry, applying optional API path overrides keyed
// by kind name. Overrides for unregistered kinds are an error.
func NewRegistry(paths map[string]string) (*Registry, error) {
	kinds := make([]Kind, len(defaultKinds))
	for i, k := range defaultKinds {
		kinds[i] = k
		kinds[i].Fields = append([]Field(nil), k.Fields...)
	}
	for name, path := range paths {
		found := false
		for i := range kinds {
			if kinds[i].Name == name {
				if path != "" {
					kinds[i].APIPath = path
				}
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("path override for %q: %w", name, ErrUnknownKind)
		}
	}
	return &Registry{kinds: kinds}, nil
}

// DefaultRegistry returns the registry with the deployed API paths.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(nil)
	return r
}

// Describe returns the kind registered under name.
func (r *Registry) Describe(name string) (*Kind, error) {
	for i := range r.kinds {
		if r.kinds[i].Name == name {
			k := r.kinds[i]
			return &k, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownKind)
}

// Names returns kind names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.kinds))
	for i, k := range r.kinds {
		names[i] = k.Name
	}
	return names
}

// Kinds returns a copy of all registered kinds.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}
