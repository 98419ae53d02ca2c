package qualifier

import (
	"fmt"
	"regexp"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
	"github.com/opmodel/resengine/pkg/priority"
)

// nameRe is the invariant every qualifier name must satisfy.
var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// TypeRegistry holds the closed set of registered qualifier types,
// assigning each a dense, stable handle in registration order.
type TypeRegistry struct {
	byHandle []Type
	byName   map[string]handle.QualifierTypeHandle
}

// NewTypeRegistry constructs an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{byName: make(map[string]handle.QualifierTypeHandle)}
}

// Register binds a Type under its own Name(). Fails with DuplicateName if
// a type of that name is already registered.
func (r *TypeRegistry) Register(t Type) (handle.QualifierTypeHandle, error) {
	if _, exists := r.byName[t.Name()]; exists {
		return handle.Invalid, rerrors.NewAt(rerrors.ErrDuplicateName, "DuplicateName", t.Name(),
			"qualifier type already registered")
	}
	h := handle.QualifierTypeHandle(len(r.byHandle))
	r.byHandle = append(r.byHandle, t)
	r.byName[t.Name()] = h
	return h, nil
}

// Get looks up a type by name.
func (r *TypeRegistry) Get(name string) (Type, error) {
	h, ok := r.byName[name]
	if !ok {
		return nil, rerrors.NewAt(rerrors.ErrUnknownType, "UnknownType", name, "qualifier type not registered")
	}
	return r.byHandle[h], nil
}

// ByHandle returns the type registered at h.
func (r *TypeRegistry) ByHandle(h handle.QualifierTypeHandle) (Type, bool) {
	if int(h) < 0 || int(h) >= len(r.byHandle) {
		return nil, false
	}
	return r.byHandle[h], true
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int { return len(r.byHandle) }

// Qualifier binds a name to a qualifier type, a default priority, and an
// optional short token form.
type Qualifier struct {
	Name            string `json:"name" yaml:"name"`
	TypeName        string `json:"typeName" yaml:"typeName"`
	DefaultPriority int16  `json:"defaultPriority" yaml:"defaultPriority"` // [0, 1000]
	Token           string `json:"token,omitempty" yaml:"token,omitempty"`
	TokenIsOptional bool   `json:"tokenIsOptional,omitempty" yaml:"tokenIsOptional,omitempty"`
}

// Registry holds named qualifiers, each bound to a registered type.
// Qualifiers also live in a separate token namespace used by the importer's
// terse path-segment grammar.
type Registry struct {
	types *TypeRegistry

	byHandle []Qualifier
	byName   map[string]handle.QualifierHandle
	byToken  map[string]handle.QualifierHandle
}

// NewRegistry constructs a qualifier registry bound to the given type
// registry; every qualifier added must name a type already present there.
func NewRegistry(types *TypeRegistry) *Registry {
	return &Registry{
		types:   types,
		byName:  make(map[string]handle.QualifierHandle),
		byToken: make(map[string]handle.QualifierHandle),
	}
}

// Add registers a qualifier declaration, validating its name and type.
func (r *Registry) Add(decl Qualifier) (handle.QualifierHandle, error) {
	if !nameRe.MatchString(decl.Name) {
		return handle.Invalid, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", decl.Name,
			"qualifier name must match [A-Za-z_][A-Za-z0-9_-]*")
	}
	if _, exists := r.byName[decl.Name]; exists {
		return handle.Invalid, rerrors.NewAt(rerrors.ErrDuplicateName, "DuplicateName", decl.Name,
			"qualifier already registered")
	}
	if _, err := r.types.Get(decl.TypeName); err != nil {
		return handle.Invalid, err
	}
	if !priority.InRange(decl.DefaultPriority) {
		return handle.Invalid, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", decl.Name,
			fmt.Sprintf("defaultPriority %d out of range [%d,%d]", decl.DefaultPriority, priority.MinPriority, priority.MaxPriority))
	}

	h := handle.QualifierHandle(len(r.byHandle))
	r.byHandle = append(r.byHandle, decl)
	r.byName[decl.Name] = h
	if decl.Token != "" {
		r.byToken[decl.Token] = h
	}
	return h, nil
}

// GetByName looks up a qualifier by its registered name.
func (r *Registry) GetByName(name string) (handle.QualifierHandle, Qualifier, error) {
	h, ok := r.byName[name]
	if !ok {
		return handle.Invalid, Qualifier{}, rerrors.NewAt(rerrors.ErrUnknownQualifier, "UnknownQualifier", name,
			"no qualifier registered under this name")
	}
	return h, r.byHandle[h], nil
}

// GetByNameOrToken tries name first, then the token namespace.
func (r *Registry) GetByNameOrToken(nameOrToken string) (handle.QualifierHandle, Qualifier, error) {
	if h, q, err := r.GetByName(nameOrToken); err == nil {
		return h, q, nil
	}
	h, ok := r.byToken[nameOrToken]
	if !ok {
		return handle.Invalid, Qualifier{}, rerrors.NewAt(rerrors.ErrUnknownQualifier, "UnknownQualifier", nameOrToken,
			"no qualifier registered under this name or token")
	}
	return h, r.byHandle[h], nil
}

// ByHandle returns the qualifier declaration at h.
func (r *Registry) ByHandle(h handle.QualifierHandle) (Qualifier, bool) {
	if int(h) < 0 || int(h) >= len(r.byHandle) {
		return Qualifier{}, false
	}
	return r.byHandle[h], true
}

// Type resolves the Type implementation bound to a qualifier's TypeName.
func (r *Registry) Type(q Qualifier) (Type, error) {
	return r.types.Get(q.TypeName)
}

// Len returns the number of registered qualifiers.
func (r *Registry) Len() int { return len(r.byHandle) }

// Types exposes the underlying type registry (e.g. for validation callers
// that need direct Type access without a Qualifier in hand).
func (r *Registry) Types() *TypeRegistry { return r.types }

// TerseCandidates returns every qualifier declared with TokenIsOptional
// whose type would validate value, for the importer's terse
// path-segment disambiguation. More than one match is an
// AmbiguousTerseToken condition the caller must raise.
func (r *Registry) TerseCandidates(value string) []handle.QualifierHandle {
	var matches []handle.QualifierHandle
	for i, q := range r.byHandle {
		if !q.TokenIsOptional {
			continue
		}
		t, err := r.types.Get(q.TypeName)
		if err != nil {
			continue
		}
		if t.Validate(value) == nil {
			matches = append(matches, handle.QualifierHandle(i))
		}
	}
	return matches
}
