package restype

import (
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
)

// Registry holds the registered resource types, assigning each a dense,
// stable handle in registration order.
type Registry struct {
	byHandle []ResourceType
	byName   map[string]handle.ResourceTypeHandle
}

// NewRegistry constructs an empty resource type registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]handle.ResourceTypeHandle)}
}

// Register binds a ResourceType under its own Name(). Fails with
// DuplicateName if a type of that name is already registered.
func (r *Registry) Register(rt ResourceType) (handle.ResourceTypeHandle, error) {
	if _, exists := r.byName[rt.Name()]; exists {
		return handle.Invalid, rerrors.NewAt(rerrors.ErrDuplicateName, "DuplicateName", rt.Name(),
			"resource type already registered")
	}
	h := handle.ResourceTypeHandle(len(r.byHandle))
	r.byHandle = append(r.byHandle, rt)
	r.byName[rt.Name()] = h
	return h, nil
}

// Get looks up a resource type by name.
func (r *Registry) Get(name string) (ResourceType, handle.ResourceTypeHandle, error) {
	h, ok := r.byName[name]
	if !ok {
		return nil, handle.Invalid, rerrors.NewAt(rerrors.ErrUnknownType, "UnknownType", name,
			"resource type not registered")
	}
	return r.byHandle[h], h, nil
}

// ByHandle returns the resource type at h.
func (r *Registry) ByHandle(h handle.ResourceTypeHandle) (ResourceType, bool) {
	if int(h) < 0 || int(h) >= len(r.byHandle) {
		return nil, false
	}
	return r.byHandle[h], true
}

// Len returns the number of registered resource types.
func (r *Registry) Len() int { return len(r.byHandle) }
