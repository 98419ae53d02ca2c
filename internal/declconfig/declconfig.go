// Package declconfig loads the qualifier-type, qualifier, and
// resource-type declarations a build reads before it can import any
// resource files: the importer and builder both need fully populated
// registries before they can make sense of a single path segment.
package declconfig

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restype"
)

// QualifierTypeDecl declares one qualifier type. Kind selects the
// constructor; the remaining fields are only meaningful for their kind.
type QualifierTypeDecl struct {
	Name             string   `json:"name"`
	Kind             string   `json:"kind"` // language | territory | literal
	TokenIsOptional  bool     `json:"tokenIsOptional,omitempty"`
	Values           []string `json:"values,omitempty"`
	CaseFold         bool     `json:"caseFold,omitempty"`
	AllowContextList bool     `json:"allowContextList,omitempty"`
}

// QualifiersFile is the top-level shape of a qualifiers declaration file:
// the closed set of types, followed by the named qualifiers bound to them.
type QualifiersFile struct {
	Types      []QualifierTypeDecl `json:"types"`
	Qualifiers []qualifier.Qualifier `json:"qualifiers"`
}

// ResourceTypeDecl declares one resource type.
type ResourceTypeDecl struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"` // json | blob
	Constraint string `json:"constraint,omitempty"`
}

// ResourceTypesFile is the top-level shape of a resource-types declaration
// file.
type ResourceTypesFile struct {
	ResourceTypes []ResourceTypeDecl `json:"resourceTypes"`
}

// LoadQualifiers reads path (YAML or JSON; sigs.k8s.io/yaml accepts both)
// and returns fully populated type and qualifier registries.
func LoadQualifiers(path string) (*qualifier.TypeRegistry, *qualifier.Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", path, err.Error())
	}

	var file QualifiersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", path, err.Error())
	}

	types := qualifier.NewTypeRegistry()
	for _, td := range file.Types {
		t, err := buildQualifierType(td)
		if err != nil {
			return nil, nil, rerrors.Wrap(path, err)
		}
		if _, err := types.Register(t); err != nil {
			return nil, nil, rerrors.Wrap(path, err)
		}
	}

	qualifiers := qualifier.NewRegistry(types)
	for _, qd := range file.Qualifiers {
		if _, err := qualifiers.Add(qd); err != nil {
			return nil, nil, rerrors.Wrap(path, err)
		}
	}

	return types, qualifiers, nil
}

func buildQualifierType(td QualifierTypeDecl) (qualifier.Type, error) {
	switch td.Kind {
	case "language":
		return qualifier.NewLanguageType(), nil
	case "territory":
		return qualifier.NewTerritoryType(td.TokenIsOptional), nil
	case "literal":
		return qualifier.NewLiteralType(td.Name, td.Values, td.CaseFold, td.AllowContextList), nil
	default:
		return nil, rerrors.NewAt(rerrors.ErrUnknownType, "UnknownType", td.Name,
			fmt.Sprintf("unrecognised qualifier type kind %q", td.Kind))
	}
}

// LoadResourceTypes reads path and returns a populated resource-type
// registry.
func LoadResourceTypes(path string) (*restype.Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.NewAt(rerrors.ErrNotFound, "NotFound", path, err.Error())
	}

	var file ResourceTypesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, rerrors.NewAt(rerrors.ErrInvalidValue, "InvalidValue", path, err.Error())
	}

	registry := restype.NewRegistry()
	for _, rd := range file.ResourceTypes {
		rt, err := buildResourceType(rd)
		if err != nil {
			return nil, rerrors.Wrap(path, err)
		}
		if _, err := registry.Register(rt); err != nil {
			return nil, rerrors.Wrap(path, err)
		}
	}
	return registry, nil
}

func buildResourceType(rd ResourceTypeDecl) (restype.ResourceType, error) {
	switch rd.Kind {
	case "json":
		return restype.NewJSONType(rd.Name, rd.Constraint), nil
	case "blob":
		return restype.NewBlobType(rd.Name), nil
	default:
		return nil, rerrors.NewAt(rerrors.ErrUnknownType, "UnknownType", rd.Name,
			fmt.Sprintf("unrecognised resource type kind %q", rd.Kind))
	}
}
