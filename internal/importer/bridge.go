package importer

import (
	"strings"

	"github.com/opmodel/resengine/internal/builder"
	rerrors "github.com/opmodel/resengine/internal/errors"
)

// ToResourceDecls groups a flat slice of Importables into one
// builder.ResourceDecl per distinct resource id, merging each item's
// inherited Context ahead of its own file-local Conditions into a single
// candidate. Items are grouped in first-seen order so the resulting
// decls are deterministic for a deterministic walk.
//
// Every Importable sharing a resource id must agree on ResourceTypeName;
// a mismatch fails with PathConflict rather than silently picking one.
func ToResourceDecls(items []Importable) ([]builder.ResourceDecl, error) {
	order := make([]string, 0, len(items))
	decls := make(map[string]*builder.ResourceDecl, len(items))

	for _, it := range items {
		if it.Type != "fsItem" {
			return nil, rerrors.NewAt(rerrors.ErrUnknownImportableType, "UnknownImportableType", it.Type,
				"importer produced an Importable of unsupported type")
		}

		id := resourceID(it.Item.PathPrefix, it.Item.BaseName)

		decl, ok := decls[id]
		if !ok {
			decl = &builder.ResourceDecl{ID: id, ResourceTypeName: it.Item.ResourceTypeName}
			decls[id] = decl
			order = append(order, id)
		} else if decl.ResourceTypeName != it.Item.ResourceTypeName {
			return nil, rerrors.NewAt(rerrors.ErrPathConflict, "PathConflict", id,
				"file contributes resource type "+it.Item.ResourceTypeName+" but resource already has "+decl.ResourceTypeName)
		}

		decl.Candidates = append(decl.Candidates, builder.CandidateDecl{
			Conditions: mergeConditions(it.Context, it.Item.Conditions),
			Value:      it.Item.Item,
			IsPartial:  false,
		})
	}

	out := make([]builder.ResourceDecl, 0, len(order))
	for _, id := range order {
		out = append(out, *decls[id])
	}
	return out, nil
}

// resourceID joins the literal directory prefix and file basename into a
// dotted resource id, the same shape restree.ParseResourceId expects.
func resourceID(pathPrefix []string, baseName string) string {
	if len(pathPrefix) == 0 {
		return baseName
	}
	return strings.Join(pathPrefix, ".") + "." + baseName
}

func mergeConditions(context, local []Condition) []builder.ConditionDecl {
	if len(context) == 0 && len(local) == 0 {
		return nil
	}
	decls := make([]builder.ConditionDecl, 0, len(context)+len(local))
	for _, c := range context {
		decls = append(decls, builder.ConditionDecl{Qualifier: c.Qualifier, Value: c.Value})
	}
	for _, c := range local {
		decls = append(decls, builder.ConditionDecl{Qualifier: c.Qualifier, Value: c.Value})
	}
	return decls
}
