package bundle

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/opmodel/resengine/internal/builder"
	"github.com/opmodel/resengine/internal/handle"
	"github.com/opmodel/resengine/internal/identity"
	"github.com/opmodel/resengine/internal/restree"
)

// Build compiles a frozen ResourceManager into a self-describing Bundle,
// computing its checksum with normaliser (CRC32Normaliser if nil).
func Build(mgr *builder.ResourceManager, normaliser HashNormaliser, version, description string) (*Bundle, error) {
	if normaliser == nil {
		normaliser = CRC32Normaliser{}
	}

	cfg := buildConfig(mgr)
	cc := buildCompiledCollection(mgr)

	canonical, err := json.Marshal(cc)
	if err != nil {
		return nil, fmt.Errorf("marshalling compiled collection: %w", err)
	}
	checksum := normaliser.ComputeHash(canonical)

	return &Bundle{
		Metadata: Metadata{
			BuildID:     identity.BuildID(checksum),
			DateBuilt:   time.Now().UTC().Format(time.RFC3339),
			Checksum:    checksum,
			Version:     version,
			Description: description,
		},
		Config:             cfg,
		CompiledCollection: cc,
	}, nil
}

func buildConfig(mgr *builder.ResourceManager) Config {
	cfg := Config{}

	for i := 0; ; i++ {
		t, ok := mgr.QualifierTypes.ByHandle(handle.QualifierTypeHandle(i))
		if !ok {
			break
		}
		desc := t.Describe()
		desc["name"] = t.Name()
		cfg.QualifierTypes = append(cfg.QualifierTypes, desc)
	}

	for i := 0; ; i++ {
		q, ok := mgr.Qualifiers.ByHandle(handle.QualifierHandle(i))
		if !ok {
			break
		}
		cfg.Qualifiers = append(cfg.Qualifiers, q)
	}

	for i := 0; ; i++ {
		rt, ok := mgr.ResourceTypes.ByHandle(handle.ResourceTypeHandle(i))
		if !ok {
			break
		}
		desc := rt.Describe()
		desc["name"] = rt.Name()
		cfg.ResourceTypes = append(cfg.ResourceTypes, desc)
	}

	return cfg
}

func buildCompiledCollection(mgr *builder.ResourceManager) CompiledCollection {
	cc := CompiledCollection{}

	for _, c := range mgr.Conditions.All() {
		cc.Conditions = append(cc.Conditions, ConditionRecord{
			Qualifier: int(c.Qualifier),
			Operator:  c.Operator,
			Value:     c.Value,
			Priority:  c.Priority,
		})
	}

	for _, members := range mgr.ConditionSets.All() {
		ints := make([]int, len(members))
		for i, m := range members {
			ints[i] = int(m)
		}
		cc.ConditionSets = append(cc.ConditionSets, ints)
	}

	for _, sets := range mgr.Decisions.All() {
		ints := make([]int, len(sets))
		for i, s := range sets {
			ints[i] = int(s)
		}
		cc.Decisions = append(cc.Decisions, ints)
	}

	mgr.Tree.Walk(func(id string, res *restree.Resource) {
		candidates := make([]CandidateRecord, len(res.Candidates))
		for i, cand := range res.Candidates {
			candidates[i] = CandidateRecord{
				Value:       cand.Value,
				IsPartial:   cand.IsPartial,
				MergeMethod: string(cand.MergeMethod),
			}
		}
		cc.Resources = append(cc.Resources, ResourceRecord{
			ID:           id,
			ResourceType: int(res.ResourceType),
			Decision:     int(res.Decision),
			Candidates:   candidates,
		})
	})

	return cc
}
