// Package resolver implements the core resolution algorithm: given a
// frozen ResourceManager, a resource id, and a context, it scores the
// resource's candidates against the context and returns the best match,
// composing partial candidates where the resource type defines a merge.
package resolver

import (
	"fmt"
	"sort"
	"time"

	"github.com/opmodel/resengine/internal/builder"
	rerrors "github.com/opmodel/resengine/internal/errors"
	"github.com/opmodel/resengine/internal/handle"
	"github.com/opmodel/resengine/internal/qualifier"
	"github.com/opmodel/resengine/internal/restree"
	"github.com/opmodel/resengine/internal/restype"
	"github.com/opmodel/resengine/pkg/priority"
)

// UnconditionalScore is the defined floor score for the unconditional
// condition-set: low enough that any positively-matched conditional set
// outranks it, high enough that it still beats a fully-mismatched
// conditional set (which scores 0 and is discarded).
const UnconditionalScore = 0.5

// Resolver resolves resource ids against a frozen ResourceManager.
type Resolver struct {
	mgr     *builder.ResourceManager
	metrics *Metrics
}

// New binds a Resolver to a frozen ResourceManager.
func New(mgr *builder.ResourceManager) *Resolver {
	return &Resolver{mgr: mgr}
}

// WithMetrics attaches a Metrics instance so every Resolve call is observed.
// Not required; a Resolver with no Metrics simply skips the bookkeeping.
func (r *Resolver) WithMetrics(m *Metrics) *Resolver {
	r.metrics = m
	return r
}

// Contribution describes one condition-set that was scored during a
// resolve, for diagnostic reporting.
type Contribution struct {
	ConditionSet handle.ConditionSetHandle
	Score        float64
	IsPartial    bool
}

// Result is the outcome of a successful resolve.
type Result struct {
	Value         any
	Score         float64
	Contributions []Contribution
}

type scoredEntry struct {
	position int
	set      handle.ConditionSetHandle
	score    float64
	cand     restree.Candidate
}

// Resolve looks up id in the resource tree and scores its candidates
// against ctx. ctx maps qualifier name to either a string or a []string
// (for qualifier types that allow context lists).
func (r *Resolver) Resolve(id string, ctx map[string]any) (result *Result, err error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		if err == nil {
			outcome = "ok"
		}
		r.metrics.observe(outcome, time.Since(start).Seconds())
	}()

	resolvedID, err := restree.ParseResourceId(id)
	if err != nil {
		return nil, err
	}

	canonical, err := r.validateContext(ctx)
	if err != nil {
		return nil, err
	}

	res, err := r.mgr.Tree.GetResource(resolvedID)
	if err != nil {
		return nil, err
	}

	sets, err := r.mgr.Decisions.Get(res.Decision)
	if err != nil {
		return nil, err
	}
	if len(sets) != len(res.Candidates) {
		return nil, rerrors.New(rerrors.ErrInvalidValue, "InvalidValue",
			"resource candidate count does not match its decision's condition-set count")
	}

	var entries []scoredEntry
	for i, setHandle := range sets {
		score, err := r.scoreConditionSet(setHandle, canonical)
		if err != nil {
			return nil, err
		}
		if score <= 0 {
			continue
		}
		entries = append(entries, scoredEntry{position: i, set: setHandle, score: score, cand: res.Candidates[i]})
	}

	if len(entries) == 0 {
		outcome = "no_match"
		return nil, rerrors.NewAt(rerrors.ErrNoMatchingCandidate, "NoMatchingCandidate", id,
			"every condition-set scored 0 and the decision does not include the unconditional set")
	}

	sort.SliceStable(entries, func(i, j int) bool {
		iUncond := entries[i].set == handle.UnconditionalSet
		jUncond := entries[j].set == handle.UnconditionalSet
		if iUncond != jUncond {
			return jUncond
		}
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].position < entries[j].position
	})

	top := entries[0]
	if !top.cand.IsPartial {
		return &Result{
			Value: top.cand.Value,
			Score: top.score,
			Contributions: []Contribution{
				{ConditionSet: top.set, Score: top.score, IsPartial: false},
			},
		}, nil
	}

	rt, ok := r.mgr.ResourceTypes.ByHandle(res.ResourceType)
	if !ok {
		return nil, rerrors.New(rerrors.ErrUnknownType, "UnknownType", "resource references an unregistered resource type")
	}

	return compose(rt, entries)
}

// compose finds the first non-partial candidate among entries (already
// sorted highest score first) to use as the base, falling back to the
// resource type's empty value when every entry is partial, then folds
// every earlier (higher-ranked) partial candidate onto it from lowest to
// highest rank.
func compose(rt restype.ResourceType, entries []scoredEntry) (*Result, error) {
	baseIdx := -1
	for i, e := range entries {
		if !e.cand.IsPartial {
			baseIdx = i
			break
		}
	}

	var contributing []int
	var base any
	if baseIdx == -1 {
		base = rt.Empty()
		contributing = rangeInts(len(entries))
	} else {
		base = entries[baseIdx].cand.Value
		contributing = rangeInts(baseIdx + 1)
	}

	// Apply every contributing partial candidate from lowest score to
	// highest, skipping the base itself when it was a real candidate.
	applyFrom := contributing
	if baseIdx != -1 {
		applyFrom = contributing[:len(contributing)-1]
	}
	for i := len(applyFrom) - 1; i >= 0; i-- {
		e := entries[applyFrom[i]]
		merged, err := rt.Merge(base, e.cand.Value, e.cand.MergeMethod)
		if err != nil {
			return nil, err
		}
		base = merged
	}

	contributions := make([]Contribution, 0, len(contributing))
	for _, idx := range contributing {
		e := entries[idx]
		contributions = append(contributions, Contribution{ConditionSet: e.set, Score: e.score, IsPartial: e.cand.IsPartial})
	}

	return &Result{Value: base, Score: entries[0].score, Contributions: contributions}, nil
}

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// scoreConditionSet computes the set's match score against ctx: the
// priority-weighted mean of its per-condition scores, 0 if any condition
// scores exactly 0, or the defined floor for the unconditional set.
func (r *Resolver) scoreConditionSet(setHandle handle.ConditionSetHandle, ctx map[string][]string) (float64, error) {
	if r.mgr.ConditionSets.IsUnconditional(setHandle) {
		return UnconditionalScore, nil
	}

	members, err := r.mgr.ConditionSets.Members(setHandle)
	if err != nil {
		return 0, err
	}

	priorities := make([]int16, 0, len(members))
	scores := make([]float64, 0, len(members))
	for _, ch := range members {
		cond, err := r.mgr.Conditions.Get(ch)
		if err != nil {
			return 0, err
		}

		q, ok := r.mgr.Qualifiers.ByHandle(cond.Qualifier)
		if !ok {
			return 0, rerrors.New(rerrors.ErrUnknownQualifier, "UnknownQualifier", "condition references an unregistered qualifier")
		}
		qtype, err := r.mgr.Qualifiers.Type(q)
		if err != nil {
			return 0, err
		}

		contextValues, present := ctx[q.Name]
		if !present || len(contextValues) == 0 {
			// No context value for this qualifier: the condition
			// contributes 0 unless the type opts into a neutral
			// accept-if-absent policy. None of the current qualifier
			// types do, matching the spec's conservative default.
			return 0, nil
		}

		joined := contextValues[0]
		if len(contextValues) > 1 {
			joined = joinList(contextValues)
		}
		score := qualifier.Score(qtype, cond.Value, joined)
		if score <= 0 {
			return 0, nil
		}

		priorities = append(priorities, cond.Priority)
		scores = append(scores, score)
	}

	return priority.WeightedMean(priorities, scores), nil
}

func joinList(values []string) string {
	out := values[0]
	for _, v := range values[1:] {
		out += "," + v
	}
	return out
}

// validateContext converts ctx into a canonical form and ignores unknown
// qualifiers (a warning condition, not an error) while still failing fast
// on malformed values for qualifiers that are known.
func (r *Resolver) validateContext(ctx map[string]any) (map[string][]string, error) {
	out := make(map[string][]string, len(ctx))
	for key, raw := range ctx {
		_, q, err := r.mgr.Qualifiers.GetByName(key)
		if err != nil {
			continue // unknown qualifier: ignored, not an error
		}
		qtype, err := r.mgr.Qualifiers.Type(q)
		if err != nil {
			continue
		}

		switch v := raw.(type) {
		case string:
			if err := qtype.Validate(v); err != nil {
				return nil, rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key, err.Error())
			}
			out[key] = []string{qtype.Canonicalize(v)}
		case []string:
			if !qtype.AllowContextList() {
				return nil, rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key,
					"qualifier type does not accept a list of context values")
			}
			canon := make([]string, len(v))
			for i, e := range v {
				if err := qtype.Validate(e); err != nil {
					return nil, rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key, err.Error())
				}
				canon[i] = qtype.Canonicalize(e)
			}
			out[key] = canon
		default:
			return nil, rerrors.NewAt(rerrors.ErrInvalidContext, "InvalidContext", key,
				fmt.Sprintf("unsupported context value type %T", raw))
		}
	}
	return out, nil
}
