// Package reconciler matches simulator mods to official mods on normalized
// text and reports what it could not match.
package reconciler

import (
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/modtext"
)

// Pair is a confirmed simulator/official match
type Pair struct {
	SimulatorID string       `json:"simulator_id"`
	OfficialID  string       `json:"official_id"`
	Text        modtext.Text `json:"normalized_text"`
	// Curated is set when the pair came from the override file
	Curated bool `json:"curated,omitempty"`
}

// Unmatched is a simulator mod with no official counterpart
type Unmatched struct {
	SimulatorID    string       `json:"simulator_id"`
	NormalizedText modtext.Text `json:"normalized_text"`
	// Suggestions are the closest official texts, for curators
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// IDMap is the bidirectional identifier mapping
type IDMap struct {
	Forward map[string]string   `json:"forward"`
	Reverse map[string][]string `json:"reverse"`
}

// Result is the outcome of one reconciliation pass
type Result struct {
	IDMap     IDMap       `json:"id_map"`
	Pairs     []Pair      `json:"pairs"`
	Unmatched []Unmatched `json:"unmatched"`
}

// OfficialFor returns the official id matched to a simulator id
func (r *Result) OfficialFor(simulatorID string) (string, bool) {
	id, ok := r.IDMap.Forward[simulatorID]
	return id, ok
}

// SimulatorFor returns the simulator ids matched to an official id
func (r *Result) SimulatorFor(officialID string) []string {
	return r.IDMap.Reverse[officialID]
}

// Reconcile matches every simulator mod against the official catalog.
//
// A curated override wins over text matching. An exact text hit on exactly
// one official id is a confirmed pair; a hit on several official ids is a
// data error naming every candidate; a miss is recorded as unmatched with
// near-miss suggestions. Neither catalog is modified and the result is
// deterministic for identical inputs.
func Reconcile(simulator, official catalogs.Catalog, overrides Overrides) (*Result, error) {
	if catalogs.IsNil(simulator) || catalogs.IsNil(official) {
		return nil, crafterr.InvalidArgument("both catalogs are required")
	}

	result := &Result{
		IDMap: IDMap{
			Forward: make(map[string]string),
			Reverse: make(map[string][]string),
		},
	}

	var near *suggester
	for _, text := range simulator.Texts() {
		for _, simID := range simulator.IDsFor(text) {
			if officialID, ok := overrides[simID]; ok {
				if _, exists := official.Mod(officialID); !exists {
					return nil, crafterr.DataErrorf("override maps simulator mod %s to unknown official id %s",
						simID, officialID).
						WithMeta("simulator_id", simID).
						WithMeta("official_id", officialID)
				}
				result.add(Pair{SimulatorID: simID, OfficialID: officialID, Text: text, Curated: true})
				continue
			}

			candidates := official.IDsFor(text)
			switch len(candidates) {
			case 0:
				if near == nil {
					near = newSuggester(official.Texts())
				}
				result.Unmatched = append(result.Unmatched, Unmatched{
					SimulatorID:    simID,
					NormalizedText: text,
					Suggestions:    near.suggest(text, official),
				})
			case 1:
				result.add(Pair{SimulatorID: simID, OfficialID: candidates[0], Text: text})
			default:
				return nil, crafterr.DataErrorf("simulator mod %s text %q matches official ids %v",
					simID, text, candidates).
					WithMeta("simulator_id", simID).
					WithMeta("text", string(text)).
					WithMeta("candidates", candidates)
			}
		}
	}

	result.finish()
	return result, nil
}

func (r *Result) add(p Pair) {
	r.Pairs = append(r.Pairs, p)
	r.IDMap.Forward[p.SimulatorID] = p.OfficialID
	r.IDMap.Reverse[p.OfficialID] = append(r.IDMap.Reverse[p.OfficialID], p.SimulatorID)
}

func (r *Result) finish() {
	sort.Slice(r.Pairs, func(i, j int) bool {
		return r.Pairs[i].SimulatorID < r.Pairs[j].SimulatorID
	})
	sort.Slice(r.Unmatched, func(i, j int) bool {
		return r.Unmatched[i].SimulatorID < r.Unmatched[j].SimulatorID
	})
	for id := range r.IDMap.Reverse {
		sort.Strings(r.IDMap.Reverse[id])
	}
}
