// Package filter narrows retrieved candidates to the detected intent and tops
// the list up from the retrieval pool when filtering leaves too few.
package filter

import (
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/rules"
	"github.com/techstore/catalogqa/internal/domain/specs"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
)

// Selector applies intent predicates built from a rule vocabulary.
// All methods are pure and order-preserving.
type Selector struct {
	vocab rules.Vocabulary
}

// New creates a selector.
func New(vocab rules.Vocabulary) *Selector {
	return &Selector{vocab: vocab}
}

// view is the normalized form of a candidate the predicates look at.
type view struct {
	category textnorm.Text
	name     textnorm.Text
	spec     string
	specRaw  string
}

func newView(c candidate.Candidate) view {
	return view{
		category: textnorm.NewText(c.CategoryName()),
		name:     textnorm.NewText(c.Name()),
		spec:     textnorm.ForMatching(c.SpecText()),
		specRaw:  c.SpecText(),
	}
}

// Filter keeps candidates admissible for in, in their original order.
// Intents without a predicate keep everything.
func (s *Selector) Filter(cs []candidate.Candidate, in intent.Intent) []candidate.Candidate {
	pred := s.strict(in)
	if pred == nil {
		return cs
	}
	out := make([]candidate.Candidate, 0, len(cs))
	for _, c := range cs {
		if pred(newView(c)) {
			out = append(out, c)
		}
	}
	return out
}

// Backfill appends pool candidates that pass the relaxed predicate for in
// until selected reaches topK. Candidates already selected are skipped and
// pool order is kept. It returns the combined list and how many were added.
func (s *Selector) Backfill(
	selected, pool []candidate.Candidate, in intent.Intent, topK int,
) ([]candidate.Candidate, int) {
	if len(selected) >= topK {
		return selected, 0
	}
	pred := s.relaxed(in)
	if pred == nil {
		return selected, 0
	}

	seen := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		seen[c.ID()] = struct{}{}
	}

	out := make([]candidate.Candidate, len(selected), topK)
	copy(out, selected)
	added := 0
	for _, c := range pool {
		if len(out) >= topK {
			break
		}
		if _, dup := seen[c.ID()]; dup {
			continue
		}
		if !pred(newView(c)) {
			continue
		}
		seen[c.ID()] = struct{}{}
		out = append(out, c)
		added++
	}
	return out, added
}

type predicate func(v view) bool

func (s *Selector) strict(in intent.Intent) predicate {
	switch in {
	case intent.Phone:
		return func(v view) bool {
			return v.category.ContainsAny(s.vocab.PhoneCategories) ||
				(v.name.ContainsAny(s.vocab.PhoneBrands) && rules.MatchAny(s.vocab.PhoneSignals, v.spec))
		}
	case intent.Tablet:
		return func(v view) bool { return v.category.ContainsAny(s.vocab.TabletCategories) }
	case intent.Accessory:
		return func(v view) bool { return v.category.ContainsAny(s.vocab.AccessoryCategories) }
	case intent.Laptop:
		return s.isLaptop
	case intent.Gaming:
		return func(v view) bool {
			return s.isLaptop(v) &&
				(rules.MatchAny(s.vocab.GamingGPUs, v.spec) || v.name.ContainsAny(s.vocab.GamingBrands))
		}
	case intent.Office:
		return func(v view) bool {
			if !s.isLaptop(v) || s.isGamingMarked(v) {
				return false
			}
			kg, ok := specs.Extract(v.specRaw).WeightKg()
			return !ok || kg < s.vocab.OfficeMaxWeightKg
		}
	default:
		return nil
	}
}

func (s *Selector) relaxed(in intent.Intent) predicate {
	switch in {
	case intent.Gaming:
		return func(v view) bool { return v.name.ContainsAny(s.vocab.GamingBrands) }
	case intent.Phone:
		return func(v view) bool {
			if s.isLaptop(v) || v.category.ContainsAny(s.vocab.TabletCategories) ||
				v.name.ContainsAny(s.vocab.NonPhoneMarkers) {
				return false
			}
			return v.name.ContainsAny(s.vocab.PhoneBrands) && rules.MatchAny(s.vocab.PhoneSignals, v.spec)
		}
	case intent.Office:
		return s.isLaptop
	case intent.Laptop:
		return func(v view) bool { return v.name.ContainsAny(s.vocab.LaptopSeries) }
	case intent.Tablet:
		return func(v view) bool { return v.name.ContainsAny(s.vocab.TabletSeries) }
	case intent.Accessory:
		return func(v view) bool { return v.name.ContainsAny(s.vocab.AccessoryNames) }
	default:
		return nil
	}
}

func (s *Selector) isLaptop(v view) bool {
	return v.category.ContainsAny(s.vocab.LaptopCategories)
}

func (s *Selector) isGamingMarked(v view) bool {
	return v.name.ContainsAny(s.vocab.GamingBrands) || v.category.ContainsAny(s.vocab.GamingBrands)
}
