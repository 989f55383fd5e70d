// Package rules holds the keyword tables that drive the guardrail, the
// intent classifier, the intent filter and the answer composer. Tables are
// plain data: they are loaded once at startup and shared read-only.
package rules

import (
	"fmt"
	"regexp"

	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
)

// DefaultOfficeMaxWeightKg is the weight bound for office laptops.
const DefaultOfficeMaxWeightKg = 2.0

// Definition is the on-disk form of the rule tables.
type Definition struct {
	OutOfDomain []GroupDefinition  `yaml:"out_of_domain"`
	Intents     []IntentDefinition `yaml:"intents"`
	Filter      FilterDefinition   `yaml:"filter"`
	VerboseCues []string           `yaml:"verbose_cues"`
}

// GroupDefinition is one out-of-domain category.
type GroupDefinition struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// IntentDefinition is one classifier rule.
type IntentDefinition struct {
	Intent   string   `yaml:"intent"`
	Keywords []string `yaml:"keywords"`
}

// FilterDefinition holds the vocabularies used by intent predicates.
type FilterDefinition struct {
	PhoneCategories     []string `yaml:"phone_categories"`
	TabletCategories    []string `yaml:"tablet_categories"`
	AccessoryCategories []string `yaml:"accessory_categories"`
	LaptopCategories    []string `yaml:"laptop_categories"`
	PhoneBrands         []string `yaml:"phone_brands"`
	NonPhoneMarkers     []string `yaml:"non_phone_markers"`
	PhoneSignals        []string `yaml:"phone_signal_patterns"`
	GamingGPUs          []string `yaml:"gaming_gpu_patterns"`
	GamingBrands        []string `yaml:"gaming_brands"`
	LaptopSeries        []string `yaml:"laptop_series"`
	TabletSeries        []string `yaml:"tablet_series"`
	AccessoryNames      []string `yaml:"accessory_names"`
	OfficeMaxWeightKg   float64  `yaml:"office_max_weight_kg"`
}

// Group is a compiled out-of-domain category.
type Group struct {
	Label    string
	Keywords []textnorm.Phrase
}

// IntentRule is a compiled classifier rule.
type IntentRule struct {
	Intent   intent.Intent
	Keywords []textnorm.Phrase
}

// Vocabulary is the compiled filter vocabulary.
type Vocabulary struct {
	PhoneCategories     []textnorm.Phrase
	TabletCategories    []textnorm.Phrase
	AccessoryCategories []textnorm.Phrase
	LaptopCategories    []textnorm.Phrase
	PhoneBrands         []textnorm.Phrase
	NonPhoneMarkers     []textnorm.Phrase
	PhoneSignals        []*regexp.Regexp
	GamingGPUs          []*regexp.Regexp
	GamingBrands        []textnorm.Phrase
	LaptopSeries        []textnorm.Phrase
	TabletSeries        []textnorm.Phrase
	AccessoryNames      []textnorm.Phrase
	OfficeMaxWeightKg   float64
}

// Tables is the compiled, immutable rule set.
type Tables struct {
	OutOfDomain []Group
	Intents     []IntentRule
	Filter      Vocabulary
	VerboseCues []textnorm.Phrase
}

// Compile validates a definition and prepares it for matching.
// Rule order is preserved: it decides precedence.
func Compile(def Definition) (*Tables, error) {
	t := &Tables{
		OutOfDomain: make([]Group, 0, len(def.OutOfDomain)),
		Intents:     make([]IntentRule, 0, len(def.Intents)),
		VerboseCues: textnorm.Phrases(def.VerboseCues),
	}

	for i, g := range def.OutOfDomain {
		if g.Label == "" {
			return nil, fmt.Errorf("out_of_domain[%d]: label is required", i)
		}
		if len(g.Keywords) == 0 {
			return nil, fmt.Errorf("out_of_domain[%d] %q: keywords are required", i, g.Label)
		}
		t.OutOfDomain = append(t.OutOfDomain, Group{Label: g.Label, Keywords: textnorm.Phrases(g.Keywords)})
	}

	for i, r := range def.Intents {
		in, err := intent.Parse(r.Intent)
		if err != nil {
			return nil, fmt.Errorf("intents[%d]: %w", i, err)
		}
		if in == intent.General {
			return nil, fmt.Errorf("intents[%d]: GENERAL is the fallback and cannot have keywords", i)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("intents[%d] %s: keywords are required", i, in)
		}
		t.Intents = append(t.Intents, IntentRule{Intent: in, Keywords: textnorm.Phrases(r.Keywords)})
	}

	f := def.Filter
	phoneSignals, err := compilePatterns("phone_signal_patterns", f.PhoneSignals)
	if err != nil {
		return nil, err
	}
	gpus, err := compilePatterns("gaming_gpu_patterns", f.GamingGPUs)
	if err != nil {
		return nil, err
	}
	weight := f.OfficeMaxWeightKg
	if weight == 0 {
		weight = DefaultOfficeMaxWeightKg
	}
	if weight < 0 {
		return nil, fmt.Errorf("filter.office_max_weight_kg must be positive, got %v", weight)
	}

	t.Filter = Vocabulary{
		PhoneCategories:     textnorm.Phrases(f.PhoneCategories),
		TabletCategories:    textnorm.Phrases(f.TabletCategories),
		AccessoryCategories: textnorm.Phrases(f.AccessoryCategories),
		LaptopCategories:    textnorm.Phrases(f.LaptopCategories),
		PhoneBrands:         textnorm.Phrases(f.PhoneBrands),
		NonPhoneMarkers:     textnorm.Phrases(f.NonPhoneMarkers),
		PhoneSignals:        phoneSignals,
		GamingGPUs:          gpus,
		GamingBrands:        textnorm.Phrases(f.GamingBrands),
		LaptopSeries:        textnorm.Phrases(f.LaptopSeries),
		TabletSeries:        textnorm.Phrases(f.TabletSeries),
		AccessoryNames:      textnorm.Phrases(f.AccessoryNames),
		OfficeMaxWeightKg:   weight,
	}
	return t, nil
}

// MatchAny reports whether any pattern matches s.
func MatchAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func compilePatterns(name string, src []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(src))
	for i, s := range src {
		re, err := regexp.Compile("(?i)" + s)
		if err != nil {
			return nil, fmt.Errorf("filter.%s[%d]: %w", name, i, err)
		}
		out = append(out, re)
	}
	return out, nil
}
