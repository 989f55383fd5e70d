// Package specs pulls structured hardware facts out of free-form product
// specification text.
package specs

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names a specification attribute.
type Field string

// Extracted fields, in display order.
const (
	Processor Field = "processor"
	Graphics  Field = "graphics"
	Memory    Field = "memory"
	Storage   Field = "storage"
	Battery   Field = "battery"
	Weight    Field = "weight"
	Screen    Field = "screen"
)

// Fields lists every field in display order.
var Fields = []Field{Processor, Graphics, Memory, Storage, Battery, Weight, Screen}

// rule maps one pattern to a field. format renders the submatches.
type rule struct {
	field   Field
	pattern *regexp.Regexp
	format  func(m []string) string
}

// rules are tried in order; the first match for a field wins.
var rules = []rule{
	{Processor, regexp.MustCompile(`(?i)\bcore\s*ultra\s*\d\s*\d{3}[a-z]{0,2}\b`), whole},
	{Processor, regexp.MustCompile(`(?i)\bcore\s*i\d(?:[\s-]+\d{4,5}[a-z]{0,2})?\b`), whole},
	{Processor, regexp.MustCompile(`(?i)\bryzen\s*(?:ai\s*)?\d(?:\s*\d{3,4}[a-z]{0,2})?\b`), whole},
	{Processor, regexp.MustCompile(`(?i)\bultra\s*\d\b`), whole},
	{Processor, regexp.MustCompile(`(?i)\b(?:apple\s*)?m\d(?:\s*(?:pro|max|ultra))?\b`), whole},
	{Processor, regexp.MustCompile(`(?i)\bsnapdragon\s*\d+[a-z+]*(?:\s*gen\s*\d)?`), whole},
	{Processor, regexp.MustCompile(`(?i)\b(?:dimensity|helio|exynos)\s*[a-z]?\d+[a-z+]*`), whole},
	{Processor, regexp.MustCompile(`(?i)\ba\d{2}\s*(?:bionic|pro)\b`), whole},

	{Graphics, regexp.MustCompile(`(?i)\b(?:geforce\s*)?rtx\s*\d{4}(?:\s*ti)?\b`), whole},
	{Graphics, regexp.MustCompile(`(?i)\b(?:geforce\s*)?gtx\s*\d{3,4}(?:\s*ti)?\b`), whole},
	{Graphics, regexp.MustCompile(`(?i)\bradeon\s*(?:rx\s*)?\d{3,4}[a-z]{0,2}\b`), whole},
	{Graphics, regexp.MustCompile(`(?i)\barc\s*a\d{3}m?\b`), whole},
	{Graphics, regexp.MustCompile(`(?i)\biris\s*xe\b`), whole},
	{Graphics, regexp.MustCompile(`(?i)\buhd\s*graphics(?:\s*\d{3})?\b`), whole},
	{Graphics, regexp.MustCompile(`(?i)\badreno\s*\d{3}\b`), whole},

	{Memory, regexp.MustCompile(`(?i)\b(\d{1,3})\s*gb\s*(lpddr\d+x?|ddr\d+|ram)\b`), func(m []string) string {
		return m[1] + "GB " + strings.ToUpper(m[2])
	}},
	{Memory, regexp.MustCompile(`(?i)\bram\s*[:\-]?\s*(\d{1,3})\s*gb\b`), func(m []string) string {
		return m[1] + "GB RAM"
	}},

	{Storage, regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(tb|gb)\s*(nvme\s*ssd|ssd|hdd|emmc|ufs(?:\s*\d(?:\.\d)?)?)\b`), func(m []string) string {
		return m[1] + strings.ToUpper(m[2]) + " " + strings.ToUpper(m[3])
	}},
	{Storage, regexp.MustCompile(`(?i)\b(ssd|hdd)\s*[:\-]?\s*(\d+(?:[.,]\d+)?)\s*(tb|gb)\b`), func(m []string) string {
		return m[2] + strings.ToUpper(m[3]) + " " + strings.ToUpper(m[1])
	}},

	{Battery, regexp.MustCompile(`(?i)\b(\d{3,5})\s*mah\b`), func(m []string) string {
		return m[1] + " mAh"
	}},

	{Weight, regexp.MustCompile(`(?i)\b(\d{1,2}(?:[.,]\d{1,3})?)\s*kg\b`), func(m []string) string {
		return strings.ReplaceAll(m[1], ",", ".") + " kg"
	}},

	// A bare "in" counts only when no number follows it, so "2 in 1" is skipped.
	{Screen, regexp.MustCompile(`(?i)\b(\d{1,2}(?:[.,]\d{1,2})?)\s*(?:-?\s*inch(?:es)?\b|in(?:\s*$|\s*[^\w\s]|\s+[^\d\s])|"|”|″)`), func(m []string) string {
		return strings.ReplaceAll(m[1], ",", ".") + " inch"
	}},
}

func whole(m []string) string { return strings.Join(strings.Fields(m[0]), " ") }

// Specs holds the fields found in one text. Absent fields are not defaulted.
type Specs struct {
	values map[Field]string
}

// Extract runs every rule over text. It never fails; unmatched fields stay absent.
func Extract(text string) Specs {
	s := Specs{values: make(map[Field]string, len(Fields))}
	if text == "" {
		return s
	}
	for _, r := range rules {
		if _, done := s.values[r.field]; done {
			continue
		}
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			s.values[r.field] = r.format(m)
		}
	}
	return s
}

// Get returns the value of a field and whether it was found.
func (s Specs) Get(f Field) (string, bool) {
	v, ok := s.values[f]
	return v, ok
}

// Has reports whether the field was found.
func (s Specs) Has(f Field) bool {
	_, ok := s.values[f]
	return ok
}

// Len returns the number of fields found.
func (s Specs) Len() int { return len(s.values) }

// WeightKg parses the weight field.
func (s Specs) WeightKg() (float64, bool) {
	v, ok := s.values[Weight]
	if !ok {
		return 0, false
	}
	kg, err := strconv.ParseFloat(strings.TrimSuffix(v, " kg"), 64)
	if err != nil {
		return 0, false
	}
	return kg, true
}
