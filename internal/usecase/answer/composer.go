// Package answer renders the final reply from the selected candidates using
// fixed templates. No generative model is involved.
package answer

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/specs"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
)

// Composer builds replies. It is stateless after construction.
type Composer struct {
	verboseCues []textnorm.Phrase
}

// New creates a composer. verboseCues switch a query into the detailed layout.
func New(verboseCues []textnorm.Phrase) *Composer {
	return &Composer{verboseCues: verboseCues}
}

// IsVerbose reports whether the query asks for full details.
func (c *Composer) IsVerbose(query string) bool {
	return textnorm.NewText(query).ContainsAny(c.verboseCues)
}

// Compose renders the reply for results[0], mentioning up to two alternates.
// Empty results yield the no-results apology.
func (c *Composer) Compose(query string, in intent.Intent, results []candidate.Candidate) string {
	if len(results) == 0 {
		return NoResults(in)
	}
	tpl, ok := templates[in]
	if !ok {
		tpl = templates[intent.General]
	}
	verbose := c.IsVerbose(query)

	top := results[0]
	meta := top.Metadata()
	extracted := specs.Extract(top.SpecText())
	name := displayName(top)

	lines := make([]string, 0, 12)
	if verbose {
		lines = append(lines, fmt.Sprintf(msgVerboseHead, name))
	} else {
		lines = append(lines, fmt.Sprintf(tpl.headline, name))
	}
	lines = append(lines, fmt.Sprintf(msgPrice, FormatPrice(meta.Price)))

	fields := tpl.fields
	if verbose {
		fields = specs.Fields
	}
	for _, f := range fields {
		if v, ok := extracted.Get(f); ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", fieldLabels[f], v))
		}
	}

	if verbose {
		if meta.UseCase != "" {
			lines = append(lines, fmt.Sprintf(msgUseCase, meta.UseCase))
		}
		if desc := truncateRunes(strings.TrimSpace(top.Document()), maxDescriptionRunes); desc != "" {
			lines = append(lines, fmt.Sprintf(msgDescription, desc))
		}
	} else {
		if meta.USP != "" {
			lines = append(lines, fmt.Sprintf(msgUSP, meta.USP))
		}
		if tpl.useCase && meta.UseCase != "" {
			lines = append(lines, fmt.Sprintf(msgUseCase, meta.UseCase))
		}
	}

	if alts := alternates(name, results[1:]); len(alts) > 0 {
		lines = append(lines, fmt.Sprintf(msgAlternates, strings.Join(alts, ", ")))
	}
	if !verbose {
		lines = append(lines, tpl.followUp)
	}
	return strings.Join(lines, "\n")
}

// NoResults is the apology used when nothing survives filtering and backfill.
func NoResults(in intent.Intent) string {
	if in == "" || in == intent.General {
		return msgNoResults
	}
	return fmt.Sprintf(msgNoResultsIntent, in.Label())
}

// OutOfDomain is the apology returned by the guardrail.
func OutOfDomain(label string) string {
	return fmt.Sprintf(msgOutOfDomain, label)
}

// FormatPrice renders a VND amount with thousands separators, e.g.
// "25,990,000 VNĐ". Zero or negative prices are treated as unknown.
func FormatPrice(price float64) string {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return msgPriceUnknown
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d VNĐ", int64(math.Round(price)))
}

func displayName(c candidate.Candidate) string {
	if n := strings.TrimSpace(c.Name()); n != "" {
		return n
	}
	return c.ID()
}

// alternates returns up to maxAlternates distinct names, skipping the top pick.
func alternates(top string, rest []candidate.Candidate) []string {
	seen := map[string]struct{}{top: {}}
	out := make([]string, 0, maxAlternates)
	for _, c := range rest {
		if len(out) == maxAlternates {
			break
		}
		n := displayName(c)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
