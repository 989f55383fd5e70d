// Package guardrail rejects questions about goods the store does not sell
// before any retrieval work is done.
package guardrail

import (
	"github.com/techstore/catalogqa/internal/domain/rules"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
)

// Verdict is the outcome of a guardrail check.
type Verdict struct {
	Blocked bool
	// Label names the matched out-of-domain category when Blocked.
	Label   string
	Keyword string
}

// Service checks queries against ordered out-of-domain groups.
type Service struct {
	groups []rules.Group
}

// New creates a guardrail over the given groups.
func New(groups []rules.Group) *Service {
	return &Service{groups: groups}
}

// Check returns the first group with a keyword present in the query.
func (s *Service) Check(query string) Verdict {
	return s.CheckText(textnorm.NewText(query))
}

// CheckText is Check over pre-normalized text.
func (s *Service) CheckText(text textnorm.Text) Verdict {
	for _, g := range s.groups {
		if kw, ok := text.FirstMatch(g.Keywords); ok {
			return Verdict{Blocked: true, Label: g.Label, Keyword: kw.String()}
		}
	}
	return Verdict{}
}
