// Package intent maps a raw query to a shopping intent.
package intent

import (
	"github.com/techstore/catalogqa/internal/domain/intent"
	"github.com/techstore/catalogqa/internal/domain/rules"
	"github.com/techstore/catalogqa/internal/domain/textnorm"
)

// Classifier walks ordered rules and returns the first intent whose keywords
// appear in the query. It has no state besides the rule list.
type Classifier struct {
	rules []rules.IntentRule
}

// New creates a classifier.
func New(r []rules.IntentRule) *Classifier {
	return &Classifier{rules: r}
}

// Classify returns the intent for query, or intent.General.
func (c *Classifier) Classify(query string) intent.Intent {
	return c.ClassifyText(textnorm.NewText(query))
}

// ClassifyText is Classify over pre-normalized text.
func (c *Classifier) ClassifyText(text textnorm.Text) intent.Intent {
	for _, r := range c.rules {
		if text.ContainsAny(r.Keywords) {
			return r.Intent
		}
	}
	return intent.General
}
