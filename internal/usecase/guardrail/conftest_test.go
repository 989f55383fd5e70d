package guardrail

import "github.com/techstore/catalogqa/internal/domain/textnorm"

func phrases(kw ...string) []textnorm.Phrase { return textnorm.Phrases(kw) }
