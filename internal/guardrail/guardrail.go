package guardrail

import (
	"strings"

	"github.com/aliyabuddy/aliyabuddy/internal/catalog"
)

// Verdict is the outcome of a compliance check.
type Verdict struct {
	Blocked bool
	Keyword string // vocabulary term that matched
	Reply   string // redirect reply, set when Blocked
}

// Classifier redirects financial, tax and investment questions before they
// reach the completion API.
type Classifier struct {
	keywords []string
	reply    string
}

func NewClassifier(c *catalog.Catalog) *Classifier {
	return &Classifier{
		keywords: c.ComplianceKeywords,
		reply:    c.Redirect(),
	}
}

// Check tests the lowercased message against the compliance vocabulary.
// Matching is plain substring containment, so "tax" also matches "taxi".
func (g *Classifier) Check(message string) Verdict {
	k, ok := catalog.MatchAny(strings.ToLower(message), g.keywords)
	if !ok {
		return Verdict{}
	}
	return Verdict{Blocked: true, Keyword: k, Reply: g.reply}
}
