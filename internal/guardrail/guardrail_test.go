package guardrail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliyabuddy/aliyabuddy/internal/catalog"
)

func TestClassifier_Check(t *testing.T) {
	c := catalog.Default()
	g := NewClassifier(c)

	blocked := []struct {
		msg, keyword string
	}{
		{"Should I invest in an IRA before moving?", "invest"},
		{"How does TAX work for olim?", "tax"},
		{"Can I get a mortgage in Haifa?", "mortgage"},
		{"what about a Mutual Fund", "mutual fund"},
		{"my 401k", "401k"},
	}
	for _, tc := range blocked {
		v := g.Check(tc.msg)
		assert.True(t, v.Blocked, tc.msg)
		assert.Equal(t, tc.keyword, v.Keyword, tc.msg)
		assert.Equal(t, c.Redirect(), v.Reply)
	}

	for _, msg := range []string{"What is the cost of living in Haifa?", "Tell me about holidays", ""} {
		v := g.Check(msg)
		assert.False(t, v.Blocked, msg)
		assert.Empty(t, v.Reply)
	}
}
