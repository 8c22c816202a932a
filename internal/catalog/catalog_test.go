package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_Valid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.ComplianceKeywords, 25)
	assert.Equal(t,
		"Aliya Buddy cannot provide financial, tax, or investment advice. For personalized guidance, please [schedule a free consultation with Aliya Financial](https://aliyabrd-s23wab.manus.space/).",
		c.Redirect())
}

func TestDefault_FreshCopy(t *testing.T) {
	a := Default()
	a.FollowUps[TopicGeneral] = nil
	assert.NotEmpty(t, Default().FollowUps[TopicGeneral])
}

func TestIsAffirmation(t *testing.T) {
	c := Default()
	for _, msg := range []string{"yes", "  Yes ", "OK", "please do", "Yep"} {
		assert.True(t, c.IsAffirmation(msg), msg)
	}
	for _, msg := range []string{"yes please", "no", "", "okay then"} {
		assert.False(t, c.IsAffirmation(msg), msg)
	}
}

func TestLink(t *testing.T) {
	c := Default()
	assert.Equal(t,
		"For up-to-date data, check [Numbeo’s cost of living index](https://www.numbeo.com/cost-of-living/).",
		c.Link(c.LinkRules[1]))
}

func TestMatchAny(t *testing.T) {
	k, ok := MatchAny("should i invest?", []string{"tax", "invest"})
	assert.True(t, ok)
	assert.Equal(t, "invest", k)

	_, ok = MatchAny("hello", []string{"", "tax"})
	assert.False(t, ok)
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeCatalog(t, `
compliance_keywords: ["Crypto", "  Bitcoin "]
resource_links:
  cost: https://example.com/costs
follow_ups:
  general: ["Anything else?"]
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"crypto", "bitcoin"}, c.ComplianceKeywords)
	assert.Equal(t, "https://example.com/costs", c.ResourceLinks[TopicCost])
	assert.Equal(t, "https://www.nbn.org.il/aliyahpedia/", c.ResourceLinks[TopicCommunity], "unlisted links keep their default")
	assert.Equal(t, []string{"Anything else?"}, c.FollowUps[TopicGeneral])
	assert.Len(t, c.FollowUps[TopicCost], 2)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, "unknown_field: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, "follow_ups:\n  cost: []\n"))
	assert.ErrorContains(t, err, `follow-up rule "cost" has no follow-ups`)

	_, err = Load(writeCatalog(t, "link_rules:\n  - topic: visa\n    keywords: [visa]\n    text: \"see {url}\"\n"))
	assert.ErrorContains(t, err, `link rule "visa" has no resource link`)
}
