// Package catalog holds the fixed vocabularies and canned texts the chat
// pipeline works from: the compliance keyword list, the confirmation phrases,
// the trusted resource links and the follow-up library.
//
// A Catalog is built once at startup and never mutated, so it is safe to share
// between goroutines without locking.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic tags resource links and follow-up lists.
type Topic string

const (
	TopicCommunity  Topic = "community"
	TopicCulture    Topic = "culture"
	TopicCost       Topic = "cost"
	TopicGovernment Topic = "government"
	TopicFinance    Topic = "finance"
	TopicGeneral    Topic = "general"
)

// URLPlaceholder is replaced with the topic's resource link in templated texts.
const URLPlaceholder = "{url}"

// Rule maps a set of lowercase keywords to a topic.
type Rule struct {
	Topic    Topic    `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
}

// LinkRule appends Text, with URLPlaceholder filled in, when any keyword matches.
type LinkRule struct {
	Topic    Topic    `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Text     string   `yaml:"text"`
}

// Elaboration is the reply given when a confirmed offer contains Match.
type Elaboration struct {
	Match string `yaml:"match"`
	Reply string `yaml:"reply"`
}

type Catalog struct {
	ComplianceKeywords []string `yaml:"compliance_keywords"`
	RedirectReply      string   `yaml:"redirect_reply"`

	Affirmations       []string      `yaml:"affirmations"`
	Elaborations       []Elaboration `yaml:"elaborations"`
	DefaultElaboration string        `yaml:"default_elaboration"`

	ResourceLinks map[Topic]string `yaml:"resource_links"`
	LinkRules     []LinkRule       `yaml:"link_rules"`

	FollowUpRules []Rule             `yaml:"follow_up_rules"`
	FollowUps     map[Topic][]string `yaml:"follow_ups"`
}

// Load returns the default catalog with the YAML file at path layered on top.
// Lists in the file replace the defaults; map entries are merged per topic.
// An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}

	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate checks that every topic the pipeline may pick has the data it needs.
func (c *Catalog) Validate() error {
	var errs []error
	if c.RedirectReply == "" {
		errs = append(errs, errors.New("redirect_reply is empty"))
	}
	if strings.Contains(c.RedirectReply, URLPlaceholder) && c.ResourceLinks[TopicFinance] == "" {
		errs = append(errs, errors.New("redirect_reply references a finance link but none is set"))
	}
	if c.DefaultElaboration == "" {
		errs = append(errs, errors.New("default_elaboration is empty"))
	}
	for _, r := range c.LinkRules {
		if c.ResourceLinks[r.Topic] == "" {
			errs = append(errs, fmt.Errorf("link rule %q has no resource link", r.Topic))
		}
		if r.Text == "" {
			errs = append(errs, fmt.Errorf("link rule %q has no text", r.Topic))
		}
	}
	for _, r := range c.FollowUpRules {
		if len(c.FollowUps[r.Topic]) == 0 {
			errs = append(errs, fmt.Errorf("follow-up rule %q has no follow-ups", r.Topic))
		}
	}
	if len(c.FollowUps[TopicGeneral]) == 0 {
		errs = append(errs, errors.New("general follow-ups are empty"))
	}
	return errors.Join(errs...)
}

// IsAffirmation reports whether the trimmed, lowercased message is one of the
// confirmation phrases. Only whole-message matches count.
func (c *Catalog) IsAffirmation(message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	for _, a := range c.Affirmations {
		if m == a {
			return true
		}
	}
	return false
}

// Link returns the rule text with the topic's URL filled in.
func (c *Catalog) Link(r LinkRule) string {
	return strings.ReplaceAll(r.Text, URLPlaceholder, c.ResourceLinks[r.Topic])
}

// Redirect returns the compliance redirect reply with the finance link filled in.
func (c *Catalog) Redirect() string {
	return strings.ReplaceAll(c.RedirectReply, URLPlaceholder, c.ResourceLinks[TopicFinance])
}

// MatchAny returns the first keyword contained in lower.
func MatchAny(lower string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}

// Matching is done against lowercased messages, so keywords must be lowercase too.
func (c *Catalog) normalize() {
	lowerAll(c.ComplianceKeywords)
	lowerAll(c.Affirmations)
	for i := range c.LinkRules {
		lowerAll(c.LinkRules[i].Keywords)
	}
	for i := range c.FollowUpRules {
		lowerAll(c.FollowUpRules[i].Keywords)
	}
}

func lowerAll(s []string) {
	for i := range s {
		s[i] = strings.ToLower(strings.TrimSpace(s[i]))
	}
}
