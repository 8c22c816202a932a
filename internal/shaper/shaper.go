// Package shaper post-processes model replies: it appends trusted resource
// links for the topics the user asked about and makes sure every reply ends
// in a single follow-up question.
package shaper

import (
	"math/rand/v2"
	"strings"

	"github.com/aliyabuddy/aliyabuddy/internal/catalog"
)

// Picker returns a pseudo-random index in [0, n). It must be safe for
// concurrent use.
type Picker func(n int) int

// Result is a shaped reply and the text to record as the pending offer.
type Result struct {
	Reply string
	Offer string
	// FollowUp is the appended follow-up sentence, empty when the model
	// already closed with a question.
	FollowUp string
}

type Shaper struct {
	catalog *catalog.Catalog
	pick    Picker
}

// New returns a Shaper. A nil pick uses the global math/rand source.
func New(c *catalog.Catalog, pick Picker) *Shaper {
	if pick == nil {
		pick = rand.IntN
	}
	return &Shaper{catalog: c, pick: pick}
}

// Shape appends topic links and, unless the model already ended with a
// question, one follow-up. When it did end with a question the whole reply
// becomes the pending offer.
func (s *Shaper) Shape(reply, userMessage string) Result {
	// Decided before links are appended: they end in punctuation too.
	endedWithQuestion := strings.HasSuffix(strings.TrimSpace(reply), "?")

	lower := strings.ToLower(userMessage)
	var b strings.Builder
	b.WriteString(reply)
	for _, r := range s.catalog.LinkRules {
		if _, ok := catalog.MatchAny(lower, r.Keywords); ok {
			b.WriteString(" ")
			b.WriteString(s.catalog.Link(r))
		}
	}

	if endedWithQuestion {
		out := b.String()
		return Result{Reply: out, Offer: out}
	}

	followUp := s.FollowUp(userMessage)
	b.WriteString(" ")
	b.WriteString(followUp)
	return Result{Reply: b.String(), Offer: followUp, FollowUp: followUp}
}

// Topic applies the follow-up rules in order; the first rule with a matching
// keyword wins, otherwise the topic is general.
func (s *Shaper) Topic(userMessage string) catalog.Topic {
	lower := strings.ToLower(userMessage)
	for _, r := range s.catalog.FollowUpRules {
		if _, ok := catalog.MatchAny(lower, r.Keywords); ok {
			return r.Topic
		}
	}
	return catalog.TopicGeneral
}

// FollowUp picks one sentence from the list of the message's topic.
func (s *Shaper) FollowUp(userMessage string) string {
	list := s.catalog.FollowUps[s.Topic(userMessage)]
	return list[s.pick(len(list))]
}
