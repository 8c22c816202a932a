// Package chat runs one user turn through the guardrail and response-shaping
// pipeline:
//
//  1. a bare confirmation resolves the session's pending offer
//  2. compliance keywords short-circuit with a redirect reply
//  3. everything else goes to the completion API and is shaped on the way back
package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aliyabuddy/aliyabuddy/internal/catalog"
	"github.com/aliyabuddy/aliyabuddy/internal/guardrail"
	"github.com/aliyabuddy/aliyabuddy/internal/offer"
	"github.com/aliyabuddy/aliyabuddy/internal/relay"
	"github.com/aliyabuddy/aliyabuddy/internal/shaper"
)

// Route records which branch of the pipeline produced a reply.
type Route string

const (
	RouteConfirmed  Route = "confirmed"
	RouteRedirected Route = "redirected"
	RouteRelayed    Route = "relayed"
)

type Result struct {
	Reply string
	Route Route
}

type Pipeline struct {
	catalog *catalog.Catalog
	guard   *guardrail.Classifier
	relay   relay.Relay
	shaper  *shaper.Shaper
	offers  offer.Store
	keyVar  string
	logger  *zap.Logger
}

// NewPipeline wires the pipeline stages. keyVar names the credential reported
// when the relay is not configured.
func NewPipeline(c *catalog.Catalog, r relay.Relay, s *shaper.Shaper, offers offer.Store, keyVar string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		catalog: c,
		guard:   guardrail.NewClassifier(c),
		relay:   r,
		shaper:  s,
		offers:  offers,
		keyVar:  keyVar,
		logger:  logger.Named("chat"),
	}
}

// Handle processes one message for session. Only relayed turns can fail.
func (p *Pipeline) Handle(ctx context.Context, session, message string) (Result, error) {
	message = strings.TrimSpace(message)
	log := p.logger.With(zap.String("session", session))
	log.Info("chat called", zap.String("message", message))

	if p.catalog.IsAffirmation(message) {
		pending, ok, err := p.offers.Take(session)
		if err != nil {
			log.Warn("pending offer lookup failed", zap.Error(err))
		}
		if ok {
			log.Info("pending offer confirmed", zap.String("offer", pending))
			return Result{Reply: p.Elaborate(pending), Route: RouteConfirmed}, nil
		}
	}

	if v := p.guard.Check(message); v.Blocked {
		log.Info("compliance keyword detected", zap.String("keyword", v.Keyword))
		return Result{Reply: v.Reply, Route: RouteRedirected}, nil
	}

	if !p.relay.Configured() {
		err := &MissingCredentialError{Var: p.keyVar}
		log.Error("relay not configured", zap.Error(err))
		return Result{}, err
	}

	raw, err := p.relay.Complete(ctx, message)
	if err != nil {
		kind, status, _ := Classify(err)
		log.Error("completion failed",
			zap.String("kind", string(kind)),
			zap.Int("status", status),
			zap.Error(err))
		return Result{}, err
	}

	shaped := p.shaper.Shape(raw, message)
	if err := p.offers.Put(session, shaped.Offer); err != nil {
		log.Warn("storing pending offer failed", zap.Error(err))
	}
	log.Debug("reply shaped",
		zap.Bool("follow_up_appended", shaped.FollowUp != ""),
		zap.String("offer", shaped.Offer))

	return Result{Reply: shaped.Reply, Route: RouteRelayed}, nil
}

// Elaborate returns the canned reply for a confirmed offer. Offers are matched
// as stored, without case folding.
func (p *Pipeline) Elaborate(pending string) string {
	for _, e := range p.catalog.Elaborations {
		if strings.Contains(pending, e.Match) {
			return e.Reply
		}
	}
	return p.catalog.DefaultElaboration
}
