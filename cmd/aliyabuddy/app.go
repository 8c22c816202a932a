package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aliyabuddy/aliyabuddy/internal/catalog"
	"github.com/aliyabuddy/aliyabuddy/internal/chat"
	"github.com/aliyabuddy/aliyabuddy/internal/config"
	"github.com/aliyabuddy/aliyabuddy/internal/offer"
	"github.com/aliyabuddy/aliyabuddy/internal/relay"
	"github.com/aliyabuddy/aliyabuddy/internal/shaper"
)

// app holds the wired pipeline and the resources that must be closed with it.
type app struct {
	pipeline *chat.Pipeline
	relay    relay.Relay
	offers   offer.Store
}

func (a *app) Close() error {
	return a.offers.Close()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	rl, err := newRelay(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	offers, err := newOfferStore(cfg)
	if err != nil {
		return nil, err
	}

	p := chat.NewPipeline(cat, rl, shaper.New(cat, nil), offers, cfg.APIKeyVar(), logger)
	return &app{pipeline: p, relay: rl, offers: offers}, nil
}

func newRelay(ctx context.Context, cfg *config.Config, logger *zap.Logger) (relay.Relay, error) {
	opts := relay.Options{
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		SystemPrompt: cfg.SystemPrompt,
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return relay.NewGemini(ctx, cfg.GeminiAPIKey, "", cfg.RelayTimeout, opts, logger)
	default:
		return relay.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIEndpoint, cfg.RelayTimeout, opts, logger), nil
	}
}

func newOfferStore(cfg *config.Config) (offer.Store, error) {
	if cfg.OfferStore == config.StoreBolt {
		s, err := offer.NewBoltStore(filepath.Join(cfg.DataDir, "aliyabuddy.db"), cfg.OfferTTL)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		return s, nil
	}
	return offer.NewMemoryStore(cfg.OfferTTL), nil
}
