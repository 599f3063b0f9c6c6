// Package stats turns Riot API responses into display-ready records: rank,
// profile, live game, match history and platform status.
//
// Every fetcher resolves the Riot ID first. A malformed Riot ID or a missing
// API key fails before any request is made. Secondary lookups that fail
// degrade a single field and are listed in the result's Degraded slice.
package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/riot"
)

const defaultEnrichLimit = 4

// ChampionNamer maps champion ids to display names.
type ChampionNamer interface {
	ChampionName(ctx context.Context, id int64) string
}

type Service struct {
	client      *riot.Client
	champions   ChampionNamer
	enrichLimit int
	log         *slog.Logger
}

type Option func(*Service)

// WithChampionNamer fills champion names in live games.
func WithChampionNamer(n ChampionNamer) Option {
	return func(s *Service) { s.champions = n }
}

// WithEnrichLimit bounds concurrent secondary lookups.
func WithEnrichLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.enrichLimit = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(client *riot.Client, opts ...Option) *Service {
	s := &Service{
		client:      client,
		enrichLimit: defaultEnrichLimit,
		log:         logger.Component("stats"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve validates riotID and looks up its account.
func (s *Service) resolve(ctx context.Context, riotID, region string) (*riot.Account, error) {
	id, err := riot.ParseRiotID(riotID)
	if err != nil {
		return nil, err
	}
	if !s.client.HasKey() {
		return nil, riot.ErrNoAPIKey
	}
	acc, err := s.client.AccountByRiotID(ctx, region, id)
	if err != nil {
		s.log.Warn("account lookup failed", slog.String("riot_id", riotID), slog.Any("error", err))
		return nil, fmt.Errorf("could not find summoner %s: %w", id, err)
	}
	return acc, nil
}

func (s *Service) championName(ctx context.Context, id int64) string {
	if s.champions == nil {
		return ""
	}
	return s.champions.ChampionName(ctx, id)
}
