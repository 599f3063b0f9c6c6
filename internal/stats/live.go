package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kattitatu/riot-account-manager/internal/models"
	"github.com/kattitatu/riot-account-manager/internal/riot"
)

// LiveGame is an in-progress match with every participant enriched.
type LiveGame struct {
	GameID       int64
	QueueID      int
	Mode         string
	MapID        int
	StartedAt    time.Time
	Length       time.Duration
	Participants []LiveParticipant
	Bans         []riot.BannedChampion
	// Degraded names lookups that failed, e.g. "rank:Name#TAG".
	Degraded []string
}

type LiveParticipant struct {
	riot.ActiveParticipant
	ChampionName  string
	Rank          *models.RankedStats
	MasteryPoints int
	SummonerLevel *int
	IsTarget      bool
}

// Team returns the participants on teamID in roster order.
func (g *LiveGame) Team(teamID int) []LiveParticipant {
	var team []LiveParticipant
	for _, p := range g.Participants {
		if p.TeamID == teamID {
			team = append(team, p)
		}
	}
	return team
}

// LiveGame returns riotID's current game. A player not in a game yields
// (nil, nil).
func (s *Service) LiveGame(ctx context.Context, riotID, region string) (*LiveGame, error) {
	acc, err := s.resolve(ctx, riotID, region)
	if err != nil {
		return nil, err
	}

	game, err := s.client.ActiveGame(ctx, region, acc.PUUID)
	if errors.Is(err, riot.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("live game lookup failed", slog.String("riot_id", riotID), slog.Any("error", err))
		return nil, fmt.Errorf("live game lookup: %w", err)
	}

	live := &LiveGame{
		GameID:       game.GameID,
		QueueID:      game.GameQueueConfigID,
		Mode:         riot.QueueName(game.GameQueueConfigID),
		MapID:        game.MapID,
		Length:       time.Duration(game.GameLength) * time.Second,
		Participants: make([]LiveParticipant, len(game.Participants)),
		Bans:         game.BannedChampions,
	}
	if game.GameStartTime > 0 {
		live.StartedAt = time.UnixMilli(game.GameStartTime)
	}
	for i, p := range game.Participants {
		live.Participants[i] = LiveParticipant{ActiveParticipant: p, IsTarget: p.PUUID == acc.PUUID}
	}

	s.enrich(ctx, region, live)
	return live, nil
}

// enrich fills rank, mastery, level and champion name for each participant.
// Lookups run concurrently; a failure degrades only its own field.
func (s *Service) enrich(ctx context.Context, region string, live *LiveGame) {
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.enrichLimit)
	degrade := func(field string, p *LiveParticipant, err error) {
		s.log.Debug("participant lookup failed", slog.String("field", field), slog.String("riot_id", p.RiotID), slog.Any("error", err))
		mu.Lock()
		live.Degraded = append(live.Degraded, field+":"+p.RiotID)
		mu.Unlock()
	}

	for i := range live.Participants {
		p := &live.Participants[i]
		p.ChampionName = s.championName(ctx, p.ChampionID)
		if p.PUUID == "" {
			continue
		}

		g.Go(func() error {
			entries, err := s.client.LeagueEntries(ctx, region, p.PUUID)
			if err != nil {
				degrade("rank", p, err)
				return nil
			}
			if solo := riot.SoloQueue(entries); solo != nil {
				p.Rank = rankedStats(solo)
			}
			return nil
		})
		g.Go(func() error {
			m, err := s.client.ChampionMastery(ctx, region, p.PUUID, p.ChampionID)
			switch {
			case errors.Is(err, riot.ErrNotFound):
				// Never played the champion.
			case err != nil:
				degrade("mastery", p, err)
			default:
				p.MasteryPoints = m.ChampionPoints
			}
			return nil
		})
		g.Go(func() error {
			sum, err := s.client.SummonerByPUUID(ctx, region, p.PUUID)
			if err != nil {
				degrade("level", p, err)
				return nil
			}
			level := sum.SummonerLevel
			p.SummonerLevel = &level
			return nil
		})
	}
	_ = g.Wait()
}

// FormatGameTime renders seconds as M:SS.
func FormatGameTime(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
