package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kattitatu/riot-account-manager/internal/models"
	"github.com/kattitatu/riot-account-manager/internal/riot"
)

// RankResult is a player's solo queue standing. Stats is nil when unranked.
type RankResult struct {
	Label string
	Stats *models.RankedStats
}

// Profile is the summoner icon and level.
type Profile struct {
	ProfileIconID int
	SummonerLevel int
}

// Refresh combines rank and profile from a single account lookup. Either
// half may be missing; the failed half is named in Degraded.
type Refresh struct {
	Rank     *RankResult
	Profile  *Profile
	Degraded []string
}

// Rank fetches the solo queue standing for riotID.
func (s *Service) Rank(ctx context.Context, riotID, region string) (RankResult, error) {
	acc, err := s.resolve(ctx, riotID, region)
	if err != nil {
		return RankResult{}, err
	}
	return s.rankByPUUID(ctx, region, acc.PUUID)
}

func (s *Service) rankByPUUID(ctx context.Context, region, puuid string) (RankResult, error) {
	entries, err := s.client.LeagueEntries(ctx, region, puuid)
	if err != nil {
		return RankResult{}, fmt.Errorf("could not fetch rank data: %w", err)
	}
	solo := riot.SoloQueue(entries)
	if solo == nil {
		return RankResult{Label: models.Unranked}, nil
	}
	st := rankedStats(solo)
	return RankResult{Label: st.String(), Stats: st}, nil
}

func rankedStats(e *riot.LeagueEntry) *models.RankedStats {
	tier := e.Tier
	if tier == "" {
		tier = models.Unranked
	}
	return &models.RankedStats{
		Tier:   tier,
		Rank:   e.Rank,
		LP:     e.LeaguePoints,
		Wins:   e.Wins,
		Losses: e.Losses,
	}
}

// Profile fetches the summoner icon id and level for riotID.
func (s *Service) Profile(ctx context.Context, riotID, region string) (Profile, error) {
	acc, err := s.resolve(ctx, riotID, region)
	if err != nil {
		return Profile{}, err
	}
	sum, err := s.client.SummonerByPUUID(ctx, region, acc.PUUID)
	if err != nil {
		return Profile{}, fmt.Errorf("could not fetch profile: %w", err)
	}
	return Profile{ProfileIconID: sum.ProfileIconID, SummonerLevel: sum.SummonerLevel}, nil
}

// Refresh fetches rank and profile together. It fails only when the Riot ID
// cannot be resolved or both halves fail.
func (s *Service) Refresh(ctx context.Context, riotID, region string) (Refresh, error) {
	acc, err := s.resolve(ctx, riotID, region)
	if err != nil {
		return Refresh{}, err
	}

	var out Refresh
	rank, rankErr := s.rankByPUUID(ctx, region, acc.PUUID)
	if rankErr != nil {
		s.log.Warn("rank lookup failed", slog.String("riot_id", riotID), slog.Any("error", rankErr))
		out.Degraded = append(out.Degraded, "rank")
	} else {
		out.Rank = &rank
	}

	sum, profErr := s.client.SummonerByPUUID(ctx, region, acc.PUUID)
	if profErr != nil {
		s.log.Warn("profile lookup failed", slog.String("riot_id", riotID), slog.Any("error", profErr))
		out.Degraded = append(out.Degraded, "profile")
	} else {
		out.Profile = &Profile{ProfileIconID: sum.ProfileIconID, SummonerLevel: sum.SummonerLevel}
	}

	if rankErr != nil && profErr != nil {
		return out, rankErr
	}
	return out, nil
}
