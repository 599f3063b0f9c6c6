package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kattitatu/riot-account-manager/internal/riot"
)

// DefaultMatchCount is used when a non-positive count is requested.
const DefaultMatchCount = 10

const blueTeam = 100

type TeamMember struct {
	ChampionID   int64
	ChampionName string
	SummonerName string
	RiotID       string
	Spell1ID     int
	Spell2ID     int
	IsPlayer     bool
}

// MatchSummary is one finished game from the player's point of view.
type MatchSummary struct {
	MatchID         string
	ChampionID      int64
	ChampionName    string
	ChampionLevel   int
	Summoner1ID     int
	Summoner2ID     int
	KeystoneID      int
	PrimaryTreeID   int
	SecondaryTreeID int
	Kills           int
	Deaths          int
	Assists         int
	CS              int
	Win             bool
	GameMode        string
	QueueID         int
	Duration        time.Duration
	PlayedAt        time.Time
	// Result is "Win" or "Loss" for ranked queues, empty otherwise.
	Result       string
	PlayerTeamID int
	BlueTeam     []TeamMember
	RedTeam      []TeamMember
	Items        [7]int
}

// KDA is (kills+assists)/deaths with deaths floored at one.
func (m MatchSummary) KDA() float64 {
	d := m.Deaths
	if d < 1 {
		d = 1
	}
	return float64(m.Kills+m.Assists) / float64(d)
}

// MatchHistory returns up to count recent games for riotID, newest first.
// Matches whose details cannot be fetched are left out.
func (s *Service) MatchHistory(ctx context.Context, riotID, region string, count int) ([]MatchSummary, error) {
	if count <= 0 {
		count = DefaultMatchCount
	}
	acc, err := s.resolve(ctx, riotID, region)
	if err != nil {
		return nil, err
	}

	ids, err := s.client.MatchIDs(ctx, region, acc.PUUID, 0, count)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match IDs: %w", err)
	}
	if len(ids) == 0 {
		return []MatchSummary{}, nil
	}

	slots := make([]*MatchSummary, len(ids))
	var g errgroup.Group
	g.SetLimit(s.enrichLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			m, err := s.client.Match(ctx, region, id)
			if err != nil {
				s.log.Warn("match lookup failed", slog.String("match_id", id), slog.Any("error", err))
				return nil
			}
			if sum, ok := Summarize(m, acc.PUUID); ok {
				slots[i] = &sum
			}
			return nil
		})
	}
	_ = g.Wait()

	matches := make([]MatchSummary, 0, len(ids))
	for _, m := range slots {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	return matches, nil
}

// Summarize extracts puuid's view of m. It reports false when puuid did not
// play in the match.
func Summarize(m *riot.Match, puuid string) (MatchSummary, bool) {
	var player *riot.MatchParticipant
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			player = &m.Info.Participants[i]
			break
		}
	}
	if player == nil {
		return MatchSummary{}, false
	}

	sum := MatchSummary{
		MatchID:       m.Metadata.MatchID,
		ChampionID:    player.ChampionID,
		ChampionName:  player.ChampionName,
		ChampionLevel: player.ChampLevel,
		Summoner1ID:   player.Summoner1ID,
		Summoner2ID:   player.Summoner2ID,
		Kills:         player.Kills,
		Deaths:        player.Deaths,
		Assists:       player.Assists,
		CS:            player.TotalMinionsKilled + player.NeutralMinionsKilled,
		Win:           player.Win,
		GameMode:      riot.QueueName(m.Info.QueueID),
		QueueID:       m.Info.QueueID,
		Duration:      time.Duration(m.Info.GameDuration) * time.Second,
		PlayerTeamID:  player.TeamID,
		Items:         player.Items(),
	}
	if m.Info.GameCreation > 0 {
		sum.PlayedAt = time.UnixMilli(m.Info.GameCreation)
	}
	if riot.IsRanked(m.Info.QueueID) {
		sum.Result = "Loss"
		if player.Win {
			sum.Result = "Win"
		}
	}

	if styles := player.Perks.Styles; len(styles) > 0 {
		sum.PrimaryTreeID = styles[0].Style
		if len(styles[0].Selections) > 0 {
			sum.KeystoneID = styles[0].Selections[0].Perk
		}
		if len(styles) > 1 {
			sum.SecondaryTreeID = styles[1].Style
		}
	}

	for _, p := range m.Info.Participants {
		member := TeamMember{
			ChampionID:   p.ChampionID,
			ChampionName: p.ChampionName,
			SummonerName: displayName(p),
			Spell1ID:     p.Summoner1ID,
			Spell2ID:     p.Summoner2ID,
			IsPlayer:     p.PUUID == puuid,
		}
		member.RiotID = member.SummonerName
		if p.RiotIDTagline != "" {
			member.RiotID += "#" + p.RiotIDTagline
		}
		if p.TeamID == blueTeam {
			sum.BlueTeam = append(sum.BlueTeam, member)
		} else {
			sum.RedTeam = append(sum.RedTeam, member)
		}
	}
	return sum, true
}

func displayName(p riot.MatchParticipant) string {
	switch {
	case p.RiotIDGameName != "":
		return p.RiotIDGameName
	case p.SummonerName != "":
		return p.SummonerName
	default:
		return "Unknown"
	}
}
