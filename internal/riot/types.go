package riot

import "encoding/json"

// Account is the account-v1 response.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// LeagueEntry is one ranked queue standing from league-v4.
type LeagueEntry struct {
	QueueType    string `json:"queueType"` // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string `json:"tier"`      // IRON … CHALLENGER
	Rank         string `json:"rank"`      // I, II, III, IV
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HotStreak    bool   `json:"hotStreak"`
}

// SoloQueue returns the solo/duo entry, or nil if the player is unranked there.
func SoloQueue(entries []LeagueEntry) *LeagueEntry {
	for i := range entries {
		if entries[i].QueueType == SoloQueueType {
			return &entries[i]
		}
	}
	return nil
}

type Summoner struct {
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
	RevisionDate  int64  `json:"revisionDate"`
}

type ChampionMastery struct {
	ChampionID     int64 `json:"championId"`
	ChampionLevel  int   `json:"championLevel"`
	ChampionPoints int   `json:"championPoints"`
}

// ActiveGame is the spectator-v5 response.
type ActiveGame struct {
	GameID            int64               `json:"gameId"`
	GameType          string              `json:"gameType"`
	GameMode          string              `json:"gameMode"`
	MapID             int                 `json:"mapId"`
	GameQueueConfigID int                 `json:"gameQueueConfigId"`
	GameStartTime     int64               `json:"gameStartTime"` // epoch ms
	GameLength        int64               `json:"gameLength"`    // seconds
	PlatformID        string              `json:"platformId"`
	Participants      []ActiveParticipant `json:"participants"`
	BannedChampions   []BannedChampion    `json:"bannedChampions"`
}

type ActiveParticipant struct {
	PUUID         string `json:"puuid"`
	RiotID        string `json:"riotId"`
	ChampionID    int64  `json:"championId"`
	TeamID        int    `json:"teamId"`
	Spell1ID      int    `json:"spell1Id"`
	Spell2ID      int    `json:"spell2Id"`
	ProfileIconID int    `json:"profileIconId"`
	Bot           bool   `json:"bot"`
	Perks         struct {
		PerkIDs      []int `json:"perkIds"`
		PerkStyle    int   `json:"perkStyle"`
		PerkSubStyle int   `json:"perkSubStyle"`
	} `json:"perks"`
}

type BannedChampion struct {
	ChampionID int64 `json:"championId"`
	TeamID     int   `json:"teamId"`
	PickTurn   int   `json:"pickTurn"`
}

// Match is the match-v5 detail response.
type Match struct {
	Metadata struct {
		MatchID      string   `json:"matchId"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`
}

type MatchInfo struct {
	GameCreation int64              `json:"gameCreation"` // epoch ms
	GameDuration int                `json:"gameDuration"` // seconds
	GameVersion  string             `json:"gameVersion"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	PUUID                string `json:"puuid"`
	RiotIDGameName       string `json:"riotIdGameName"`
	RiotIDTagline        string `json:"riotIdTagline"`
	SummonerName         string `json:"summonerName"`
	ChampionID           int64  `json:"championId"`
	ChampionName         string `json:"championName"`
	ChampLevel           int    `json:"champLevel"`
	TeamID               int    `json:"teamId"`
	Win                  bool   `json:"win"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	TotalMinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled int    `json:"neutralMinionsKilled"`
	Summoner1ID          int    `json:"summoner1Id"`
	Summoner2ID          int    `json:"summoner2Id"`
	Item0                int    `json:"item0"`
	Item1                int    `json:"item1"`
	Item2                int    `json:"item2"`
	Item3                int    `json:"item3"`
	Item4                int    `json:"item4"`
	Item5                int    `json:"item5"`
	Item6                int    `json:"item6"` // Trinket
	Perks                Perks  `json:"perks"`
}

// Items returns the seven item slots, trinket last.
func (p MatchParticipant) Items() [7]int {
	return [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

type Perks struct {
	Styles []PerkStyle `json:"styles"`
}

type PerkStyle struct {
	Description string `json:"description"` // primaryStyle, subStyle
	Style       int    `json:"style"`
	Selections  []struct {
		Perk int `json:"perk"`
	} `json:"selections"`
}

// PlatformData is the lol-status-v4 response.
type PlatformData struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Maintenances []StatusEvent `json:"maintenances"`
	Incidents    []StatusEvent `json:"incidents"`
}

type StatusEvent struct {
	ID                int            `json:"id"`
	MaintenanceStatus string         `json:"maintenance_status"` // scheduled, in_progress, complete
	IncidentSeverity  Severity       `json:"incident_severity"`  // info, warning, critical
	Titles            []Translation  `json:"titles"`
	Updates           []StatusUpdate `json:"updates"`
	CreatedAt         string         `json:"created_at"`
}

// Severity is an incident's severity. Present is false when the field was
// missing from the payload; an explicit null is present with an empty Value.
type Severity struct {
	Value   string
	Present bool
}

// SeverityOf returns a present severity.
func SeverityOf(v string) Severity { return Severity{Value: v, Present: true} }

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key exists.
func (s *Severity) UnmarshalJSON(data []byte) error {
	s.Present = true
	if string(data) == "null" {
		s.Value = ""
		return nil
	}
	return json.Unmarshal(data, &s.Value)
}

// MarshalJSON implements json.Marshaler. An empty value encodes as null.
func (s Severity) MarshalJSON() ([]byte, error) {
	if s.Value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

type StatusUpdate struct {
	ID           int           `json:"id"`
	Author       string        `json:"author"`
	Translations []Translation `json:"translations"`
	CreatedAt    string        `json:"created_at"`
}

type Translation struct {
	Locale  string `json:"locale"`
	Content string `json:"content"`
}

// Localized picks the translation for locale, then en_US, then the first.
func Localized(ts []Translation, locale string) string {
	if len(ts) == 0 {
		return ""
	}
	for _, want := range []string{locale, "en_US"} {
		for _, t := range ts {
			if t.Locale == want {
				return t.Content
			}
		}
	}
	return ts[0].Content
}
