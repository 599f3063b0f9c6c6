package account

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/models"
)

// Account is one saved login profile. Field names match the accounts.json
// layout written by earlier releases.
type Account struct {
	ID            int                 `json:"id"`
	Username      string              `json:"username"`
	DisplayName   string              `json:"display_name"`
	Rank          string              `json:"rank"`
	RiotID        string              `json:"riot_id"`
	Password      string              `json:"password"`
	ProfileIconID *int                `json:"profile_icon_id"`
	SummonerLevel *int                `json:"summoner_level"`
	RankedStats   *models.RankedStats `json:"ranked_stats"`
	CreatedAt     Timestamp           `json:"created_at"`
}

// Name returns the display name, falling back to the username.
func (a Account) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// HasRiotID reports whether the account can be used for remote lookups.
func (a Account) HasRiotID() bool { return a.RiotID != "" }

// Patch is a partial update. Only non-nil fields are applied; ID and
// CreatedAt are never changed.
type Patch struct {
	Username      *string
	DisplayName   *string
	Rank          *string
	RiotID        *string
	Password      *string
	ProfileIconID *int
	SummonerLevel *int
	RankedStats   *models.RankedStats
	// ClearRankedStats drops cached stats (an account that fell to unranked).
	ClearRankedStats bool
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Username == nil && p.DisplayName == nil && p.Rank == nil &&
		p.RiotID == nil && p.Password == nil && p.ProfileIconID == nil &&
		p.SummonerLevel == nil && p.RankedStats == nil && !p.ClearRankedStats
}

func (p Patch) apply(a *Account) {
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.DisplayName != nil {
		a.DisplayName = *p.DisplayName
	}
	if p.Rank != nil {
		a.Rank = *p.Rank
	}
	if p.RiotID != nil {
		a.RiotID = *p.RiotID
	}
	if p.Password != nil {
		a.Password = *p.Password
	}
	if p.ProfileIconID != nil {
		v := *p.ProfileIconID
		a.ProfileIconID = &v
	}
	if p.SummonerLevel != nil {
		v := *p.SummonerLevel
		a.SummonerLevel = &v
	}
	if p.ClearRankedStats {
		a.RankedStats = nil
	}
	if p.RankedStats != nil {
		v := *p.RankedStats
		a.RankedStats = &v
	}
}

// String, Int and Stats build pointer values for a Patch.
func String(v string) *string { return &v }

func Int(v int) *int { return &v }

func Stats(v models.RankedStats) *models.RankedStats { return &v }

// Timestamp is a creation time that also accepts the zone-less ISO-8601
// strings found in older accounts files.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid created_at %q", *raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
