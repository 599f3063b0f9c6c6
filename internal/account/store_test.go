package account

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.json")
	s := Open(path, logger.Discard())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, path
}

func TestAddDefaults(t *testing.T) {
	s, _ := openTemp(t)

	a := s.Add("main_acc", "", "Faker#KR1", "hunter2")
	assert.Equal(t, 0, a.ID)
	assert.Equal(t, "main_acc", a.DisplayName)
	assert.Equal(t, models.Unranked, a.Rank)
	assert.Nil(t, a.RankedStats)
	assert.Nil(t, a.ProfileIconID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestRoundTrip(t *testing.T) {
	s, path := openTemp(t)

	s.Add("alice", "Alice", "Alice#EUW", "pw1")
	s.Add("bob", "", "", "")
	s.Add("carol", "Carol", "Carol#NA1", "")
	require.True(t, s.Update(2, Patch{
		Rank:          String("GOLD II"),
		ProfileIconID: Int(4568),
		SummonerLevel: Int(312),
		RankedStats:   Stats(models.RankedStats{Tier: "GOLD", Rank: "II", LP: 45, Wins: 10, Losses: 8}),
	}))

	reloaded := Open(path, logger.Discard())
	assert.Equal(t, s.List(), reloaded.List())
}

func TestDeleteKeepsOtherIDs(t *testing.T) {
	s, path := openTemp(t)
	s.Add("a", "", "", "")
	s.Add("b", "", "", "")
	s.Add("c", "", "", "")

	s.Delete(1)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, 0, list[0].ID)
	assert.Equal(t, "a", list[0].Username)
	assert.Equal(t, 2, list[1].ID)
	assert.Equal(t, "c", list[1].Username)

	_, ok := s.Get(1)
	assert.False(t, ok)

	reloaded := Open(path, logger.Discard())
	assert.Equal(t, list, reloaded.List())
}

func TestDeleteThenAddDoesNotReuseID(t *testing.T) {
	s, path := openTemp(t)
	s.Add("a", "", "", "")
	s.Add("b", "", "", "")
	s.Delete(0)

	c := s.Add("c", "", "", "")
	assert.Equal(t, 2, c.ID)

	// The counter survives a reload because it is derived from the max id.
	reloaded := Open(path, logger.Discard())
	d := reloaded.Add("d", "", "", "")
	assert.Equal(t, 3, d.ID)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	s, _ := openTemp(t)
	s.Add("a", "", "", "")
	s.Delete(42)
	assert.Equal(t, 1, s.Len())
}

func TestUpdate(t *testing.T) {
	s, _ := openTemp(t)
	s.Add("alice", "Alice", "", "")

	assert.False(t, s.Update(7, Patch{Rank: String("IRON IV")}))

	require.True(t, s.Update(0, Patch{RiotID: String("Alice#EUW"), DisplayName: String("Ali")}))
	a, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, "Alice#EUW", a.RiotID)
	assert.Equal(t, "Ali", a.DisplayName)
	assert.Equal(t, "alice", a.Username, "fields absent from the patch are kept")

	require.True(t, s.Update(0, Patch{RankedStats: Stats(models.RankedStats{Tier: "IRON"})}))
	require.True(t, s.Update(0, Patch{ClearRankedStats: true, Rank: String(models.Unranked)}))
	a, _ = s.Get(0)
	assert.Nil(t, a.RankedStats)
	assert.Equal(t, models.Unranked, a.Rank)
}

func TestListIsACopy(t *testing.T) {
	s, _ := openTemp(t)
	s.Add("alice", "", "", "")

	list := s.List()
	list[0].Username = "mallory"

	a, _ := s.Get(0)
	assert.Equal(t, "alice", a.Username)
}

func TestCorruptFileFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := Open(path, logger.Discard())
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())
}

func TestLoadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	legacy := `[
    {
        "id": 0,
        "username": "smurf",
        "display_name": "Smurf",
        "rank": "PLATINUM IV",
        "riot_id": "Smurf#EUW",
        "password": "",
        "profile_icon_id": 29,
        "summoner_level": 31,
        "ranked_stats": {"tier": "PLATINUM", "rank": "IV", "lp": 12, "wins": 3, "losses": 1},
        "created_at": "2024-11-20T18:01:02.123456"
    }
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	s := Open(path, logger.Discard())
	require.Equal(t, 1, s.Len())
	a, ok := s.FindByUsername("SMURF")
	require.True(t, ok)
	require.NotNil(t, a.ProfileIconID)
	assert.Equal(t, 29, *a.ProfileIconID)
	assert.Equal(t, 12, a.RankedStats.LP)
}

func TestSaveFailureReportsFalse(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes WriteFile fail.
	path := filepath.Join(dir, "accounts.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	s := Open(path, logger.Discard())
	assert.False(t, s.Save())
	a := s.Add("alice", "", "", "")
	assert.Equal(t, "alice", a.Username, "add never fails even when persisting does")
}
