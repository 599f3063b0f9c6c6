package riot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kattitatu/riot-account-manager/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("RGAPI-test", WithBaseURL(srv.URL), WithLogger(logger.Discard()))
}

func TestAccountByRiotID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RGAPI-test", r.Header.Get("X-Riot-Token"))
		assert.Equal(t, "/riot/account/v1/accounts/by-riot-id/Faker Fan/KR1", r.URL.Path)
		w.Write([]byte(`{"puuid":"p-1","gameName":"Faker Fan","tagLine":"KR1"}`))
	})

	acc, err := c.AccountByRiotID(context.Background(), "kr", RiotID{"Faker Fan", "KR1"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", acc.PUUID)
}

func TestAccountWithoutPUUID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	_, err := c.AccountByRiotID(context.Background(), "euw1", RiotID{"a", "b"})
	assert.Error(t, err)
}

func TestStatusErrors(t *testing.T) {
	var status atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	})

	status.Store(http.StatusNotFound)
	_, err := c.ActiveGame(context.Background(), "euw1", "p")
	assert.ErrorIs(t, err, ErrNotFound)

	status.Store(http.StatusForbidden)
	_, err = c.ActiveGame(context.Background(), "euw1", "p")
	assert.NotErrorIs(t, err, ErrNotFound)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Contains(t, err.Error(), "API key")
}

func TestNoKeyMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL), WithLogger(logger.Discard()))
	assert.False(t, c.HasKey())
	_, err := c.LeagueEntries(context.Background(), "euw1", "p")
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.Zero(t, hits.Load())
}

func slowServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestTimeout(t *testing.T) {
	c := NewClient("k", WithBaseURL(slowServer(t)), WithTimeout(20*time.Millisecond), WithLogger(logger.Discard()))

	_, err := c.SummonerByPUUID(context.Background(), "euw1", "p")
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestTimeoutAppliesInAnyOrder(t *testing.T) {
	url := slowServer(t)
	own := &http.Client{}

	before := NewClient("k", WithTimeout(20*time.Millisecond), WithHTTPClient(own), WithBaseURL(url), WithLogger(logger.Discard()))
	_, err := before.SummonerByPUUID(context.Background(), "euw1", "p")
	require.Error(t, err)

	after := NewClient("k", WithHTTPClient(own), WithTimeout(20*time.Millisecond), WithBaseURL(url), WithLogger(logger.Discard()))
	_, err = after.SummonerByPUUID(context.Background(), "euw1", "p")
	require.Error(t, err)

	assert.Zero(t, own.Timeout)
}

func TestHTTPClientTimeoutKeptWithoutOption(t *testing.T) {
	own := &http.Client{Timeout: 20 * time.Millisecond}
	c := NewClient("k", WithHTTPClient(own), WithBaseURL(slowServer(t)), WithLogger(logger.Discard()))
	_, err := c.SummonerByPUUID(context.Background(), "euw1", "p")
	require.Error(t, err)
	assert.Same(t, own, c.httpClient)
}

func TestMatchIDsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lol/match/v5/matches/by-puuid/p/ids", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("start"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		w.Write([]byte(`["EUW1_1","EUW1_2"]`))
	})
	ids, err := c.MatchIDs(context.Background(), "euw1", "p", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"EUW1_1", "EUW1_2"}, ids)
}

func TestHostURL(t *testing.T) {
	c := NewClient("k")
	assert.Equal(t, "https://europe.api.riotgames.com", c.hostURL(RoutingFor("euw1")))
	assert.Equal(t, "https://euw1.api.riotgames.com", c.hostURL(Platform("EUW1")))
}

func TestSoloQueue(t *testing.T) {
	entries := []LeagueEntry{
		{QueueType: "RANKED_FLEX_SR", Tier: "SILVER"},
		{QueueType: SoloQueueType, Tier: "GOLD", Rank: "II"},
	}
	require.NotNil(t, SoloQueue(entries))
	assert.Equal(t, "GOLD", SoloQueue(entries).Tier)
	assert.Nil(t, SoloQueue(entries[:1]))
}

func TestLocalized(t *testing.T) {
	ts := []Translation{{"de_DE", "Wartung"}, {"en_US", "Maintenance"}}
	assert.Equal(t, "Wartung", Localized(ts, "de_DE"))
	assert.Equal(t, "Maintenance", Localized(ts, "fr_FR"))
	assert.Equal(t, "Wartung", Localized(ts[:1], "fr_FR"))
	assert.Empty(t, Localized(nil, "en_US"))
}

func TestSeverityPresence(t *testing.T) {
	var data PlatformData
	require.NoError(t, json.Unmarshal([]byte(`{"incidents":[
		{"id":1},
		{"id":2,"incident_severity":null},
		{"id":3,"incident_severity":"warning"}
	]}`), &data))
	require.Len(t, data.Incidents, 3)
	assert.Equal(t, Severity{}, data.Incidents[0].IncidentSeverity)
	assert.Equal(t, Severity{Present: true}, data.Incidents[1].IncidentSeverity)
	assert.Equal(t, SeverityOf("warning"), data.Incidents[2].IncidentSeverity)
}
