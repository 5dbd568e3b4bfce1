package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wojtekolesinski/planewars/game"
	"github.com/wojtekolesinski/planewars/match"
	"github.com/wojtekolesinski/planewars/models"
	"github.com/wojtekolesinski/planewars/server"
	"github.com/wojtekolesinski/planewars/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ts := httptest.NewServer(server.New(match.New(store.New(0))).Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, 5*time.Second)
}

func testPlanes(t *testing.T, gridSize, numPlanes int) []game.Plane {
	t.Helper()
	planes := make([]game.Plane, 0, numPlanes)
	for i := 0; i < numPlanes; i++ {
		cells := game.CellsFromPivot((i/2)*4, (i%2)*4, 0, gridSize)
		require.NotNil(t, cells)
		planes = append(planes, game.Plane{ID: i + 1, Cells: cells, Head: cells[0]})
	}
	return planes
}

func TestClientLanRoundTrip(t *testing.T) {
	c := newTestClient(t)

	created, err := c.CreateGame(models.CreateGameRequest{
		Difficulty:       "medium",
		IsLanMultiplayer: true,
		Planes:           testPlanes(t, 10, 3),
		MaxPlayers:       2,
		PlayerName:       "Host",
	})
	require.NoError(t, err)
	require.True(t, created.IsLanMatch)

	found, err := c.Lookup(created.LobbyCode)
	require.NoError(t, err)
	assert.Equal(t, created.GameID, found.GameID)

	require.NoError(t, c.Joining(created.GameID, "Ola"))

	joined, err := c.Join(created.GameID, models.JoinRequest{
		Planes:     testPlanes(t, 10, 3),
		PlayerName: "Ola",
	})
	require.NoError(t, err)
	require.NoError(t, c.JoinerReady(created.GameID, joined.PlayerSide))

	status, err := c.Status(created.GameID, joined.PlayerSide)
	require.NoError(t, err)
	assert.Equal(t, "playing", status.Status)
	assert.False(t, status.IsMyTurn)

	row, col := 9, 9
	answer, err := c.Shoot(created.GameID, models.ShootRequest{
		Row: &row, Col: &col, PlayerSide: "player1",
	})
	require.NoError(t, err)
	assert.Equal(t, "miss", answer.Result)

	revealed, err := c.GiveUp(created.GameID, joined.PlayerSide)
	require.NoError(t, err)
	assert.Len(t, revealed.PlaneCells, 3*8)
}

func TestGetRequestsKeepQuerySeparateFromPath(t *testing.T) {
	var gotPath, gotCode, gotSide string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCode = r.URL.Query().Get("code")
		gotSide = r.URL.Query().Get("playerSide")
		json.NewEncoder(w).Encode(struct{}{})
	}))
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL, 5*time.Second)

	_, err := c.Lookup("AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "/lan/lookup", gotPath)
	assert.Equal(t, "AB12CD", gotCode)

	_, err = c.Status("g1", "player2")
	require.NoError(t, err)
	assert.Equal(t, "/game/g1/lan-status", gotPath)
	assert.Equal(t, "player2", gotSide)
}

func TestClientErrorMapping(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Status("missing", "player1")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := c.CreateGame(models.CreateGameRequest{
		IsLanMultiplayer: true,
		Planes:           testPlanes(t, 10, 3),
		MaxPlayers:       2,
		Password:         "s3cret",
	})
	require.NoError(t, err)

	_, err = c.Join(created.GameID, models.JoinRequest{
		Planes:   testPlanes(t, 10, 3),
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Join(created.GameID, models.JoinRequest{Password: "s3cret"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "planes required", apiErr.Message)
}
