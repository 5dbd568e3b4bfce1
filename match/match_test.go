package match

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wojtekolesinski/planewars/game"
	"github.com/wojtekolesinski/planewars/models"
	"github.com/wojtekolesinski/planewars/store"
)

// newOrchestrator returns an orchestrator whose store has no cooldown, so
// tests can fire freely.
func newOrchestrator() *Orchestrator {
	return New(store.New(0))
}

func fixedPlanes(t *testing.T, gridSize, numPlanes int) []game.Plane {
	t.Helper()
	planes := make([]game.Plane, 0, numPlanes)
	for i := 0; i < numPlanes; i++ {
		cells := game.CellsFromPivot((i/2)*4, (i%2)*4, 0, gridSize)
		require.NotNil(t, cells)
		planes = append(planes, game.Plane{ID: i + 1, Cells: cells, Head: cells[0]})
	}
	return planes
}

func intPtr(n int) *int { return &n }

func shootAt(row, col int, side string) models.ShootRequest {
	return models.ShootRequest{Row: intPtr(row), Col: intPtr(col), PlayerSide: side}
}

func TestCleanPlayerName(t *testing.T) {
	assert.Equal(t, "Player", cleanPlayerName(""))
	assert.Equal(t, "Player", cleanPlayerName("   "))
	assert.Equal(t, "Ola", cleanPlayerName("  Ola  "))
	assert.Equal(t, strings.Repeat("a", 20), cleanPlayerName(strings.Repeat("a", 25)))

	// truncation must not split a multibyte rune
	name := cleanPlayerName(strings.Repeat("ż", 25))
	assert.Equal(t, strings.Repeat("ż", 20), name)
	assert.True(t, utf8.ValidString(name))
}

// createLanMatch spins up a full LAN lobby with everyone joined and ready.
func createLanMatch(t *testing.T, o *Orchestrator, maxPlayers int, password string) (string, []string) {
	t.Helper()
	created, err := o.CreateGame(models.CreateGameRequest{
		Difficulty:       "medium",
		IsLanMultiplayer: true,
		Planes:           fixedPlanes(t, 10, 3),
		MinPlayers:       2,
		MaxPlayers:       maxPlayers,
		Password:         password,
		PlayerName:       "Host",
	})
	require.NoError(t, err)

	sides := []string{created.PlayerSide}
	for i := 2; i <= maxPlayers; i++ {
		joined, err := o.Join(created.GameID, models.JoinRequest{
			Planes:     fixedPlanes(t, 10, 3),
			Password:   password,
			PlayerName: "Joiner",
		})
		require.NoError(t, err)
		require.NoError(t, o.JoinerReady(created.GameID, joined.PlayerSide))
		sides = append(sides, joined.PlayerSide)
	}
	return created.GameID, sides
}

func TestCreateGameModes(t *testing.T) {
	o := newOrchestrator()

	solo, err := o.CreateGame(models.CreateGameRequest{Difficulty: "easy"})
	require.NoError(t, err)
	assert.NotEmpty(t, solo.GameID)
	assert.Equal(t, 8, solo.GridSize)
	assert.Equal(t, 2, solo.NumPlanes)
	assert.False(t, solo.IsMatch)
	assert.False(t, solo.IsLanMatch)

	cpu, err := o.CreateGame(models.CreateGameRequest{Difficulty: "medium", VsCpu: true})
	require.NoError(t, err)
	assert.True(t, cpu.IsMatch)

	// custom planes alone also select a versus-CPU match
	withPlanes, err := o.CreateGame(models.CreateGameRequest{
		Difficulty: "medium",
		Planes:     fixedPlanes(t, 10, 3),
	})
	require.NoError(t, err)
	assert.True(t, withPlanes.IsMatch)

	lan, err := o.CreateGame(models.CreateGameRequest{
		Difficulty:       "medium",
		IsLanMultiplayer: true,
		Planes:           fixedPlanes(t, 10, 3),
		MaxPlayers:       2,
	})
	require.NoError(t, err)
	assert.True(t, lan.IsLanMatch)
	assert.Len(t, lan.LobbyCode, 6)
	assert.Equal(t, "player1", lan.PlayerSide)
}

func TestCreateLanRequiresPlanes(t *testing.T) {
	o := newOrchestrator()
	_, err := o.CreateGame(models.CreateGameRequest{IsLanMultiplayer: true})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "LAN host must place planes", reqErr.Msg)
}

func TestLookup(t *testing.T) {
	o := newOrchestrator()
	created, err := o.CreateGame(models.CreateGameRequest{
		IsLanMultiplayer: true,
		Planes:           fixedPlanes(t, 10, 3),
		MaxPlayers:       2,
		Password:         "s3cret",
	})
	require.NoError(t, err)

	// case-insensitive code match
	found, err := o.Lookup(created.LobbyCode)
	require.NoError(t, err)
	assert.Equal(t, created.GameID, found.GameID)
	assert.True(t, found.PasswordRequired)
	assert.Equal(t, 1, found.PlayerCount)
	assert.Equal(t, 2, found.MaxPlayers)

	_, err = o.Lookup("NOSUCH")
	assert.ErrorIs(t, err, ErrNotFound)

	// a full lobby is no longer discoverable
	_, err = o.Join(created.GameID, models.JoinRequest{
		Planes:   fixedPlanes(t, 10, 3),
		Password: "s3cret",
	})
	require.NoError(t, err)
	_, err = o.Lookup(created.LobbyCode)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Game already full", reqErr.Msg)
}

func TestJoinValidation(t *testing.T) {
	o := newOrchestrator()
	created, err := o.CreateGame(models.CreateGameRequest{
		IsLanMultiplayer: true,
		Planes:           fixedPlanes(t, 10, 3),
		MaxPlayers:       2,
		Password:         "s3cret",
	})
	require.NoError(t, err)

	_, err = o.Join(created.GameID, models.JoinRequest{
		Planes:   fixedPlanes(t, 10, 3),
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = o.Join(created.GameID, models.JoinRequest{Password: "s3cret"})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "planes required", reqErr.Msg)

	_, err = o.Join("missing", models.JoinRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadyHandshakeStartsMatch(t *testing.T) {
	o := newOrchestrator()
	created, err := o.CreateGame(models.CreateGameRequest{
		IsLanMultiplayer: true,
		Planes:           fixedPlanes(t, 10, 3),
		MaxPlayers:       2,
		Password:         "s3cret",
		PlayerName:       "Host",
	})
	require.NoError(t, err)

	require.NoError(t, o.Joining(created.GameID, "Ola"))
	status, err := o.Status(created.GameID, "player1")
	require.NoError(t, err)
	require.NotNil(t, status.JoiningPlayer)
	assert.Equal(t, "Ola", status.JoiningPlayer.Name)
	assert.Equal(t, string(StatusWaiting), status.Status)

	joined, err := o.Join(created.GameID, models.JoinRequest{
		Planes:     fixedPlanes(t, 10, 3),
		Password:   "s3cret",
		PlayerName: "Ola",
	})
	require.NoError(t, err)
	assert.Equal(t, "player2", joined.PlayerSide)

	// joiner not ready yet, still waiting
	status, err = o.Status(created.GameID, "player1")
	require.NoError(t, err)
	assert.Equal(t, string(StatusWaiting), status.Status)
	assert.Nil(t, status.JoiningPlayer, "soft marker cleared on join")
	assert.True(t, status.HostReady)
	assert.False(t, status.AllReady)

	require.NoError(t, o.JoinerReady(created.GameID, "player2"))
	status, err = o.Status(created.GameID, "player2")
	require.NoError(t, err)
	assert.Equal(t, string(StatusPlaying), status.Status)
	assert.Equal(t, "player1", status.CurrentTurn, "host shoots first")
	assert.True(t, status.AllReady)
}

func TestJoinerReadyRequiresBoard(t *testing.T) {
	o := newOrchestrator()
	created, err := o.CreateGame(models.CreateGameRequest{
		IsLanMultiplayer: true,
		Planes:           fixedPlanes(t, 10, 3),
		MaxPlayers:       2,
	})
	require.NoError(t, err)

	err = o.JoinerReady(created.GameID, "player2")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Join first", reqErr.Msg)
}

func TestTurnIntegrityTwoPlayers(t *testing.T) {
	o := newOrchestrator()
	gameID, sides := createLanMatch(t, o, 2, "")
	host, joiner := sides[0], sides[1]

	// out of turn: rejected, no mutation
	_, err := o.Shoot(gameID, shootAt(0, 0, joiner))
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Not your turn", reqErr.Msg)
	status, err := o.Status(gameID, joiner)
	require.NoError(t, err)
	assert.Empty(t, status.Opponents[0].Misses)

	// hit does not pass the turn
	res, err := o.Shoot(gameID, shootAt(1, 1, host))
	require.NoError(t, err)
	assert.Equal(t, "hit", res.Result)
	require.NotNil(t, res.IsPlayerTurn)
	assert.True(t, *res.IsPlayerTurn)
	assert.Zero(t, res.TurnSwitchAt)

	// head shot sinks and keeps the turn
	res, err = o.Shoot(gameID, shootAt(1, 0, host))
	require.NoError(t, err)
	assert.Equal(t, "sunk", res.Result)
	assert.Equal(t, 1, res.SunkPlaneID)
	assert.True(t, *res.IsPlayerTurn)

	// miss passes the turn and stamps turnSwitchAt
	res, err = o.Shoot(gameID, shootAt(9, 9, host))
	require.NoError(t, err)
	assert.Equal(t, "miss", res.Result)
	assert.False(t, *res.IsPlayerTurn)
	assert.NotZero(t, res.TurnSwitchAt)
	assert.Equal(t, "Joiner", res.NextTurnName)

	status, err = o.Status(gameID, joiner)
	require.NoError(t, err)
	assert.Equal(t, joiner, status.CurrentTurn)
	assert.True(t, status.IsMyTurn)
	assert.NotZero(t, status.TurnSwitchAt)
}

func TestWinDetectionThreePlayers(t *testing.T) {
	o := newOrchestrator()
	gameID, sides := createLanMatch(t, o, 3, "")
	host := sides[0]

	heads := []game.Cell{{Row: 1, Col: 0}, {Row: 1, Col: 4}, {Row: 5, Col: 0}}

	// host sinks every plane of player2; heads keep the turn
	for _, h := range heads {
		req := shootAt(h.Row, h.Col, host)
		req.TargetPlayer = sides[1]
		res, err := o.Shoot(gameID, req)
		require.NoError(t, err)
		assert.Equal(t, "sunk", res.Result)
	}

	status, err := o.Status(gameID, host)
	require.NoError(t, err)
	assert.False(t, status.GameOver, "two players still alive")
	assert.Equal(t, string(StatusPlaying), status.Status)

	// a miss now skips the defeated player2
	res, err := o.Shoot(gameID, shootAt(9, 9, host))
	require.NoError(t, err)
	require.Equal(t, "miss", res.Result)
	status, err = o.Status(gameID, host)
	require.NoError(t, err)
	assert.Equal(t, sides[2], status.CurrentTurn)

	// player3 wipes out the host
	for _, h := range heads {
		req := shootAt(h.Row, h.Col, sides[2])
		req.TargetPlayer = host
		res, err := o.Shoot(gameID, req)
		require.NoError(t, err)
		assert.Equal(t, "sunk", res.Result)
	}

	status, err = o.Status(gameID, sides[2])
	require.NoError(t, err)
	assert.True(t, status.GameOver)
	assert.Equal(t, string(StatusGameover), status.Status)
	assert.Equal(t, sides[2], status.Winner)
}

func TestShootRejectsSelfTarget(t *testing.T) {
	o := newOrchestrator()
	gameID, sides := createLanMatch(t, o, 3, "")

	req := shootAt(0, 0, sides[0])
	req.TargetPlayer = sides[0]
	_, err := o.Shoot(gameID, req)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Invalid target", reqErr.Msg)
}

func TestSoloShooting(t *testing.T) {
	o := newOrchestrator()
	created, err := o.CreateGame(models.CreateGameRequest{Difficulty: "medium"})
	require.NoError(t, err)

	res, err := o.Shoot(created.GameID, shootAt(0, 0, ""))
	require.NoError(t, err)
	assert.Contains(t, []string{"hit", "miss", "sunk"}, res.Result)
	assert.Nil(t, res.IsPlayerTurn, "solo play has no turn concept")

	_, err = o.Shoot(created.GameID, shootAt(0, 0, ""))
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Cell already shot", reqErr.Msg)

	_, err = o.Shoot(created.GameID, shootAt(0, 99, ""))
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Out of bounds", reqErr.Msg)
}

func TestShootCooldown(t *testing.T) {
	now := time.Now()
	o := New(store.New(time.Second, store.WithClock(func() time.Time { return now })))
	created, err := o.CreateGame(models.CreateGameRequest{Difficulty: "medium"})
	require.NoError(t, err)

	res, err := o.Shoot(created.GameID, shootAt(0, 0, ""))
	require.NoError(t, err)
	assert.Equal(t, 1, res.CooldownRemaining)

	_, err = o.Shoot(created.GameID, shootAt(0, 1, ""))
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 1, rle.RetryAfterSeconds())

	now = now.Add(time.Second)
	_, err = o.Shoot(created.GameID, shootAt(0, 1, ""))
	assert.NoError(t, err)
}

func TestVersusCPUFlow(t *testing.T) {
	o := newOrchestrator()
	created, err := o.CreateGame(models.CreateGameRequest{
		Difficulty: "medium",
		VsCpu:      true,
		Planes:     fixedPlanes(t, 10, 3),
	})
	require.NoError(t, err)

	// cpu cannot move before the player misses
	_, err = o.CPUShoot(created.GameID)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Not CPU turn", reqErr.Msg)

	// shoot until the player misses and the turn passes
	missed := false
	for row := 0; row < 10 && !missed; row++ {
		for col := 0; col < 10 && !missed; col++ {
			res, err := o.Shoot(created.GameID, shootAt(row, col, ""))
			require.NoError(t, err)
			if res.Result == "miss" {
				assert.False(t, *res.IsPlayerTurn)
				missed = true
			}
		}
	}
	require.True(t, missed)

	// player is blocked while it is the cpu's turn
	_, err = o.Shoot(created.GameID, shootAt(9, 9, ""))
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Not your turn", reqErr.Msg)

	// advance cpu turns until it misses back
	for i := 0; i < 100; i++ {
		res, err := o.CPUShoot(created.GameID)
		require.NoError(t, err)
		assert.Len(t, res.PlayerHits, len(res.Hits))
		if *res.IsPlayerTurn {
			return
		}
	}
	t.Fatal("cpu never returned the turn")
}

func TestGiveUpRevealsOwnBoard(t *testing.T) {
	o := newOrchestrator()
	gameID, sides := createLanMatch(t, o, 2, "")

	revealed, err := o.GiveUp(gameID, sides[1])
	require.NoError(t, err)
	assert.Len(t, revealed.PlaneCells, 3*8)

	_, err = o.GiveUp(gameID, "")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)

	// turn state and status untouched
	status, err := o.Status(gameID, sides[0])
	require.NoError(t, err)
	assert.Equal(t, string(StatusPlaying), status.Status)
	assert.Equal(t, sides[0], status.CurrentTurn)
}
