package match

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wojtekolesinski/planewars/game"
	"github.com/wojtekolesinski/planewars/models"
	"github.com/wojtekolesinski/planewars/store"
)

// lobbyCodeAlphabet leaves out 0/O and 1/I so codes survive being read
// aloud.
const (
	lobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	lobbyCodeLength   = 6
	maxPlayerNameLen  = 20
	defaultPlayerName = "Player"
)

// Orchestrator drives every session state transition in response to
// transport calls. It holds no state of its own beyond the injected store.
type Orchestrator struct {
	store *store.Store
}

// New returns an orchestrator backed by st.
func New(st *store.Store) *Orchestrator {
	return &Orchestrator{store: st}
}

// AllSessionIDs lists every stored session id, for the debug surface.
func (o *Orchestrator) AllSessionIDs() []string {
	return o.store.AllIDs()
}

func (o *Orchestrator) session(id string) (*Session, error) {
	g, ok := o.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return g.(*Session), nil
}

func (o *Orchestrator) lanSession(id string) (*Session, *LanMatch, error) {
	sess, err := o.session(id)
	if err != nil {
		return nil, nil, err
	}
	if sess.Mode != ModeLAN {
		return nil, nil, errInvalid("Not a LAN game")
	}
	return sess, sess.Lan, nil
}

func makeLobbyCode() string {
	code := make([]byte, lobbyCodeLength)
	for i := range code {
		code[i] = lobbyCodeAlphabet[rand.Intn(len(lobbyCodeAlphabet))]
	}
	return string(code)
}

func cleanPlayerName(name string) string {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxPlayerNameLen {
		name = string(runes[:maxPlayerNameLen])
	}
	if name == "" {
		return defaultPlayerName
	}
	return name
}

func clampPlayers(n int) int {
	if n < 2 {
		return 2
	}
	if n > 10 {
		return 10
	}
	return n
}

// CreateGame creates a session of one of the three modes. A request with
// custom planes or vsCpu becomes a versus-CPU match, isLanMultiplayer a LAN
// lobby, anything else a solo board.
func (o *Orchestrator) CreateGame(req models.CreateGameRequest) (models.CreateGameResponse, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	diff := game.DifficultyByName(difficulty)

	if req.IsLanMultiplayer {
		return o.createLan(diff, req)
	}
	if len(req.Planes) > 0 || req.VsCpu {
		return o.createVersusCPU(diff, req)
	}

	sess := &Session{
		ID:   uuid.NewString(),
		Mode: ModeSolo,
		Solo: &SoloGame{Board: game.NewBoard(diff, req.Planes)},
	}
	o.store.Create(sess.ID, sess)
	return models.CreateGameResponse{
		GameID:    sess.ID,
		GridSize:  sess.Solo.Board.GridSize,
		NumPlanes: sess.Solo.Board.NumPlanes,
	}, nil
}

func (o *Orchestrator) createLan(diff game.Difficulty, req models.CreateGameRequest) (models.CreateGameResponse, error) {
	if len(req.Planes) == 0 {
		return models.CreateGameResponse{}, errInvalid("LAN host must place planes")
	}
	minPlayers := clampPlayers(req.MinPlayers)
	maxPlayers := clampPlayers(req.MaxPlayers)
	hostBoard := game.NewBoard(diff, req.Planes)

	players := []*PlayerSlot{{
		ID:    slotID(1),
		Name:  cleanPlayerName(req.PlayerName),
		Board: hostBoard,
		Ready: true,
	}}
	for i := 2; i <= maxPlayers; i++ {
		players = append(players, &PlayerSlot{ID: slotID(i)})
	}

	sess := &Session{
		ID:   uuid.NewString(),
		Mode: ModeLAN,
		Lan: &LanMatch{
			LobbyCode:   makeLobbyCode(),
			Password:    strings.TrimSpace(req.Password),
			MinPlayers:  minPlayers,
			MaxPlayers:  maxPlayers,
			GridSize:    hostBoard.GridSize,
			NumPlanes:   hostBoard.NumPlanes,
			Players:     players,
			TurnOrder:   []string{slotID(1)},
			CurrentTurn: slotID(1),
			Status:      StatusWaiting,
		},
	}
	o.store.Create(sess.ID, sess)
	return models.CreateGameResponse{
		GameID:     sess.ID,
		GridSize:   sess.Lan.GridSize,
		NumPlanes:  sess.Lan.NumPlanes,
		IsLanMatch: true,
		LobbyCode:  sess.Lan.LobbyCode,
		PlayerSide: slotID(1),
	}, nil
}

func (o *Orchestrator) createVersusCPU(diff game.Difficulty, req models.CreateGameRequest) (models.CreateGameResponse, error) {
	cpuBoard := game.NewBoard(diff, nil)
	playerBoard := game.NewBoard(diff, req.Planes)

	sess := &Session{
		ID:   uuid.NewString(),
		Mode: ModeVersusCPU,
		VersusCPU: &VersusCPUGame{
			GridSize:    cpuBoard.GridSize,
			NumPlanes:   cpuBoard.NumPlanes,
			CPUBoard:    cpuBoard,
			PlayerBoard: playerBoard,
			CurrentTurn: SidePlayer,
		},
	}
	o.store.Create(sess.ID, sess)
	return models.CreateGameResponse{
		GameID:    sess.ID,
		GridSize:  sess.VersusCPU.GridSize,
		NumPlanes: sess.VersusCPU.NumPlanes,
		IsMatch:   true,
	}, nil
}

// Lookup finds a LAN lobby by code, but only while an open slot remains.
func (o *Orchestrator) Lookup(code string) (models.LookupResponse, error) {
	if code == "" {
		return models.LookupResponse{}, errInvalid("code required")
	}
	id, g, ok := o.store.FindByLobbyCode(code)
	if !ok {
		return models.LookupResponse{}, ErrNotFound
	}
	sess := g.(*Session)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	m := sess.Lan
	if m.openSlot() == nil {
		return models.LookupResponse{}, errInvalid("Game already full")
	}
	return models.LookupResponse{
		GameID:           id,
		GridSize:         m.GridSize,
		NumPlanes:        m.NumPlanes,
		PasswordRequired: m.Password != "",
		MaxPlayers:       m.MaxPlayers,
		PlayerCount:      len(m.playersWithBoards()),
	}, nil
}

// Joining records a soft join-intent with a display name, for other
// clients' polls.
func (o *Orchestrator) Joining(id, playerName string) error {
	sess, m, err := o.lanSession(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if m.openSlot() == nil {
		return errInvalid("Game already full")
	}
	m.Joining = &JoiningPlayer{Name: cleanPlayerName(playerName), At: time.Now()}
	return nil
}

// Join commits a joiner's board into the first open slot.
func (o *Orchestrator) Join(id string, req models.JoinRequest) (models.JoinResponse, error) {
	sess, m, err := o.lanSession(id)
	if err != nil {
		return models.JoinResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	slot := m.openSlot()
	if slot == nil {
		return models.JoinResponse{}, errInvalid("Game already full")
	}
	if m.Password != "" && strings.TrimSpace(req.Password) != m.Password {
		return models.JoinResponse{}, ErrWrongPassword
	}
	if len(req.Planes) == 0 {
		return models.JoinResponse{}, errInvalid("planes required")
	}

	diff := game.DifficultyByName(game.DifficultyNameForGridSize(m.GridSize))
	board := game.NewBoard(diff, req.Planes)
	if board.GridSize != m.GridSize || board.NumPlanes != m.NumPlanes {
		return models.JoinResponse{}, errInvalid("Board must match: %dx%d, %d planes", m.GridSize, m.GridSize, m.NumPlanes)
	}

	slot.Board = board
	slot.Name = cleanPlayerName(req.PlayerName)
	slot.Ready = false
	m.TurnOrder = append(m.TurnOrder, slot.ID)
	m.Joining = nil
	m.maybeStartPlaying()

	return models.JoinResponse{
		GameID:     id,
		GridSize:   m.GridSize,
		NumPlanes:  m.NumPlanes,
		IsLanMatch: true,
		PlayerSide: slot.ID,
	}, nil
}

// HostReady flags the host slot ready.
func (o *Orchestrator) HostReady(id string) error {
	sess, m, err := o.lanSession(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if host := m.slot(slotID(1)); host != nil {
		host.Ready = true
	}
	return nil
}

// JoinerReady flags a joined slot ready and starts the match once the lobby
// is full and everyone is ready.
func (o *Orchestrator) JoinerReady(id, playerSide string) error {
	sess, m, err := o.lanSession(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	slot := m.slot(playerSide)
	if playerSide == "" || slot == nil {
		return errInvalid("playerSide required")
	}
	if slot.Board == nil {
		return errInvalid("Join first")
	}
	slot.Ready = true
	m.maybeStartPlaying()
	return nil
}
