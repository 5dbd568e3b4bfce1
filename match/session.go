// Package match coordinates game sessions: solo practice, versus-CPU
// matches and LAN lobbies with 2-10 independently polling players.
package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/wojtekolesinski/planewars/game"
)

// Mode discriminates the three session shapes.
type Mode int

const (
	ModeSolo Mode = iota
	ModeVersusCPU
	ModeLAN
)

// Status is the lifecycle of a LAN match. Transitions are monotonic:
// waiting -> playing -> gameover.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusGameover Status = "gameover"
)

// Versus-CPU turn ids.
const (
	SidePlayer = "player"
	SideCPU    = "cpu"
)

// Session is the full server-side record of one game. Exactly one of Solo,
// VersusCPU and Lan is non-nil, matching Mode. All mutations of a session
// happen under its lock; independent sessions proceed in parallel.
type Session struct {
	mu sync.Mutex

	ID   string
	Mode Mode

	Solo      *SoloGame
	VersusCPU *VersusCPUGame
	Lan       *LanMatch
}

// SoloGame is client-paced shooting at a single hidden board. No turns,
// only the shot cooldown.
type SoloGame struct {
	Board *game.Board
}

// VersusCPUGame has two implicit slots and a scripted CPU turn, advanced by
// an explicit client call after each player miss.
type VersusCPUGame struct {
	GridSize    int
	NumPlanes   int
	CPUBoard    *game.Board
	PlayerBoard *game.Board
	CurrentTurn string
}

// PlayerSlot is one seat in a LAN match. A nil board marks an open slot.
// Ready flips true exactly once.
type PlayerSlot struct {
	ID    string
	Name  string
	Board *game.Board
	Ready bool
}

// JoiningPlayer is the soft join-intent marker shown to other pollers
// before a joiner commits a board. Not authoritative.
type JoiningPlayer struct {
	Name string
	At   time.Time
}

// LanMatch is a multiplayer lobby. TurnSwitchAt exists solely so
// disconnected pollers can agree on a shared turn-transition animation
// window; it is not a lock or a lease.
type LanMatch struct {
	LobbyCode    string
	Password     string
	MinPlayers   int
	MaxPlayers   int
	GridSize     int
	NumPlanes    int
	Players      []*PlayerSlot
	TurnOrder    []string
	CurrentTurn  string
	Status       Status
	Joining      *JoiningPlayer
	TurnSwitchAt time.Time
}

// LobbyCode implements store.Game. Only LAN sessions are discoverable by
// code.
func (s *Session) LobbyCode() string {
	if s.Mode == ModeLAN {
		return s.Lan.LobbyCode
	}
	return ""
}

func (m *LanMatch) slot(id string) *PlayerSlot {
	for _, p := range m.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *LanMatch) openSlot() *PlayerSlot {
	for _, p := range m.Players {
		if p.Board == nil {
			return p
		}
	}
	return nil
}

func (m *LanMatch) playersWithBoards() []*PlayerSlot {
	var out []*PlayerSlot
	for _, p := range m.Players {
		if p.Board != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m *LanMatch) readyCount() int {
	n := 0
	for _, p := range m.Players {
		if p.Ready {
			n++
		}
	}
	return n
}

func (m *LanMatch) aliveCount() int {
	n := 0
	for _, p := range m.playersWithBoards() {
		if !p.Board.Defeated() {
			n++
		}
	}
	return n
}

// maybeStartPlaying promotes waiting to playing once every slot holds a
// board and every occupant is ready.
func (m *LanMatch) maybeStartPlaying() {
	if m.Status != StatusWaiting {
		return
	}
	withBoards := len(m.playersWithBoards())
	if withBoards >= m.MaxPlayers && m.readyCount() == withBoards {
		m.Status = StatusPlaying
	}
}

func slotID(n int) string {
	return fmt.Sprintf("player%d", n)
}
