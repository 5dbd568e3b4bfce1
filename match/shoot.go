package match

import (
	"errors"
	"time"

	"github.com/wojtekolesinski/planewars/game"
	"github.com/wojtekolesinski/planewars/models"
)

// Shoot resolves one shot on the session. The cooldown gate comes first so
// a throttled caller learns nothing about turn state.
func (o *Orchestrator) Shoot(id string, req models.ShootRequest) (models.ShootResponse, error) {
	sess, err := o.session(id)
	if err != nil {
		return models.ShootResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !o.store.CanShoot(id) {
		return models.ShootResponse{}, &RateLimitError{Remaining: o.store.CooldownRemaining(id)}
	}
	if req.Row == nil || req.Col == nil {
		return models.ShootResponse{}, errInvalid("row and col must be numbers")
	}
	row, col := *req.Row, *req.Col

	switch sess.Mode {
	case ModeLAN:
		return o.shootLan(id, sess.Lan, row, col, req)
	case ModeVersusCPU:
		return o.shootVersusCPU(id, sess.VersusCPU, row, col)
	default:
		return o.shootSolo(id, sess.Solo, row, col)
	}
}

func (o *Orchestrator) shootLan(id string, m *LanMatch, row, col int, req models.ShootRequest) (models.ShootResponse, error) {
	m.TurnSwitchAt = time.Time{}
	if m.Status != StatusPlaying {
		return models.ShootResponse{}, errInvalid("Game not started")
	}
	if len(m.playersWithBoards()) < 2 {
		return models.ShootResponse{}, errInvalid("Waiting for opponents")
	}
	if m.CurrentTurn != req.PlayerSide {
		return models.ShootResponse{}, errInvalid("Not your turn")
	}

	targetID := req.TargetPlayer
	if targetID == "" {
		if req.PlayerSide == slotID(1) {
			targetID = slotID(2)
		} else {
			targetID = slotID(1)
		}
	}
	target := m.slot(targetID)
	if target == nil || target.Board == nil || target.ID == req.PlayerSide {
		return models.ShootResponse{}, errInvalid("Invalid target")
	}

	res, err := target.Board.Shoot(row, col)
	if err != nil {
		return models.ShootResponse{}, shotError(err)
	}
	if res.Result == game.OutcomeMiss {
		m.advanceTurn(req.PlayerSide)
		m.TurnSwitchAt = time.Now()
	}
	if m.aliveCount() <= 1 {
		m.Status = StatusGameover
	}
	o.store.RecordShot(id)

	resp := shootResponse(res)
	resp.IsPlayerTurn = boolPtr(m.CurrentTurn == req.PlayerSide)
	resp.CooldownRemaining = o.cooldownRemainingSeconds(id)
	if res.Result == game.OutcomeMiss {
		resp.TurnSwitchAt = m.TurnSwitchAt.UnixMilli()
		resp.NextTurnName = m.CurrentTurn
		if next := m.slot(m.CurrentTurn); next != nil && next.Name != "" {
			resp.NextTurnName = next.Name
		}
	}
	return resp, nil
}

func (o *Orchestrator) shootVersusCPU(id string, v *VersusCPUGame, row, col int) (models.ShootResponse, error) {
	if v.CurrentTurn != SidePlayer {
		return models.ShootResponse{}, errInvalid("Not your turn")
	}
	res, err := v.CPUBoard.Shoot(row, col)
	if err != nil {
		return models.ShootResponse{}, shotError(err)
	}
	if res.Result == game.OutcomeMiss {
		v.CurrentTurn = SideCPU
	}
	o.store.RecordShot(id)

	resp := shootResponse(res)
	resp.IsPlayerTurn = boolPtr(v.CurrentTurn == SidePlayer)
	resp.CooldownRemaining = o.cooldownRemainingSeconds(id)
	return resp, nil
}

func (o *Orchestrator) shootSolo(id string, solo *SoloGame, row, col int) (models.ShootResponse, error) {
	res, err := solo.Board.Shoot(row, col)
	if err != nil {
		return models.ShootResponse{}, shotError(err)
	}
	o.store.RecordShot(id)

	resp := shootResponse(res)
	resp.CooldownRemaining = o.cooldownRemainingSeconds(id)
	return resp, nil
}

// CPUShoot advances the scripted CPU turn of a versus-CPU match. CPU shots
// are not subject to the session cooldown.
func (o *Orchestrator) CPUShoot(id string) (models.CPUShootResponse, error) {
	sess, err := o.session(id)
	if err != nil {
		return models.CPUShootResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Mode != ModeVersusCPU {
		return models.CPUShootResponse{}, errInvalid("Not a vs CPU match")
	}
	v := sess.VersusCPU
	if v.CurrentTurn != SideCPU {
		return models.CPUShootResponse{}, errInvalid("Not CPU turn")
	}

	cell, ok := game.PickRandomUnshotCell(v.PlayerBoard)
	if !ok {
		return models.CPUShootResponse{
			ShootResponse: models.ShootResponse{
				Result:       string(game.OutcomeMiss),
				SunkPlaneIDs: []int{},
				GameOver:     true,
				Hits:         []game.Cell{},
				Misses:       []game.Cell{},
				IsPlayerTurn: boolPtr(false),
			},
			PlayerHits:   []game.Cell{},
			PlayerMisses: []game.Cell{},
		}, nil
	}

	res, err := v.PlayerBoard.Shoot(cell.Row, cell.Col)
	if err != nil {
		return models.CPUShootResponse{}, shotError(err)
	}
	if res.Result == game.OutcomeMiss {
		v.CurrentTurn = SidePlayer
	}

	resp := models.CPUShootResponse{
		ShootResponse: shootResponse(res),
		PlayerHits:    res.Hits,
		PlayerMisses:  res.Misses,
	}
	resp.IsPlayerTurn = boolPtr(v.CurrentTurn == SidePlayer)
	return resp, nil
}

// GiveUp reveals the calling player's own plane layout. Turn state and
// session status are untouched.
func (o *Orchestrator) GiveUp(id, playerSide string) (models.GiveUpResponse, error) {
	sess, err := o.session(id)
	if err != nil {
		return models.GiveUpResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var board *game.Board
	switch sess.Mode {
	case ModeLAN:
		if playerSide == "" {
			return models.GiveUpResponse{}, errInvalid("playerSide required for LAN games")
		}
		slot := sess.Lan.slot(playerSide)
		if slot == nil || slot.Board == nil {
			return models.GiveUpResponse{}, errInvalid("Player not found or has no board")
		}
		board = slot.Board
	case ModeVersusCPU:
		board = sess.VersusCPU.PlayerBoard
	default:
		board = sess.Solo.Board
	}
	return models.GiveUpResponse{PlaneCells: board.PlaneCells()}, nil
}

// advanceTurn passes the turn to the next living player in turn order,
// wrapping and skipping defeated or empty slots.
func (m *LanMatch) advanceTurn(from string) {
	idx := 0
	for i, id := range m.TurnOrder {
		if id == from {
			idx = i
			break
		}
	}
	next := from
	for range m.TurnOrder {
		idx = (idx + 1) % len(m.TurnOrder)
		next = m.TurnOrder[idx]
		if p := m.slot(next); p != nil && p.Board != nil && !p.Board.Defeated() {
			break
		}
		if next == from {
			break
		}
	}
	m.CurrentTurn = next
}

func shotError(err error) error {
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		return errInvalid("Out of bounds")
	case errors.Is(err, game.ErrAlreadyShot):
		return errInvalid("Cell already shot")
	default:
		return err
	}
}

func shootResponse(res game.ShotResult) models.ShootResponse {
	return models.ShootResponse{
		Result:       string(res.Result),
		Cell:         res.Cell,
		SunkPlaneID:  res.SunkPlaneID,
		SunkPlaneIDs: res.SunkPlaneIDs,
		GameOver:     res.GameOver,
		Hits:         res.Hits,
		Misses:       res.Misses,
	}
}

func (o *Orchestrator) cooldownRemainingSeconds(id string) int {
	remaining := o.store.CooldownRemaining(id)
	if remaining <= 0 {
		return 0
	}
	return (&RateLimitError{Remaining: remaining}).RetryAfterSeconds()
}

func boolPtr(b bool) *bool {
	return &b
}
