package match

import (
	"github.com/wojtekolesinski/planewars/game"
	"github.com/wojtekolesinski/planewars/models"
)

// Status builds the per-player view a client polls. Polling this endpoint
// is the only cross-client synchronization mechanism; it never mutates the
// session.
func (o *Orchestrator) Status(id, playerSide string) (models.LanStatusResponse, error) {
	sess, m, err := o.lanSession(id)
	if err != nil {
		return models.LanStatusResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	me := m.slot(playerSide)
	if playerSide == "" || me == nil {
		return models.LanStatusResponse{}, errInvalid("playerSide required")
	}

	withBoards := m.playersWithBoards()
	sunk := 0
	for _, p := range withBoards {
		if p.Board.Defeated() {
			sunk++
		}
	}
	threshold := len(withBoards) - 1
	if threshold < 1 {
		threshold = 1
	}
	gameOver := m.Status == StatusGameover || sunk >= threshold

	winner := ""
	if gameOver {
		for _, p := range withBoards {
			if !p.Board.Defeated() {
				winner = p.ID
				break
			}
		}
	}

	opponents := []models.OpponentInfo{}
	for _, p := range withBoards {
		if p.ID == playerSide {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		opponents = append(opponents, models.OpponentInfo{
			ID:     p.ID,
			Name:   name,
			Hits:   p.Board.HitCells(),
			Misses: p.Board.MissCells(),
		})
	}

	allPlayers := make([]models.PlayerInfo, 0, len(m.Players))
	for _, p := range m.Players {
		name := p.Name
		if name == "" && p.Board != nil {
			name = p.ID
		}
		allPlayers = append(allPlayers, models.PlayerInfo{
			ID:        p.ID,
			Name:      name,
			Ready:     p.Ready,
			Connected: p.Board != nil,
		})
	}

	hostReady := false
	if host := m.slot(slotID(1)); host != nil {
		hostReady = host.Ready
	}
	allReady := len(withBoards) >= m.MinPlayers
	for _, p := range withBoards {
		if !p.Ready {
			allReady = false
		}
	}

	currentTurnName := m.CurrentTurn
	if cur := m.slot(m.CurrentTurn); cur != nil && cur.Name != "" {
		currentTurnName = cur.Name
	}

	myHits, myMisses := []game.Cell{}, []game.Cell{}
	if me.Board != nil {
		myHits = me.Board.HitCells()
		myMisses = me.Board.MissCells()
	}

	resp := models.LanStatusResponse{
		Status:          string(m.Status),
		CurrentTurn:     m.CurrentTurn,
		CurrentTurnName: currentTurnName,
		AllPlayers:      allPlayers,
		IsMyTurn:        m.CurrentTurn == playerSide,
		GameOver:        gameOver,
		Winner:          winner,
		Opponents:       opponents,
		MyBoardHits:     myHits,
		MyBoardMisses:   myMisses,
		HostReady:       hostReady,
		AllReady:        allReady,
		TurnOrder:       m.TurnOrder,
	}
	if m.Joining != nil {
		resp.JoiningPlayer = &models.JoiningPlayerInfo{
			Name: m.Joining.Name,
			At:   m.Joining.At.UnixMilli(),
		}
	}
	if !m.TurnSwitchAt.IsZero() {
		resp.TurnSwitchAt = m.TurnSwitchAt.UnixMilli()
	}
	return resp, nil
}
