// Package app is a small terminal client for the planewars server, mainly
// used to exercise the API during development.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/wojtekolesinski/planewars/client"
	"github.com/wojtekolesinski/planewars/game"
	"github.com/wojtekolesinski/planewars/models"
)

type App struct {
	client     *client.Client
	gameID     string
	playerSide string
	gridSize   int
	playerName string
}

func New(c *client.Client) *App {
	return &App{client: c}
}

func (a *App) Run() error {
	a.playerName = promptLine("Insert your name (leave blank to get one assigned): ")
	for {
		choice := a.displayMenu()
		var err error
		switch choice {
		case 1:
			err = a.runSolo()
		case 2:
			err = a.runVersusCPU()
		case 3:
			err = a.runLanHost()
		case 4:
			err = a.runLanJoin()
		case 5:
			return nil
		}
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				printInfo("The server forgot this game, back to the menu.")
				continue
			}
			return err
		}
	}
}

// shoot retries through cooldown rejections so the caller only sees real
// outcomes.
func (a *App) shoot(req models.ShootRequest) (models.ShootResponse, error) {
	for {
		answer, err := a.client.Shoot(a.gameID, req)
		var rate *client.RateLimitedError
		if errors.As(err, &rate) {
			printInfo(fmt.Sprintf("Cooling down for %ds...", rate.CooldownRemaining))
			time.Sleep(time.Duration(rate.CooldownRemaining) * time.Second)
			continue
		}
		return answer, err
	}
}

func (a *App) runSolo() error {
	created, err := a.client.CreateGame(models.CreateGameRequest{Difficulty: a.promptDifficulty()})
	if err != nil {
		return fmt.Errorf("client.CreateGame: %w", err)
	}
	a.gameID, a.playerSide, a.gridSize = created.GameID, "", created.GridSize

	var hits, misses []game.Cell
	for {
		fmt.Println(renderBoard(a.gridSize, nil, hits, misses))
		coords := promptLine("Target (e.g. B4, q to reveal and quit): ")
		if coords == "q" {
			revealed, err := a.client.GiveUp(a.gameID, "")
			if err != nil {
				return fmt.Errorf("client.GiveUp: %w", err)
			}
			fmt.Println(renderBoard(a.gridSize, revealedPlanes(revealed), hits, misses))
			return nil
		}
		row, col, err := parseCoords(coords, a.gridSize)
		if err != nil {
			printInfo(err.Error())
			continue
		}
		answer, err := a.shoot(models.ShootRequest{Row: &row, Col: &col})
		if err != nil {
			printInfo(err.Error())
			continue
		}
		hits, misses = answer.Hits, answer.Misses
		printInfo("Result: " + answer.Result)
		if answer.GameOver {
			printInfo("All planes down. You win!")
			return nil
		}
	}
}

func (a *App) runVersusCPU() error {
	created, err := a.client.CreateGame(models.CreateGameRequest{
		Difficulty: a.promptDifficulty(),
		VsCpu:      true,
	})
	if err != nil {
		return fmt.Errorf("client.CreateGame: %w", err)
	}
	a.gameID, a.playerSide, a.gridSize = created.GameID, "", created.GridSize

	var oppHits, oppMisses, ownHits, ownMisses []game.Cell
	for {
		fmt.Println("Opponent's board:")
		fmt.Println(renderBoard(a.gridSize, nil, oppHits, oppMisses))
		fmt.Println("Your board:")
		fmt.Println(renderBoard(a.gridSize, nil, ownHits, ownMisses))

		coords := promptLine("Target (e.g. B4): ")
		row, col, err := parseCoords(coords, a.gridSize)
		if err != nil {
			printInfo(err.Error())
			continue
		}
		answer, err := a.shoot(models.ShootRequest{Row: &row, Col: &col})
		if err != nil {
			printInfo(err.Error())
			continue
		}
		oppHits, oppMisses = answer.Hits, answer.Misses
		printInfo("Result: " + answer.Result)
		if answer.GameOver {
			printInfo("All planes down. You win!")
			return nil
		}
		if answer.IsPlayerTurn != nil && *answer.IsPlayerTurn {
			continue
		}

		// scripted opponent keeps shooting until it misses
		for {
			cpu, err := a.client.CPUShoot(a.gameID)
			if err != nil {
				return fmt.Errorf("client.CPUShoot: %w", err)
			}
			ownHits, ownMisses = cpu.PlayerHits, cpu.PlayerMisses
			if cpu.GameOver {
				fmt.Println(renderBoard(a.gridSize, nil, ownHits, ownMisses))
				printInfo("Your last plane is down. You lose.")
				return nil
			}
			if cpu.IsPlayerTurn != nil && *cpu.IsPlayerTurn {
				break
			}
		}
	}
}

func (a *App) runLanHost() error {
	difficulty := a.promptDifficulty()
	password := promptLine("Lobby password (leave blank for none): ")
	planes := randomPlanes(difficulty)

	created, err := a.client.CreateGame(models.CreateGameRequest{
		Difficulty:       difficulty,
		IsLanMultiplayer: true,
		Planes:           planes,
		MinPlayers:       2,
		MaxPlayers:       2,
		Password:         password,
		PlayerName:       a.playerName,
	})
	if err != nil {
		return fmt.Errorf("client.CreateGame: %w", err)
	}
	a.gameID, a.playerSide, a.gridSize = created.GameID, created.PlayerSide, created.GridSize

	printInfo(fmt.Sprintf("Lobby code: %s. Share it with your opponent.", created.LobbyCode))
	makeRequest(func() error { return a.client.HostReady(a.gameID) })

	if err := a.waitForPlaying(); err != nil {
		return err
	}
	return a.lanTurnLoop(planes)
}

func (a *App) runLanJoin() error {
	code := promptLine("Lobby code: ")
	found, err := a.client.Lookup(code)
	if err != nil {
		return fmt.Errorf("client.Lookup: %w", err)
	}

	password := ""
	if found.PasswordRequired {
		password = promptLine("Lobby password: ")
	}
	makeRequest(func() error { return a.client.Joining(found.GameID, a.playerName) })

	planes := randomPlanes(game.DifficultyNameForGridSize(found.GridSize))
	joined, err := a.client.Join(found.GameID, models.JoinRequest{
		Planes:     planes,
		Password:   password,
		PlayerName: a.playerName,
	})
	if err != nil {
		return fmt.Errorf("client.Join: %w", err)
	}
	a.gameID, a.playerSide, a.gridSize = joined.GameID, joined.PlayerSide, joined.GridSize

	makeRequest(func() error { return a.client.JoinerReady(a.gameID, a.playerSide) })
	if err := a.waitForPlaying(); err != nil {
		return err
	}
	return a.lanTurnLoop(planes)
}

func (a *App) waitForPlaying() error {
	for {
		status, err := a.client.Status(a.gameID, a.playerSide)
		if err != nil {
			return fmt.Errorf("client.Status: %w", err)
		}
		if status.Status != "waiting" {
			return nil
		}
		if status.JoiningPlayer != nil {
			printInfo(fmt.Sprintf("%s is joining...", status.JoiningPlayer.Name))
		} else {
			printInfo("Waiting for players...")
		}
		time.Sleep(time.Second)
	}
}

func (a *App) lanTurnLoop(myPlanes []game.Plane) error {
	for {
		status, err := a.client.Status(a.gameID, a.playerSide)
		if err != nil {
			return fmt.Errorf("client.Status: %w", err)
		}

		fmt.Println("Your board:")
		fmt.Println(renderBoard(a.gridSize, myPlanes, status.MyBoardHits, status.MyBoardMisses))
		for _, opp := range status.Opponents {
			fmt.Printf("%s's board:\n", opp.Name)
			fmt.Println(renderBoard(a.gridSize, nil, opp.Hits, opp.Misses))
		}

		if status.GameOver {
			if status.Winner == a.playerSide {
				printInfo("You win!")
			} else {
				printInfo(fmt.Sprintf("Game over. Winner: %s", status.Winner))
			}
			return nil
		}
		if !status.IsMyTurn {
			printInfo(fmt.Sprintf("Waiting for %s...", status.CurrentTurnName))
			time.Sleep(time.Second)
			continue
		}

		target := ""
		if len(status.Opponents) > 1 {
			fmt.Println("Pick a target:")
			idx := promptList(status.Opponents, 0, func(o models.OpponentInfo) string { return o.Name })
			target = status.Opponents[idx].ID
		}
		coords := promptLine("Target (e.g. B4): ")
		row, col, err := parseCoords(coords, a.gridSize)
		if err != nil {
			printInfo(err.Error())
			continue
		}
		answer, err := a.shoot(models.ShootRequest{
			Row:          &row,
			Col:          &col,
			PlayerSide:   a.playerSide,
			TargetPlayer: target,
		})
		if err != nil {
			printInfo(err.Error())
			continue
		}
		printInfo("Result: " + answer.Result)
	}
}

// randomPlanes builds a local random layout to submit as a custom board.
func randomPlanes(difficulty string) []game.Plane {
	return game.NewBoard(game.DifficultyByName(difficulty), nil).Planes
}

func revealedPlanes(revealed models.GiveUpResponse) []game.Plane {
	if len(revealed.PlaneCells) == 0 {
		return nil
	}
	return []game.Plane{{ID: 1, Cells: revealed.PlaneCells, Head: revealed.PlaneCells[0]}}
}
