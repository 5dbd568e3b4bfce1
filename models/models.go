// Package models holds the JSON request and response shapes of the game
// API.
package models

import "github.com/wojtekolesinski/planewars/game"

type CreateGameRequest struct {
	Difficulty       string       `json:"difficulty,omitempty"`
	Planes           []game.Plane `json:"planes,omitempty"`
	VsCpu            bool         `json:"vsCpu,omitempty"`
	IsLanMultiplayer bool         `json:"isLanMultiplayer,omitempty"`
	Password         string       `json:"password,omitempty"`
	MinPlayers       int          `json:"minPlayers,omitempty"`
	MaxPlayers       int          `json:"maxPlayers,omitempty"`
	PlayerName       string       `json:"playerName,omitempty"`
}

type CreateGameResponse struct {
	GameID     string `json:"gameId"`
	GridSize   int    `json:"gridSize"`
	NumPlanes  int    `json:"numPlanes"`
	IsMatch    bool   `json:"isMatch,omitempty"`
	IsLanMatch bool   `json:"isLanMatch,omitempty"`
	LobbyCode  string `json:"lobbyCode,omitempty"`
	PlayerSide string `json:"playerSide,omitempty"`
}

type LookupResponse struct {
	GameID           string `json:"gameId"`
	GridSize         int    `json:"gridSize"`
	NumPlanes        int    `json:"numPlanes"`
	PasswordRequired bool   `json:"passwordRequired"`
	MaxPlayers       int    `json:"maxPlayers"`
	PlayerCount      int    `json:"playerCount"`
}

type JoiningRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinRequest struct {
	Planes     []game.Plane `json:"planes"`
	Password   string       `json:"password,omitempty"`
	PlayerName string       `json:"playerName,omitempty"`
}

type JoinResponse struct {
	GameID     string `json:"gameId"`
	GridSize   int    `json:"gridSize"`
	NumPlanes  int    `json:"numPlanes"`
	IsLanMatch bool   `json:"isLanMatch"`
	PlayerSide string `json:"playerSide"`
}

type ReadyRequest struct {
	PlayerSide string `json:"playerSide,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}

type OpponentInfo struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Hits   []game.Cell `json:"hits"`
	Misses []game.Cell `json:"misses"`
}

type JoiningPlayerInfo struct {
	Name string `json:"name"`
	At   int64  `json:"at"`
}

type LanStatusResponse struct {
	Status          string             `json:"status"`
	CurrentTurn     string             `json:"currentTurn"`
	CurrentTurnName string             `json:"currentTurnName"`
	AllPlayers      []PlayerInfo       `json:"allPlayers"`
	IsMyTurn        bool               `json:"isMyTurn"`
	GameOver        bool               `json:"gameOver"`
	Winner          string             `json:"winner,omitempty"`
	Opponents       []OpponentInfo     `json:"opponents"`
	MyBoardHits     []game.Cell        `json:"myBoardHits"`
	MyBoardMisses   []game.Cell        `json:"myBoardMisses"`
	HostReady       bool               `json:"hostReady"`
	AllReady        bool               `json:"allReady"`
	JoiningPlayer   *JoiningPlayerInfo `json:"joiningPlayer,omitempty"`
	TurnOrder       []string           `json:"turnOrder"`
	TurnSwitchAt    int64              `json:"turnSwitchAt,omitempty"`
}

type ShootRequest struct {
	Row          *int   `json:"row"`
	Col          *int   `json:"col"`
	PlayerSide   string `json:"playerSide,omitempty"`
	TargetPlayer string `json:"targetPlayer,omitempty"`
}

type ShootResponse struct {
	Result            string      `json:"result"`
	Cell              game.Cell   `json:"cell"`
	SunkPlaneID       int         `json:"sunkPlaneId,omitempty"`
	SunkPlaneIDs      []int       `json:"sunkPlaneIds"`
	GameOver          bool        `json:"gameOver"`
	Hits              []game.Cell `json:"hits"`
	Misses            []game.Cell `json:"misses"`
	IsPlayerTurn      *bool       `json:"isPlayerTurn,omitempty"`
	CooldownRemaining int         `json:"cooldownRemaining"`
	TurnSwitchAt      int64       `json:"turnSwitchAt,omitempty"`
	NextTurnName      string      `json:"nextTurnName,omitempty"`
}

type CPUShootResponse struct {
	ShootResponse
	PlayerHits   []game.Cell `json:"playerHits"`
	PlayerMisses []game.Cell `json:"playerMisses"`
}

type GiveUpResponse struct {
	PlaneCells []game.Cell `json:"planeCells"`
}

type ErrorResponse struct {
	Error             string `json:"error"`
	Hint              string `json:"hint,omitempty"`
	RetryAfterMs      int64  `json:"retryAfterMs,omitempty"`
	CooldownRemaining int    `json:"cooldownRemaining,omitempty"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type DebugGamesResponse struct {
	ServerPid int      `json:"serverPid"`
	GameCount int      `json:"gameCount"`
	GameIDs   []string `json:"gameIds"`
}

type MyIPResponse struct {
	IP string `json:"ip"`
}
