// Package server exposes the match orchestrator over the HTTP JSON contract
// the mobile client polls.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/wojtekolesinski/planewars/match"
	"github.com/wojtekolesinski/planewars/models"
)

type Server struct {
	orch *match.Orchestrator
}

// New wraps an orchestrator in the HTTP transport.
func New(orch *match.Orchestrator) *Server {
	return &Server{orch: orch}
}

// Handler builds the route table. Clients poll these endpoints; there is no
// push channel.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/debug/games", s.handleDebugGames)
	mux.HandleFunc("/lan/lookup", s.handleLookup)
	mux.HandleFunc("/lan/my-ip", s.handleMyIP)
	mux.HandleFunc("/game", s.handleCreateGame)
	mux.HandleFunc("/game/", s.handleGameAction)
	return corsMiddleware(noStoreMiddleware(s.logMiddleware(mux)))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// noStoreMiddleware keeps polling clients from ever seeing cached state.
func noStoreMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("server [request]",
			"method", r.Method,
			"path", r.URL.Path,
			"games", len(s.orch.AllSessionIDs()),
		)
		next.ServeHTTP(w, r)
	})
}

// handleGameAction routes /game/{id}/{action}.
func (s *Server) handleGameAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/game/")
	gameID, action, found := strings.Cut(rest, "/")
	if !found || gameID == "" {
		writeError(w, match.ErrNotFound)
		return
	}

	switch action {
	case "shoot":
		s.requireMethod(w, r, http.MethodPost, func() { s.handleShoot(w, r, gameID) })
	case "cpu-shoot":
		s.requireMethod(w, r, http.MethodPost, func() { s.handleCPUShoot(w, gameID) })
	case "lan-status":
		s.requireMethod(w, r, http.MethodGet, func() { s.handleLanStatus(w, r, gameID) })
	case "lan-joining":
		s.requireMethod(w, r, http.MethodPost, func() { s.handleLanJoining(w, r, gameID) })
	case "lan-join":
		s.requireMethod(w, r, http.MethodPost, func() { s.handleLanJoin(w, r, gameID) })
	case "lan-host-ready":
		s.requireMethod(w, r, http.MethodPost, func() { s.handleLanHostReady(w, gameID) })
	case "lan-joiner-ready":
		s.requireMethod(w, r, http.MethodPost, func() { s.handleLanJoinerReady(w, r, gameID) })
	case "give-up":
		// both verbs accepted for client convenience
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleGiveUp(w, r, gameID)
	default:
		writeError(w, match.ErrNotFound)
	}
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string, handler func()) {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	handler()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{OK: true})
}

func (s *Server) handleDebugGames(w http.ResponseWriter, _ *http.Request) {
	ids := s.orch.AllSessionIDs()
	writeJSON(w, http.StatusOK, models.DebugGamesResponse{
		ServerPid: os.Getpid(),
		GameCount: len(ids),
		GameIDs:   ids,
	})
}

// handleMyIP reports the first non-loopback IPv4, so a LAN host can share
// its address by hand.
func (s *Server) handleMyIP(w http.ResponseWriter, _ *http.Request) {
	ip := "localhost"
	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if v4 := ipNet.IP.To4(); v4 != nil {
				ip = v4.String()
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, models.MyIPResponse{IP: ip})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req models.CreateGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.orch.CreateGame(req)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info("server [createGame]",
		"gameId", resp.GameID,
		"lobbyCode", resp.LobbyCode,
		"isMatch", resp.IsMatch,
		"isLanMatch", resp.IsLanMatch,
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	resp, err := s.orch.Lookup(strings.ToUpper(r.URL.Query().Get("code")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLanStatus(w http.ResponseWriter, r *http.Request, gameID string) {
	resp, err := s.orch.Status(gameID, r.URL.Query().Get("playerSide"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLanJoining(w http.ResponseWriter, r *http.Request, gameID string) {
	var req models.JoiningRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.orch.Joining(gameID, req.PlayerName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

func (s *Server) handleLanJoin(w http.ResponseWriter, r *http.Request, gameID string) {
	var req models.JoinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.orch.Join(gameID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info("server [lanJoin]", "gameId", gameID, "playerSide", resp.PlayerSide)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLanHostReady(w http.ResponseWriter, gameID string) {
	if err := s.orch.HostReady(gameID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

func (s *Server) handleLanJoinerReady(w http.ResponseWriter, r *http.Request, gameID string) {
	var req models.ReadyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.orch.JoinerReady(gameID, req.PlayerSide); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request, gameID string) {
	var req models.ShootRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.orch.Shoot(gameID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCPUShoot(w http.ResponseWriter, gameID string) {
	resp, err := s.orch.CPUShoot(gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request, gameID string) {
	playerSide := r.URL.Query().Get("playerSide")
	if r.Method == http.MethodPost {
		var req models.ReadyRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.PlayerSide != "" {
			playerSide = req.PlayerSide
		}
	}
	resp, err := s.orch.GiveUp(gameID, playerSide)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeBody parses a JSON request body, tolerating an empty one. It writes
// a 400 and returns false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid json body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("server [writeJSON]", "err", err)
	}
}

// writeError maps orchestrator errors onto the HTTP error contract.
func writeError(w http.ResponseWriter, err error) {
	var rateErr *match.RateLimitError
	var reqErr *match.RequestError
	switch {
	case errors.Is(err, match.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error: "Game not found",
			Hint:  "Server may have restarted. Create a new game.",
		})
	case errors.Is(err, match.ErrWrongPassword):
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid password"})
	case errors.As(err, &rateErr):
		seconds := rateErr.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeJSON(w, http.StatusTooManyRequests, models.ErrorResponse{
			Error:             "Wait before next shot",
			RetryAfterMs:      rateErr.Remaining.Milliseconds(),
			CooldownRemaining: seconds,
		})
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: reqErr.Msg})
	default:
		log.Error("server [writeError]", "err", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
	}
}
