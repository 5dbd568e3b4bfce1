// Package client is a polling HTTP client for the planewars game API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"github.com/wojtekolesinski/planewars/models"
)

var (
	ErrNotFound     = errors.New("game not found")
	ErrUnauthorized = errors.New("invalid password")
)

// RateLimitedError is returned for a 429; CooldownRemaining tells the
// caller how many seconds to back off.
type RateLimitedError struct {
	CooldownRemaining int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %ds", e.CooldownRemaining)
}

// APIError carries the server's machine-readable error string for any other
// rejected request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	client  http.Client
	baseUrl string
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl: baseUrl,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) CreateGame(req models.CreateGameRequest) (created models.CreateGameResponse, err error) {
	slog.Info("client [CreateGame]", slog.String("difficulty", req.Difficulty), slog.Bool("lan", req.IsLanMultiplayer))
	err = c.post("/game", req, &created)
	return
}

func (c *Client) Lookup(code string) (found models.LookupResponse, err error) {
	slog.Info("client [Lookup]", slog.String("code", code))
	err = c.get("/lan/lookup", url.Values{"code": {code}}, &found)
	return
}

func (c *Client) Joining(gameID, playerName string) error {
	slog.Info("client [Joining]", slog.String("gameId", gameID))
	var ok models.OKResponse
	return c.post("/game/"+gameID+"/lan-joining", models.JoiningRequest{PlayerName: playerName}, &ok)
}

func (c *Client) Join(gameID string, req models.JoinRequest) (joined models.JoinResponse, err error) {
	slog.Info("client [Join]", slog.String("gameId", gameID), slog.String("playerName", req.PlayerName))
	err = c.post("/game/"+gameID+"/lan-join", req, &joined)
	return
}

func (c *Client) HostReady(gameID string) error {
	slog.Info("client [HostReady]", slog.String("gameId", gameID))
	var ok models.OKResponse
	return c.post("/game/"+gameID+"/lan-host-ready", struct{}{}, &ok)
}

func (c *Client) JoinerReady(gameID, playerSide string) error {
	slog.Info("client [JoinerReady]", slog.String("gameId", gameID), slog.String("playerSide", playerSide))
	var ok models.OKResponse
	return c.post("/game/"+gameID+"/lan-joiner-ready", models.ReadyRequest{PlayerSide: playerSide}, &ok)
}

func (c *Client) Status(gameID, playerSide string) (status models.LanStatusResponse, err error) {
	err = c.get("/game/"+gameID+"/lan-status", url.Values{"playerSide": {playerSide}}, &status)
	return
}

func (c *Client) Shoot(gameID string, req models.ShootRequest) (answer models.ShootResponse, err error) {
	slog.Info("client [Shoot]", slog.String("gameId", gameID), slog.Any("row", req.Row), slog.Any("col", req.Col))
	err = c.post("/game/"+gameID+"/shoot", req, &answer)
	return
}

func (c *Client) CPUShoot(gameID string) (answer models.CPUShootResponse, err error) {
	slog.Info("client [CPUShoot]", slog.String("gameId", gameID))
	err = c.post("/game/"+gameID+"/cpu-shoot", struct{}{}, &answer)
	return
}

func (c *Client) GiveUp(gameID, playerSide string) (revealed models.GiveUpResponse, err error) {
	slog.Info("client [GiveUp]", slog.String("gameId", gameID))
	err = c.post("/game/"+gameID+"/give-up", models.ReadyRequest{PlayerSide: playerSide}, &revealed)
	return
}

func (c *Client) post(path string, payload, out any) error {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	fullUrl, err := url.JoinPath(c.baseUrl, path)
	if err != nil {
		return err
	}

	res, err := c.client.Post(fullUrl, "application/json", bytes.NewReader(payloadJson))
	if err != nil {
		return err
	}
	return c.handleResponse(path, res, out)
}

// get joins path onto the base url and attaches query separately; JoinPath
// would percent-escape a "?" embedded in the path.
func (c *Client) get(path string, query url.Values, out any) error {
	fullUrl, err := url.JoinPath(c.baseUrl, path)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		fullUrl += "?" + query.Encode()
	}

	res, err := c.client.Get(fullUrl)
	if err != nil {
		return err
	}
	return c.handleResponse(path, res, out)
}

func (c *Client) handleResponse(path string, res *http.Response, out any) error {
	defer res.Body.Close()
	slog.Info("client [response]", slog.String("path", path), slog.Int("statusCode", res.StatusCode))

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode == http.StatusOK {
		return json.Unmarshal(body, out)
	}

	var apiErr models.ErrorResponse
	if err = json.Unmarshal(body, &apiErr); err != nil {
		return &APIError{StatusCode: res.StatusCode, Message: string(body)}
	}
	switch res.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return &RateLimitedError{CooldownRemaining: apiErr.CooldownRemaining}
	default:
		return &APIError{StatusCode: res.StatusCode, Message: apiErr.Error}
	}
}
