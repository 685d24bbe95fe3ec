// Package sms envía mensajes a productores por el gateway REST de FDI.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jhoicas/cooperativa-lactea-api/pkg/config"
)

// ErrDisabled faltan credenciales del gateway.
var ErrDisabled = errors.New("sms: gateway deshabilitado (sin credenciales)")

// tokenMargin un token que vence antes de este margen se renueva.
const tokenMargin = 60 * time.Second

// Client adaptador del gateway FDI: autenticación con token Bearer y envío individual.
// Es seguro para uso concurrente.
type Client struct {
	cfg        config.SMSConfig
	httpClient *http.Client
	tokens     *tokenCache
	now        func() time.Time
}

// NewClient construye el adaptador. cfg.Timeout aplica a cada llamada HTTP.
func NewClient(cfg config.SMSConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     &tokenCache{},
		now:        time.Now,
	}
}

// ── Estructuras internas del protocolo FDI ────────────────────────────────────

type authRequest struct {
	Username string `json:"api_username"`
	Password string `json:"api_password"`
}

type authResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   json.RawMessage `json:"expires_at"`
}

type sendRequest struct {
	MSISDN     string `json:"msisdn"`
	Message    string `json:"message"`
	MsgRef     string `json:"msgRef"`
	SourceAddr string `json:"source_addr"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ── Caché del token ───────────────────────────────────────────────────────────

// tokenCache guarda el último token y su vencimiento.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// valid devuelve el token si vence después de now + tokenMargin.
func (c *tokenCache) valid(now time.Time) (string, bool) {
	if c.token == "" || !c.expiresAt.After(now.Add(tokenMargin)) {
		return "", false
	}
	return c.token, true
}

func (c *tokenCache) invalidate() {
	c.mu.Lock()
	c.token, c.expiresAt = "", time.Time{}
	c.mu.Unlock()
}

// ── Envío ─────────────────────────────────────────────────────────────────────

// Send envía message al teléfono del productor. Un 401 del gateway invalida el token
// y se reintenta una vez con uno nuevo.
func (c *Client) Send(ctx context.Context, phone, message string) error {
	if !c.cfg.Enabled() {
		return ErrDisabled
	}
	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	for attempt := 0; ; attempt++ {
		token, err := c.token(ctx)
		if err != nil {
			return err
		}
		status, err := c.send(ctx, token, msisdn, message)
		if status == http.StatusUnauthorized && attempt == 0 {
			c.tokens.invalidate()
			continue
		}
		return err
	}
}

func (c *Client) send(ctx context.Context, token, msisdn, message string) (int, error) {
	payload := sendRequest{
		MSISDN:     msisdn,
		Message:    message,
		MsgRef:     "MSG-" + strconv.FormatInt(c.now().UnixMilli(), 10),
		SourceAddr: c.cfg.SenderID,
	}
	resp, body, err := c.postJSON(ctx, c.cfg.SendURL, token, payload)
	if err != nil {
		return 0, fmt.Errorf("sms: envío: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("sms: envío HTTP %d: %s", resp.StatusCode, gatewayMessage(body))
	}
	return resp.StatusCode, nil
}

// token devuelve el token en caché o se autentica. El lock se mantiene durante la
// autenticación para que envíos concurrentes no pidan varios tokens a la vez.
func (c *Client) token(ctx context.Context) (string, error) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	now := c.now()
	if token, ok := c.tokens.valid(now); ok {
		return token, nil
	}
	resp, body, err := c.postJSON(ctx, c.cfg.AuthURL, "", authRequest{Username: c.cfg.Username, Password: c.cfg.Password})
	if err != nil {
		return "", fmt.Errorf("sms: autenticación: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sms: autenticación HTTP %d: %s", resp.StatusCode, gatewayMessage(body))
	}
	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("sms: respuesta de autenticación: %w", err)
	}
	if auth.AccessToken == "" {
		return "", errors.New("sms: el gateway no devolvió access_token")
	}
	c.tokens.token = auth.AccessToken
	c.tokens.expiresAt = parseExpiry(auth.ExpiresAt)
	return auth.AccessToken, nil
}

func (c *Client) postJSON(ctx context.Context, url, token string, payload any) (*http.Response, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// parseExpiry acepta expires_at como fecha (RFC 3339 o "2006-01-02 15:04:05") o como epoch
// en segundos o milisegundos. Un valor no reconocido deja el token sin caché.
func parseExpiry(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return epoch(n)
		}
		return time.Time{}
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return epoch(n)
	}
	return time.Time{}
}

func epoch(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

func gatewayMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
