package sms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cooperativa-lactea-api/internal/infrastructure/sms"
	"github.com/jhoicas/cooperativa-lactea-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Gateway FDI falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu         sync.Mutex
	authCalls  int
	sendCalls  int
	tokenTTL   time.Duration
	reject401  int // cantidad de envíos que responden 401
	failStatus int
	lastAuth   map[string]string
	lastSend   map[string]string
	lastBearer string
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.authCalls++
		_ = json.NewDecoder(r.Body).Decode(&g.lastAuth)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-" + string(rune('0'+g.authCalls)),
			"expires_at":   time.Now().Add(g.tokenTTL).UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/mt/single", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.sendCalls++
		g.lastBearer = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&g.lastSend)
		if g.reject401 > 0 {
			g.reject401--
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token expired"}`))
			return
		}
		if g.failStatus != 0 {
			w.WriteHeader(g.failStatus)
			_, _ = w.Write([]byte(`{"message":"insufficient balance"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	return mux
}

func newGateway(t *testing.T, g *fakeGateway) *sms.Client {
	t.Helper()
	if g.tokenTTL == 0 {
		g.tokenTTL = time.Hour
	}
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)
	return sms.NewClient(config.SMSConfig{
		Username: "coop",
		Password: "secret",
		SenderID: "COOP",
		AuthURL:  srv.URL + "/auth/",
		SendURL:  srv.URL + "/mt/single",
		Timeout:  2 * time.Second,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestSend_ReutilizaTokenEnCache(t *testing.T) {
	g := &fakeGateway{}
	c := newGateway(t, g)
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, "0788 123 456", "hola"))
	require.NoError(t, c.Send(ctx, "+250 722 123 456", "hola otra vez"))

	assert.Equal(t, 1, g.authCalls, "el token vigente se reutiliza")
	assert.Equal(t, 2, g.sendCalls)
	assert.Equal(t, "coop", g.lastAuth["api_username"])
	assert.Equal(t, "secret", g.lastAuth["api_password"])

	assert.Equal(t, "Bearer tok-1", g.lastBearer)
	assert.Equal(t, "250722123456", g.lastSend["msisdn"])
	assert.Equal(t, "hola otra vez", g.lastSend["message"])
	assert.Equal(t, "COOP", g.lastSend["source_addr"])
	assert.True(t, strings.HasPrefix(g.lastSend["msgRef"], "MSG-"))
}

// Un token que vence dentro del margen se renueva antes de usarlo.
func TestSend_TokenPorVencerSeRenueva(t *testing.T) {
	g := &fakeGateway{tokenTTL: 30 * time.Second}
	c := newGateway(t, g)
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, "0788123456", "a"))
	require.NoError(t, c.Send(ctx, "0788123456", "b"))
	assert.Equal(t, 2, g.authCalls)
}

func TestSend_401RenuevaTokenYReintentaUnaVez(t *testing.T) {
	g := &fakeGateway{reject401: 1}
	c := newGateway(t, g)

	require.NoError(t, c.Send(context.Background(), "0788123456", "hola"))
	assert.Equal(t, 2, g.authCalls)
	assert.Equal(t, 2, g.sendCalls)
	assert.Equal(t, "Bearer tok-2", g.lastBearer)
}

func TestSend_401PersistenteDevuelveError(t *testing.T) {
	g := &fakeGateway{reject401: 5}
	c := newGateway(t, g)

	err := c.Send(context.Background(), "0788123456", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 2, g.sendCalls, "solo un reintento")
}

func TestSend_ErrorDelGateway(t *testing.T) {
	g := &fakeGateway{failStatus: http.StatusPaymentRequired}
	c := newGateway(t, g)

	err := c.Send(context.Background(), "0788123456", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestSend_TelefonoInvalidoNoLlamaAlGateway(t *testing.T) {
	g := &fakeGateway{}
	c := newGateway(t, g)

	err := c.Send(context.Background(), "0688123456", "hola")
	assert.ErrorIs(t, err, sms.ErrInvalidPhone)
	assert.Zero(t, g.authCalls)
	assert.Zero(t, g.sendCalls)
}

func TestSend_SinCredenciales(t *testing.T) {
	c := sms.NewClient(config.SMSConfig{SendURL: "http://127.0.0.1:1"})
	assert.ErrorIs(t, c.Send(context.Background(), "0788123456", "hola"), sms.ErrDisabled)
}

func TestSend_ConcurrenteAutenticaUnaVez(t *testing.T) {
	g := &fakeGateway{}
	c := newGateway(t, g)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Send(context.Background(), "0788123456", "hola"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, g.authCalls)
	assert.Equal(t, 8, g.sendCalls)
}
