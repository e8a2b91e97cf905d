package emulator

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/status"
)

// CloudConfig describes the emulated account and its devices.
type CloudConfig struct {
	Email       string
	Password    string
	TokenSecret []byte
	// Devices are listed as given; aliases of supported types are
	// base64-encoded on the wire.
	Devices []domain.DirectoryEntry
}

// Cloud is an emulated device directory.
type Cloud struct {
	cfg       CloudConfig
	tokens    *Tokens
	metrics   *metrics
	log       zerolog.Logger
	router    chi.Router
	accountID string

	mu        sync.Mutex
	terminals map[string]struct{}
}

// NewCloud builds an emulated cloud directory.
func NewCloud(cfg CloudConfig, log zerolog.Logger) *Cloud {
	c := &Cloud{
		cfg:       cfg,
		tokens:    NewTokens(cfg.TokenSecret, 0, "tapo-emulator/cloud"),
		metrics:   newMetrics("cloud", "login", "getDeviceList"),
		log:       log.With().Str("component", "emulator.cloud").Logger(),
		accountID: uuid.NewString(),
		terminals: make(map[string]struct{}),
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/", c.handle)
	r.Handle("/metrics", c.metrics.handler())
	c.router = r
	return c
}

// ServeHTTP implements http.Handler.
func (c *Cloud) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.router.ServeHTTP(w, r)
}

// Terminals returns how many distinct terminal UUIDs have logged in.
func (c *Cloud) Terminals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.terminals)
}

// RevokeTokens makes every issued token answer -20675.
func (c *Cloud) RevokeTokens() { c.tokens.Revoke() }

type cloudLogin struct {
	AppType       string `json:"appType"`
	CloudUserName string `json:"cloudUserName"`
	CloudPassword string `json:"cloudPassword"`
	TerminalUUID  string `json:"terminalUUID"`
}

func (c *Cloud) handle(w http.ResponseWriter, r *http.Request) {
	var req envelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.write(w, status.MalformedPayload, nil)
		return
	}
	c.metrics.countRequest(req.Method)

	switch req.Method {
	case "login":
		c.login(w, req.Params)
	case "getDeviceList":
		c.deviceList(w, r.URL.Query().Get("token"))
	default:
		c.write(w, status.MalformedRequest, nil)
	}
}

func (c *Cloud) login(w http.ResponseWriter, params json.RawMessage) {
	var p cloudLogin
	if err := json.Unmarshal(params, &p); err != nil {
		c.write(w, status.MalformedPayload, nil)
		return
	}
	if p.CloudUserName != c.cfg.Email || p.CloudPassword != c.cfg.Password {
		c.write(w, status.BadCloudCredentials, nil)
		return
	}
	token, err := c.tokens.Issue(c.accountID)
	if err != nil {
		c.write(w, internalError, nil)
		return
	}
	c.mu.Lock()
	c.terminals[p.TerminalUUID] = struct{}{}
	c.mu.Unlock()
	c.write(w, status.OK, map[string]string{
		"accountId": c.accountID,
		"email":     c.cfg.Email,
		"token":     token,
	})
}

func (c *Cloud) deviceList(w http.ResponseWriter, token string) {
	if _, err := c.tokens.Validate(token); err != nil {
		c.write(w, status.CloudTokenExpired, nil)
		return
	}
	list := make([]domain.DirectoryEntry, len(c.cfg.Devices))
	for i, e := range c.cfg.Devices {
		if e.DeviceType.Supported() {
			e.Alias = crypto.B64([]byte(e.Alias))
		}
		list[i] = e
	}
	c.write(w, status.OK, map[string]any{"deviceList": list})
}

func (c *Cloud) write(w http.ResponseWriter, code status.Code, result any) {
	if code != status.OK {
		c.metrics.rejections.WithLabelValues(strconv.Itoa(int(code))).Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reply{ErrorCode: code, Result: result}); err != nil {
		c.log.Warn().Err(err).Msg("write reply")
	}
}
