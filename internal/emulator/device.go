package emulator

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tapoctl/internal/crypto"
	"tapoctl/internal/domain"
	"tapoctl/internal/protocol/command"
	"tapoctl/internal/protocol/status"
)

// SessionCookieName is the cookie a device hands out on handshake.
const SessionCookieName = "TP_SESSIONID"

const internalError status.Code = -1

// DeviceConfig describes one emulated device.
type DeviceConfig struct {
	Email       string
	Password    string
	TokenSecret []byte
	TokenTTL    time.Duration
	// Info is the initial state. Nickname and SSID are plain text.
	Info domain.DeviceInfo
	// Latency is added to every passthrough request.
	Latency time.Duration
}

// Device is an emulated plug or bulb.
type Device struct {
	cfg     DeviceConfig
	tokens  *Tokens
	metrics *metrics
	log     zerolog.Logger
	router  chi.Router

	mu       sync.Mutex
	sessions map[string]domain.SessionKey
	state    domain.DeviceInfo

	inFlight atomic.Int64
	peak     atomic.Int64
}

// NewDevice builds an emulated device.
func NewDevice(cfg DeviceConfig, log zerolog.Logger) *Device {
	d := &Device{
		cfg:      cfg,
		tokens:   NewTokens(cfg.TokenSecret, cfg.TokenTTL, "tapo-emulator/device"),
		metrics:  newMetrics("device", command.MethodHandshake, command.MethodSecurePassthrough),
		log:      log.With().Str("component", "emulator.device").Logger(),
		sessions: make(map[string]domain.SessionKey),
		state:    cfg.Info,
	}
	if d.state.DeviceID == "" {
		d.state.DeviceID = uuid.NewString()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.With(d.track).Post("/app", d.handleApp)
	r.Handle("/metrics", d.metrics.handler())
	d.router = r
	return d
}

// ServeHTTP implements http.Handler.
func (d *Device) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

// Peak is the highest number of requests served at once so far.
func (d *Device) Peak() int { return int(d.peak.Load()) }

// State returns the current device state with plain text fields.
func (d *Device) State() domain.DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// RevokeTokens makes every issued token answer 9999.
func (d *Device) RevokeTokens() { d.tokens.Revoke() }

func (d *Device) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := d.inFlight.Add(1)
		d.metrics.inFlight.Inc()
		defer func() {
			d.inFlight.Add(-1)
			d.metrics.inFlight.Dec()
		}()
		for {
			p := d.peak.Load()
			if n <= p || d.peak.CompareAndSwap(p, n) {
				break
			}
		}
		if d.cfg.Latency > 0 {
			time.Sleep(d.cfg.Latency)
		}
		next.ServeHTTP(w, r)
	})
}

type envelope struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type reply struct {
	ErrorCode status.Code `json:"error_code"`
	Result    any         `json:"result,omitempty"`
}

func (d *Device) handleApp(w http.ResponseWriter, r *http.Request) {
	var req envelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		d.writeReply(w, status.MalformedPayload, nil)
		return
	}
	d.metrics.countRequest(req.Method)

	switch req.Method {
	case command.MethodHandshake:
		d.handshake(w, req.Params)
	case command.MethodSecurePassthrough:
		d.passthrough(w, r, req.Params)
	default:
		d.writeReply(w, status.MalformedRequest, nil)
	}
}

func (d *Device) handshake(w http.ResponseWriter, params json.RawMessage) {
	var p struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		d.writeReply(w, status.MalformedPayload, nil)
		return
	}

	var key domain.SessionKey
	if _, err := rand.Read(key.Key[:]); err != nil {
		d.writeReply(w, internalError, nil)
		return
	}
	if _, err := rand.Read(key.IV[:]); err != nil {
		d.writeReply(w, internalError, nil)
		return
	}
	blob, err := crypto.SealSessionKey(p.Key, key)
	if err != nil {
		d.log.Debug().Err(err).Msg("rejecting public key")
		d.writeReply(w, status.InvalidPublicKeyLength, nil)
		return
	}

	id := uuid.NewString()
	d.mu.Lock()
	d.sessions[id] = key
	d.mu.Unlock()
	d.metrics.handshakes.Inc()

	w.Header().Add("Set-Cookie", SessionCookieName+"="+id+";TIMEOUT=1440")
	d.writeReply(w, status.OK, map[string]string{"key": blob})
}

func (d *Device) passthrough(w http.ResponseWriter, r *http.Request, params json.RawMessage) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		d.writeReply(w, status.MalformedRequest, nil)
		return
	}
	d.mu.Lock()
	key, ok := d.sessions[c.Value]
	d.mu.Unlock()
	if !ok {
		d.writeReply(w, status.MalformedRequest, nil)
		return
	}

	var p struct {
		Request string `json:"request"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		d.writeReply(w, status.MalformedPayload, nil)
		return
	}
	plain, err := crypto.DecryptEnvelope(p.Request, key)
	if err != nil {
		d.writeReply(w, status.MalformedPayload, nil)
		return
	}
	var inner envelope
	if err := json.Unmarshal(plain, &inner); err != nil {
		d.writeReply(w, status.MalformedPayload, nil)
		return
	}

	out := d.dispatch(c.Value, r.URL.Query().Get("token"), inner)
	if out.ErrorCode != status.OK {
		d.metrics.rejections.WithLabelValues(strconv.Itoa(int(out.ErrorCode))).Inc()
	}
	ct, err := crypto.EncryptEnvelope(out, key)
	if err != nil {
		d.writeReply(w, internalError, nil)
		return
	}
	d.writeReply(w, status.OK, map[string]string{"response": ct})
}

func (d *Device) dispatch(session, token string, req envelope) reply {
	if req.Method == command.MethodLoginDevice {
		return d.login(session, req.Params)
	}
	claims, err := d.tokens.Validate(token)
	if err != nil || claims.Session != session {
		return reply{ErrorCode: status.DeviceTokenExpired}
	}

	switch req.Method {
	case command.MethodSetDeviceInfo:
		return d.update(req.Params)
	case command.MethodGetDeviceInfo:
		return reply{Result: d.snapshot()}
	default:
		return reply{ErrorCode: status.MalformedRequest}
	}
}

func (d *Device) login(session string, params json.RawMessage) reply {
	var p command.LoginDevice
	if err := json.Unmarshal(params, &p); err != nil {
		return reply{ErrorCode: status.MalformedPayload}
	}
	if p.Username != crypto.B64(crypto.HashIdentity(d.cfg.Email)) ||
		p.Password != crypto.B64([]byte(d.cfg.Password)) {
		return reply{ErrorCode: status.InvalidCredentials}
	}
	token, err := d.tokens.Issue(session)
	if err != nil {
		return reply{ErrorCode: internalError}
	}
	return reply{Result: map[string]string{"token": token}}
}

type update struct {
	DeviceOn   *bool `json:"device_on"`
	Brightness *int  `json:"brightness"`
	Hue        *int  `json:"hue"`
	Saturation *int  `json:"saturation"`
	ColorTemp  *int  `json:"color_temp"`
}

func (d *Device) update(params json.RawMessage) reply {
	var u update
	if err := json.Unmarshal(params, &u); err != nil {
		return reply{ErrorCode: status.MalformedPayload}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if u.DeviceOn != nil {
		d.state.DeviceOn = *u.DeviceOn
	}
	if u.Brightness != nil {
		d.state.Brightness = *u.Brightness
	}
	if u.Hue != nil {
		d.state.Hue = *u.Hue
	}
	if u.Saturation != nil {
		d.state.Saturation = *u.Saturation
	}
	if u.ColorTemp != nil {
		d.state.ColorTemp = *u.ColorTemp
	}
	return reply{}
}

// snapshot is the wire form of the state: text fields are base64.
func (d *Device) snapshot() domain.DeviceInfo {
	info := d.State()
	info.Nickname = crypto.B64([]byte(info.Nickname))
	info.SSID = crypto.B64([]byte(info.SSID))
	return info
}

func (d *Device) writeReply(w http.ResponseWriter, code status.Code, result any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reply{ErrorCode: code, Result: result}); err != nil {
		d.log.Warn().Err(err).Msg("write reply")
	}
}
