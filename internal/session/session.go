package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"livestock-client/internal/platform/apierr"
	"livestock-client/internal/platform/httpclient"
	"livestock-client/internal/platform/logger"
	"livestock-client/internal/platform/validate"
	"livestock-client/internal/ports/storage"
)

var ErrNotAuthenticated = errors.New("session: not authenticated")

// Store es el estado de autenticación del cliente:
// anonymous -> authenticating -> authenticated -> anonymous.
//
// Persiste user y tokens en el almacenamiento durable (records "user" y
// "tokens") y se rehidrata sincrónicamente al construirse. El teardown
// limpia las tres cosas: user en memoria, tokens en memoria y los records
// durables — un teardown parcial es un bug.
//
// Implementa httpclient.TokenSource: entrega el access token vigente y
// sabe renovarlo. La renovación usa un client pelado (sin TokenSource)
// para que el refresh nunca se reintente a sí mismo.
type Store struct {
	raw   *httpclient.Client // login/register/refresh: sin bearer automático
	api   *httpclient.Client // resto de endpoints: bearer + refresh-retry
	creds storage.Credentials
	log   logger.Logger
	now   func() time.Time

	mu      sync.Mutex
	user    *User
	tokens  *Tokens
	status  Status
	loading bool
	err     *apierr.Error
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Creds   storage.Credentials
	Log     logger.Logger
}

func New(cfg Config) (*Store, error) {
	raw, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	authed, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	s := &Store{
		raw:    raw,
		api:    authed,
		creds:  cfg.Creds,
		log:    log.With(map[string]any{"store": "session"}),
		now:    time.Now,
		status: StatusAnonymous,
	}
	authed.Tokens = s

	s.rehydrate()
	return s, nil
}

// HTTP devuelve el client autenticado que comparten los resource gateways.
func (s *Store) HTTP() *httpclient.Client { return s.api }

// rehydrate lee el almacenamiento durable al arrancar. Sin credenciales
// guardadas, la sesión arranca anonymous.
func (s *Store) rehydrate() {
	if s.creds == nil {
		return
	}

	var user User
	if b, err := s.creds.Get(storage.KeyUser); err == nil {
		if err := json.Unmarshal(b, &user); err == nil && user.Username != "" {
			s.user = &user
		}
	}

	var tokens Tokens
	if b, err := s.creds.Get(storage.KeyTokens); err == nil {
		if err := json.Unmarshal(b, &tokens); err == nil && tokens.Access != "" {
			s.tokens = &tokens
		}
	}

	// Igual que el original: autenticado = hay user guardado.
	if s.user != nil {
		s.status = StatusAuthenticated
	}
}

type authResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Login autentica y persiste user+tokens. En fallo queda anonymous y el
// error del backend queda registrado.
func (s *Store) Login(ctx context.Context, in Credentials) (*User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, s.fail("login", err)
	}
	s.begin(StatusAuthenticating)

	var out authResponse
	if err := s.raw.DoJSON(ctx, http.MethodPost, "/auth/login/", nil, in, &out); err != nil {
		s.mu.Lock()
		s.status = StatusAnonymous
		s.mu.Unlock()
		return nil, s.fail("login", err)
	}

	s.establish(out)
	return s.User(), nil
}

// Register crea la cuenta y deja la sesión autenticada (el backend
// devuelve user+tokens igual que login).
func (s *Store) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, s.fail("register", err)
	}
	s.begin(StatusAuthenticating)

	var out authResponse
	if err := s.raw.DoJSON(ctx, http.MethodPost, "/auth/register/", nil, in, &out); err != nil {
		s.mu.Lock()
		s.status = StatusAnonymous
		s.mu.Unlock()
		return nil, s.fail("register", err)
	}

	s.establish(out)
	return s.User(), nil
}

func (s *Store) establish(out authResponse) {
	s.persistUser(out.User)
	s.persistTokens(out.Tokens)

	s.mu.Lock()
	u := out.User
	t := out.Tokens
	s.user = &u
	s.tokens = &t
	s.status = StatusAuthenticated
	s.loading = false
	s.err = nil
	s.mu.Unlock()
}

// Logout avisa al backend (best-effort) y SIEMPRE hace teardown local.
// Un logout nunca falla por un problema de red: el usuario no puede quedar
// atrapado en una UI autenticada.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	var refresh string
	if s.tokens != nil {
		refresh = s.tokens.Refresh
	}
	s.mu.Unlock()

	if refresh != "" {
		body := map[string]string{"refresh_token": refresh}
		if err := s.api.DoJSON(ctx, http.MethodPost, "/auth/logout/", nil, body, nil); err != nil {
			s.log.Warn("logout notify failed, clearing locally anyway", map[string]any{"error": err.Error()})
		}
	}

	s.teardown()
}

// GetCurrentUser refresca el perfil desde el backend. Si falla (token
// vencido/inválido), fuerza el teardown completo: es la única transición
// involuntaria de vuelta a anonymous.
func (s *Store) GetCurrentUser(ctx context.Context) (*User, error) {
	s.begin(s.Status())

	var user User
	if err := s.api.DoJSON(ctx, http.MethodGet, "/auth/user/", nil, nil, &user); err != nil {
		ae := s.fail("get current user", err)
		s.teardown()
		return nil, ae
	}

	s.persistUser(user)

	s.mu.Lock()
	u := user
	s.user = &u
	s.loading = false
	s.mu.Unlock()

	return &user, nil
}

func (s *Store) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := validate.Struct(in); err != nil {
		return s.fail("change password", err)
	}
	s.begin(s.Status())

	if err := s.api.DoJSON(ctx, http.MethodPut, "/auth/change-password/", nil, in, nil); err != nil {
		return s.fail("change password", err)
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	return nil
}

// Profile trae el perfil extendido.
func (s *Store) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := s.api.DoJSON(ctx, http.MethodGet, "/auth/profile/", nil, nil, &user); err != nil {
		return nil, apierr.From(err)
	}
	return &user, nil
}

// UpdateProfile hace PATCH parcial del perfil.
func (s *Store) UpdateProfile(ctx context.Context, in ProfilePatch) (*User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apierr.From(err)
	}

	var user User
	if err := s.api.DoJSON(ctx, http.MethodPatch, "/auth/profile/update/", nil, in, &user); err != nil {
		return nil, apierr.From(err)
	}

	s.persistUser(user)
	s.mu.Lock()
	u := user
	s.user = &u
	s.mu.Unlock()
	return &user, nil
}

// UpdateProfileImage sube la foto de perfil por multipart.
func (s *Store) UpdateProfileImage(ctx context.Context, fields map[string]string, filename string, image io.Reader) (*User, error) {
	var user User
	if err := s.api.DoForm(ctx, http.MethodPatch, "/auth/profile/update/", fields, "profile_picture", filename, image, &user); err != nil {
		return nil, apierr.From(err)
	}

	s.persistUser(user)
	s.mu.Lock()
	u := user
	s.user = &u
	s.mu.Unlock()
	return &user, nil
}

// --- httpclient.TokenSource ---

// AccessToken devuelve el token vigente; si el exp del JWT ya pasó (o está
// por pasar) renueva primero en vez de comerse el 401.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	t := s.tokens
	s.mu.Unlock()

	if t == nil {
		return "", nil
	}
	if tokenExpired(t.Access, s.now()) && t.Refresh != "" {
		fresh, err := s.Refresh(ctx)
		if err == nil {
			return fresh, nil
		}
		// Con el refresh caído devolvemos el token viejo y el 401 decide.
	}
	return t.Access, nil
}

// Refresh rota el access token contra /auth/token/refresh/.
// Si el backend no rota el refresh token, se conserva el anterior.
func (s *Store) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	t := s.tokens
	s.mu.Unlock()

	if t == nil || t.Refresh == "" {
		return "", ErrNotAuthenticated
	}

	body := map[string]string{"refresh": t.Refresh}
	var out Tokens
	if err := s.raw.DoJSON(ctx, http.MethodPost, "/auth/token/refresh/", nil, body, &out); err != nil {
		return "", apierr.From(err)
	}

	next := Tokens{Access: out.Access, Refresh: out.Refresh}
	if next.Refresh == "" {
		next.Refresh = t.Refresh
	}

	s.persistTokens(next)
	s.mu.Lock()
	s.tokens = &next
	s.mu.Unlock()

	return next.Access, nil
}

// --- estado ---

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Store) IsAuthenticated() bool {
	return s.Status() == StatusAuthenticated
}

func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Tokens() *Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return nil
	}
	t := *s.tokens
	return &t
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() *apierr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// --- internos ---

func (s *Store) begin(status Status) {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.status = status
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) *apierr.Error {
	ae := apierr.From(err)

	s.mu.Lock()
	s.loading = false
	s.err = ae
	s.mu.Unlock()

	s.log.Warn("session operation failed", map[string]any{"op": op, "error": ae.Error()})
	return ae
}

// teardown limpia memoria y almacenamiento durable. Siempre completo.
func (s *Store) teardown() {
	if s.creds != nil {
		if err := s.creds.Clear(); err != nil {
			s.log.Error("clearing credential storage failed", map[string]any{"error": err.Error()})
		}
	}

	s.mu.Lock()
	s.user = nil
	s.tokens = nil
	s.status = StatusAnonymous
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) persistUser(u User) {
	if s.creds == nil {
		return
	}
	b, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := s.creds.Put(storage.KeyUser, b); err != nil {
		s.log.Error("persisting user failed", map[string]any{"error": err.Error()})
	}
}

func (s *Store) persistTokens(t Tokens) {
	if s.creds == nil {
		return
	}
	b, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := s.creds.Put(storage.KeyTokens, b); err != nil {
		s.log.Error("persisting tokens failed", map[string]any{"error": err.Error()})
	}
}
