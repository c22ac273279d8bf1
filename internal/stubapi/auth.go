package stubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type stubUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`

	ProfilePicture string `json:"profile_picture,omitempty"`

	password string
}

type userStore struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]*stubUser
}

func newUserStore() *userStore {
	return &userStore{
		nextID: 1,
		byName: make(map[string]*stubUser),
	}
}

func (u *userStore) add(username, password, email string) *stubUser {
	u.mu.Lock()
	defer u.mu.Unlock()

	usr := &stubUser{
		ID:       u.nextID,
		Username: username,
		Email:    email,
		password: password,
	}
	u.nextID++
	u.byName[username] = usr
	return usr
}

func (u *userStore) find(username string) (*stubUser, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	usr, ok := u.byName[username]
	return usr, ok
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (s *Server) mintTokens(u *stubUser) (tokenPair, error) {
	now := time.Now()

	access, err := s.mint(u, "access", now.Add(s.accessTTL))
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := s.mint(u, "refresh", now.Add(s.refreshTTL))
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Server) mint(u *stubUser, kind string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":        u.Username,
		"user_id":    u.ID,
		"token_type": kind,
		"jti":        uuid.NewString(),
		"exp":        jwt.NewNumericDate(exp),
		"iat":        jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// verify chequea firma, expiración y tipo del token.
func (s *Server) verify(token, kind string) (*stubUser, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	if claims["token_type"] != kind {
		return nil, fmt.Errorf("wrong token type")
	}

	sub, _ := claims.GetSubject()
	u, ok := s.users.find(sub)
	if !ok {
		return nil, fmt.Errorf("unknown user")
	}
	return u, nil
}

type userCtxKey struct{}

// requireAuth exige un access token válido, como el backend real.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		u, err := s.verify(token, "access")
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey{}, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(ctx context.Context) (*stubUser, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*stubUser)
	return u, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// --- handlers ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}

	u, ok := s.users.find(strings.TrimSpace(req.Username))
	if !ok || u.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}

	tokens, err := s.mintTokens(u)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "token error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u, "tokens": tokens})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"This field is required."},
		})
		return
	}
	if _, exists := s.users.find(req.Username); exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
		return
	}

	u := s.users.add(req.Username, req.Password, req.Email)
	u.FirstName = req.FirstName
	u.LastName = req.LastName

	tokens, err := s.mintTokens(u)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "token error"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": u, "tokens": tokens})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "refresh required"})
		return
	}

	u, err := s.verify(req.Refresh, "refresh")
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	access, err := s.mint(u, "access", time.Now().Add(s.accessTTL))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "token error"})
		return
	}
	// Como simplejwt sin rotación: solo vuelve el access.
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	// El stub no mantiene blacklist; aceptar alcanza.
	writeJSON(w, http.StatusOK, map[string]string{"detail": "ok"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	if u.password != req.OldPassword {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"old_password": {"Wrong password."},
		})
		return
	}

	s.users.mu.Lock()
	u.password = req.NewPassword
	s.users.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password updated"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid form"})
			return
		}

		s.users.mu.Lock()
		if v := r.FormValue("first_name"); v != "" {
			u.FirstName = v
		}
		if v := r.FormValue("last_name"); v != "" {
			u.LastName = v
		}
		if v := r.FormValue("phone"); v != "" {
			u.Phone = v
		}
		if _, fh, err := r.FormFile("profile_picture"); err == nil {
			u.ProfilePicture = "/media/profiles/" + fh.Filename
		}
		s.users.mu.Unlock()

		writeJSON(w, http.StatusOK, u)
		return
	}

	var req struct {
		Email     *string `json:"email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}

	s.users.mu.Lock()
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	s.users.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}
