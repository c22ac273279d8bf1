package stubapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server es un doble del backend de ganadería para dev y tests: mismo
// contrato (verbos uniformes, envelope {"results": [...]}, auth JWT con
// refresh), estado solo en memoria.
type Server struct {
	users *userStore

	animals   *collection
	owners    *collection
	events    *collection
	inventory *collection
	reports   *collection

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type Options struct {
	// Secret para firmar JWTs. Vacío => uno fijo de dev.
	Secret string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Seed carga datos de ejemplo.
	Seed bool
}

func NewServer(opts Options) *Server {
	secret := opts.Secret
	if secret == "" {
		secret = "stub-dev-secret"
	}
	accessTTL := opts.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := opts.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	s := &Server{
		users:      newUserStore(),
		animals:    newCollection("tag_number", "species"),
		owners:     newCollection("first_name", "last_name"),
		events:     newCollection("event_type", "date"),
		inventory:  newCollection("name", "category"),
		reports:    newCollection("title"),
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}

	if opts.Seed {
		s.seed()
	}
	return s
}

// Handler arma el router chi con el contrato completo.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login/", s.handleLogin)
		ar.Post("/register/", s.handleRegister)
		ar.Post("/token/refresh/", s.handleRefresh)

		ar.Group(func(pr chi.Router) {
			pr.Use(s.requireAuth)
			pr.Post("/logout/", s.handleLogout)
			pr.Get("/user/", s.handleCurrentUser)
			pr.Put("/change-password/", s.handleChangePassword)
			pr.Get("/profile/", s.handleProfile)
			pr.Patch("/profile/update/", s.handleProfileUpdate)
		})
	})

	s.mountResource(r, "/animals", s.animals, s.decorateAnimal)
	s.mountResource(r, "/owners", s.owners, s.decorateOwner)
	s.mountResource(r, "/events", s.events, nil)
	s.mountResource(r, "/inventory", s.inventory, s.decorateInventory)
	s.mountResource(r, "/reports", s.reports, nil)

	return r
}

type decorator func(item map[string]any) map[string]any

func (s *Server) mountResource(r chi.Router, base string, c *collection, dec decorator) {
	r.Route(base, func(rr chi.Router) {
		rr.Use(s.requireAuth)

		rr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items := c.list(r.URL.Query())
			if dec != nil {
				for i := range items {
					items[i] = dec(items[i])
				}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"count":   len(items),
				"results": items,
			})
		})

		rr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			body, ok := decodeBody(w, r)
			if !ok {
				return
			}
			item, missing := c.create(body)
			if len(missing) > 0 {
				fields := map[string][]string{}
				for _, f := range missing {
					fields[f] = []string{"This field is required."}
				}
				writeJSON(w, http.StatusBadRequest, fields)
				return
			}
			if dec != nil {
				item = dec(item)
			}
			writeJSON(w, http.StatusCreated, item)
		})

		rr.Get("/{id}/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			item, found := c.get(id)
			if !found {
				notFound(w)
				return
			}
			if dec != nil {
				item = dec(item)
			}
			writeJSON(w, http.StatusOK, item)
		})

		rr.Put("/{id}/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			body, ok := decodeBody(w, r)
			if !ok {
				return
			}
			item, found := c.put(id, body)
			if !found {
				notFound(w)
				return
			}
			if dec != nil {
				item = dec(item)
			}
			writeJSON(w, http.StatusOK, item)
		})

		rr.Patch("/{id}/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			body, ok := decodeBody(w, r)
			if !ok {
				return
			}
			item, found := c.patch(id, body)
			if !found {
				notFound(w)
				return
			}
			if dec != nil {
				item = dec(item)
			}
			writeJSON(w, http.StatusOK, item)
		})

		rr.Delete("/{id}/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			if !c.delete(id) {
				notFound(w)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

// --- campos derivados (el backend es la autoridad de estos) ---

func (s *Server) decorateAnimal(item map[string]any) map[string]any {
	ownerID := asInt64(item["owner"])
	if ownerID == 0 {
		return item
	}
	owner, ok := s.owners.get(ownerID)
	if !ok {
		return item
	}
	first, _ := owner["first_name"].(string)
	last, _ := owner["last_name"].(string)
	item["owner_name"] = first + " " + last
	return item
}

func (s *Server) decorateOwner(item map[string]any) map[string]any {
	id := asInt64(item["id"])
	item["animal_count"] = s.animals.count(func(a map[string]any) bool {
		return asInt64(a["owner"]) == id
	})
	return item
}

func (s *Server) decorateInventory(item map[string]any) map[string]any {
	qty := asFloat(item["quantity"])
	price := asFloat(item["unit_price"])
	reorder := asFloat(item["reorder_level"])

	if _, ok := item["total_value"]; !ok {
		item["total_value"] = qty * price
	}
	item["is_low_stock"] = qty <= reorder
	return item
}

func (s *Server) seed() {
	s.users.add("admin", "password123", "admin@example.com")

	o, _ := s.owners.create(map[string]any{
		"first_name": "Maria", "last_name": "Lopez",
		"email": "maria@example.com", "farm_name": "La Esperanza", "is_active": true,
	})
	ownerID := asInt64(o["id"])

	a1, _ := s.animals.create(map[string]any{
		"tag_number": "C-001", "species": "cattle", "breed": "angus",
		"gender": "female", "health_status": "healthy", "owner": ownerID,
	})
	s.animals.create(map[string]any{
		"tag_number": "C-002", "species": "cattle", "breed": "hereford",
		"gender": "male", "health_status": "sick", "owner": ownerID,
	})

	s.events.create(map[string]any{
		"event_type": "vaccination", "date": "2025-06-01",
		"animal": asInt64(a1["id"]), "cost": 35.0, "description": "FMD booster",
	})

	s.inventory.create(map[string]any{
		"name": "Cattle feed", "category": "feed",
		"quantity": 4.0, "unit": "bags", "reorder_level": 10.0, "unit_price": 18.5,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return nil, false
	}
	return body, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		notFound(w)
		return 0, false
	}
	return id, true
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
