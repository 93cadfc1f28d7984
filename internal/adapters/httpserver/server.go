package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/adapters/spreadsheet"
	"github.com/phenrril/cabinetry/internal/config"
	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/grid"
	"github.com/phenrril/cabinetry/internal/usecase"
)

const tokenIssuer = "cabinetry"

type Server struct {
	mux      *http.ServeMux
	cfg      *config.Config
	catalog  *usecase.CatalogUC
	projects *usecase.ProjectUC
	grid     *usecase.GridUC

	validate *validator.Validate
	upgrader websocket.Upgrader
	now      func() time.Time
}

func New(cfg *config.Config, catalog *usecase.CatalogUC, projects *usecase.ProjectUC, g *usecase.GridUC) http.Handler {
	s := &Server{
		mux:      http.NewServeMux(),
		cfg:      cfg,
		catalog:  catalog,
		projects: projects,
		grid:     g,
		validate: newValidator(),
		now:      time.Now,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Subprotocols:    []string{ProtocolVersion1},
		CheckOrigin:     s.checkOrigin,
	}

	s.routes()
	return Chain(s.mux,
		RateLimit(cfg.RateLimit.Public, cfg.RateLimit.Admin),
		SecurityHeaders,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})
	s.mux.HandleFunc("POST /admin/token", s.handleAdminLogin)

	// Catálogo
	s.mux.HandleFunc("GET /api/cabinet-types", s.apiCabinetTypes)
	s.mux.HandleFunc("POST /api/cabinet-types", s.admin(s.apiCabinetTypeCreate))
	s.mux.HandleFunc("POST /api/cabinet-types/import", s.admin(s.apiCabinetTypeImport))
	s.mux.HandleFunc("GET /api/cabinet-types/{id}", s.apiCabinetType)
	s.mux.HandleFunc("PUT /api/cabinet-types/{id}", s.admin(s.apiCabinetTypeUpdate))
	s.mux.HandleFunc("DELETE /api/cabinet-types/{id}", s.admin(s.apiCabinetTypeDelete))

	// Proyectos, ambientes y paredes
	s.mux.HandleFunc("GET /api/projects", s.apiProjects)
	s.mux.HandleFunc("POST /api/projects", s.apiProjectCreate)
	s.mux.HandleFunc("GET /api/projects/{id}", s.apiProject)
	s.mux.HandleFunc("PATCH /api/projects/{id}/status", s.admin(s.apiProjectStatus))
	s.mux.HandleFunc("GET /api/projects/{id}/cutlist.xlsx", s.apiProjectCutList)
	s.mux.HandleFunc("POST /api/projects/{id}/rooms", s.apiRoomCreate)
	s.mux.HandleFunc("POST /api/rooms/{id}/walls", s.apiWallCreate)
	s.mux.HandleFunc("PATCH /api/walls/{id}", s.apiWallUpdate)
	s.mux.HandleFunc("GET /api/walls/{id}/cabinets", s.apiWallCabinets)
	s.mux.HandleFunc("PATCH /api/cabinets/{id}", s.apiCabinetDetails)

	// Sesiones de grilla
	s.mux.HandleFunc("POST /api/walls/{id}/grid", s.apiGridOpen)
	s.mux.HandleFunc("GET /api/grid/{sid}", s.apiGridView)
	s.mux.HandleFunc("DELETE /api/grid/{sid}", s.apiGridClose)
	s.mux.HandleFunc("POST /api/grid/{sid}/autoplace", s.apiGridAutoPlace)
	s.mux.HandleFunc("POST /api/grid/{sid}/select", s.apiGridSelect)
	s.mux.HandleFunc("POST /api/grid/{sid}/deselect", s.apiGridDeselect)
	s.mux.HandleFunc("POST /api/grid/{sid}/rename", s.apiGridRename)
	s.mux.HandleFunc("POST /api/grid/{sid}/delete", s.apiGridDelete)
	s.mux.HandleFunc("POST /api/grid/{sid}/pointer", s.apiGridPointer)
	s.mux.HandleFunc("POST /api/grid/{sid}/save", s.apiGridSave)
	s.mux.HandleFunc("GET /api/grid/{sid}/elevation.png", s.apiGridElevation)
	s.mux.HandleFunc("GET /api/grid/{sid}/ws", s.handleGridWS)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, grid.ErrZoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalid),
		errors.Is(err, grid.ErrNoSelection),
		errors.Is(err, spreadsheet.ErrMissingColumn):
		return http.StatusBadRequest
	case errors.Is(err, grid.ErrNotIdle),
		errors.Is(err, grid.ErrRenameActive):
		return http.StatusConflict
	case errors.Is(err, grid.ErrNoRoom),
		errors.Is(err, grid.ErrDoesNotFit),
		errors.Is(err, grid.ErrUnknownType),
		errors.Is(err, grid.ErrWallNotConfigured),
		errors.Is(err, grid.ErrRoomHeight):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request")
		msg = "error interno"
	}
	writeJSON(w, code, map[string]any{"error": msg})
}

// writeGridError adjunta la vista para que el cliente pueda redibujar tras un rechazo.
func writeGridError(w http.ResponseWriter, r *http.Request, v grid.View, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError || v.Grid.Cols == 0 {
		writeError(w, r, err)
		return
	}
	writeJSON(w, code, map[string]any{"error": err.Error(), "view": v})
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domainInvalid(name + " inválido")
	}
	return id, nil
}

type adminClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// admin envuelve un handler que exige token de administrador.
func (s *Server) admin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAdmin(w, r) {
			return
		}
		h(w, r)
	}
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		tok := strings.TrimSpace(auth[7:])
		if _, err := s.verifyAdminToken(tok); err == nil {
			return true
		}
	}
	if c, err := r.Cookie("admin_token"); err == nil && c.Value != "" {
		if _, err := s.verifyAdminToken(c.Value); err == nil {
			return true
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	return false
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	cfgKey := s.cfg.Admin.APIKey
	if cfgKey == "" {
		log.Error().Msg("ADMIN_API_KEY faltante")
		http.Error(w, "config", 500)
		return
	}
	apiKey := r.Header.Get("X-Admin-Key")
	if apiKey == "" || !secureCompare(apiKey, cfgKey) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && len(s.cfg.Admin.AllowedEmails) == 1 {
		email = strings.ToLower(s.cfg.Admin.AllowedEmails[0])
	}
	if email == "" || !s.cfg.Admin.AdminAllowed(email) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}
	tok, exp, err := s.issueAdminToken(email)
	if err != nil {
		log.Error().Err(err).Msg("firmar token admin")
		http.Error(w, "token", 500)
		return
	}
	log.Info().Str("email", email).Msg("token admin emitido")
	writeJSON(w, 200, map[string]any{"token": tok, "exp": exp.Unix(), "email": email})
}

func (s *Server) issueAdminToken(email string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.Admin.TokenTTL)
	claims := &adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Email: email,
		Role:  "admin",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Admin.JWTSecret))
	return tok, exp, err
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de firma inesperado")
		}
		return []byte(s.cfg.Admin.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if claims.Role != "admin" || claims.Email == "" {
		return "", errors.New("claims")
	}
	if !s.cfg.Admin.AdminAllowed(claims.Email) {
		return "", errors.New("not allowed")
	}
	return claims.Email, nil
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.Server.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.cfg.Server.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	log.Warn().Str("origin", origin).Msg("websocket: origen rechazado")
	return false
}
