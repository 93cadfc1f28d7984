package httpserver

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/phenrril/cabinetry/internal/adapters/spreadsheet"
	"github.com/phenrril/cabinetry/internal/domain"
)

type cabinetTypeRequest struct {
	Name       string   `json:"name" validate:"required,max=140"`
	MinWidth   float64  `json:"min_width" validate:"gte=0"`
	MaxWidth   *float64 `json:"max_width" validate:"omitempty,gte=0"`
	MinHeight  float64  `json:"min_height" validate:"gte=0"`
	MaxHeight  *float64 `json:"max_height" validate:"omitempty,gte=0"`
	BaseOffset float64  `json:"base_offset" validate:"gte=0"`
	Color      string   `json:"color" validate:"omitempty,hexcolor"`
	ImageURL   string   `json:"image_url" validate:"omitempty,max=255"`
	Active     *bool    `json:"active"`
}

func (req cabinetTypeRequest) apply(t *domain.CabinetType) {
	t.Name = req.Name
	t.MinWidth, t.MaxWidth = req.MinWidth, req.MaxWidth
	t.MinHeight, t.MaxHeight = req.MinHeight, req.MaxHeight
	t.BaseOffset = req.BaseOffset
	t.Color = req.Color
	t.ImageURL = req.ImageURL
	if req.Active != nil {
		t.Active = *req.Active
	}
}

// GET /api/cabinet-types?active=1
func (s *Server) apiCabinetTypes(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "1" || r.URL.Query().Get("active") == "true"
	list, err := s.catalog.List(r.Context(), onlyActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.CabinetType{}
	}
	writeJSON(w, 200, list)
}

func (s *Server) apiCabinetType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, t)
}

func (s *Server) apiCabinetTypeCreate(w http.ResponseWriter, r *http.Request) {
	var req cabinetTypeRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t := &domain.CabinetType{Active: true}
	req.apply(t)
	if err := s.catalog.Create(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) apiCabinetTypeUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cabinetTypeRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.apply(t)
	if err := s.catalog.Update(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, t)
}

func (s *Server) apiCabinetTypeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiCabinetTypeImport acepta la planilla como multipart (campo "file") o como body crudo.
func (s *Server) apiCabinetTypeImport(w http.ResponseWriter, r *http.Request) {
	var src io.Reader = http.MaxBytesReader(w, r.Body, 10<<20)
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); strings.HasPrefix(mt, "multipart/") {
		f, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, domainInvalid("falta el archivo"))
			return
		}
		defer f.Close()
		src = f
	}
	rows, err := spreadsheet.ReadCatalog(src)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := s.catalog.Import(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, rep)
}
