package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/adapters/spreadsheet"
	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/usecase"
)

type roomRequest struct {
	Name   string  `json:"name" validate:"required,max=140"`
	Type   string  `json:"type" validate:"max=40"`
	Height float64 `json:"height" validate:"gt=0"`
}

type wallRequest struct {
	Name   string   `json:"name" validate:"required,max=140"`
	Length *float64 `json:"length" validate:"omitempty,gt=0"`
}

type wallPatch struct {
	Name   *string  `json:"name" validate:"omitempty,max=140"`
	Length *float64 `json:"length"`
}

type statusRequest struct {
	Status domain.ProjectStatus `json:"status" validate:"required"`
}

func (s *Server) apiProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.projects.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Project{}
	}
	writeJSON(w, 200, list)
}

func (s *Server) apiProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req usecase.NewProject
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.projects.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) apiProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, p)
}

func (s *Server) apiProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.projects.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, p)
}

func (s *Server) apiRoomCreate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roomRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room := &domain.Room{Name: req.Name, Type: req.Type, Height: req.Height}
	if err := s.projects.AddRoom(r.Context(), id, room); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) apiWallCreate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req wallRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wall := &domain.Wall{Name: req.Name, Length: req.Length}
	if err := s.projects.AddWall(r.Context(), id, wall); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wall)
}

func (s *Server) apiWallUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req wallPatch
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wall, err := s.projects.UpdateWall(r.Context(), id, req.Name, req.Length)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, wall)
}

func (s *Server) apiWallCabinets(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.projects.WallCabinets(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Cabinet{}
	}
	writeJSON(w, 200, list)
}

// PATCH /api/cabinets/{id}: solo campos de negocio; la geometría la maneja la grilla.
func (s *Server) apiCabinetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req usecase.CabinetDetails
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.projects.UpdateCabinetDetails(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, 200, c)
}

func (s *Server) apiProjectCutList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, rows, err := s.projects.CutList(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteCutList(&buf, p, rows); err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("project", p.ID.String()).Int("filas", len(rows)).Msg("cut list exportado")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, cutListFilename(p.Name)))
	_, _ = w.Write(buf.Bytes())
}

func cutListFilename(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "proyecto"
	}
	return slug + "-cutlist.xlsx"
}
