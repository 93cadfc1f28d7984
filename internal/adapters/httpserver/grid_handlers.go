package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/adapters/render"
	"github.com/phenrril/cabinetry/internal/grid"
	"github.com/phenrril/cabinetry/internal/usecase"
)

type openGridRequest struct {
	Mobile bool `json:"mobile"`
}

type autoPlaceRequest struct {
	TypeID uuid.UUID `json:"type_id" validate:"required"`
}

type zoneRequest struct {
	Zone string `json:"zone" validate:"required"`
}

type renameRequest struct {
	Zone string `json:"zone" validate:"required"`
	Name string `json:"name" validate:"max=140"`
}

type deleteRequest struct {
	Zone string `json:"zone"`
}

type gridResponse struct {
	Session uuid.UUID `json:"session"`
	View    grid.View `json:"view"`
}

func parseZone(s string) (grid.ZoneID, error) {
	if s == "" {
		return grid.ZoneID{}, nil
	}
	id, err := grid.ParseZoneID(s)
	if err != nil {
		return grid.ZoneID{}, domainInvalid(err.Error())
	}
	return id, nil
}

// writeView responde la vista, o el error con la vista adjunta.
func writeView(w http.ResponseWriter, r *http.Request, sid uuid.UUID, v grid.View, err error) {
	if err != nil {
		writeGridError(w, r, v, err)
		return
	}
	writeJSON(w, 200, gridResponse{Session: sid, View: v})
}

func (s *Server) apiGridOpen(w http.ResponseWriter, r *http.Request) {
	wallID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req openGridRequest
	if r.ContentLength != 0 {
		if err := s.decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	sid, v, err := s.grid.Open(r.Context(), wallID, req.Mobile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("session", sid.String()).Str("wall", wallID.String()).Bool("mobile", req.Mobile).Msg("sesión de grilla abierta")
	writeJSON(w, http.StatusCreated, gridResponse{Session: sid, View: v})
}

func (s *Server) apiGridView(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.View(sid)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridClose(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.grid.Close(sid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiGridAutoPlace(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req autoPlaceRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.AutoPlace(r.Context(), sid, req.TypeID)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridSelect(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req zoneRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	zone, err := parseZone(req.Zone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Select(sid, zone)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridDeselect(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Deselect(sid)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridRename(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req renameRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	zone, err := parseZone(req.Zone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Rename(sid, zone, req.Name)
	writeView(w, r, sid, v, err)
}

// apiGridDelete borra la zona del body o, sin zona, la seleccionada.
func (s *Server) apiGridDelete(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req deleteRequest
	if r.ContentLength != 0 {
		if err := s.decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	zone, err := parseZone(req.Zone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Delete(sid, zone)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridPointer(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var ev usecase.PointerEvent
	if err := s.decode(r, &ev); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Pointer(sid, ev)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridSave(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Save(r.Context(), sid)
	writeView(w, r, sid, v, err)
}

func (s *Server) apiGridElevation(w http.ResponseWriter, r *http.Request) {
	sid, err := pathID(r, "sid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.grid.Elevation(sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePNG(w, v); err != nil {
		log.Error().Err(err).Str("session", sid.String()).Msg("render elevación")
	}
}
