package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/grid"
)

const defaultWriteTimeout = 10 * time.Second

// cabinetSink traduce las intenciones del editor a escrituras sobre CabinetRepo.
type cabinetSink struct {
	uc      *GridUC
	session *GridSession
	wallID  uuid.UUID
}

func (s *cabinetSink) timeout() time.Duration {
	if s.uc.WriteTimeout > 0 {
		return s.uc.WriteTimeout
	}
	return defaultWriteTimeout
}

// UpdateCabinet guarda geometría y nombre de una zona ya persistida sin bloquear al editor.
// Las escrituras de una sesión se aplican en el orden en que se emitieron.
func (s *cabinetSink) UpdateCabinet(z grid.Zone) {
	id, ok := z.ID.CabinetID()
	if !ok {
		log.Debug().Str("zone", z.ID.String()).Msg("zona sin guardar, update se difiere al próximo save")
		return
	}
	s.uc.dispatch(s.session, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
		defer cancel()
		cur, err := s.uc.Cabinets.FindByID(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("cabinet_id", id.String()).Msg("update gabinete: buscar")
			return
		}
		merged := mergeZone(*cur, z)
		if err := s.uc.Cabinets.Save(ctx, &merged); err != nil {
			log.Error().Err(err).Str("cabinet_id", id.String()).Msg("update gabinete")
		}
	})
}

// DeleteCabinet borra un gabinete persistido. Los placeholders no existen en la base.
func (s *cabinetSink) DeleteCabinet(zid grid.ZoneID) {
	id, ok := zid.CabinetID()
	if !ok {
		return
	}
	s.uc.dispatch(s.session, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
		defer cancel()
		if err := s.uc.Cabinets.Delete(ctx, id); err != nil {
			log.Error().Err(err).Str("cabinet_id", id.String()).Msg("borrar gabinete")
		}
	})
}

// SaveCabinets crea las zonas nuevas y actualiza las persistidas en una sola transacción.
func (s *cabinetSink) SaveCabinets(ctx context.Context, zones []grid.Zone) error {
	current, err := s.uc.Cabinets.ListByWall(ctx, s.wallID)
	if err != nil {
		return fmt.Errorf("leer gabinetes de la pared: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Cabinet, len(current))
	for _, c := range current {
		byID[c.ID] = c
	}

	list := make([]domain.Cabinet, 0, len(zones))
	for _, z := range zones {
		c := z.Cabinet()
		c.WallID = s.wallID
		if id, ok := z.ID.CabinetID(); ok {
			if cur, found := byID[id]; found {
				c = mergeZone(cur, z)
			}
		} else {
			c.ID = uuid.New()
		}
		list = append(list, c)
	}
	if err := s.uc.Cabinets.SaveAll(ctx, s.wallID, list); err != nil {
		return err
	}
	log.Info().Str("wall_id", s.wallID.String()).Int("gabinetes", len(list)).Msg("gabinetes guardados")
	return nil
}

// mergeZone aplica la geometría y el nombre de la zona sobre la fila guardada.
func mergeZone(cur domain.Cabinet, z grid.Zone) domain.Cabinet {
	cur.Name = z.Name
	cur.TypeID = z.TypeID
	cur.GridStartX, cur.GridStartY = z.Start.X, z.Start.Y
	cur.GridEndX, cur.GridEndY = z.End.X, z.End.Y
	return cur
}
