package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusDraft           ProjectStatus = "draft"
	ProjectStatusConsultation    ProjectStatus = "consultation"
	ProjectStatusDrawingsReview  ProjectStatus = "drawings_review"
	ProjectStatusAgreementSigned ProjectStatus = "agreement_signed"
	ProjectStatusDepositPaid     ProjectStatus = "deposit_paid"
	ProjectStatusInFabrication   ProjectStatus = "in_fabrication"
	ProjectStatusShipped         ProjectStatus = "shipped"
	ProjectStatusInstalled       ProjectStatus = "installed"
	ProjectStatusCancelled       ProjectStatus = "cancelled"
)

var projectFlow = []ProjectStatus{
	ProjectStatusDraft,
	ProjectStatusConsultation,
	ProjectStatusDrawingsReview,
	ProjectStatusAgreementSigned,
	ProjectStatusDepositPaid,
	ProjectStatusInFabrication,
	ProjectStatusShipped,
	ProjectStatusInstalled,
}

func statusRank(s ProjectStatus) int {
	for i, st := range projectFlow {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransition permite avanzar en el flujo, o cancelar mientras no se haya enviado.
func (s ProjectStatus) CanTransition(to ProjectStatus) bool {
	from := statusRank(s)
	if from < 0 {
		return false
	}
	if to == ProjectStatusCancelled {
		return from < statusRank(ProjectStatusShipped)
	}
	next := statusRank(to)
	return next > from
}

type Project struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID *uuid.UUID    `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Name       string        `gorm:"size:180" json:"name"`
	Status     ProjectStatus `gorm:"type:varchar(30);index" json:"status"`
	Address    string        `gorm:"size:255" json:"address"`
	Rooms      []Room        `json:"rooms,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
