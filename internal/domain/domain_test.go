package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to ProjectStatus
		ok       bool
	}{
		{ProjectStatusDraft, ProjectStatusConsultation, true},
		{ProjectStatusDraft, ProjectStatusDepositPaid, true},
		{ProjectStatusDrawingsReview, ProjectStatusConsultation, false},
		{ProjectStatusInstalled, ProjectStatusInstalled, false},
		{ProjectStatusInFabrication, ProjectStatusCancelled, true},
		{ProjectStatusShipped, ProjectStatusCancelled, false},
		{ProjectStatusCancelled, ProjectStatusDraft, false},
		{ProjectStatus("archived"), ProjectStatusDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCabinetType_Validate(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.NoError(t, CabinetType{Name: "Base", MinWidth: 2, MaxWidth: f(4), MinHeight: 3, MaxHeight: f(3)}.Validate())
	assert.NoError(t, CabinetType{Name: "Open", MinWidth: 1, MinHeight: 1}.Validate(), "sin máximos es válido")

	assert.ErrorIs(t, CabinetType{MinWidth: 1}.Validate(), ErrInvalid)
	assert.ErrorIs(t, CabinetType{Name: "X", MinWidth: -1}.Validate(), ErrInvalid)
	assert.ErrorIs(t, CabinetType{Name: "X", MinWidth: 3, MaxWidth: f(2)}.Validate(), ErrInvalid)
	assert.ErrorIs(t, CabinetType{Name: "X", MinHeight: 3, MaxHeight: f(2.5)}.Validate(), ErrInvalid)
	assert.ErrorIs(t, CabinetType{Name: "X", BaseOffset: -0.5}.Validate(), ErrInvalid)
}
