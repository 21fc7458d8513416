// Package models defines domain models for HullZero.
package models

import (
	"errors"
	"time"
)

// Vessel types recognised by the conformity limit table. Unknown types fall
// back to the standard limits.
const (
	VesselTypeTanker     = "tanker"
	VesselTypeCargo      = "cargo"
	VesselTypeContainer  = "container"
	VesselTypeGasCarrier = "gas-carrier"
	VesselTypeTug        = "tug"
	VesselTypeBarge      = "barge"
)

// VesselProfile represents a vessel registered with the fleet operator.
// Created once per vessel and mutated only by operator edits.
type VesselProfile struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	IMO             string     `json:"imo"`
	Type            string     `json:"type"` // tanker, cargo, container, gas-carrier, tug, barge
	LengthM         float64    `json:"length_m"`
	WidthM          float64    `json:"width_m"`
	DraftM          float64    `json:"draft_m"`
	HullAreaM2      float64    `json:"hull_area_m2"`
	PaintType       string     `json:"paint_type"`
	PaintAppliedAt  *time.Time `json:"paint_applied_at,omitempty"`
	TypicalSpeedKn  float64    `json:"typical_speed_kn"`
	EnginePowerKW   float64    `json:"engine_power_kw"`
	FuelType        string     `json:"fuel_type"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Validate checks the vessel profile invariants.
// Hull area must be positive and the paint application date, when set,
// must not be in the future.
func (v *VesselProfile) Validate(now time.Time) error {
	if v.Name == "" {
		return NewInvalidInput("vessel.validate", errors.New("vessel name is required"))
	}
	if v.HullAreaM2 <= 0 {
		return NewInvalidInput("vessel.validate", errors.New("hull area must be positive"))
	}
	if v.PaintAppliedAt != nil && v.PaintAppliedAt.After(now) {
		return NewInvalidInput("vessel.validate", errors.New("paint application date is in the future"))
	}
	return nil
}

// KnownVesselType reports whether t is one of the recognised vessel types.
func KnownVesselType(t string) bool {
	switch t {
	case VesselTypeTanker, VesselTypeCargo, VesselTypeContainer,
		VesselTypeGasCarrier, VesselTypeTug, VesselTypeBarge:
		return true
	}
	return false
}
