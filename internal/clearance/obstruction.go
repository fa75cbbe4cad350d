package clearance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roman-kulish/los-clearance/internal/geo"
)

// Obstruction is a wind turbine modelled as a sphere of RotorRadiusFt
// centred at HubHeightFt above the local ground.
type Obstruction struct {
	ID            string    `json:"id" validate:"required"`
	Position      geo.Point `json:"position"`
	HubHeightFt   float64   `json:"hubHeightFt" validate:"gte=0"`
	RotorRadiusFt float64   `json:"rotorRadiusFt" validate:"gte=0"`

	Metadata Metadata `json:"metadata,omitzero"`
}

// Metadata carries descriptive turbine attributes that do not take part in
// the clearance math.
type Metadata struct {
	ProjectName   string  `json:"projectName,omitempty"`
	Manufacturer  string  `json:"manufacturer,omitempty"`
	Model         string  `json:"model,omitempty"`
	CapacityKW    float64 `json:"capacityKw,omitempty"`
	TotalHeightFt float64 `json:"totalHeightFt,omitempty"`
}

// TopHeightFt is the height of the rotor tip above ground.
func (o Obstruction) TopHeightFt() float64 {
	return o.HubHeightFt + o.RotorRadiusFt
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the record and returns a *ValidationError describing the
// first problem found.
func (o Obstruction) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"Position.Latitude", o.Position.Latitude},
		{"Position.Longitude", o.Position.Longitude},
		{"HubHeightFt", o.HubHeightFt},
		{"RotorRadiusFt", o.RotorRadiusFt},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{ObstructionID: o.ID, Field: f.name, Reason: "is not a finite number"}
		}
	}

	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return &ValidationError{
			ObstructionID: o.ID,
			Field:         strings.TrimPrefix(fe.StructNamespace(), "Obstruction."),
			Reason:        reason(fe),
		}
	}

	return &ValidationError{ObstructionID: o.ID, Reason: err.Error()}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
