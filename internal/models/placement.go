package models

import (
	"fmt"
	"strings"

	"badgr/internal/bnpl"

	"github.com/agnivade/levenshtein"
)

type Placement string

const (
	PlacementProductDescription Placement = "product_description"
	PlacementProductTitle       Placement = "product_title"
	PlacementProductPrice       Placement = "product_price"
	PlacementProductImage       Placement = "product_image"

	DefaultPlacement = PlacementProductDescription
)

var placements = []Placement{
	PlacementProductDescription,
	PlacementProductTitle,
	PlacementProductPrice,
	PlacementProductImage,
}

// Placements returns the accepted widget placements.
func Placements() []Placement {
	out := make([]Placement, len(placements))
	copy(out, placements)
	return out
}

func (p Placement) Valid() bool {
	for _, candidate := range placements {
		if p == candidate {
			return true
		}
	}
	return false
}

// ParsePlacement rejects anything outside the closed set. The error names
// the closest valid value when the input looks like a typo.
func ParsePlacement(value string) (Placement, error) {
	p := Placement(value)
	if p.Valid() {
		return p, nil
	}

	names := make([]string, len(placements))
	for i, candidate := range placements {
		names[i] = string(candidate)
	}
	msg := "Invalid widget_placement. Must be one of: " + strings.Join(names, ", ")
	if suggestion := closestPlacement(value); suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return "", &ValidationError{Message: msg}
}

func closestPlacement(value string) Placement {
	if value == "" {
		return ""
	}
	best, bestDist := Placement(""), 4
	for _, candidate := range placements {
		if d := levenshtein.ComputeDistance(value, string(candidate)); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// ValidationError is returned for client input that fails validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validateProviders(keys []string) error {
	if unknown := bnpl.ValidateProviders(keys); len(unknown) > 0 {
		return &ValidationError{Message: "Invalid providers: " + strings.Join(unknown, ", ")}
	}
	return nil
}
