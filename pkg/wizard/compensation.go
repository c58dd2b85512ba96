package wizard

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"legaluplift/pkg/models"
)

const (
	// DescriptionBonusThreshold is the description length at which the
	// displayed range is stepped up.
	DescriptionBonusThreshold = 100
	DescriptionBonusFactor    = 1.5
)

// DefaultCompensation is the range shown before any adjustment.
var DefaultCompensation = models.CompensationRange{Min: 75000, Max: 125000}

// Estimate returns the display range for a description. It depends only on
// the description length.
func Estimate(base models.CompensationRange, description string) models.CompensationRange {
	if utf8.RuneCountInString(description) < DescriptionBonusThreshold {
		return base
	}
	return models.CompensationRange{
		Min: int(math.Round(float64(base.Min) * DescriptionBonusFactor)),
		Max: int(math.Round(float64(base.Max) * DescriptionBonusFactor)),
	}
}

// FormatRange renders a range as "$75,000 - $125,000".
func FormatRange(r models.CompensationRange) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("$%d - $%d", r.Min, r.Max)
}
