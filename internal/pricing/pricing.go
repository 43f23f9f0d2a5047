// Package pricing estimates what an analysis batch would cost.
// The rates are illustrative placeholders, not provider pricing.
package pricing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"evidenceapi/internal/model"
)

// Rates are per item (images) or per mebibyte (everything else).
type Rates struct {
	ImageFlat     float64 `yaml:"image_flat"`
	VideoPerMB    float64 `yaml:"video_per_mb"`
	DocumentPerMB float64 `yaml:"document_per_mb"`
	OtherPerMB    float64 `yaml:"other_per_mb"`
}

// DefaultRates returns the built-in rates.
func DefaultRates() Rates {
	return Rates{
		ImageFlat:     0.0025,
		VideoPerMB:    0.02,
		DocumentPerMB: 0.02,
		OtherPerMB:    0.01,
	}
}

// LoadRates reads a YAML rates file. Keys missing from the file keep their defaults.
// An empty path yields DefaultRates.
func LoadRates(path string) (Rates, error) {
	rates := DefaultRates()
	if path == "" {
		return rates, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rates{}, fmt.Errorf("read pricing file: %w", err)
	}
	if err := yaml.Unmarshal(b, &rates); err != nil {
		return Rates{}, fmt.Errorf("parse pricing file: %w", err)
	}
	return rates, nil
}

// CostOf prices a single file from its declared media type and byte size.
func (r Rates) CostOf(mimeType string, size int64) float64 {
	sizeMB := float64(size) / 1024 / 1024
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return r.ImageFlat
	case strings.HasPrefix(mimeType, "video/"):
		return sizeMB * r.VideoPerMB
	case mimeType == "application/pdf" || strings.Contains(mimeType, "document"):
		return sizeMB * r.DocumentPerMB
	default:
		return sizeMB * r.OtherPerMB
	}
}

// Estimate sums the cost of files. No rounding happens here.
func (r Rates) Estimate(files []model.EvidenceFile) float64 {
	var total float64
	for _, f := range files {
		total += r.CostOf(f.Type, f.Size)
	}
	return total
}

// FormatCost renders a cost for display.
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}
