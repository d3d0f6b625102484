package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AdaptKind discriminates the parsed form of the "adapt" option, which
// clients may send as a bool, a number, or a {width,height} object.
type AdaptKind int

const (
	AdaptNone AdaptKind = iota
	AdaptSquare
	AdaptExplicit
)

// Adapt describes how a variant is padded into a canvas before cropping.
// The polymorphic JSON forms are resolved once, at unmarshal time.
type Adapt struct {
	Kind   AdaptKind
	Max    int // AdaptSquare: both axes of the padded canvas
	Width  int // AdaptExplicit
	Height int // AdaptExplicit
}

// UnmarshalJSON accepts true/false, a bare number, or {"width":..,"height":..}.
func (a *Adapt) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			// Canvas size is resolved later against the variant's target box.
			*a = Adapt{Kind: AdaptSquare}
		} else {
			*a = Adapt{Kind: AdaptNone}
		}
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Adapt{Kind: AdaptSquare, Max: n}
		return nil
	}

	var box struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := json.Unmarshal(data, &box); err == nil {
		*a = Adapt{Kind: AdaptExplicit, Width: box.Width, Height: box.Height}
		return nil
	}

	return fmt.Errorf("adapt: expected bool, number or {width,height} object, got %s", data)
}

// MarshalJSON emits the canonical wire form so parsed specs survive a
// round-trip through the database: false, true, a bare number, or a
// {width,height} object.
func (a Adapt) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AdaptSquare:
		if a.Max > 0 {
			return json.Marshal(a.Max)
		}
		return json.Marshal(true)
	case AdaptExplicit:
		return json.Marshal(struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		}{a.Width, a.Height})
	default:
		return json.Marshal(false)
	}
}

// Enabled reports whether any padding was requested.
func (a Adapt) Enabled() bool { return a.Kind != AdaptNone }

// Canvas resolves the padded canvas size for a variant targeting tw×th.
// A square adapt without an explicit size uses the larger target axis.
func (a Adapt) Canvas(tw, th int) (int, int) {
	switch a.Kind {
	case AdaptSquare:
		max := a.Max
		if max == 0 {
			max = tw
			if th > max {
				max = th
			}
		}
		return max, max
	case AdaptExplicit:
		return a.Width, a.Height
	default:
		return tw, th
	}
}

// VariantSpec describes one named output derived from the source image.
type VariantSpec struct {
	Key           string            `json:"key,omitempty"`
	Name          string            `json:"name"`
	NameTemplate  string            `json:"name_template,omitempty"`
	TargetWidth   *int              `json:"width,omitempty"`
	TargetHeight  *int              `json:"height,omitempty"`
	CropTop       int               `json:"crop_top,omitempty"`
	CropLeft      int               `json:"crop_left,omitempty"`
	Crop          bool              `json:"crop,omitempty"`
	Adapt         Adapt             `json:"adapt,omitempty"`
	OmitExtension *bool             `json:"omit_extension,omitempty"`
	ColorPad      string            `json:"color_pad,omitempty"`
	Watermark     string            `json:"watermark,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"` // extra template data
}

// ResultKey returns the key under which this variant appears in the
// batch result map, defaulting to the variant name.
func (v VariantSpec) ResultKey() string {
	if v.Key != "" {
		return v.Key
	}
	return v.Name
}

// BatchSpec is the full configuration for deriving variants from one source.
type BatchSpec struct {
	DefaultNameTemplate string        `json:"name_template,omitempty"`
	OmitExtension       bool          `json:"omit_extension,omitempty"`
	ColorPad            string        `json:"color_pad,omitempty"`
	Variants            []VariantSpec `json:"variants"`
}

var (
	ErrNoVariants        = errors.New("batch: variants list is missing or empty")
	ErrUnknownSourceType = errors.New("source image type could not be derived")
)

// Validate checks the parts of the spec that must hold before any
// variant task is scheduled.
func (b BatchSpec) Validate() error {
	if len(b.Variants) == 0 {
		return ErrNoVariants
	}
	return nil
}

// VariantResult is the outcome of one successfully processed variant.
type VariantResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// BatchResult maps a variant's key to its result. Keys are unique by
// construction of VariantSpec.ResultKey.
type BatchResult map[string]VariantResult
