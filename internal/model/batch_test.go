package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdaptUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Adapt
	}{
		{"true", `true`, Adapt{Kind: AdaptSquare}},
		{"false", `false`, Adapt{Kind: AdaptNone}},
		{"number", `640`, Adapt{Kind: AdaptSquare, Max: 640}},
		{"object", `{"width":300,"height":200}`, Adapt{Kind: AdaptExplicit, Width: 300, Height: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Adapt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			require.Equal(t, tt.want, a)
		})
	}
}

func TestAdaptMarshalRoundTrip(t *testing.T) {
	for _, a := range []Adapt{
		{Kind: AdaptNone},
		{Kind: AdaptSquare},
		{Kind: AdaptSquare, Max: 640},
		{Kind: AdaptExplicit, Width: 300, Height: 200},
	} {
		data, err := json.Marshal(a)
		require.NoError(t, err)

		var back Adapt
		require.NoError(t, json.Unmarshal(data, &back))
		require.Equal(t, a, back, "wire form %s", data)
	}
}

func TestAdaptUnmarshalRejectsStrings(t *testing.T) {
	var a Adapt
	require.Error(t, json.Unmarshal([]byte(`"square"`), &a))
}

func TestAdaptCanvas(t *testing.T) {
	tests := []struct {
		name   string
		adapt  Adapt
		tw, th int
		wantW  int
		wantH  int
	}{
		{"none keeps target", Adapt{Kind: AdaptNone}, 100, 200, 100, 200},
		{"square with explicit max", Adapt{Kind: AdaptSquare, Max: 500}, 100, 200, 500, 500},
		{"square defaults to larger target axis", Adapt{Kind: AdaptSquare}, 100, 200, 200, 200},
		{"explicit box", Adapt{Kind: AdaptExplicit, Width: 300, Height: 150}, 100, 200, 300, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.adapt.Canvas(tt.tw, tt.th)
			require.Equal(t, tt.wantW, w)
			require.Equal(t, tt.wantH, h)
		})
	}
}

func TestVariantSpecResultKey(t *testing.T) {
	require.Equal(t, "thumb", VariantSpec{Name: "thumb"}.ResultKey())
	require.Equal(t, "t", VariantSpec{Key: "t", Name: "thumb"}.ResultKey())
}

func TestBatchSpecValidate(t *testing.T) {
	require.ErrorIs(t, BatchSpec{}.Validate(), ErrNoVariants)
	require.NoError(t, BatchSpec{Variants: []VariantSpec{{Name: "thumb"}}}.Validate())
}

func TestVariantSpecUnmarshal(t *testing.T) {
	raw := `{
		"name": "thumb",
		"width": 100,
		"height": 100,
		"crop": true,
		"adapt": {"width": 120, "height": 120},
		"color_pad": "#fff"
	}`

	var v VariantSpec
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	require.Equal(t, "thumb", v.Name)
	require.NotNil(t, v.TargetWidth)
	require.Equal(t, 100, *v.TargetWidth)
	require.True(t, v.Crop)
	require.Equal(t, Adapt{Kind: AdaptExplicit, Width: 120, Height: 120}, v.Adapt)
	require.Equal(t, "#fff", v.ColorPad)
}
