package naming

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkochetov/imgset/internal/model"
)

func intPtr(v int) *int { return &v }

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		variant model.VariantSpec
		typ     string
		omitExt bool
		want    string
	}{
		{
			name:    "default template appends extension",
			variant: model.VariantSpec{Name: "thumb"},
			typ:     "jpg",
			want:    "thumb.jpg",
		},
		{
			name:    "omit extension",
			variant: model.VariantSpec{Name: "thumb"},
			typ:     "jpg",
			omitExt: true,
			want:    "thumb",
		},
		{
			name:    "template with key and dimensions",
			tmpl:    "{{.key}}_{{.width}}x{{.height}}",
			variant: model.VariantSpec{Key: "t", Name: "thumb", TargetWidth: intPtr(100), TargetHeight: intPtr(80)},
			typ:     "png",
			want:    "t_100x80.png",
		},
		{
			name: "custom fields",
			tmpl: "{{.prefix}}-{{.name}}",
			variant: model.VariantSpec{
				Name:   "banner",
				Fields: map[string]string{"prefix": "2024"},
			},
			typ:  "jpg",
			want: "2024-banner.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filename(tt.tmpl, tt.variant, tt.typ, tt.omitExt)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameDeterministic(t *testing.T) {
	v := model.VariantSpec{Name: "thumb", TargetWidth: intPtr(100)}

	first, err := Filename("{{.name}}_{{.width}}", v, "jpg", false)
	require.NoError(t, err)
	second, err := Filename("{{.name}}_{{.width}}", v, "jpg", false)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestFilenameBadTemplate(t *testing.T) {
	_, err := Filename("{{.name", model.VariantSpec{Name: "thumb"}, "jpg", false)
	require.Error(t, err)
}

func TestFilenameUnknownField(t *testing.T) {
	_, err := Filename("{{.missing}}", model.VariantSpec{Name: "thumb"}, "jpg", false)
	require.Error(t, err)
}
