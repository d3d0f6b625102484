// Package naming renders output filenames from per-variant templates.
package naming

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dkochetov/imgset/internal/model"
)

// DefaultTemplate is used when neither the variant nor the batch supplies
// a naming template.
const DefaultTemplate = "{{.name}}"

// Filename renders the filename for one variant. The template sees the
// variant's fields under their configuration names ({{.name}}, {{.key}},
// width/height when set) plus any custom fields. The source type is
// appended as an extension unless omitExt is set.
func Filename(tmpl string, v model.VariantSpec, sourceType string, omitExt bool) (string, error) {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	t, err := template.New("filename").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse name template %q: %w", tmpl, err)
	}

	data := map[string]any{
		"name": v.Name,
		"key":  v.ResultKey(),
	}
	if v.TargetWidth != nil {
		data["width"] = *v.TargetWidth
	}
	if v.TargetHeight != nil {
		data["height"] = *v.TargetHeight
	}
	for k, val := range v.Fields {
		data[k] = val
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render name template %q: %w", tmpl, err)
	}

	name := sb.String()
	if !omitExt {
		name += "." + sourceType
	}
	return name, nil
}
