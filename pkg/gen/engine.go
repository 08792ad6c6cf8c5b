// Package gen implements the freepool generation pipeline: it expands one
// parametric pool template into type-specialized source files, producing an
// optimized variant, a race-instrumented variant, and the fixed
// runtime-linkage glue that makes the generated code's processor pinning
// work.
package gen

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/ajitpratap0/freepool/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Engine performs parametric template expansion. It is the seam to the
// generic expansion machinery: the Generator only asks it to substitute a
// binding set into a named template and hands back source text. Expansion
// fails when the template references a parameter absent from the binding
// set.
type Engine interface {
	Expand(name string, bindings map[string]string) ([]byte, error)
}

type templateEngine struct {
	templates *template.Template
}

// NewEngine returns the default engine, backed by the embedded template
// set. Unresolved template parameters are expansion errors, never silently
// empty output.
func NewEngine() (Engine, error) {
	t, err := template.New("freepool").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "parsing embedded templates")
	}
	return &templateEngine{templates: t}, nil
}

func (e *templateEngine) Expand(name string, bindings map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, bindings); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTemplate, fmt.Sprintf("expanding template %s", name))
	}
	return buf.Bytes(), nil
}
