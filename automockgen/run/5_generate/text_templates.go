package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed templates of an adapter file.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl   *template.Template
	structTmpl   *template.Template
	methodTmpl   *template.Template
	registerTmpl *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{}

	templates := []struct {
		target  **template.Template
		name    string
		content string
	}{
		{&registry.headerTmpl, "header", tmplHeader},
		{&registry.structTmpl, "struct", tmplStruct},
		{&registry.methodTmpl, "method", tmplMethod},
		{&registry.registerTmpl, "register", tmplRegister},
	}

	for _, def := range templates {
		*def.target = template.Must(template.New(def.name).Parse(def.content))
	}

	return registry
}

// WriteHeader writes the generated-code notice, package clause and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	execute(r.headerTmpl, buf, data)
}

// WriteMethod writes one adapter method.
func (r *TemplateRegistry) WriteMethod(buf *bytes.Buffer, data any) {
	execute(r.methodTmpl, buf, data)
}

// WriteRegister writes the init function registering the adapter.
func (r *TemplateRegistry) WriteRegister(buf *bytes.Buffer, data any) {
	execute(r.registerTmpl, buf, data)
}

// WriteStruct writes the adapter struct.
func (r *TemplateRegistry) WriteStruct(buf *bytes.Buffer, data any) {
	execute(r.structTmpl, buf, data)
}

const (
	tmplHeader = `// Code generated by automockgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)
`

	tmplStruct = `
// {{.TypeName}} adapts an automock.Mock to {{.Interface}}.
type {{.TypeName}} struct {
	mock *automock.Mock[{{.Interface}}]
}
`

	tmplMethod = `
func (impl *{{.TypeName}}) {{.Name}}({{.Params}}){{.Results}} {
{{- if .Variadic}}
	args := make([]any, 0, {{.Capacity}})
{{- if .Args}}
	args = append(args{{range .Args}}, {{.}}{{end}})
{{- end}}

	for _, arg := range {{.Variadic}} {
		args = append(args, arg)
	}

	{{if .Outs}}results := {{end}}impl.mock.Called("{{.Name}}", args...)
{{- else}}
	{{if .Outs}}results := {{end}}impl.mock.Called("{{.Name}}"{{range .Args}}, {{.}}{{end}})
{{- end}}
{{- if .Outs}}

	return {{range $i, $out := .Outs}}{{if $i}}, {{end}}automock.Out[{{$out}}](results, {{$i}}){{end}}
{{- end}}
}
`

	tmplRegister = `
//nolint:gochecknoinits // generated adapters register themselves
func init() {
	automock.Register(func(mock *automock.Mock[{{.Interface}}]) {{.Interface}} {
		return &{{.TypeName}}{mock: mock}
	})
}
`
)

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}
