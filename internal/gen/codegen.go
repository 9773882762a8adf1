package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"

	"github.com/funvibe/klass/internal/config"
)

// DefaultKlassImport is the import path of the runtime package used by
// generated code.
const DefaultKlassImport = "github.com/funvibe/klass/pkg/klass"

// CodeGenerator renders registration files.
type CodeGenerator struct {
	// klassImport is the import path of the klass runtime package.
	klassImport string
}

// NewCodeGenerator creates a code generator. An empty klassImport selects
// DefaultKlassImport.
func NewCodeGenerator(klassImport string) *CodeGenerator {
	if klassImport == "" {
		klassImport = DefaultKlassImport
	}
	return &CodeGenerator{klassImport: klassImport}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the file name inside the package directory.
	Filename string

	// Content is the formatted Go source code.
	Content []byte
}

const registrationTemplate = `// Code generated by {{.Generator}}. DO NOT EDIT.

package {{.Package}}

import (
	"reflect"

	{{if ne .Alias "klass"}}{{.Alias}} {{end}}"{{.Import}}"
)

func init() {
{{- range .Types}}
	{{$.Alias}}.MustRegister(reflect.TypeOf((*{{.Name}})(nil)).Elem()
{{- if .Options}},
{{- range .Options}}
		{{.}},
{{- end}}
	{{end -}}
)
{{- end}}
}
`

var registrationTmpl = template.Must(template.New("registration").Parse(registrationTemplate))

type typeEntry struct {
	Name    string
	Options []string
}

// Generate renders the registration file for result.
func (cg *CodeGenerator) Generate(result *InspectResult, filename string) (GeneratedFile, error) {
	alias := "klass"
	if result.PkgName == alias {
		alias = "klassrt"
	}

	data := struct {
		Generator string
		Package   string
		Alias     string
		Import    string
		Types     []typeEntry
	}{
		Generator: config.GeneratorName,
		Package:   result.PkgName,
		Alias:     alias,
		Import:    cg.klassImport,
	}
	for _, rt := range result.Types {
		data.Types = append(data.Types, typeEntry{
			Name:    rt.Name,
			Options: registrationOptions(alias, rt),
		})
	}

	var buf bytes.Buffer
	if err := registrationTmpl.Execute(&buf, data); err != nil {
		return GeneratedFile{}, fmt.Errorf("executing template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return GeneratedFile{}, fmt.Errorf("formatting generated code: %w", err)
	}
	return GeneratedFile{Filename: filename, Content: src}, nil
}

// registrationOptions lists the klass option expressions for rt.
func registrationOptions(alias string, rt *ResolvedType) []string {
	var opts []string
	for _, name := range rt.Constructors {
		opts = append(opts, fmt.Sprintf("%s.Constructor(%s)", alias, name))
	}
	for _, name := range rt.StaticFields {
		opts = append(opts, fmt.Sprintf("%s.StaticField(%s, &%s)", alias, strconv.Quote(name), name))
	}
	for _, name := range rt.StaticMethods {
		opts = append(opts, fmt.Sprintf("%s.StaticMethod(%s, %s)", alias, strconv.Quote(name), name))
	}
	if rt.PromotedFields {
		opts = append(opts, alias+".WithPromotedFields()")
	}
	if len(rt.ExcludeMethods) > 0 {
		quoted := make([]string, len(rt.ExcludeMethods))
		for i, name := range rt.ExcludeMethods {
			quoted[i] = strconv.Quote(name)
		}
		opts = append(opts, fmt.Sprintf("%s.WithoutMethods(%s)", alias, strings.Join(quoted, ", ")))
	}
	return opts
}
