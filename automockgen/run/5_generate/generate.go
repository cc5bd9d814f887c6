// Package generate renders the adapter that lets an automock.Mock stand in
// for an interface.
package generate

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"strconv"
	"strings"

	detect "github.com/toejough/automock/automockgen/run/3_detect"
)

// AutomockImportPath is the import path generated adapters use for the runtime.
const AutomockImportPath = "github.com/toejough/automock"

// Options controls the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// TypeName names the adapter struct. Defaults to <Interface>Mock.
	TypeName string
}

// Adapter renders a gofmt-ed adapter file for iface.
func Adapter(iface *detect.Interface, opts Options) (string, error) {
	typeName := opts.TypeName
	if typeName == "" {
		typeName = DefaultTypeName(iface.Name)
	}

	imports := []detect.Import{{Path: AutomockImportPath}}

	for _, imp := range iface.Imports {
		if imp.Path != AutomockImportPath {
			imports = append(imports, imp)
		}
	}

	reserved := reservedNames(imports)

	header := headerData{Package: opts.Package, Imports: imports}
	shared := typeData{TypeName: typeName, Interface: iface.Ref}

	var buf bytes.Buffer

	templates := NewTemplateRegistry()
	templates.WriteHeader(&buf, header)
	templates.WriteStruct(&buf, shared)

	for _, method := range iface.Methods {
		templates.WriteMethod(&buf, newMethodData(typeName, method, reserved))
	}

	templates.WriteRegister(&buf, shared)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format adapter for %s: %w\n%s", iface.Ref, err, buf.String())
	}

	return string(formatted), nil
}

// DefaultTypeName is the adapter name used when none is given.
func DefaultTypeName(interfaceName string) string {
	return interfaceName + "Mock"
}

type headerData struct {
	Package string
	Imports []detect.Import
}

type methodData struct {
	TypeName string
	Name     string
	Params   string
	Results  string
	// Args are the non-variadic argument names.
	Args []string
	// Variadic is the variadic parameter's name, if any.
	Variadic string
	// Capacity sizes the flattened argument slice of variadic methods.
	Capacity string
	Outs     []string
}

type typeData struct {
	TypeName  string
	Interface string
}

// paramNames picks a usable name for every parameter: declared names are
// kept unless blank, duplicated, or clashing with names the adapter uses.
func paramNames(params []detect.Field, reserved map[string]bool) []string {
	names := make([]string, len(params))
	used := make(map[string]bool, len(params))

	for i, param := range params {
		name := param.Name
		if name == "" || name == "_" || reserved[name] || used[name] {
			name = "arg" + strconv.Itoa(i)
		}

		used[name] = true
		names[i] = name
	}

	return names
}

func newMethodData(typeName string, method detect.Method, reserved map[string]bool) methodData {
	names := paramNames(method.Params, reserved)
	params := make([]string, len(method.Params))

	for i, param := range method.Params {
		typ := param.Type
		if method.Variadic && i == len(method.Params)-1 {
			typ = "..." + typ
		}

		params[i] = names[i] + " " + typ
	}

	data := methodData{
		TypeName: typeName,
		Name:     method.Name,
		Params:   strings.Join(params, ", "),
		Args:     names,
	}

	if method.Variadic {
		data.Args = names[:len(names)-1]
		data.Variadic = names[len(names)-1]

		data.Capacity = "len(" + data.Variadic + ")"
		if len(data.Args) > 0 {
			data.Capacity = strconv.Itoa(len(data.Args)) + "+" + data.Capacity
		}
	}

	for _, result := range method.Results {
		data.Outs = append(data.Outs, result.Type)
	}

	switch len(data.Outs) {
	case 0:
	case 1:
		data.Results = " " + data.Outs[0]
	default:
		data.Results = " (" + strings.Join(data.Outs, ", ") + ")"
	}

	return data
}

// reservedNames are identifiers a parameter must not shadow in the adapter body.
func reservedNames(imports []detect.Import) map[string]bool {
	reserved := map[string]bool{"impl": true, "args": true, "arg": true, "results": true}

	for _, imp := range imports {
		name := imp.Name
		if name == "" {
			name = path.Base(imp.Path)
		}

		reserved[name] = true
	}

	return reserved
}
