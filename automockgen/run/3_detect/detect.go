// Package detect finds an interface in parsed source and flattens its method
// set, with every type rendered the way the generating package must spell it.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/automock/automockgen/run/0_util"
)

// Field is a parameter or result.
type Field struct {
	// Name is the declared name, empty if unnamed.
	Name string
	Type string
}

// Import is a package the generated code must import.
type Import struct {
	// Name is set when it differs from the last element of Path.
	Name string
	Path string
}

// Interface is a resolved interface.
type Interface struct {
	Name string
	// Ref is how the generating package refers to the interface: "Repo" or "store.Repo".
	Ref     string
	Methods []Method
	Imports []Import
}

// Method is one method of the flattened method set.
type Method struct {
	Name    string
	Params  []Field
	Results []Field
	// Variadic is true when the last parameter is variadic. Its Type is then
	// the element type.
	Variadic bool
}

// PackageLoader loads parsed packages. Load(".") returns the generating
// package's directory, test files included.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
	ImportPath(importPath string) (string, error)
}

// Request names the interface to find.
type Request struct {
	// Target is "Iface" for an interface in the generating directory, or
	// "pkg.Iface" where pkg is imported by one of its files.
	Target string
	// Package is the generating package's name (GOPACKAGE).
	Package string
}

// Find resolves req against local, the parsed files of the generating directory.
func Find(loader PackageLoader, local []*dst.File, req Request) (*Interface, error) {
	res := &resolver{
		loader:  loader,
		imports: make(map[string]string),
		seen:    make(map[string]bool),
	}

	qualifier, name, qualified := strings.Cut(req.Target, ".")

	var (
		sc  *scope
		err error
	)

	if qualified {
		sc, err = res.importedScope(local, qualifier)
	} else {
		name = qualifier
		sc, err = res.localScope(local, name, req.Package)
	}

	if err != nil {
		return nil, err
	}

	methods, err := res.interfaceMethods(sc, name)
	if err != nil {
		return nil, err
	}

	methods = dedupe(methods)
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })

	ref := name
	if sc.qualifier != "" {
		ref = sc.qualifier + "." + name
	}

	return &Interface{Name: name, Ref: ref, Methods: methods, Imports: res.importList()}, nil
}

// unexported variables.
var (
	errGenericInterface    = errors.New("generic interfaces are not supported")
	errInterfaceNotFound   = errors.New("interface not found")
	errNotInterface        = errors.New("not an interface")
	errPackageNotInImports = errors.New("package not found in imports")
	errUnexportedType      = errors.New("unexported type cannot be referenced")
	errUnsupportedEmbedded = errors.New("unsupported embedded type")
)

type resolver struct {
	loader  PackageLoader
	imports map[string]string // path -> name
	seen    map[string]bool
	err     error
}

// scope is a package the resolver reads declarations from.
type scope struct {
	files []*dst.File
	// qualifier prefixes the package's names in generated code; empty for the
	// generating package itself.
	qualifier  string
	importPath string
	declared   map[string]bool
}

func (r *resolver) addImport(name, importPath string) {
	if _, ok := r.imports[importPath]; !ok {
		r.imports[importPath] = name
	}
}

func (r *resolver) embedded(sc *scope, file *dst.File, expr dst.Expr) ([]Method, error) {
	switch typed := expr.(type) {
	case *dst.Ident:
		switch typed.Name {
		case "error":
			return []Method{{Name: "Error", Results: []Field{{Type: "string"}}}}, nil
		case "any", "comparable":
			return nil, nil
		default:
			return r.interfaceMethods(sc, typed.Name)
		}
	case *dst.SelectorExpr:
		pkg, ok := typed.X.(*dst.Ident)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errUnsupportedEmbedded, astutil.StringifyExpr(expr))
		}

		importPath, err := r.matchImport(file.Imports, pkg.Name)
		if err != nil {
			return nil, err
		}

		files, _, err := r.loader.Load(importPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", importPath, err)
		}

		r.addImport(pkg.Name, importPath)

		return r.interfaceMethods(newScope(files, pkg.Name, importPath), typed.Sel.Name)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedEmbedded, astutil.StringifyExpr(expr))
	}
}

// importedScope loads the package local files import as qualifier.
func (r *resolver) importedScope(local []*dst.File, qualifier string) (*scope, error) {
	var imports []*dst.ImportSpec
	for _, file := range local {
		imports = append(imports, file.Imports...)
	}

	importPath, err := r.matchImport(imports, qualifier)
	if err != nil {
		return nil, err
	}

	files, _, err := r.loader.Load(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", importPath, err)
	}

	r.addImport(qualifier, importPath)

	return newScope(files, qualifier, importPath), nil
}

func (r *resolver) importList() []Import {
	imports := make([]Import, 0, len(r.imports))

	for importPath, name := range r.imports {
		if name == path.Base(importPath) {
			name = ""
		}

		imports = append(imports, Import{Name: name, Path: importPath})
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	return imports
}

func (r *resolver) interfaceMethods(sc *scope, name string) ([]Method, error) {
	key := sc.importPath + "." + name
	if r.seen[key] {
		return nil, nil
	}

	r.seen[key] = true

	spec, file := sc.find(name)
	if spec == nil {
		return nil, fmt.Errorf("%w: %q in %s", errInterfaceNotFound, name, sc.describe())
	}

	iface, ok := spec.Type.(*dst.InterfaceType)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", errNotInterface, name, sc.describe())
	}

	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return nil, fmt.Errorf("%w: %q", errGenericInterface, name)
	}

	qualifier := r.qualifier(sc, file)

	var methods []Method

	if iface.Methods == nil {
		return nil, nil
	}

	for _, field := range iface.Methods.List {
		funcType, ok := field.Type.(*dst.FuncType)
		if ok && len(field.Names) > 0 {
			methods = append(methods, method(field.Names[0].Name, funcType, qualifier))

			continue
		}

		embedded, err := r.embedded(sc, file, field.Type)
		if err != nil {
			return nil, err
		}

		methods = append(methods, embedded...)
	}

	if r.err != nil {
		return nil, r.err
	}

	return methods, nil
}

// localScope finds name in the generating directory. An interface declared in
// package p can be generated for p or for the black-box test package p_test.
func (r *resolver) localScope(local []*dst.File, name, genPkg string) (*scope, error) {
	var declaringPkg string

	for _, file := range local {
		if spec, _ := newScope([]*dst.File{file}, "", "").find(name); spec != nil {
			declaringPkg = file.Name.Name

			break
		}
	}

	switch declaringPkg {
	case "":
		return nil, fmt.Errorf("%w: %q in the current directory", errInterfaceNotFound, name)
	case genPkg:
		return newScope(filesOf(local, declaringPkg), "", ""), nil
	}

	if genPkg != declaringPkg+"_test" {
		return nil, fmt.Errorf("%w: %q is declared in package %s, not %s", errInterfaceNotFound, name, declaringPkg, genPkg)
	}

	importPath, err := r.loader.ImportPath(".")
	if err != nil {
		return nil, err
	}

	r.addImport(declaringPkg, importPath)

	return newScope(filesOf(local, declaringPkg), declaringPkg, importPath), nil
}

// matchImport finds the import path a file refers to as name: an explicit
// alias, the last path element, or failing those the package's own name.
func (r *resolver) matchImport(imports []*dst.ImportSpec, name string) (string, error) {
	var unnamed []string

	for _, imp := range imports {
		importPath := strings.Trim(imp.Path.Value, `"`)

		if imp.Name != nil {
			if imp.Name.Name == name {
				return importPath, nil
			}

			continue
		}

		if path.Base(importPath) == name {
			return importPath, nil
		}

		unnamed = append(unnamed, importPath)
	}

	for _, importPath := range unnamed {
		files, _, err := r.loader.Load(importPath)
		if err == nil && len(files) > 0 && files[0].Name.Name == name {
			return importPath, nil
		}
	}

	return "", fmt.Errorf("%w: %q", errPackageNotInImports, name)
}

// qualifier renders types declared in sc for the generating package and
// records the imports they need. Failures are stored in r.err.
func (r *resolver) qualifier(sc *scope, file *dst.File) astutil.Qualifier {
	return astutil.Qualifier{
		Ident: func(name string) string {
			if sc.qualifier == "" || !sc.declared[name] {
				return name
			}

			if !token.IsExported(name) && r.err == nil {
				r.err = fmt.Errorf("%w: %s.%s", errUnexportedType, sc.qualifier, name)
			}

			return sc.qualifier + "." + name
		},
		Package: func(name string) string {
			importPath, err := r.matchImport(file.Imports, name)
			if err != nil {
				if r.err == nil {
					r.err = err
				}

				return name
			}

			r.addImport(name, importPath)

			return name
		},
	}
}

func (sc *scope) describe() string {
	if sc.importPath == "" {
		return "the current package"
	}

	return "package " + sc.importPath
}

// find returns the type spec declaring name and its file.
func (sc *scope) find(name string) (*dst.TypeSpec, *dst.File) {
	for _, file := range sc.files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if ok && typeSpec.Name.Name == name {
					return typeSpec, file
				}
			}
		}
	}

	return nil, nil
}

func dedupe(methods []Method) []Method {
	seen := make(map[string]bool, len(methods))

	return slices.DeleteFunc(methods, func(m Method) bool {
		if seen[m.Name] {
			return true
		}

		seen[m.Name] = true

		return false
	})
}

// fields pairs declared names with rendered types. A variadic last field is
// rendered as its element type.
func fields(list *dst.FieldList, q astutil.Qualifier) ([]Field, bool) {
	if list == nil || len(list.List) == 0 {
		return nil, false
	}

	names := astutil.FieldNames(list)
	types := q.FieldTypes(list)

	variadic := false
	if ellipsis, ok := list.List[len(list.List)-1].Type.(*dst.Ellipsis); ok {
		variadic = true
		types[len(types)-1] = q.Render(ellipsis.Elt)
	}

	out := make([]Field, len(types))
	for i := range types {
		out[i] = Field{Name: names[i], Type: types[i]}
	}

	return out, variadic
}

func filesOf(files []*dst.File, pkg string) []*dst.File {
	var matching []*dst.File

	for _, file := range files {
		if file.Name.Name == pkg {
			matching = append(matching, file)
		}
	}

	return matching
}

func method(name string, funcType *dst.FuncType, q astutil.Qualifier) Method {
	params, variadic := fields(funcType.Params, q)
	results, _ := fields(funcType.Results, q)

	return Method{Name: name, Params: params, Results: results, Variadic: variadic}
}

// newScope indexes the package-level names declared in files.
func newScope(files []*dst.File, qualifier, importPath string) *scope {
	declared := make(map[string]bool)

	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range genDecl.Specs {
				switch typed := spec.(type) {
				case *dst.TypeSpec:
					declared[typed.Name.Name] = true
				case *dst.ValueSpec:
					for _, name := range typed.Names {
						declared[name.Name] = true
					}
				}
			}
		}
	}

	return &scope{files: files, qualifier: qualifier, importPath: importPath, declared: declared}
}
