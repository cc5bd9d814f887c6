// Package astutil renders dst type expressions back to Go source.
package astutil

import (
	"fmt"
	"strings"

	"github.com/dave/dst"
)

// Qualifier rewrites names while an expression is rendered for another
// package. Ident maps bare identifiers in type position (declared types and
// constants); Package maps the package part of a qualified identifier.
// Either may be nil to keep names as they are.
type Qualifier struct {
	Ident   func(name string) string
	Package func(name string) string
}

// FieldNames returns the declared names of a field list, one entry per value.
// Unnamed fields get an empty name.
func FieldNames(fields *dst.FieldList) []string {
	if fields == nil {
		return nil
	}

	var names []string

	for _, field := range fields.List {
		if len(field.Names) == 0 {
			names = append(names, "")

			continue
		}

		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}

	return names
}

// StringifyExpr renders expr without rewriting any names.
func StringifyExpr(expr dst.Expr) string {
	return Qualifier{}.Render(expr)
}

// Render renders expr as Go source, applying q to identifiers.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func (q Qualifier) Render(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typed := expr.(type) {
	case *dst.Ident:
		return q.ident(typed.Name)
	case *dst.BasicLit:
		return typed.Value
	case *dst.SelectorExpr:
		if pkg, ok := typed.X.(*dst.Ident); ok {
			return q.pkg(pkg.Name) + "." + typed.Sel.Name
		}

		return q.Render(typed.X) + "." + typed.Sel.Name
	case *dst.StarExpr:
		return "*" + q.Render(typed.X)
	case *dst.ArrayType:
		if typed.Len != nil {
			return "[" + q.Render(typed.Len) + "]" + q.Render(typed.Elt)
		}

		return "[]" + q.Render(typed.Elt)
	case *dst.MapType:
		return "map[" + q.Render(typed.Key) + "]" + q.Render(typed.Value)
	case *dst.ChanType:
		switch typed.Dir {
		case dst.SEND:
			return "chan<- " + q.Render(typed.Value)
		case dst.RECV:
			return "<-chan " + q.Render(typed.Value)
		default:
			return "chan " + q.Render(typed.Value)
		}
	case *dst.InterfaceType:
		return q.interfaceType(typed)
	case *dst.StructType:
		return q.structType(typed)
	case *dst.FuncType:
		return "func" + q.Signature(typed)
	case *dst.Ellipsis:
		return "..." + q.Render(typed.Elt)
	case *dst.IndexExpr:
		return q.Render(typed.X) + "[" + q.Render(typed.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typed.Indices))
		for i, idx := range typed.Indices {
			indices[i] = q.Render(idx)
		}

		return q.Render(typed.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + q.Render(typed.X) + ")"
	case *dst.BinaryExpr:
		return q.Render(typed.X) + " " + typed.Op.String() + " " + q.Render(typed.Y)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Signature renders the parameter and result lists of a function type,
// without the func keyword.
func (q Qualifier) Signature(funcType *dst.FuncType) string {
	var buf strings.Builder

	buf.WriteString("(")
	buf.WriteString(strings.Join(q.FieldTypes(funcType.Params), ", "))
	buf.WriteString(")")

	results := q.FieldTypes(funcType.Results)

	switch len(results) {
	case 0:
	case 1:
		buf.WriteString(" ")
		buf.WriteString(results[0])
	default:
		buf.WriteString(" (")
		buf.WriteString(strings.Join(results, ", "))
		buf.WriteString(")")
	}

	return buf.String()
}

// FieldTypes renders one type per value in a field list: "a, b int" gives
// two entries.
func (q Qualifier) FieldTypes(fields *dst.FieldList) []string {
	if fields == nil {
		return nil
	}

	var types []string

	for _, field := range fields.List {
		typ := q.Render(field.Type)

		count := max(len(field.Names), 1)
		for range count {
			types = append(types, typ)
		}
	}

	return types
}

func (q Qualifier) ident(name string) string {
	if q.Ident == nil {
		return name
	}

	return q.Ident(name)
}

func (q Qualifier) interfaceType(interfaceType *dst.InterfaceType) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			// embedded
			parts = append(parts, q.Render(method.Type))

			continue
		}

		parts = append(parts, method.Names[0].Name+q.Signature(funcType))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

func (q Qualifier) pkg(name string) string {
	if q.Package == nil {
		return name
	}

	return q.Package(name)
}

func (q Qualifier) structType(structType *dst.StructType) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			names := make([]string, len(field.Names))
			for i, name := range field.Names {
				names[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(names, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(q.Render(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" ")
			fieldStr.WriteString(field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}
