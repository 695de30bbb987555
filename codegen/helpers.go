package codegen

import (
	"fmt"
	"strings"

	"github.com/loomkit/loom/naming"
	"github.com/loomkit/loom/schema"
)

// emitter builds indented source text.
type emitter struct {
	b      strings.Builder
	indent int
}

func (e *emitter) in()  { e.indent++ }
func (e *emitter) out() { e.indent-- }

func (e *emitter) line(format string, args ...any) {
	if format == "" {
		e.b.WriteByte('\n')
		return
	}
	e.b.WriteString(strings.Repeat("  ", e.indent))
	fmt.Fprintf(&e.b, format, args...)
	e.b.WriteByte('\n')
}

func (e *emitter) blank() { e.line("") }

func (e *emitter) String() string { return e.b.String() }

// header is the fixed first line of every generated source artifact.
const header = "// Code generated by loom. DO NOT EDIT."

// singular returns the singular PascalCase form of a resource name, used
// for per-record method and type names.
func singular(name string) string {
	return naming.Pascal(naming.Singularize(name))
}

// plural returns the plural PascalCase form of a resource name, used for
// list method names.
func plural(name string) string {
	return naming.Pascal(naming.Pluralize(name))
}

// keyPrefix is the storage key prefix of a resource.
func keyPrefix(r *schema.Resource) string {
	return naming.Camel(naming.Singularize(r.Name))
}

// crud method names.

func createName(r *schema.Resource) string { return "create" + singular(r.Name) }
func getName(r *schema.Resource) string    { return "get" + singular(r.Name) }
func listName(r *schema.Resource) string   { return "list" + plural(r.Name) }
func updateName(r *schema.Resource) string { return "update" + singular(r.Name) }
func deleteName(r *schema.Resource) string { return "delete" + singular(r.Name) }

// relMethodName is the traversal method of a declared relation field:
// a single-record lookup for belongs-to, a filtered list for has-many.
func relMethodName(r *schema.Resource, f *schema.Field) string {
	if f.Rel.Cardinality == schema.Many {
		return "list" + singular(r.Name) + naming.Pascal(f.Name)
	}
	return "get" + singular(r.Name) + naming.Pascal(f.Name)
}

// ownerForeignKey is the conventional key on a related record referencing
// the owning resource, used for reverse lookups.
func ownerForeignKey(r *schema.Resource) string {
	return naming.Camel(naming.Singularize(r.Name)) + "Id"
}

// tsType maps a field type to its TypeScript type.
func tsType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeNumber:
		return "number"
	case schema.TypeBoolean:
		return "boolean"
	case schema.TypeSelect:
		return literalUnion(f.Options)
	case schema.TypeJSON:
		return "unknown"
	case schema.TypeRelation:
		// Relation fields hold the referenced record id(s).
		if f.Rel != nil && f.Rel.Cardinality == schema.Many {
			return "string[]"
		}
		return "string"
	default:
		// text, email, url, uuid, date, datetime.
		return "string"
	}
}

// literalUnion renders select options as a union of string literals.
func literalUnion(options []string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprintf("%q", o)
	}
	return strings.Join(parts, " | ")
}

// interfaceName is the record type of a resource.
func interfaceName(r *schema.Resource) string { return singular(r.Name) }

// createInputName and updateInputName are the input type variants.
func createInputName(r *schema.Resource) string { return "Create" + singular(r.Name) + "Input" }
func updateInputName(r *schema.Resource) string { return "Update" + singular(r.Name) + "Input" }

// allowedMethods lists every externally invokable method of the entity
// class, in emission order.
func allowedMethods(app *schema.App, cfg *Config) []string {
	var methods []string
	for _, r := range app.Resources {
		methods = append(methods, createName(r), getName(r), listName(r), updateName(r), deleteName(r))
		if cfg.IncludeRelationships {
			for _, f := range r.Relationships() {
				methods = append(methods, relMethodName(r, f))
			}
		}
	}
	return methods
}
