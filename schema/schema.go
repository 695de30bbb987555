// Package schema defines the canonical application schema: the in-memory
// representation of resources, fields, relationships, and view metadata that
// every parser produces and every code generator consumes.
//
// An App is built fresh per compilation, used synchronously by the
// generators, and discarded. Once returned by a parser it is treated as
// immutable: generators read it but never mutate it.
package schema

import (
	"regexp"

	"github.com/loomkit/loom/naming"
)

// Type is the data type of a field.
type Type string

// Field types.
const (
	TypeText     Type = "text"
	TypeNumber   Type = "number"
	TypeBoolean  Type = "boolean"
	TypeDate     Type = "date"
	TypeDateTime Type = "datetime"
	TypeSelect   Type = "select"
	TypeRelation Type = "relation"
	TypeEmail    Type = "email"
	TypeURL      Type = "url"
	TypeUUID     Type = "uuid"
	TypeJSON     Type = "json"
)

// Valid reports whether t is a known field type.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeBoolean, TypeDate, TypeDateTime,
		TypeSelect, TypeRelation, TypeEmail, TypeURL, TypeUUID, TypeJSON:
		return true
	}
	return false
}

// Cardinality of a relation field.
type Cardinality string

// Relation cardinalities.
const (
	One  Cardinality = "one"
	Many Cardinality = "many"
)

// DeletePolicy controls what happens to referencing records when the
// referenced record is deleted.
type DeletePolicy string

// Delete policies.
const (
	Cascade  DeletePolicy = "cascade"
	Nullify  DeletePolicy = "nullify"
	Restrict DeletePolicy = "restrict"
)

// Relationship describes where a relation field points.
type Relationship struct {
	// Target is the name of the referenced resource. It may equal the
	// owning resource for self-references.
	Target string
	// Cardinality is One for a single-record reference (belongs-to) and
	// Many for a list reference (has-many).
	Cardinality Cardinality
	// ForeignKey is the key column holding the reference. Defaults to
	// "<fieldName>Id" when not set explicitly.
	ForeignKey string
	// Inverse is the field name on the target side used for reverse
	// lookups.
	Inverse string
	// OnDelete is the optional referential delete policy.
	OnDelete DeletePolicy
}

// Validation holds optional per-field bounds.
type Validation struct {
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   string
	// Future and Past restrict date fields and are mutually exclusive.
	Future bool
	Past   bool
}

// Field is one declared field of a resource.
type Field struct {
	Name     string
	Type     Type
	Required bool
	Unique   bool
	// Auto marks a system-managed field. Auto implies Required == false.
	Auto    bool
	Default any
	// Options holds the allowed values of a select field. Required and
	// non-empty when Type == TypeSelect.
	Options    []string
	Validation *Validation
	// Rel is set if and only if Type == TypeRelation.
	Rel *Relationship
	// PrimaryKey records PK metadata from the diagram notation. It is
	// informational and does not change the field type.
	PrimaryKey bool
	// Decimal is set for diagram "float" fields.
	Decimal bool
	// View holds per-field display metadata layered on by the
	// annotation parser.
	View *FieldViewConfig
}

// Resource is one named entity of an app.
type Resource struct {
	Name   string
	Fields []*Field
	Views  []*ViewConfig
}

// App is the root of the schema AST.
type App struct {
	Name      string
	Version   string
	Resources []*Resource
}

var (
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	resourceRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// reservedFieldNames are rejected as field names: the id column is
// system-managed, and the rest are prototype-pollution hazards in
// generated consumers.
var reservedFieldNames = map[string]bool{
	"id":          true,
	"_id":         true,
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// NewApp returns an empty app with the given name.
func NewApp(name string) *App {
	if name == "" {
		name = "app"
	}
	return &App{Name: name}
}

// Slug returns the app name in slug form: lowercased, with runs of
// non-alphanumeric runes collapsed to single hyphens.
func (a *App) Slug() string {
	return naming.Kebab(a.Name)
}

// Resource returns the resource with the given name, or nil.
func (a *App) Resource(name string) *Resource {
	for _, r := range a.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// AddResource appends r, rejecting duplicate resource names.
func (a *App) AddResource(r *Resource) error {
	if a.Resource(r.Name) != nil {
		return NewResourceError(r.Name, "resource redeclared", nil)
	}
	a.Resources = append(a.Resources, r)
	return nil
}

// NewResource returns an empty resource. The name must be a PascalCase
// identifier.
func NewResource(name string) (*Resource, error) {
	if !resourceRe.MatchString(name) {
		return nil, NewResourceError(name, "resource name must be a PascalCase identifier", nil)
	}
	return &Resource{Name: name}, nil
}

// Field returns the field with the given name, or nil.
func (r *Resource) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Relationships returns the relation fields of r in declaration order.
func (r *Resource) Relationships() []*Field {
	var rels []*Field
	for _, f := range r.Fields {
		if f.Type == TypeRelation {
			rels = append(rels, f)
		}
	}
	return rels
}

// AddField validates f and appends it. The relation target is not resolved
// here: forward references are legal and checked by ResolveReferences once
// the whole document has parsed.
func (r *Resource) AddField(f *Field) error {
	if err := f.check(r.Name); err != nil {
		return err
	}
	if r.Field(f.Name) != nil {
		return NewFieldError(r.Name, f.Name, "field redeclared", nil)
	}
	if f.Type == TypeRelation {
		if f.Rel.ForeignKey == "" {
			f.Rel.ForeignKey = f.Name + "Id"
		}
		if f.Rel.Inverse == "" {
			f.Rel.Inverse = naming.Camel(naming.Pluralize(r.Name))
		}
	}
	r.Fields = append(r.Fields, f)
	return nil
}

// check enforces the field invariants.
func (f *Field) check(resource string) error {
	if !identRe.MatchString(f.Name) {
		return NewFieldError(resource, f.Name, "invalid field name", nil)
	}
	if reservedFieldNames[f.Name] {
		return NewFieldError(resource, f.Name, "reserved field name", nil)
	}
	if !f.Type.Valid() {
		return NewFieldError(resource, f.Name, "unknown field type "+string(f.Type), nil)
	}
	if f.Auto && f.Required {
		return NewFieldError(resource, f.Name, "auto fields cannot be required", nil)
	}
	if f.Type == TypeSelect && len(f.Options) == 0 {
		return NewFieldError(resource, f.Name, "select fields require at least one option", nil)
	}
	if f.Type == TypeRelation && (f.Rel == nil || f.Rel.Target == "") {
		return NewFieldError(resource, f.Name, "relation fields require a target", nil)
	}
	if f.Type != TypeRelation && f.Rel != nil {
		return NewFieldError(resource, f.Name, "only relation fields may carry a relationship", nil)
	}
	if v := f.Validation; v != nil {
		if v.Future && v.Past {
			return NewFieldError(resource, f.Name, "future and past are mutually exclusive", nil)
		}
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return NewFieldError(resource, f.Name, "min cannot exceed max", nil)
		}
		if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
			return NewFieldError(resource, f.Name, "minLength cannot exceed maxLength", nil)
		}
	}
	return nil
}

// ResolveReferences verifies that every relation field points at a resource
// known in the app. It runs after parsing so that forward references are
// legal.
func (a *App) ResolveReferences() error {
	var errs []error
	for _, r := range a.Resources {
		for _, f := range r.Relationships() {
			if a.Resource(f.Rel.Target) == nil {
				errs = append(errs, NewFieldError(r.Name, f.Name, "unknown relation target "+f.Rel.Target, nil))
			}
		}
	}
	return Join(errs...)
}
