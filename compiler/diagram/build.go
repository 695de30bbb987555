package diagram

import (
	"strings"

	"github.com/loomkit/loom/naming"
	"github.com/loomkit/loom/schema"
)

// build turns the grammar AST into a schema AST, collecting line-numbered
// errors. Any error fails the whole document.
func build(doc *documentAST, appName string) *Result {
	app := schema.NewApp(naming.Kebab(appName))
	var errs []schema.ParseError

	fail := func(msg string, line int) {
		errs = append(errs, schema.ParseError{Message: msg, Line: line})
	}

	// First pass: entity blocks and their fields.
	for _, e := range doc.Entries {
		if e.Entity == nil {
			continue
		}
		res, err := schema.NewResource(e.Entity.Name)
		if err != nil {
			fail(err.Error(), e.Entity.Pos.Line)
			continue
		}
		for _, fd := range e.Entity.Fields {
			f, err := buildField(res.Name, fd)
			if err != nil {
				fail(err.Error(), fd.Pos.Line)
				continue
			}
			if err := res.AddField(f); err != nil {
				fail(err.Error(), fd.Pos.Line)
			}
		}
		if err := app.AddResource(res); err != nil {
			fail(err.Error(), e.Entity.Pos.Line)
		}
	}

	// Second pass: relationship lines. Entities referenced only here are
	// created implicitly.
	for _, e := range doc.Entries {
		if e.Rel == nil {
			continue
		}
		if err := applyRelationship(app, e.Rel); err != nil {
			fail(err.Error(), e.Rel.Pos.Line)
		}
	}

	if len(errs) > 0 {
		return &Result{Success: false, Errors: errs}
	}
	if err := app.ResolveReferences(); err != nil {
		fail(err.Error(), 1)
		return &Result{Success: false, Errors: errs}
	}
	return &Result{Success: true, App: app}
}

// buildField maps one field line to a schema field.
func buildField(resource string, fd *fieldDef) (*schema.Field, error) {
	t, ok := primitiveTypes[fd.Type]
	if !ok {
		return nil, schema.NewFieldError(resource, fd.Name, "unknown type "+fd.Type, nil)
	}
	f := &schema.Field{Name: fd.Name, Type: t, Required: true, Decimal: fd.Type == "float"}
	for _, m := range fd.Modifiers {
		switch m {
		case "PK":
			// Informational only: PK does not change the type.
			f.PrimaryKey = true
		case "UK":
			f.Unique = true
		case "FK":
			f.Type = schema.TypeRelation
			f.Decimal = false
			f.Rel = &schema.Relationship{
				Target:      fkTarget(fd.Name),
				Cardinality: schema.One,
				ForeignKey:  fd.Name,
			}
		}
	}
	return f, nil
}

// fkTarget infers the referenced resource from a foreign-key field name by
// convention: "authorId" -> "Author". A relationship line naming the field
// overrides the inference.
func fkTarget(name string) string {
	base := strings.TrimSuffix(name, "Id")
	base = strings.TrimSuffix(base, "_id")
	if base == "" {
		base = name
	}
	return naming.Pascal(naming.Singularize(base))
}

// applyRelationship materializes a relationship line onto the AST.
//
// One-to-many creates (or retargets) a "<parent>Id" relation field on the
// many side. One-to-one creates a unique relation field on the right-hand
// entity. Many-to-many creates a many-cardinality relation field on each
// side; no join entity is materialized.
func applyRelationship(app *schema.App, rd *relDef) error {
	left, err := ensureResource(app, rd.Left)
	if err != nil {
		return err
	}
	right, err := ensureResource(app, rd.Right)
	if err != nil {
		return err
	}

	leftMany := strings.ContainsAny(rd.LeftCard, "{}")
	rightMany := strings.ContainsAny(rd.RightCard, "{}")

	switch {
	case leftMany && rightMany:
		if err := addManyRef(left, right); err != nil {
			return err
		}
		return addManyRef(right, left)
	case !leftMany && rightMany:
		return addForeignKey(right, left, false)
	case leftMany && !rightMany:
		return addForeignKey(left, right, false)
	default:
		return addForeignKey(right, left, true)
	}
}

// ensureResource returns the named resource, creating it when the
// relationship line references an entity that has no block of its own.
func ensureResource(app *schema.App, name string) (*schema.Resource, error) {
	if r := app.Resource(name); r != nil {
		return r, nil
	}
	r, err := schema.NewResource(name)
	if err != nil {
		return nil, err
	}
	if err := app.AddResource(r); err != nil {
		return nil, err
	}
	return r, nil
}

// addForeignKey places a single-record relation field on child pointing at
// parent, reusing a declared FK field of the conventional name when
// present.
func addForeignKey(child, parent *schema.Resource, unique bool) error {
	name := naming.Camel(parent.Name) + "Id"
	rel := &schema.Relationship{
		Target:      parent.Name,
		Cardinality: schema.One,
		ForeignKey:  name,
		Inverse:     naming.Camel(naming.Pluralize(child.Name)),
	}
	if f := child.Field(name); f != nil {
		f.Type = schema.TypeRelation
		f.Rel = rel
		if unique {
			f.Unique = true
		}
		return nil
	}
	return child.AddField(&schema.Field{
		Name:     name,
		Type:     schema.TypeRelation,
		Required: true,
		Unique:   unique,
		Rel:      rel,
	})
}

// addManyRef places a many-cardinality relation field on owner pointing at
// target, for the many-to-many form.
func addManyRef(owner, target *schema.Resource) error {
	name := naming.Camel(naming.Pluralize(target.Name))
	if owner.Field(name) != nil {
		return nil
	}
	return owner.AddField(&schema.Field{
		Name:     name,
		Type:     schema.TypeRelation,
		Required: false,
		Rel: &schema.Relationship{
			Target:      target.Name,
			Cardinality: schema.Many,
			ForeignKey:  naming.Camel(naming.Singularize(target.Name)) + "Id",
			Inverse:     naming.Camel(naming.Pluralize(owner.Name)),
		},
	})
}
