package annotation

import (
	"strconv"
	"strings"

	"github.com/loomkit/loom/compiler/shorthand"
	"github.com/loomkit/loom/naming"
	"github.com/loomkit/loom/schema"
)

// fieldAnnotations are the recognized field-level annotation names.
var fieldAnnotations = map[string]bool{
	"label":       true,
	"placeholder": true,
	"hidden":      true,
	"readonly":    true,
	"width":       true,
	"format":      true,
	"component":   true,
}

// viewKeys are the recognized keyword arguments of @view.
var viewKeys = map[string]bool{
	"name":          true,
	"fields":        true,
	"sortBy":        true,
	"sortDirection": true,
	"groupBy":       true,
	"filters":       true,
	"layout":        true,
	"columns":       true,
}

type builder struct {
	app    *schema.App
	views  map[string][]*schema.ViewConfig
	fields map[string]map[string]*schema.FieldViewConfig
	errs   []schema.ParseError
}

func build(doc *documentAST, appName string) *Result {
	b := &builder{
		app:    schema.NewApp(naming.Kebab(appName)),
		views:  make(map[string][]*schema.ViewConfig),
		fields: make(map[string]map[string]*schema.FieldViewConfig),
	}
	for _, block := range doc.Blocks {
		b.buildBlock(block)
	}
	if len(b.errs) == 0 {
		if err := b.app.ResolveReferences(); err != nil {
			b.fail(err.Error(), 1)
		}
	}
	if len(b.errs) > 0 {
		return &Result{Success: false, Errors: b.errs}
	}
	return &Result{Success: true, App: b.app, Views: b.views, FieldConfigs: b.fields}
}

func (b *builder) fail(msg string, line int) {
	b.errs = append(b.errs, schema.ParseError{Message: msg, Line: line})
}

func (b *builder) buildBlock(block *blockDef) {
	res, err := schema.NewResource(block.Name)
	if err != nil {
		b.fail(err.Error(), block.Pos.Line)
		return
	}

	// Each @view preceding the block becomes an independent config,
	// in source order.
	for _, ann := range block.Annotations {
		if ann.Name != "view" {
			b.fail("unknown annotation @"+ann.Name, ann.Pos.Line)
			continue
		}
		if vc := b.buildView(ann); vc != nil {
			res.Views = append(res.Views, vc)
			b.views[res.Name] = append(b.views[res.Name], vc)
		}
	}

	for _, fd := range block.Fields {
		f := shorthand.ParseKey(fieldKey(fd), nil)
		if cfg := b.buildFieldConfig(res.Name, fd); cfg != nil {
			f.View = cfg
			if b.fields[res.Name] == nil {
				b.fields[res.Name] = make(map[string]*schema.FieldViewConfig)
			}
			b.fields[res.Name][f.Name] = cfg
		}
		if err := res.AddField(f); err != nil {
			b.fail(err.Error(), fd.Pos.Line)
		}
	}

	if err := b.app.AddResource(res); err != nil {
		b.fail(err.Error(), block.Pos.Line)
	}
}

// fieldKey reconstructs the shorthand key of a field declaration so the two
// front ends share one field grammar.
func fieldKey(fd *fieldDecl) string {
	var k strings.Builder
	k.WriteString(fd.Name)
	if fd.Optional {
		k.WriteString("?")
	}
	for _, m := range fd.Mods {
		k.WriteString(":")
		k.WriteString(m)
	}
	if fd.Arrow != nil {
		k.WriteString("->")
		k.WriteString(fd.Arrow.Target)
		if fd.Arrow.Many {
			k.WriteString("[]")
		}
	}
	return k.String()
}

// buildView maps one @view annotation to a view config.
func (b *builder) buildView(ann *annotationDef) *schema.ViewConfig {
	if len(ann.Args) == 0 || ann.Args[0].Key != "" {
		b.fail("@view requires a view type as its first argument", ann.Pos.Line)
		return nil
	}
	vt := schema.ViewType(ann.Args[0].Value.text())
	if !vt.Valid() {
		b.fail("unknown view type "+strconv.Quote(string(vt)), ann.Pos.Line)
		return nil
	}
	vc := &schema.ViewConfig{Type: vt}
	ok := true
	for _, arg := range ann.Args[1:] {
		if arg.Key == "" {
			b.fail("@view takes a single positional argument", ann.Pos.Line)
			ok = false
			continue
		}
		if !viewKeys[arg.Key] {
			b.fail("unknown @view argument "+strconv.Quote(arg.Key), ann.Pos.Line)
			ok = false
			continue
		}
		switch arg.Key {
		case "name":
			vc.Name = arg.Value.text()
		case "fields":
			vc.Fields = arg.Value.list()
		case "sortBy":
			vc.SortBy = arg.Value.text()
		case "sortDirection":
			vc.SortDirection = arg.Value.text()
		case "groupBy":
			vc.GroupBy = arg.Value.text()
		case "layout":
			vc.Layout = arg.Value.text()
		case "columns":
			n, err := strconv.Atoi(arg.Value.text())
			if err != nil {
				b.fail("@view columns must be an integer", ann.Pos.Line)
				ok = false
				continue
			}
			vc.Columns = n
		case "filters":
			for _, raw := range arg.Value.list() {
				f, err := parseFilter(raw)
				if err != nil {
					b.fail(err.Error(), ann.Pos.Line)
					ok = false
					continue
				}
				vc.Filters = append(vc.Filters, f)
			}
		}
	}
	if !ok {
		return nil
	}
	return vc
}

// parseFilter splits a "field operator value?" filter expression.
func parseFilter(raw string) (schema.Filter, error) {
	parts := strings.Fields(raw)
	switch len(parts) {
	case 2:
		return schema.Filter{Field: parts[0], Operator: parts[1]}, nil
	case 3:
		return schema.Filter{Field: parts[0], Operator: parts[1], Value: parts[2]}, nil
	default:
		return schema.Filter{}, schema.ParseError{Message: "malformed filter " + strconv.Quote(raw)}
	}
}

// buildFieldConfig folds the stacked field-level annotations into one
// config. Returns nil when the field has no annotations.
func (b *builder) buildFieldConfig(resource string, fd *fieldDecl) *schema.FieldViewConfig {
	if len(fd.Annotations) == 0 {
		return nil
	}
	cfg := &schema.FieldViewConfig{}
	for _, ann := range fd.Annotations {
		if !fieldAnnotations[ann.Name] {
			b.fail("unknown annotation @"+ann.Name, ann.Pos.Line)
			continue
		}
		switch ann.Name {
		case "hidden":
			cfg.Hidden = true
		case "readonly":
			cfg.Readonly = true
		default:
			if len(ann.Args) != 1 || ann.Args[0].Key != "" {
				b.fail("@"+ann.Name+" requires a single argument", ann.Pos.Line)
				continue
			}
			v := ann.Args[0].Value
			switch ann.Name {
			case "label":
				cfg.Label = v.text()
			case "placeholder":
				cfg.Placeholder = v.text()
			case "format":
				cfg.Format = v.text()
			case "component":
				cfg.Component = v.text()
			case "width":
				// Preserved as written: bare number or quoted
				// percentage, no unit normalization.
				cfg.Width = v.text()
			}
		}
	}
	return cfg
}

// text returns the scalar value as a string. Quoted strings are unquoted;
// numbers and bare identifiers are returned verbatim.
func (v *valueDef) text() string {
	switch {
	case v == nil:
		return ""
	case v.Str != nil:
		return unquote(*v.Str)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// list returns the value as a string slice. A scalar becomes a one-element
// list.
func (v *valueDef) list() []string {
	if v == nil {
		return nil
	}
	if v.List == nil {
		if s := v.text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.List))
	for _, item := range v.List {
		out = append(out, item.text())
	}
	return out
}

// unquote strips the surrounding quotes of either style.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
