// Package shorthand parses the terse key-encoded field declaration grammar:
// a flat set of key/value pairs describing one resource's fields, where the
// key carries the name, type, and modifiers ("slug:text:unique",
// "assignee->User", "tags->Tag[]", "description?") and the value is a
// presence marker or, for select fields, a pipe-delimited option string.
//
// This front end never fails on a malformed key: unparseable keys degrade to
// a best-effort required text field. Stricter validation belongs to the
// diagram and annotation front ends.
package shorthand

import (
	"sort"
	"strings"

	"github.com/loomkit/loom/schema"
)

// Prop is one key/value pair of a resource declaration.
type Prop struct {
	Key   string
	Value any
}

// Props is an ordered list of field declarations. Field order in the parsed
// resource follows Props order.
type Props []Prop

// PropsFromMap converts a plain map to Props. Go maps are unordered, so the
// keys are sorted to keep the result deterministic.
func PropsFromMap(m map[string]any) Props {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	props := make(Props, 0, len(keys))
	for _, k := range keys {
		props = append(props, Prop{Key: k, Value: m[k]})
	}
	return props
}

// reservedKeys are structural keys of a resource declaration, not fields.
var reservedKeys = map[string]bool{
	"name":     true,
	"children": true,
	"content":  true,
}

// typeKeywords maps explicit type modifier segments to field types.
var typeKeywords = map[string]schema.Type{
	"text":     schema.TypeText,
	"number":   schema.TypeNumber,
	"boolean":  schema.TypeBoolean,
	"date":     schema.TypeDate,
	"datetime": schema.TypeDateTime,
	"email":    schema.TypeEmail,
	"url":      schema.TypeURL,
}

// booleanNames are exact field names that infer a boolean type.
var booleanNames = map[string]bool{
	"done":      true,
	"completed": true,
	"active":    true,
	"enabled":   true,
	"visible":   true,
}

// Parse builds a resource named name from the given props. Reserved keys
// are skipped. The returned resource is only constructed if every field is
// accepted by the schema layer; keys the grammar cannot make sense of fall
// back to a required text field rather than failing the resource. Keys
// that the schema layer rejects even in fallback form, such as the
// reserved field names "id" and "__proto__", are dropped entirely.
func Parse(name string, props Props) (*schema.Resource, error) {
	res, err := schema.NewResource(name)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if reservedKeys[p.Key] {
			continue
		}
		f := ParseKey(p.Key, p.Value)
		if res.Field(f.Name) != nil {
			continue
		}
		if err := res.AddField(f); err != nil {
			// Best-effort degradation: retry the key as a plain
			// required text field. A key whose fallback is rejected
			// too (reserved names) is dropped.
			fallback := &schema.Field{Name: sanitizeName(p.Key), Type: schema.TypeText, Required: true}
			if res.Field(fallback.Name) == nil {
				if err := res.AddField(fallback); err == nil {
					continue
				}
			}
		}
	}
	return res, nil
}

// ParseKey parses a single shorthand key into a field. It never fails:
// keys that fit no rule produce a required text field.
func ParseKey(key string, value any) *schema.Field {
	key = strings.TrimSpace(key)
	optional := false
	if strings.HasPrefix(key, "?") {
		optional = true
		key = key[1:]
	}

	// Relation form: "assignee->User" or "tags->Tag[]".
	if name, target, ok := strings.Cut(key, "->"); ok {
		name = strings.TrimSpace(name)
		if strings.HasSuffix(name, "?") {
			optional = true
			name = strings.TrimSuffix(name, "?")
		}
		target = strings.TrimSpace(target)
		card := schema.One
		if strings.HasSuffix(target, "[]") {
			card = schema.Many
			target = strings.TrimSuffix(target, "[]")
		}
		return &schema.Field{
			Name:     name,
			Type:     schema.TypeRelation,
			Required: !optional,
			Rel:      &schema.Relationship{Target: target, Cardinality: card},
		}
	}

	// Modifier form: "slug:text:unique", "createdAt:auto".
	segments := strings.Split(key, ":")
	name := strings.TrimSpace(segments[0])
	if strings.HasSuffix(name, "?") {
		optional = true
		name = strings.TrimSuffix(name, "?")
	}

	f := &schema.Field{Name: name}
	explicit := false
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		switch seg {
		case "unique":
			f.Unique = true
		case "auto":
			f.Auto = true
		default:
			if t, ok := typeKeywords[seg]; ok {
				f.Type = t
				explicit = true
			}
			// Unknown modifiers are ignored.
		}
	}

	if !explicit {
		f.Type, f.Options = inferType(name, value, f.Auto)
	}
	f.Required = !optional && !f.Auto
	return f
}

// inferType applies the name- and value-based heuristics used when a key
// carries no explicit type modifier.
func inferType(name string, value any, auto bool) (schema.Type, []string) {
	if booleanNames[name] || strings.HasPrefix(name, "is") || strings.HasPrefix(name, "has") {
		return schema.TypeBoolean, nil
	}
	lower := strings.ToLower(name)
	switch {
	case lower == "email" || strings.HasSuffix(name, "Email"):
		return schema.TypeEmail, nil
	case lower == "url" || strings.HasSuffix(name, "Url") || strings.HasSuffix(name, "URL"):
		return schema.TypeURL, nil
	case lower == "uuid":
		return schema.TypeUUID, nil
	}
	if s, ok := value.(string); ok && strings.Contains(s, "|") {
		parts := strings.Split(s, "|")
		options := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				options = append(options, p)
			}
		}
		if len(options) > 0 {
			return schema.TypeSelect, options
		}
	}
	if auto {
		// Auto fields without an explicit type are timestamps.
		return schema.TypeDateTime, nil
	}
	return schema.TypeText, nil
}

// sanitizeName reduces an arbitrary key to an identifier-safe field name.
func sanitizeName(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (b.Len() > 0 && r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "field"
	}
	return b.String()
}
