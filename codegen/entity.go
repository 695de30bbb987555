package codegen

import (
	"fmt"
	"strings"

	"github.com/loomkit/loom/schema"
)

// EntityClass emits the entity class of an app: a runtime-validated schema
// table, five CRUD methods per resource, one traversal method per declared
// relationship, and the allow-list the host runtime uses to restrict
// externally invokable operations.
func EntityClass(app *schema.App, opts ...Option) (string, error) {
	cfg, err := newConfig(app, opts...)
	if err != nil {
		return "", err
	}
	if len(app.Resources) == 0 {
		return "", NewGenerationError("entity", "app has no resources", nil)
	}

	e := &emitter{}
	e.line(header)
	e.blank()

	if cfg.IncludeValidation {
		emitRecordTypes(e, app)
		emitValidationTable(e, app)
		emitValidator(e)
	}

	emitClass(e, app, cfg)
	return e.String(), nil
}

// emitRecordTypes declares the record and input types of every resource.
func emitRecordTypes(e *emitter, app *schema.App) {
	for _, r := range app.Resources {
		e.line("export interface %s {", interfaceName(r))
		e.in()
		e.line("id: string;")
		for _, f := range r.Fields {
			opt := ""
			if !f.Required {
				opt = "?"
			}
			e.line("%s%s: %s;", fieldProp(f), opt, tsType(f))
		}
		e.out()
		e.line("}")
		e.blank()

		e.line("export interface %s {", createInputName(r))
		e.in()
		for _, f := range r.Fields {
			if f.Auto {
				continue
			}
			opt := ""
			if !f.Required {
				opt = "?"
			}
			e.line("%s%s: %s;", fieldProp(f), opt, tsType(f))
		}
		e.out()
		e.line("}")
		e.blank()

		e.line("export interface %s {", updateInputName(r))
		e.in()
		for _, f := range r.Fields {
			if f.Auto {
				continue
			}
			e.line("%s?: %s;", fieldProp(f), tsType(f))
		}
		e.out()
		e.line("}")
		e.blank()
	}
}

// fieldProp is the property name of a field: relation fields are stored
// under their foreign key.
func fieldProp(f *schema.Field) string {
	if f.Type == schema.TypeRelation && f.Rel.Cardinality == schema.One {
		return f.Rel.ForeignKey
	}
	if f.Type == schema.TypeRelation {
		return f.Name + "Ids"
	}
	return f.Name
}

// emitValidationTable declares the constructor schema: one validator entry
// per field, with required fields non-optional and select fields
// enumerated.
func emitValidationTable(e *emitter, app *schema.App) {
	e.line("const schemas = {")
	e.in()
	for _, r := range app.Resources {
		e.line("%s: {", keyPrefix(r))
		e.in()
		for _, f := range r.Fields {
			entry := []string{fmt.Sprintf("type: %q", f.Type)}
			if f.Required {
				entry = append(entry, "required: true")
			} else {
				entry = append(entry, "optional: true")
			}
			if f.Unique {
				entry = append(entry, "unique: true")
			}
			if f.Type == schema.TypeSelect {
				entry = append(entry, fmt.Sprintf("options: [%s]", literalUnion(f.Options)))
			}
			e.line("%s: { %s },", fieldProp(f), strings.Join(entry, ", "))
		}
		e.out()
		e.line("},")
	}
	e.out()
	e.line("} as const;")
	e.blank()
}

// emitValidator declares the shared runtime validation helper.
func emitValidator(e *emitter) {
	e.line("function assertValid(resource: keyof typeof schemas, input: Record<string, unknown>, partial = false): void {")
	e.in()
	e.line("const shape = schemas[resource] as Record<string, { required?: boolean; options?: readonly string[] }>;")
	e.line("for (const [key, rule] of Object.entries(shape)) {")
	e.in()
	e.line("const value = input[key];")
	e.line("if (value === undefined || value === null) {")
	e.in()
	e.line("if (rule.required && !partial) throw new Error(`${resource}.${key} is required`);")
	e.line("continue;")
	e.out()
	e.line("}")
	e.line("if (rule.options && !rule.options.includes(String(value))) {")
	e.in()
	e.line("throw new Error(`${resource}.${key} must be one of ${rule.options.join(\", \")}`);")
	e.out()
	e.line("}")
	e.out()
	e.line("}")
	e.out()
	e.line("}")
	e.blank()
}

// emitClass declares the entity class bound to the stateful unit.
func emitClass(e *emitter, app *schema.App, cfg *Config) {
	e.line("export class %s {", cfg.ClassName)
	e.in()
	e.line("constructor(private readonly state: DurableObjectState) {}")
	e.blank()

	emitDispatch(e, cfg)

	for _, r := range app.Resources {
		e.line("// --- %s ---", r.Name)
		e.blank()
		emitCRUD(e, r, cfg)
		if cfg.IncludeRelationships {
			for _, f := range r.Relationships() {
				emitTraversal(e, app, r, f, cfg)
			}
		}
	}

	methods := allowedMethods(app, cfg)
	quoted := make([]string, len(methods))
	for i, m := range methods {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	e.line("static readonly allowedMethods = [%s] as const;", strings.Join(quoted, ", "))
	e.out()
	e.line("}")
}

// emitDispatch declares the RPC surface: incoming requests name a method
// and arguments, checked against the allow-list before invocation.
func emitDispatch(e *emitter, cfg *Config) {
	e.line("async fetch(request: Request): Promise<Response> {")
	e.in()
	e.line("const { method, args = [] } = await request.json() as { method: string; args?: unknown[] };")
	e.line("if (!(%s.allowedMethods as readonly string[]).includes(method)) {", cfg.ClassName)
	e.in()
	e.line("return Response.json({ error: `unknown method ${method}` }, { status: 400 });")
	e.out()
	e.line("}")
	e.line("try {")
	e.in()
	e.line("const result = await (this as any)[method](...args);")
	e.line("return Response.json({ result });")
	e.out()
	e.line("} catch (err) {")
	e.in()
	e.line("return Response.json({ error: String(err) }, { status: 422 });")
	e.out()
	e.line("}")
	e.out()
	e.line("}")
	e.blank()
}

// emitCRUD declares the five CRUD methods of one resource.
func emitCRUD(e *emitter, r *schema.Resource, cfg *Config) {
	record := interfaceName(r)
	createIn := createInputName(r)
	updateIn := updateInputName(r)
	if !cfg.IncludeValidation {
		record, createIn, updateIn = "any", "any", "any"
	}
	prefix := keyPrefix(r)

	e.line("async %s(input: %s): Promise<%s> {", createName(r), createIn, record)
	e.in()
	if cfg.IncludeValidation {
		e.line("assertValid(%q, input as Record<string, unknown>);", prefix)
	}
	e.line("const id = crypto.randomUUID();")
	if hasAutoTimestamps(r) {
		e.line("const now = new Date().toISOString();")
		e.line("const record = { id, ...input, %s } as %s;", autoAssignments(r), record)
	} else {
		e.line("const record = { id, ...input } as %s;", record)
	}
	e.line("await this.state.storage.put(`%s:${id}`, record);", prefix)
	e.line("return record;")
	e.out()
	e.line("}")
	e.blank()

	e.line("async %s(id: string): Promise<%s | null> {", getName(r), record)
	e.in()
	e.line("return (await this.state.storage.get(`%s:${id}`)) ?? null;", prefix)
	e.out()
	e.line("}")
	e.blank()

	e.line("async %s(): Promise<%s[]> {", listName(r), record)
	e.in()
	e.line("const entries = await this.state.storage.list({ prefix: \"%s:\" });", prefix)
	e.line("return [...entries.values()] as %s[];", record)
	e.out()
	e.line("}")
	e.blank()

	e.line("async %s(id: string, patch: %s): Promise<%s> {", updateName(r), updateIn, record)
	e.in()
	if cfg.IncludeValidation {
		e.line("assertValid(%q, patch as Record<string, unknown>, true);", prefix)
	}
	e.line("const existing = await this.%s(id);", getName(r))
	e.line("if (existing === null) throw new Error(`%s ${id} not found`);", prefix)
	e.line("const record = { ...existing, ...patch, id } as %s;", record)
	e.line("await this.state.storage.put(`%s:${id}`, record);", prefix)
	e.line("return record;")
	e.out()
	e.line("}")
	e.blank()

	e.line("async %s(id: string): Promise<boolean> {", deleteName(r))
	e.in()
	e.line("return this.state.storage.delete(`%s:${id}`);", prefix)
	e.out()
	e.line("}")
	e.blank()
}

// emitTraversal declares the traversal method of one relation field.
func emitTraversal(e *emitter, app *schema.App, r *schema.Resource, f *schema.Field, cfg *Config) {
	target := app.Resource(f.Rel.Target)
	if target == nil {
		return
	}
	record := "any"
	if cfg.IncludeValidation {
		record = interfaceName(target)
	}
	if f.Rel.Cardinality == schema.Many {
		e.line("async %s(id: string): Promise<%s[]> {", relMethodName(r, f), record)
		e.in()
		e.line("const related = await this.%s();", listName(target))
		e.line("return related.filter((rec: any) => rec.%s === id);", ownerForeignKey(r))
		e.out()
		e.line("}")
	} else {
		e.line("async %s(id: string): Promise<%s | null> {", relMethodName(r, f), record)
		e.in()
		e.line("const owner = await this.%s(id);", getName(r))
		e.line("if (owner === null || (owner as any).%s == null) return null;", f.Rel.ForeignKey)
		e.line("return this.%s((owner as any).%s);", getName(target), f.Rel.ForeignKey)
		e.out()
		e.line("}")
	}
	e.blank()
}

// hasAutoTimestamps reports whether r declares auto fields.
func hasAutoTimestamps(r *schema.Resource) bool {
	for _, f := range r.Fields {
		if f.Auto {
			return true
		}
	}
	return false
}

// autoAssignments renders the auto field initializers of a create call.
func autoAssignments(r *schema.Resource) string {
	var parts []string
	for _, f := range r.Fields {
		if !f.Auto {
			continue
		}
		switch f.Type {
		case schema.TypeDate, schema.TypeDateTime:
			parts = append(parts, f.Name+": now")
		case schema.TypeUUID:
			parts = append(parts, f.Name+": crypto.randomUUID()")
		default:
			parts = append(parts, f.Name+": now")
		}
	}
	return strings.Join(parts, ", ")
}
