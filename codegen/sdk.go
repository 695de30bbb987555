package codegen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/loomkit/loom/naming"
	"github.com/loomkit/loom/schema"
)

// SDKFiles holds the emitted client SDK package, keyed by role. File
// names are assigned by the caller.
type SDKFiles struct {
	// Types holds the record and input type declarations.
	Types string
	// Client holds the typed HTTP client class.
	Client string
	// Index re-exports the public surface.
	Index string
	// Manifest is the package.json of the SDK package.
	Manifest string
}

// SDK emits the typed client SDK of an app: one accessor group per
// resource, each wrapping the entity RPC surface with typed methods.
func SDK(app *schema.App, opts ...Option) (*SDKFiles, error) {
	cfg, err := newConfig(app, opts...)
	if err != nil {
		return nil, err
	}
	if len(app.Resources) == 0 {
		return nil, NewGenerationError("sdk", "app has no resources", nil)
	}

	manifest, err := sdkManifest(app)
	if err != nil {
		return nil, err
	}
	return &SDKFiles{
		Types:    sdkTypes(app),
		Client:   sdkClient(app, cfg),
		Index:    sdkIndex(app, cfg),
		Manifest: manifest,
	}, nil
}

// sdkTypes emits the record interfaces, input types, and the shared list
// response envelope.
func sdkTypes(app *schema.App) string {
	e := &emitter{}
	e.line(header)
	e.blank()

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

	e.line("export interface ListResponse<T> {")
	e.in()
	e.line("result: T[];")
	e.out()
	e.line("}")
	return e.String()
}

// sdkClient emits the client class: a thin RPC wrapper with one accessor
// object per resource.
func sdkClient(app *schema.App, cfg *Config) string {
	e := &emitter{}
	e.line(header)
	e.blank()

	var names []string
	for _, r := range app.Resources {
		names = append(names, interfaceName(r), createInputName(r), updateInputName(r))
	}
	e.line("import type { %s } from \"./types\";", strings.Join(names, ", "))
	e.blank()

	e.line("export interface ClientOptions {")
	e.in()
	e.line("baseUrl: string;")
	e.line("instance?: string;")
	e.line("fetch?: typeof fetch;")
	e.out()
	e.line("}")
	e.blank()

	e.line("export class %sClient {", cfg.ClassName)
	e.in()
	e.line("private readonly baseUrl: string;")
	e.line("private readonly instance: string;")
	e.line("private readonly fetchImpl: typeof fetch;")
	e.blank()
	e.line("constructor(options: ClientOptions) {")
	e.in()
	e.line("this.baseUrl = options.baseUrl.replace(/\\/+$/, \"\");")
	e.line("this.instance = options.instance ?? \"default\";")
	e.line("this.fetchImpl = options.fetch ?? fetch;")
	e.out()
	e.line("}")
	e.blank()

	e.line("private async call<T>(method: string, ...args: unknown[]): Promise<T> {")
	e.in()
	e.line("const response = await this.fetchImpl(`${this.baseUrl}/${this.instance}`, {")
	e.in()
	e.line("method: \"POST\",")
	e.line("headers: { \"content-type\": \"application/json\" },")
	e.line("body: JSON.stringify({ method, args }),")
	e.out()
	e.line("});")
	e.line("const payload = await response.json() as { result?: T; error?: string };")
	e.line("if (!response.ok || payload.error) {")
	e.in()
	e.line("throw new Error(payload.error ?? `request failed with status ${response.status}`);")
	e.out()
	e.line("}")
	e.line("return payload.result as T;")
	e.out()
	e.line("}")
	e.blank()

	for _, r := range app.Resources {
		record := interfaceName(r)
		accessor := naming.Camel(naming.Pluralize(r.Name))
		e.line("readonly %s = {", accessor)
		e.in()
		e.line("list: (): Promise<%s[]> => this.call(%q),", record, listName(r))
		e.line("get: (id: string): Promise<%s | null> => this.call(%q, id),", record, getName(r))
		e.line("create: (input: %s): Promise<%s> => this.call(%q, input),", createInputName(r), record, createName(r))
		e.line("update: (id: string, patch: %s): Promise<%s> => this.call(%q, id, patch),", updateInputName(r), record, updateName(r))
		e.line("delete: (id: string): Promise<boolean> => this.call(%q, id),", deleteName(r))
		e.out()
		e.line("};")
		e.blank()
	}

	e.out()
	e.line("}")
	return e.String()
}

// sdkIndex re-exports the SDK surface from a single module.
func sdkIndex(app *schema.App, cfg *Config) string {
	e := &emitter{}
	e.line(header)
	e.blank()
	e.line("export * from \"./types\";")
	e.line("export { %sClient } from \"./client\";", cfg.ClassName)
	e.line("export type { ClientOptions } from \"./client\";")
	return e.String()
}

// sdkManifest renders the package.json of the SDK package.
func sdkManifest(app *schema.App) (string, error) {
	version := app.Version
	if version == "" {
		version = "0.1.0"
	}
	manifest := map[string]any{
		"name":    app.Slug() + "-client",
		"version": version,
		"type":    "module",
		"main":    "index.ts",
		"types":   "index.ts",
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return "", NewGenerationError("sdk", "marshal package manifest", err)
	}
	return buf.String(), nil
}
