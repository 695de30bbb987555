package codegen

import (
	"github.com/loomkit/loom/schema"
)

// WorkerEntry emits the edge entry point: the environment type declaring
// the stateful unit binding, the entity class re-export the runtime
// requires, and the default fetch handler that routes requests into a
// per-entity instance.
//
// Sections are emitted in a fixed order so repeated generation is
// byte-identical: imports, env type, class re-export, fetch handler,
// private helpers.
func WorkerEntry(app *schema.App, opts ...Option) (string, error) {
	cfg, err := newConfig(app, opts...)
	if err != nil {
		return "", err
	}
	if len(app.Resources) == 0 {
		return "", NewGenerationError("worker", "app has no resources", nil)
	}

	e := &emitter{}
	e.line(header)
	e.blank()

	e.line("import { %s } from \"./entity\";", cfg.ClassName)
	e.blank()

	e.line("export interface Env {")
	e.in()
	e.line("%s: DurableObjectNamespace;", cfg.BindingName)
	e.out()
	e.line("}")
	e.blank()

	// The runtime discovers the class through the entry module, so it is
	// re-exported here even though it lives in its own file.
	e.line("export { %s };", cfg.ClassName)
	e.blank()

	e.line("export default {")
	e.in()
	e.line("async fetch(request: Request, env: Env): Promise<Response> {")
	e.in()
	e.line("try {")
	e.in()
	e.line("const name = instanceName(request);")
	e.line("const id = env.%s.idFromName(name);", cfg.BindingName)
	e.line("const stub = env.%s.get(id);", cfg.BindingName)
	e.line("return await stub.fetch(request);")
	e.out()
	e.line("} catch (err) {")
	e.in()
	e.line("return Response.json({ error: String(err) }, { status: 500 });")
	e.out()
	e.line("}")
	e.out()
	e.line("},")
	e.out()
	e.line("};")
	e.blank()

	e.line("// instanceName picks the entity instance from the first path")
	e.line("// segment, falling back to a single shared instance.")
	e.line("function instanceName(request: Request): string {")
	e.in()
	e.line("const segment = new URL(request.url).pathname.split(\"/\").filter(Boolean)[0];")
	e.line("return segment ?? \"default\";")
	e.out()
	e.line("}")

	return e.String(), nil
}
