package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/loomkit/loom/naming"
	"github.com/loomkit/loom/schema"
)

// GoClient emits a Go client package for the deployed app: a typed struct
// per resource and a Client with the same RPC surface the TypeScript SDK
// wraps. The output is one self-contained file in package client.
func GoClient(app *schema.App, opts ...Option) (string, error) {
	cfg, err := newConfig(app, opts...)
	if err != nil {
		return "", err
	}
	if len(app.Resources) == 0 {
		return "", NewGenerationError("sdk", "app has no resources", nil)
	}

	f := jen.NewFile("client")
	f.HeaderComment(header)
	f.PackageComment(fmt.Sprintf("Package client is a typed API client for the %s app.", app.Name))

	for _, r := range app.Resources {
		goRecordType(f, r)
	}

	goClientType(f, cfg)
	goCallMethod(f)
	for _, r := range app.Resources {
		goResourceMethods(f, r)
	}

	return fmt.Sprintf("%#v", f), nil
}

// goRecordType declares the struct of one resource.
func goRecordType(f *jen.File, r *schema.Resource) {
	name := singular(r.Name)
	fields := []jen.Code{
		jen.Id("ID").String().Tag(map[string]string{"json": "id"}),
	}
	for _, fld := range r.Fields {
		prop := fieldProp(fld)
		tag := map[string]string{"json": prop}
		if !fld.Required {
			tag["json"] = prop + ",omitempty"
		}
		fields = append(fields, jen.Id(naming.Pascal(prop)).Add(goType(fld)).Tag(tag))
	}
	f.Commentf("%s is one %s record.", name, r.Name)
	f.Type().Id(name).Struct(fields...)
	f.Line()
}

// goType maps a field type to its Go representation.
func goType(fld *schema.Field) jen.Code {
	switch fld.Type {
	case schema.TypeNumber:
		return jen.Float64()
	case schema.TypeBoolean:
		return jen.Bool()
	case schema.TypeJSON:
		return jen.Any()
	case schema.TypeRelation:
		if fld.Rel != nil && fld.Rel.Cardinality == schema.Many {
			return jen.Index().String()
		}
		return jen.String()
	default:
		return jen.String()
	}
}

// goClientType declares the Client and its constructor.
func goClientType(f *jen.File, cfg *Config) {
	f.Commentf("Client calls the deployed %s entity over its RPC surface.", cfg.ClassName)
	f.Type().Id("Client").Struct(
		jen.Id("baseURL").String(),
		jen.Id("instance").String(),
		jen.Id("httpClient").Op("*").Qual("net/http", "Client"),
	)
	f.Line()

	f.Comment("New creates a client for the given deployment URL.")
	f.Func().Id("New").Params(jen.Id("baseURL").String()).Op("*").Id("Client").Block(
		jen.Return(jen.Op("&").Id("Client").Values(jen.Dict{
			jen.Id("baseURL"):    jen.Qual("strings", "TrimRight").Call(jen.Id("baseURL"), jen.Lit("/")),
			jen.Id("instance"):   jen.Lit("default"),
			jen.Id("httpClient"): jen.Qual("net/http", "DefaultClient"),
		})),
	)
	f.Line()

	f.Comment("WithInstance targets a named entity instance.")
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("WithInstance").
		Params(jen.Id("name").String()).Op("*").Id("Client").Block(
		jen.Id("c").Dot("instance").Op("=").Id("name"),
		jen.Return(jen.Id("c")),
	)
	f.Line()
}

// goCallMethod declares the shared RPC invocation helper.
func goCallMethod(f *jen.File) {
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("call").
		Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("method").String(),
			jen.Id("out").Any(),
			jen.Id("args").Op("...").Any(),
		).Error().
		Block(
			jen.If(jen.Id("args").Op("==").Nil()).Block(
				jen.Id("args").Op("=").Index().Any().Values(),
			),
			jen.List(jen.Id("body"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(
				jen.Map(jen.String()).Any().Values(jen.Dict{
					jen.Lit("method"): jen.Id("method"),
					jen.Lit("args"):   jen.Id("args"),
				}),
			),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("encode request: %w"), jen.Err())),
			),
			jen.List(jen.Id("req"), jen.Err()).Op(":=").Qual("net/http", "NewRequestWithContext").Call(
				jen.Id("ctx"),
				jen.Qual("net/http", "MethodPost"),
				jen.Id("c").Dot("baseURL").Op("+").Lit("/").Op("+").Id("c").Dot("instance"),
				jen.Qual("bytes", "NewReader").Call(jen.Id("body")),
			),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("build request: %w"), jen.Err())),
			),
			jen.Id("req").Dot("Header").Dot("Set").Call(jen.Lit("Content-Type"), jen.Lit("application/json")),
			jen.List(jen.Id("resp"), jen.Err()).Op(":=").Id("c").Dot("httpClient").Dot("Do").Call(jen.Id("req")),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("%s: %w"), jen.Id("method"), jen.Err())),
			),
			jen.Defer().Id("resp").Dot("Body").Dot("Close").Call(),
			jen.Var().Id("envelope").Struct(
				jen.Id("Result").Qual("encoding/json", "RawMessage").Tag(map[string]string{"json": "result"}),
				jen.Id("Error").String().Tag(map[string]string{"json": "error"}),
			),
			jen.If(
				jen.Err().Op(":=").Qual("encoding/json", "NewDecoder").Call(jen.Id("resp").Dot("Body")).Dot("Decode").Call(jen.Op("&").Id("envelope")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("decode response: %w"), jen.Err())),
			),
			jen.If(jen.Id("envelope").Dot("Error").Op("!=").Lit("")).Block(
				jen.Return(jen.Qual("errors", "New").Call(jen.Id("envelope").Dot("Error"))),
			),
			jen.If(jen.Id("out").Op("==").Nil()).Block(jen.Return(jen.Nil())),
			jen.Return(jen.Qual("encoding/json", "Unmarshal").Call(jen.Id("envelope").Dot("Result"), jen.Id("out"))),
		)
	f.Line()
}

// goResourceMethods declares the CRUD methods of one resource.
func goResourceMethods(f *jen.File, r *schema.Resource) {
	record := singular(r.Name)
	pluralName := plural(r.Name)
	recv := jen.Id("c").Op("*").Id("Client")
	ctx := jen.Id("ctx").Qual("context", "Context")

	f.Commentf("List%s returns every %s record.", pluralName, r.Name)
	f.Func().Params(recv).Id("List"+pluralName).Params(ctx).
		Params(jen.Index().Id(record), jen.Error()).Block(
		jen.Var().Id("out").Index().Id(record),
		jen.Err().Op(":=").Id("c").Dot("call").Call(jen.Id("ctx"), jen.Lit(listName(r)), jen.Op("&").Id("out")),
		jen.Return(jen.Id("out"), jen.Err()),
	)
	f.Line()

	f.Commentf("Get%s fetches one record by id.", record)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Get"+record).
		Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("id").String()).
		Params(jen.Op("*").Id(record), jen.Error()).Block(
		jen.Var().Id("out").Op("*").Id(record),
		jen.Err().Op(":=").Id("c").Dot("call").Call(jen.Id("ctx"), jen.Lit(getName(r)), jen.Op("&").Id("out"), jen.Id("id")),
		jen.Return(jen.Id("out"), jen.Err()),
	)
	f.Line()

	f.Commentf("Create%s creates a record.", record)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Create"+record).
		Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("input").Map(jen.String()).Any()).
		Params(jen.Op("*").Id(record), jen.Error()).Block(
		jen.Var().Id("out").Op("*").Id(record),
		jen.Err().Op(":=").Id("c").Dot("call").Call(jen.Id("ctx"), jen.Lit(createName(r)), jen.Op("&").Id("out"), jen.Id("input")),
		jen.Return(jen.Id("out"), jen.Err()),
	)
	f.Line()

	f.Commentf("Update%s applies a partial update.", record)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Update"+record).
		Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("id").String(), jen.Id("patch").Map(jen.String()).Any()).
		Params(jen.Op("*").Id(record), jen.Error()).Block(
		jen.Var().Id("out").Op("*").Id(record),
		jen.Err().Op(":=").Id("c").Dot("call").Call(jen.Id("ctx"), jen.Lit(updateName(r)), jen.Op("&").Id("out"), jen.Id("id"), jen.Id("patch")),
		jen.Return(jen.Id("out"), jen.Err()),
	)
	f.Line()

	f.Commentf("Delete%s removes a record.", record)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Delete"+record).
		Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("id").String()).Error().Block(
		jen.Return(jen.Id("c").Dot("call").Call(jen.Id("ctx"), jen.Lit(deleteName(r)), jen.Nil(), jen.Id("id"))),
	)
	f.Line()
}
