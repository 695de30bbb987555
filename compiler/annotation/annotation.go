// Package annotation parses the decorator-style metadata language: @view
// annotations preceding a resource block configure views, and field-level
// annotations preceding a field declaration attach display metadata.
//
//	@view("list", fields: ["title", "status"], sortBy: createdAt)
//	@view("form")
//	Task {
//	    @label("Title")
//	    @placeholder("What needs doing?")
//	    title: text
//	    @hidden
//	    internalNote
//	    assignee -> User
//	}
//
// Field declarations reuse the shorthand grammar for their type and
// modifier segments. Parsing is all-or-nothing: unknown annotation names,
// unrecognized view types, and malformed argument lists yield Success ==
// false with line-numbered errors.
package annotation

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/loomkit/loom/schema"
)

// Result is the outcome of parsing one annotation document.
type Result struct {
	Success bool
	App     *schema.App
	// Views holds the parsed view configs keyed by resource name, in
	// source order.
	Views map[string][]*schema.ViewConfig
	// FieldConfigs holds per-field display metadata keyed by resource
	// name and then field name.
	FieldConfigs map[string]map[string]*schema.FieldViewConfig
	Errors       []schema.ParseError
}

// grammar AST, built by participle.

type documentAST struct {
	Blocks []*blockDef `parser:"@@*"`
}

type blockDef struct {
	Pos         lexer.Position
	Annotations []*annotationDef `parser:"@@*"`
	Name        string           `parser:"@Ident '{'"`
	Fields      []*fieldDecl     `parser:"@@* '}'"`
}

type fieldDecl struct {
	Pos         lexer.Position
	Annotations []*annotationDef `parser:"@@*"`
	Name        string           `parser:"@Ident"`
	Optional    bool             `parser:"(@'?')?"`
	Mods        []string         `parser:"(':' @Ident)*"`
	Arrow       *arrowDef        `parser:"('-' '>' @@)?"`
}

type arrowDef struct {
	Target string `parser:"@Ident"`
	Many   bool   `parser:"(@'[' ']')?"`
}

type annotationDef struct {
	Pos  lexer.Position
	Name string    `parser:"'@' @Ident"`
	Args []*argDef `parser:"('(' (@@ (',' @@)* ','?)? ')')?"`
}

type argDef struct {
	Key   string    `parser:"(@Ident ':')?"`
	Value *valueDef `parser:"@@"`
}

type valueDef struct {
	Str    *string     `parser:"@String"`
	Number *string     `parser:"| @Number"`
	Ident  *string     `parser:"| @Ident"`
	List   []*valueDef `parser:"| '[' (@@ (',' @@)* ','?)? ']'"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"|'(\\'|[^'])*'`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[@(){}\[\]:,?<>-]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parser = participle.MustBuild[documentAST](
	participle.Lexer(annotationLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses src. The optional appName is slugified into the app name of
// the result.
func Parse(src string, appName ...string) *Result {
	name := "app"
	if len(appName) > 0 && appName[0] != "" {
		name = appName[0]
	}
	doc, err := parser.ParseString("", src)
	if err != nil {
		return &Result{Success: false, Errors: []schema.ParseError{toParseError(err)}}
	}
	return build(doc, name)
}

// toParseError converts a participle or lexer error into a line-numbered
// parse error.
func toParseError(err error) schema.ParseError {
	var perr participle.Error
	if errors.As(err, &perr) {
		return schema.ParseError{Message: perr.Message(), Line: perr.Position().Line}
	}
	return schema.ParseError{Message: err.Error(), Line: 1}
}
