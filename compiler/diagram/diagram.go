// Package diagram parses the textual entity-relationship notation into a
// schema AST. A document opens with the erDiagram directive and contains
// block-delimited entity definitions and relationship lines:
//
//	erDiagram
//	  %% entities
//	  User {
//	    string name
//	    string email UK
//	  }
//	  User ||--o{ Post : writes
//
// Parsing is all-or-nothing: a malformed document yields Success == false
// and line-numbered errors, never a partial AST.
package diagram

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/loomkit/loom/schema"
)

// Result is the outcome of parsing one diagram document.
type Result struct {
	Success bool
	App     *schema.App
	Errors  []schema.ParseError
}

// grammar AST, built by participle.

type documentAST struct {
	Entries []*entry `parser:"'erDiagram' @@*"`
}

type entry struct {
	Entity *entityDef `parser:"@@"`
	Rel    *relDef    `parser:"| @@"`
}

type entityDef struct {
	Pos    lexer.Position
	Name   string      `parser:"@Ident '{'"`
	Fields []*fieldDef `parser:"@@* '}'"`
}

type fieldDef struct {
	Pos       lexer.Position
	Type      string   `parser:"@Ident"`
	Name      string   `parser:"@Ident"`
	Modifiers []string `parser:"@('PK' | 'FK' | 'UK')*"`
}

type relDef struct {
	Pos       lexer.Position
	Left      string `parser:"@Ident"`
	LeftCard  string `parser:"@Card"`
	Connector string `parser:"@Connector"`
	RightCard string `parser:"@Card"`
	Right     string `parser:"@Ident"`
	Label     string `parser:"(':' @(Ident | String))?"`
}

var diagramLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%%[^\n]*`},
	{Name: "Card", Pattern: `\|\||\|o|o\||\}o|\}\||o\{|\|\{`},
	{Name: "Connector", Pattern: `--|\.\.`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[{}:]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var parser = participle.MustBuild[documentAST](
	participle.Lexer(diagramLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// primitiveTypes maps diagram type keywords, case-sensitively, to field
// types. "float" additionally sets the decimal modifier.
var primitiveTypes = map[string]schema.Type{
	"string":   schema.TypeText,
	"int":      schema.TypeNumber,
	"float":    schema.TypeNumber,
	"boolean":  schema.TypeBoolean,
	"date":     schema.TypeDate,
	"datetime": schema.TypeDateTime,
}

// Parse parses src into an AST. The optional appName is slugified into the
// app name of the result.
func Parse(src string, appName ...string) *Result {
	name := "app"
	if len(appName) > 0 && strings.TrimSpace(appName[0]) != "" {
		name = appName[0]
	}

	if err := checkDirective(src); err != nil {
		return failure(*err)
	}

	doc, err := parser.ParseString("", src)
	if err != nil {
		return failure(toParseError(err))
	}
	return build(doc, name)
}

// checkDirective rejects empty documents and documents that do not open
// with the erDiagram directive, with a friendlier message than the raw
// grammar error.
func checkDirective(src string) *schema.ParseError {
	line := 0
	for _, raw := range strings.Split(src, "\n") {
		line++
		text := raw
		if i := strings.Index(text, "%%"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if text == "erDiagram" || strings.HasPrefix(text, "erDiagram ") || strings.HasPrefix(text, "erDiagram\t") {
			return nil
		}
		return &schema.ParseError{Message: "missing erDiagram directive", Line: line}
	}
	return &schema.ParseError{Message: "empty diagram", Line: 1}
}

func failure(errs ...schema.ParseError) *Result {
	return &Result{Success: false, Errors: errs}
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
