// Package dsl parses poster preset files.
//
// A preset file is a list of `poster <name> { ... }` blocks. Each block holds
// `key: value` fields and `feature <tag> { ... }` style blocks:
//
//	poster basel {
//	  query: "Basel-Stadt, Switzerland"
//	  zoom: 0.9
//	  background: none
//	  feature highway { color: #181818 linewidth: 0.5 }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][-+]?\d+)?(?:mm|cm|in|pt)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}()\[\],:;]`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// File is the root AST node of a preset file.
type File struct {
	Pos     lexer.Position
	Posters []*Poster `parser:"@@*"`
}

// Poster is one named preset.
type Poster struct {
	Pos     lexer.Position
	Name    Name     `parser:"'poster' ( @Ident | @String )"`
	Entries []*Entry `parser:"'{' ( @@ ';'? )* '}'"`
}

// Entry is either a feature style block or a plain field.
type Entry struct {
	Feature *FeatureBlock `parser:"  @@"`
	Field   *Field        `parser:"| @@"`
}

// FeatureBlock assigns a style to features carrying an OSM tag key.
type FeatureBlock struct {
	Pos   lexer.Position
	Name  Name     `parser:"'feature' ( @Ident | @String )"`
	Props []*Field `parser:"'{' ( @@ ';'? )* '}'"`
}

// Field uses colon syntax (key: value).
type Field struct {
	Pos   lexer.Position
	Key   string `parser:"@Ident ':'"`
	Value *Value `parser:"@@"`
}

// Value represents a field value.
type Value struct {
	Pos    lexer.Position
	String *StringLiteral `parser:"  @String"`
	Color  *string        `parser:"| @Color"`
	Number *string        `parser:"| @Number"`
	Tuple  *Tuple         `parser:"| @@"`
	List   *List          `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
}

// Tuple captures `( a, b, ... )`.
type Tuple struct {
	Items []*Value `parser:"'(' @@ ( ',' @@ )* ')'"`
}

// List captures `[ a, b, ... ]`, possibly empty.
type List struct {
	Open  string   `parser:"@'['"`
	Items []*Value `parser:"( @@ ( ',' @@ )* ','? )? ']'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Name 是预设或样式块的名称，可写作标识符或带引号的字符串。
type Name string

// Capture implements participle.Capture. 带引号的名称会被去掉引号。
func (n *Name) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("name capture requires value")
	}
	val := values[0]
	if strings.HasPrefix(val, `"`) {
		unquoted, err := strconv.Unquote(val)
		if err != nil {
			return err
		}
		val = unquoted
	}
	*n = Name(val)
	return nil
}

// Kind returns a short description of the value's form, used in error messages.
func (v *Value) Kind() string {
	switch {
	case v == nil:
		return "nothing"
	case v.String != nil:
		return "string"
	case v.Color != nil:
		return "color"
	case v.Number != nil:
		return "number"
	case v.Tuple != nil:
		return "tuple"
	case v.List != nil:
		return "list"
	case v.Ident != nil:
		return "identifier"
	default:
		return "unknown"
	}
}

// Text returns the raw text of a scalar value (string, color, number or identifier).
func (v *Value) Text() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Color != nil:
		return *v.Color, true
	case v.Number != nil:
		return *v.Number, true
	case v.Ident != nil:
		return *v.Ident, true
	default:
		return "", false
	}
}

// Parse parses preset content from an io.Reader. filename is only used in positions.
func Parse(filename string, r io.Reader) (*File, error) {
	return fileParser.Parse(filename, r)
}

// ParseString parses preset content from a string.
func ParseString(input string) (*File, error) {
	return fileParser.ParseString("", input)
}
