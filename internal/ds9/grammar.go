package ds9

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// definitionLexer splits the shape part of a line on spaces, commas and
// parentheses. Runs of delimiters collapse.
var definitionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Delim", Pattern: `[,()]`},
	{Name: "Word", Pattern: `[^\s,()]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// propertyLexer reads the part of a line after '#'.
var propertyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Braced", Pattern: `\{[^}]*\}`},
	{Name: "Quoted", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s={}"']+`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

// definitionGrammar is a shape keyword followed by its parameters:
// circle(100,100,20) or circle 100 100 20.
type definitionGrammar struct {
	Params []string `parser:"( @Word | Delim )*"`
}

// propertyGrammar is a list of key=value, key={value} or bare key entries.
type propertyGrammar struct {
	Entries []*propertyEntry `parser:"@@*"`
}

type propertyEntry struct {
	Key   string  `parser:"@Word"`
	Value *string `parser:"( \"=\" @( Braced | Quoted | Word ) )?"`
}

var (
	definitionParser = participle.MustBuild[definitionGrammar](
		participle.Lexer(definitionLexer),
		participle.Elide("Whitespace"),
	)
	propertyParser = participle.MustBuild[propertyGrammar](
		participle.Lexer(propertyLexer),
		participle.Elide("Whitespace"),
	)
)

// splitDefinition separates a region line into shape parameters and the
// properties written after '#'. A property section that does not parse
// yields no properties.
func splitDefinition(line string) ([]string, map[string]string, error) {
	def, props, _ := strings.Cut(line, "#")

	parsed, err := definitionParser.ParseString("", def)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to split region definition: %w", err)
	}

	return parsed.Params, parseProperties(props), nil
}

func parseProperties(s string) map[string]string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parsed, err := propertyParser.ParseString("", s)
	if err != nil {
		return nil
	}

	props := make(map[string]string, len(parsed.Entries))
	for _, e := range parsed.Entries {
		value := ""
		if e.Value != nil {
			value = unwrapValue(*e.Value)
		}
		props[strings.ToLower(e.Key)] = value
	}
	return props
}

// unwrapValue removes the braces or quotes around a property value.
func unwrapValue(v string) string {
	if len(v) >= 2 {
		switch {
		case v[0] == '{' && v[len(v)-1] == '}',
			v[0] == '"' && v[len(v)-1] == '"',
			v[0] == '\'' && v[len(v)-1] == '\'':
			return v[1 : len(v)-1]
		}
	}
	return v
}
