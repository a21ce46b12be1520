package golang

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// reservedWords are Go keywords and predeclared identifiers that cannot name
// an emitted routine.
var reservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true,
	"for": true, "func": true, "go": true, "goto": true, "if": true,
	"import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true,
	"switch": true, "type": true, "var": true,
	"any": true, "error": true, "string": true, "int": true, "bool": true,
}

// exportedIdent converts a normalized routine identifier to an exported Go
// identifier: "buf-write-string" becomes "BufWriteString".
func exportedIdent(name string) string {
	ident := strcase.ToCamel(name)
	if ident == "" {
		return "Routine"
	}
	if reservedWords[strings.ToLower(ident)] {
		ident += "Routine"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		ident = "R" + ident
	}
	return ident
}

// pkgIdent returns the short package identifier of a fully qualified symbol
// like "bytes.NewBuffer" or "github.com/x/y.New": the substring after the
// final slash.
func pkgIdent(qualified string) string {
	if i := strings.LastIndex(qualified, "/"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
