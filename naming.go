package tortilla

import "github.com/iancoleman/strcase"

// NormalizeName converts a camel-form member name to its hyphenated routine
// identifier: "toUpperCase" becomes "to-upper-case", "WriteString" becomes
// "write-string". The transform is idempotent.
func NormalizeName(name string) string {
	return strcase.ToKebab(name)
}

// RoutineName computes the identifier of a generated routine for a member
// name: prefix plus normalized name.
func RoutineName(prefix, member string) string {
	return prefix + NormalizeName(member)
}
