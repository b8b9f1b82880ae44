package ir

import "strings"

// ExternalToInternal converts an external (dotted) type name, e.g.
// "java.util.List", to internal descriptor form, "Ljava/util/List;"
// (spec.md §6 "Name conversion"). Used by the transfer function's
// Class.forName modeling (spec.md §4.3 "Invoke-static").
func ExternalToInternal(external string) string {
	return "L" + strings.ReplaceAll(external, ".", "/") + ";"
}

// InternalToExternal is the inverse of ExternalToInternal, for diagnostics
// and reporting.
func InternalToExternal(internal string) string {
	s := internal
	if strings.HasPrefix(s, "L") && strings.HasSuffix(s, ";") {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, "/", ".")
}
