package php

import "strings"

// reservedClassNames never refer to a declared class.
var reservedClassNames = map[string]bool{
	"self": true, "static": true, "parent": true,
	"array": true, "callable": true, "iterable": true, "object": true, "mixed": true,
	"bool": true, "int": true, "float": true, "string": true,
	"void": true, "never": true, "null": true, "false": true, "true": true,
}

// nameScope is the namespace and class imports in effect at one point of a file.
type nameScope struct {
	namespace string
	imports   map[string]string // lowercased alias -> fully qualified name
}

func newNameScope(namespace string) *nameScope {
	return &nameScope{namespace: namespace, imports: make(map[string]string)}
}

// importAll records the class imports of a use statement. Function and
// constant imports live in separate symbol tables and are not recorded.
func (s *nameScope) importAll(use *UseStatement) {
	for _, n := range use.Classes() {
		alias := n.Alias
		if alias == "" {
			alias = n.Name[strings.LastIndex(n.Name, `\`)+1:]
		}
		s.imports[strings.ToLower(alias)] = n.Name
	}
}

// resolveName returns the fully qualified form of a class name as written in
// this scope, without the leading backslash. Reserved names resolve to "".
func (s *nameScope) resolveName(written string) string {
	name := strings.Join(strings.Fields(written), "")
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, `\`):
		return name[1:]
	case len(name) > len(`namespace\`) && strings.EqualFold(name[:len(`namespace\`)], `namespace\`):
		return s.qualify(name[len(`namespace\`):])
	}

	first, rest, qualified := strings.Cut(name, `\`)
	if !qualified && reservedClassNames[strings.ToLower(name)] {
		return ""
	}
	if target, ok := s.imports[strings.ToLower(first)]; ok {
		if qualified {
			return target + `\` + rest
		}
		return target
	}
	return s.qualify(name)
}

func (s *nameScope) qualify(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + `\` + name
}
