package routes

import "strings"

type pathVar struct {
	name       string
	start, end int
}

// scanPath finds the variables of a route template. It understands
// {name} and {name:pattern} (mux, chi), :name and *name segments (gin) and
// chi's bare "*" catch-all, which has an empty name.
func scanPath(uri string) []pathVar {
	var vars []pathVar
	for i := 0; i < len(uri); i++ {
		switch c := uri[i]; {
		case c == '{':
			depth, j := 0, i
			for ; j < len(uri); j++ {
				if uri[j] == '{' {
					depth++
				} else if uri[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if j == len(uri) {
				return vars
			}
			name := uri[i+1 : j]
			if k := strings.IndexByte(name, ':'); k >= 0 {
				name = name[:k]
			}
			vars = append(vars, pathVar{name: strings.TrimSpace(name), start: i, end: j + 1})
			i = j
		case (c == ':' || c == '*') && (i == 0 || uri[i-1] == '/'):
			end := strings.IndexByte(uri[i:], '/')
			if end < 0 {
				end = len(uri)
			} else {
				end += i
			}
			vars = append(vars, pathVar{name: uri[i+1 : end], start: i, end: end})
			i = end - 1
		}
	}
	return vars
}

// PathParams returns the named variables of a route template in order of
// appearance, without duplicates
func PathParams(uri string) []string {
	seen := map[string]bool{}
	var names []string
	for _, v := range scanPath(uri) {
		if v.name == "" || seen[v.name] {
			continue
		}
		seen[v.name] = true
		names = append(names, v.name)
	}
	return names
}

// FillPath replaces every variable of a route template with value(name)
func FillPath(uri string, value func(name string) string) string {
	vars := scanPath(uri)
	if len(vars) == 0 {
		return uri
	}

	var b strings.Builder
	last := 0
	for _, v := range vars {
		b.WriteString(uri[last:v.start])
		b.WriteString(value(v.name))
		last = v.end
	}
	b.WriteString(uri[last:])
	return b.String()
}
