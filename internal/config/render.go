package config

import (
	"fmt"
	"strings"
)

// Render substitutes named {placeholders} in tmpl with values from params.
// "{{" and "}}" produce literal braces. A placeholder without a value is an error,
// as is an unmatched brace.
func Render(tmpl string, params map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder in %q", tmpl)
			}
			key := tmpl[i+1 : i+1+end]
			val, ok := params[key]
			if !ok {
				return "", fmt.Errorf("unknown placeholder {%s} in %q", key, tmpl)
			}
			b.WriteString(val)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' in %q", tmpl)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
