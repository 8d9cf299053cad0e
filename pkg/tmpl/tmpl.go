// Package tmpl renders command templates used to drive external capture tools.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// shellQuote wraps s in single quotes, escaping embedded single quotes with
// the '\'' sequence.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var funcs = template.FuncMap{
	"shq": shellQuote,
}

// Render executes a Go template string with the given data.
// Undefined keys are an error.
//
// Available template functions:
//   - shq: shell-quote a string for safe use in `sh -c`
func Render(tmpl string, data any) (string, error) {
	t, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Check reports whether tmpl parses and renders against the zero value of the
// data it will receive. Used by config validation.
func Check(tmpl string, data any) error {
	_, err := Render(tmpl, data)
	return err
}

func parse(tmpl string) (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}
