package agent

import (
	"fmt"
	"strings"
	"text/template"
)

// Formatter expands a communication template with positional arguments.
type Formatter func(tmpl string, args ...any) (string, error)

// TemplateFormatter expands tmpl with text/template. Arguments are exposed
// as .P1, .P2 and so on; .P1 and .P2 always exist and default to "".
func TemplateFormatter(tmpl string, args ...any) (string, error) {
	t, err := template.New("comms").Parse(tmpl)
	if err != nil {
		return "", err
	}
	data := map[string]any{"P1": "", "P2": ""}
	for i, arg := range args {
		data[fmt.Sprintf("P%d", i+1)] = arg
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SetCommunication registers the template sent for key. An empty template
// removes it.
func (a *Agent) SetCommunication(key, tmpl string) {
	if tmpl == "" {
		delete(a.comms, key)
		return
	}
	a.comms[key] = tmpl
}

func (a *Agent) Communication(key string) (string, bool) {
	t, ok := a.comms[key]
	return t, ok
}

// Communicate formats the template for key and sends it through the entity.
// Keys without a template are ignored.
func (a *Agent) Communicate(key string, args ...any) error {
	tmpl, ok := a.comms[key]
	if !ok {
		return nil
	}
	text, err := a.format(tmpl, args...)
	if err != nil {
		return fmt.Errorf("communicate %q: %w", key, err)
	}
	a.entity.Message(text)
	return nil
}
