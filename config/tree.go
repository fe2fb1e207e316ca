package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/priority"
)

// ErrUnknownLeaf is returned when a tree document names a condition,
// configuration or behaviour the registry does not know.
var ErrUnknownLeaf = errors.New("config: unknown leaf")

// TreeDocument is the YAML form of a priority tree.
type TreeDocument struct {
	Name       string     `yaml:"name"`
	Priorities []EntryDoc `yaml:"priorities"`
}

// EntryDoc is the YAML form of one priority entry. Leaves are referenced by
// registry name; Expr and NotExpr hold inline condition expressions.
type EntryDoc struct {
	Label            string     `yaml:"label,omitempty"`
	Condition        string     `yaml:"condition,omitempty"`
	NotCondition     string     `yaml:"notCondition,omitempty"`
	Expr             string     `yaml:"expr,omitempty"`
	NotExpr          string     `yaml:"notExpr,omitempty"`
	Preconfiguration string     `yaml:"preconfiguration,omitempty"`
	Configuration    string     `yaml:"configuration,omitempty"`
	Behaviour        string     `yaml:"behaviour,omitempty"`
	Reconsider       float64    `yaml:"reconsider,omitempty"`
	TrueBranch       []EntryDoc `yaml:"trueBranch,omitempty"`
	FalseBranch      []EntryDoc `yaml:"falseBranch,omitempty"`
}

// Tree is a built, validated priority tree.
type Tree struct {
	Name       string
	Priorities []priority.Entry[*agent.Agent]
	// Doc is the source document, for rebuilding against another registry.
	Doc TreeDocument
}

// ParseTree decodes a tree document. Unknown keys are rejected so that a
// misspelt key does not silently drop a condition.
func ParseTree(b []byte) (TreeDocument, error) {
	var doc TreeDocument
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return TreeDocument{}, err
	}
	return doc, nil
}

// BuildTree resolves every name in doc against reg, compiles expressions
// and validates the result. All problems are reported together.
func BuildTree(doc TreeDocument, reg *priority.Registry[*agent.Agent]) (Tree, error) {
	b := builder{reg: reg}
	list := b.list(doc.Priorities, "priorities")
	if err := errors.Join(b.errs...); err != nil {
		return Tree{}, err
	}
	if err := priority.Validate(list); err != nil {
		return Tree{}, err
	}
	return Tree{Name: doc.Name, Priorities: list, Doc: doc}, nil
}

// LoadTree reads, parses and builds the tree document at path.
func LoadTree(path string, reg *priority.Registry[*agent.Agent]) (Tree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Tree{}, err
	}
	doc, err := ParseTree(b)
	if err != nil {
		return Tree{}, fmt.Errorf("%s: %w", path, err)
	}
	tree, err := BuildTree(doc, reg)
	if err != nil {
		return Tree{}, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

type builder struct {
	reg  *priority.Registry[*agent.Agent]
	errs []error
}

func (b *builder) fail(path, format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("%s: "+format, append([]any{path}, args...)...))
}

func (b *builder) list(docs []EntryDoc, path string) []priority.Entry[*agent.Agent] {
	if len(docs) == 0 {
		return nil
	}
	out := make([]priority.Entry[*agent.Agent], len(docs))
	for i, d := range docs {
		out[i] = b.entry(d, fmt.Sprintf("%s[%d]", path, i))
	}
	return out
}

func (b *builder) entry(d EntryDoc, path string) priority.Entry[*agent.Agent] {
	e := priority.Entry[*agent.Agent]{
		Label:            d.Label,
		Condition:        b.condition(path, d.Condition, d.Expr),
		NotCondition:     b.condition(path, d.NotCondition, d.NotExpr),
		Preconfiguration: b.action(path, d.Preconfiguration),
		Configuration:    b.action(path, d.Configuration),
		TrueBranch:       b.list(d.TrueBranch, path+".trueBranch"),
		FalseBranch:      b.list(d.FalseBranch, path+".falseBranch"),
		Reconsider:       d.Reconsider,
	}
	if d.Reconsider < 0 {
		b.fail(path, "reconsider %g is negative", d.Reconsider)
	}
	if d.Behaviour != "" {
		beh, ok := b.reg.Behaviour(d.Behaviour)
		if !ok {
			b.fail(path, "behaviour %q: %w", d.Behaviour, ErrUnknownLeaf)
		}
		e.Behaviour = beh
	}
	return e
}

// condition resolves a named condition or compiles an expression. Naming
// both in the same slot is ambiguous and rejected.
func (b *builder) condition(path, name, src string) priority.Condition[*agent.Agent] {
	switch {
	case name != "" && src != "":
		b.fail(path, "both condition %q and expression %q given", name, src)
		return nil
	case name != "":
		c, ok := b.reg.Condition(name)
		if !ok {
			b.fail(path, "condition %q: %w", name, ErrUnknownLeaf)
		}
		return c
	case src != "":
		c, err := agent.CompileCondition(src)
		if err != nil {
			b.fail(path, "%w", err)
		}
		return c
	}
	return nil
}

func (b *builder) action(path, name string) priority.Action[*agent.Agent] {
	if name == "" {
		return nil
	}
	a, ok := b.reg.Action(name)
	if !ok {
		b.fail(path, "configuration %q: %w", name, ErrUnknownLeaf)
	}
	return a
}
