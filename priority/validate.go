package priority

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoFallback means the root list can run out of entries without
	// selecting a behaviour.
	ErrNoFallback = errors.New("priority: root list has no unconditional behaviour entry")
	// ErrNilBehaviour flags a behaviour with no Run function.
	ErrNilBehaviour = errors.New("priority: behaviour has no run function")
)

// Validate checks that list can be installed as a root priority tree. All
// problems found are joined into the returned error.
func Validate[C any](list []Entry[C]) error {
	var errs []error
	fallback := false
	for _, e := range list {
		if e.unconditional() && e.Behaviour != nil {
			fallback = true
			break
		}
	}
	if !fallback {
		errs = append(errs, ErrNoFallback)
	}
	walkEntries(list, nil, func(path []int, e *Entry[C]) {
		if e.Behaviour != nil && e.Behaviour.Run == nil {
			errs = append(errs, fmt.Errorf("entry %s (%s): %w", FormatPath(path), e.Behaviour.Name, ErrNilBehaviour))
		}
	})
	return errors.Join(errs...)
}

func walkEntries[C any](list []Entry[C], prefix []int, fn func(path []int, e *Entry[C])) {
	for i := range list {
		path := append(append([]int(nil), prefix...), i)
		fn(path, &list[i])
		walkEntries(list[i].TrueBranch, path, fn)
		walkEntries(list[i].FalseBranch, path, fn)
	}
}

// Count returns the number of entries in list including nested branches.
func Count[C any](list []Entry[C]) int {
	n := 0
	walkEntries(list, nil, func([]int, *Entry[C]) { n++ })
	return n
}

// Outline writes an indented human-readable view of the tree.
func Outline[C any](w io.Writer, list []Entry[C]) error {
	return outline(w, list, 0)
}

func outline[C any](w io.Writer, list []Entry[C], depth int) error {
	indent := strings.Repeat("  ", depth)
	for i, e := range list {
		label := e.Label
		if label == "" {
			label = fmt.Sprintf("entry %d", i)
		}
		var parts []string
		switch {
		case e.NotCondition != nil:
			parts = append(parts, "unless")
		case e.Condition != nil:
			parts = append(parts, "if")
		default:
			parts = append(parts, "always")
		}
		if e.Behaviour != nil {
			parts = append(parts, "-> "+e.Behaviour.Name)
		}
		if e.Reconsider > 0 {
			parts = append(parts, fmt.Sprintf("(reconsider %gs)", e.Reconsider))
		}
		if _, err := fmt.Fprintf(w, "%s- %s: %s\n", indent, label, strings.Join(parts, " ")); err != nil {
			return err
		}
		if len(e.TrueBranch) > 0 {
			if _, err := fmt.Fprintf(w, "%s  then:\n", indent); err != nil {
				return err
			}
			if err := outline(w, e.TrueBranch, depth+2); err != nil {
				return err
			}
		}
		if len(e.FalseBranch) > 0 {
			if _, err := fmt.Fprintf(w, "%s  else:\n", indent); err != nil {
				return err
			}
			if err := outline(w, e.FalseBranch, depth+2); err != nil {
				return err
			}
		}
	}
	return nil
}
