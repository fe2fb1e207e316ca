package agent

import (
	"fmt"

	"github.com/nstehr/helm/priority"
)

// reconsider walks the tree and starts the selected behaviour. It is bound
// only to EventAwoken.
func (a *Agent) reconsider() error {
	if !a.entity.Valid() || !a.entity.InSpace() {
		return nil
	}

	sel, err := priority.Evaluate(a, a.tree, a.walkTracer())
	if err != nil {
		return err
	}
	if sel == nil {
		a.log.Error("all priorities failed, tree needs an unconditional final entry",
			"behaviour", a.behaviour)
		return nil
	}

	if sel.Reconsider > 0 {
		a.ScheduleIn(sel.Reconsider)
	}
	b := sel.Behaviour
	if b.Handlers != "" {
		if err := a.InstallHandlerSet(b.Handlers); err != nil {
			return fmt.Errorf("behaviour %s: %w", b.Name, err)
		}
	}
	a.behaviour = b.Name
	a.log.Debug("behaviour selected", "behaviour", b.Name, "entry", sel.Label, "path", priority.FormatPath(sel.Path))

	if err := b.Run(a); err != nil {
		return fmt.Errorf("behaviour %s: %w", b.Name, err)
	}
	return nil
}

func (a *Agent) walkTracer() priority.Tracer {
	var flagged priority.Tracer
	if a.Flag(FlagBehaviourLogging) {
		flagged = priority.SlogTracer{Logger: a.log}
	}
	return priority.Tee(a.tracer, flagged)
}
