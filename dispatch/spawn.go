package dispatch

import (
	"github.com/google/uuid"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/library"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

// TracerFactory supplies the decision tracer for a new agent.
type TracerFactory func(agentID string, clock model.Clock) priority.Tracer

// LibrarySpawner flies every ship with the stock library: its handler sets,
// profile flags and communications. trace may be nil.
func LibrarySpawner(lib *library.Library, trace TracerFactory) Spawner {
	return func(w *World, s *model.Ship) (*agent.Agent, error) {
		id := uuid.NewString()
		opts := []agent.Option{
			agent.WithID(id),
			agent.WithLogger(w.log),
			agent.WithHandlerSets(lib.HandlerSets()),
		}
		if trace != nil {
			opts = append(opts, agent.WithTracer(trace(id, w.clock)))
		}
		a := agent.New(s, w.clock, opts...)
		if err := lib.Prepare(a); err != nil {
			return nil, err
		}
		return a, nil
	}
}
