package model

// Handler is a named event callback attached to an entity. Arguments are
// event-specific and opaque to the decision engine.
type Handler func(args ...any) error

// Entity is the controllable object an agent drives. The engine only needs
// liveness checks, a table of named callbacks it can rewrite, and a way to
// emit communications.
type Entity interface {
	// Valid is false once the entity has been removed from the world.
	Valid() bool
	// InSpace is false while docked, landed or in transit between systems.
	InSpace() bool

	Attach(event string, h Handler)
	Detach(event string)

	// Message emits already formatted communications text.
	Message(text string)

	String() string
}
