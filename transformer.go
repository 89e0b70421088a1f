package asmrgo

// Transformer is a user-supplied unit of work with lifecycle hooks invoked
// by the engine. Write effects are not invoked directly; a transformer
// schedules them during Read via AddWrite, and the engine applies them
// during the WRITE phase.
type Transformer interface {
	// ID returns a stable identifier used for round/write dependency
	// declarations and round scheduling. Typically the transformer's
	// concrete Go type name.
	ID() string

	// Apply runs once per process(), single threaded, before any round.
	// Only dependency declarations are legal here.
	Apply(h *TransformerHandle)

	// Read runs once per round the transformer is scheduled into, in
	// parallel with the round's other transformers. withClass/withClasses,
	// capture creation, and AddWrite are legal here.
	Read(h *TransformerHandle)
}

// defaultAnchors is the built-in anchor sequence used unless the driver
// calls SetAnchors: a milestone before any real transformer has read
// anything, and one after every transformer has scheduled its writes.
var defaultAnchors = []string{"READ_VANILLA", "NO_WRITE"}
