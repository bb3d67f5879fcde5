package cdcl

// TraceSink receives clause-learning events. The core imposes no byte
// format: a sink may discard events, emit DRUP/DRAT, or record a
// resolution graph. The core treats the sink as infallible — a concrete
// sink that can fail (file I/O) must buffer and surface its own errors,
// never return them through the core.
type TraceSink interface {
	// Learned is called with a learned clause's literals before the
	// clause is used for propagation.
	Learned(lits []Lit)
	// Deleted is called with a deleted clause's literals before arena
	// reclamation.
	Deleted(lits []Lit)
}

// nopSink discards every event; it is the default sink so SetTraceSink is
// optional.
type nopSink struct{}

func (nopSink) Learned([]Lit) {}
func (nopSink) Deleted([]Lit) {}
