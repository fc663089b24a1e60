package pairing

// Decision says how a batch of paired sources should be imported.
// Exactly one of Direct or Queued is set unless the batch was empty.
type Decision struct {
	// Direct is set when the batch resolved to a single source, which is
	// imported inline without queue bookkeeping.
	Direct *Source

	// Queued holds the sources of a multi-volume batch, drained one at a
	// time so only a single volume's data is held at once.
	Queued []*Source
}

// Empty reports whether routing produced nothing to import.
func (d Decision) Empty() bool {
	return d.Direct == nil && len(d.Queued) == 0
}

// Route picks the import path for a batch: nothing, one direct import, or a
// queued drain for two or more.
func Route(sources []*Source) Decision {
	switch len(sources) {
	case 0:
		return Decision{}
	case 1:
		return Decision{Direct: sources[0]}
	default:
		return Decision{Queued: sources}
	}
}
