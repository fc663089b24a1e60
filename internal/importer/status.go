package importer

// Status tracks an import item's lifecycle in the queue.
type Status string

const (
	StatusQueued        Status = "queued"
	StatusDecompressing Status = "decompressing"
	StatusProcessing    Status = "processing"
	StatusComplete      Status = "complete"
	StatusError         Status = "error"
)

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
// Directory sources skip decompressing and go straight to processing.
var validTransitions = map[Status][]Status{
	StatusQueued:        {StatusDecompressing, StatusProcessing, StatusError},
	StatusDecompressing: {StatusProcessing, StatusError},
	StatusProcessing:    {StatusComplete, StatusError},
	StatusComplete:      {}, // terminal - the item leaves the queue
	StatusError:         {}, // terminal - cleared by the user
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	valid, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this status has no valid outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusError
}
