package events

// Entity types
const (
	EntityImport = "import"
	EntityItem   = "item"
	EntityVolume = "volume"
)

// Event type constants
const (
	EventImportStarted   = "import.started"
	EventImportCompleted = "import.completed"
	EventItemQueued      = "item.queued"
	EventItemStarted     = "item.started"
	EventItemProgressed  = "item.progressed"
	EventItemCompleted   = "item.completed"
	EventItemSkipped     = "item.skipped"
	EventItemFailed      = "item.failed"
	EventPairingWarning  = "pairing.warning"
	EventVolumeAdded     = "volume.added"
)

// ImportStarted is emitted once per batch, before the first item runs.
type ImportStarted struct {
	BaseEvent
	Items  int  `json:"items"`
	Direct bool `json:"direct"` // single-source batch, no queue
}

// ImportCompleted is emitted after the whole batch settles.
type ImportCompleted struct {
	BaseEvent
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// ItemQueued is emitted when a source enters the queue.
type ItemQueued struct {
	BaseEvent
	BasePath string `json:"base_path"`
	Position int    `json:"position"`
}

// ItemStarted is emitted when an item begins processing.
type ItemStarted struct {
	BaseEvent
	BasePath string `json:"base_path"`
}

// ItemProgressed is emitted during archive extraction.
type ItemProgressed struct {
	BaseEvent
	Done  int `json:"done"`
	Total int `json:"total"`
}

// ItemCompleted is emitted when a volume lands in the library.
type ItemCompleted struct {
	BaseEvent
	SeriesName string `json:"series_name"`
	VolumeName string `json:"volume_name"`
	Pages      int    `json:"pages"`
	Chars      int    `json:"chars"`
	SizeBytes  int64  `json:"size_bytes"`
}

// ItemSkipped is emitted for duplicates and declined imports.
type ItemSkipped struct {
	BaseEvent
	BasePath string `json:"base_path"`
	Reason   string `json:"reason"`
}

// ItemFailed is emitted when an item errors out. The rest of the queue
// keeps draining.
type ItemFailed struct {
	BaseEvent
	BasePath string `json:"base_path"`
	Reason   string `json:"reason"`
}

// PairingWarning is emitted for files that could not join any pairing.
type PairingWarning struct {
	BaseEvent
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// VolumeAdded is emitted when a new volume lands in the library. Unlike
// ItemCompleted it is keyed by the volume, for subscribers that follow
// library changes rather than queue traffic.
type VolumeAdded struct {
	BaseEvent
	SeriesName string `json:"series_name"`
	VolumeName string `json:"volume_name"`
}
