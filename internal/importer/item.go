package importer

import "github.com/vmunix/tanko/internal/pairing"

// Item is one unit of import work: a paired source plus the state the
// queue reports for it.
//
// Fields are mutated only by the orchestrator, under the queue's lock;
// readers get value copies from Queue.Items.
type Item struct {
	Source       *pairing.Source
	Status       Status
	Progress     int // extraction percentage, 0-100
	DisplayTitle string
	Error        string // why the item errored, empty otherwise
}

// ID returns the item's queue-tracking identifier.
func (i *Item) ID() string { return i.Source.ID }

func newItem(src *pairing.Source) *Item {
	return &Item{
		Source:       src,
		Status:       StatusQueued,
		DisplayTitle: displayTitle(src),
	}
}

// displayTitle builds the queue label from the source's series and volume
// hints, collapsing them when they are the same.
func displayTitle(src *pairing.Source) string {
	series, volume := src.SeriesHint(), src.VolumeHint()
	if series == volume {
		return volume
	}
	return series + " " + volume
}
