package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportEventsImplementEvent(t *testing.T) {
	tests := []struct {
		event    Event
		wantType string
	}{
		{&ImportStarted{BaseEvent: NewBaseEvent(EventImportStarted, EntityImport, "b1")}, "import.started"},
		{&ImportCompleted{BaseEvent: NewBaseEvent(EventImportCompleted, EntityImport, "b1")}, "import.completed"},
		{&ItemQueued{BaseEvent: NewBaseEvent(EventItemQueued, EntityItem, "i1")}, "item.queued"},
		{&ItemStarted{BaseEvent: NewBaseEvent(EventItemStarted, EntityItem, "i1")}, "item.started"},
		{&ItemProgressed{BaseEvent: NewBaseEvent(EventItemProgressed, EntityItem, "i1")}, "item.progressed"},
		{&ItemCompleted{BaseEvent: NewBaseEvent(EventItemCompleted, EntityVolume, "v1")}, "item.completed"},
		{&ItemSkipped{BaseEvent: NewBaseEvent(EventItemSkipped, EntityItem, "i1")}, "item.skipped"},
		{&ItemFailed{BaseEvent: NewBaseEvent(EventItemFailed, EntityItem, "i1")}, "item.failed"},
		{&PairingWarning{BaseEvent: NewBaseEvent(EventPairingWarning, EntityImport, "b1")}, "pairing.warning"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantType, tt.event.EventType())
		assert.False(t, tt.event.OccurredAt().IsZero())
	}
}

func TestItemCompletedSerializes(t *testing.T) {
	e := &ItemCompleted{
		BaseEvent:  NewBaseEvent(EventItemCompleted, EntityVolume, "v1"),
		SeriesName: "Yotsuba",
		VolumeName: "vol1",
		Pages:      180,
		Chars:      5400,
		SizeBytes:  1 << 20,
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded ItemCompleted
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Yotsuba", decoded.SeriesName)
	assert.Equal(t, 180, decoded.Pages)
	assert.Equal(t, "item.completed", decoded.EventType())
}
