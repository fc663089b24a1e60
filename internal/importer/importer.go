// Package importer drains paired sources through extraction, assembly,
// and the library store, tracking per-item status in an import queue.
//
// A single pairing imports directly; batches drain through the queue one
// item at a time, so peak memory is one in-flight extraction regardless
// of queue depth. Archives discovered inside an item feed back into the
// queue tail and resolve in the same run.
package importer

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vmunix/tanko/internal/archive"
	"github.com/vmunix/tanko/internal/assemble"
	"github.com/vmunix/tanko/internal/events"
	"github.com/vmunix/tanko/internal/fileset"
	"github.com/vmunix/tanko/internal/library"
	"github.com/vmunix/tanko/internal/pairing"
)

// Importer turns paired sources into stored volumes.
type Importer struct {
	store   *library.Store
	history *HistoryStore
	builder *assemble.Builder
	pool    *archive.Pool
	bus     *events.Bus
	confirm Confirmer
	queue   *Queue
	log     *slog.Logger

	mu       sync.Mutex
	draining bool
}

// Config for the importer.
type Config struct {
	// Root is the library directory volumes are saved under.
	Root string

	// Batch bounds concurrent archive entry decompression; 0 uses the
	// archive package default.
	Batch int

	// Confirm answers mismatch and image-only prompts. Nil declines both,
	// which keeps unattended runs from importing questionable data.
	Confirm Confirmer

	// Bus receives lifecycle events. Nil drops them.
	Bus *events.Bus
}

// New creates a new importer.
func New(db *sql.DB, cfg Config, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	store := library.NewStore(db, cfg.Root)
	return &Importer{
		store:   store,
		history: NewHistoryStore(db),
		builder: assemble.NewBuilder(store, cfg.Confirm, log),
		pool:    archive.NewPool(log, cfg.Batch),
		bus:     cfg.Bus,
		confirm: cfg.Confirm,
		queue:   NewQueue(),
		log:     log,
	}
}

// Queue exposes the import queue for display and cancellation.
func (im *Importer) Queue() *Queue { return im.queue }

// Result is one item's outcome within an import operation.
type Result struct {
	ID           string
	DisplayTitle string
	Outcome      string          // EventImported, EventSkipped, or EventFailed
	Reason       string          // why, for skipped and failed items
	Volume       *library.Volume // the saved volume, for imported items
}

// Summary totals one import operation.
type Summary struct {
	Results []Result
}

func (s *Summary) count(outcome string) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Imported returns the number of volumes saved.
func (s *Summary) Imported() int { return s.count(EventImported) }

// Skipped returns the number of items that settled without a save:
// duplicates, declined confirmations, container archives.
func (s *Summary) Skipped() int { return s.count(EventSkipped) }

// Failed returns the number of items that errored.
func (s *Summary) Failed() int { return s.count(EventFailed) }

// TotalSize returns the byte count of everything imported.
func (s *Summary) TotalSize() int64 {
	var total int64
	for _, r := range s.Results {
		if r.Volume != nil {
			total += r.Volume.SizeBytes
		}
	}
	return total
}

// Enqueue adds paired sources to the queue without starting a drain.
func (im *Importer) Enqueue(sources ...*pairing.Source) {
	for _, src := range sources {
		it, pos := im.queue.Enqueue(src)
		im.publish(&events.ItemQueued{
			BaseEvent: events.NewBaseEvent(events.EventItemQueued, events.EntityItem, src.ID),
			BasePath:  src.BasePath,
			Position:  pos,
		})
		im.log.Debug("item queued", "title", it.DisplayTitle, "position", pos)
	}
}

// ImportDirect processes a single pairing immediately, without queue
// bookkeeping for the pairing itself. Archives nested inside it, and
// anything else already waiting, still drain through the queue before the
// call returns.
func (im *Importer) ImportDirect(ctx context.Context, src *pairing.Source) (*Summary, error) {
	if src == nil {
		return nil, ErrNothingToImport
	}
	if !im.beginDrain() {
		return nil, ErrDrainInProgress
	}
	defer im.endDrain()

	ext, err := im.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer func() { _ = ext.Close() }()

	opID := uuid.New().String()
	im.publish(&events.ImportStarted{
		BaseEvent: events.NewBaseEvent(events.EventImportStarted, events.EntityImport, opID),
		Items:     1,
		Direct:    true,
	})

	sum := &Summary{}
	it := newItem(src)
	declined, err := im.confirmImageOnly(ctx, []*Item{it}, sum)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	if len(declined) == 0 {
		sum.Results = append(sum.Results, im.processItem(ctx, ext, it, visited))
	}
	err = im.drain(ctx, ext, visited, sum)
	im.completed(opID, sum)
	return sum, err
}

// ProcessQueue drains the queue serially, strictly in insertion order.
// Nested archives discovered along the way join the tail and drain in the
// same run. A second concurrent call is a no-op returning
// ErrDrainInProgress; an empty queue returns ErrNothingToImport.
func (im *Importer) ProcessQueue(ctx context.Context) (*Summary, error) {
	if !im.beginDrain() {
		return nil, ErrDrainInProgress
	}
	defer im.endDrain()

	pending := im.queue.pending()
	if len(pending) == 0 {
		return nil, ErrNothingToImport
	}

	ext, err := im.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer func() { _ = ext.Close() }()

	opID := uuid.New().String()
	im.publish(&events.ImportStarted{
		BaseEvent: events.NewBaseEvent(events.EventImportStarted, events.EntityImport, opID),
		Items:     len(pending),
	})

	sum := &Summary{}
	if _, err := im.confirmImageOnly(ctx, pending, sum); err != nil {
		return nil, err
	}

	err = im.drain(ctx, ext, make(map[string]bool), sum)
	im.completed(opID, sum)
	return sum, err
}

// beginDrain claims the single-drain slot. The guard is instance state,
// so independent importers never contend.
func (im *Importer) beginDrain() bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.draining {
		return false
	}
	im.draining = true
	return true
}

func (im *Importer) endDrain() {
	im.mu.Lock()
	im.draining = false
	im.mu.Unlock()
}

// drain processes waiting items until none remain. Cancellation stops
// between items; whatever already settled stays settled and the summary
// reflects it.
func (im *Importer) drain(ctx context.Context, ext *archive.Extractor, visited map[string]bool, sum *Summary) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		it := im.queue.next()
		if it == nil {
			return nil
		}
		sum.Results = append(sum.Results, im.processItem(ctx, ext, it, visited))
	}
}

// processItem runs one item end to end: extraction for archives, assembly,
// then the library save. Every failure is converted to item status here;
// nothing escapes to abort the rest of the drain.
func (im *Importer) processItem(ctx context.Context, ext *archive.Extractor, it *Item, visited map[string]bool) Result {
	src := it.Source
	res := Result{ID: src.ID, DisplayTitle: it.DisplayTitle}
	im.publish(&events.ItemStarted{
		BaseEvent: events.NewBaseEvent(events.EventItemStarted, events.EntityItem, src.ID),
		BasePath:  src.BasePath,
	})
	im.log.Info("processing import item", "title", it.DisplayTitle, "kind", src.Kind)

	var extracted []fileset.Entry
	if src.Kind == pairing.KindArchive {
		im.queue.advance(it, StatusDecompressing)

		digest, err := archiveDigest(src.Archive)
		if err != nil {
			return im.failItem(it, res, fmt.Errorf("read archive: %w", err))
		}
		if visited[digest] {
			return im.skipItem(it, res, "identical archive already processed")
		}
		visited[digest] = true

		extracted, err = ext.Extract(ctx, src.Archive, src.ArchiveName, archive.Options{
			Progress: func(done, total int) {
				im.queue.progress(it, done*100/total)
				im.publish(&events.ItemProgressed{
					BaseEvent: events.NewBaseEvent(events.EventItemProgressed, events.EntityItem, src.ID),
					Done:      done,
					Total:     total,
				})
			},
		})
		if err != nil {
			return im.failItem(it, res, err)
		}
	}

	im.queue.advance(it, StatusProcessing)

	pv, err := im.builder.Build(ctx, src, extracted)
	if err != nil {
		if errors.Is(err, assemble.ErrDuplicate) || errors.Is(err, assemble.ErrDeclined) {
			return im.skipItem(it, res, err.Error())
		}
		return im.failItem(it, res, err)
	}

	if len(pv.Nested) > 0 {
		im.enqueueNested(pv.Nested)
	}
	if pv.Meta.VolumeID == "" {
		// Container archive: nothing here beyond the nested work just queued.
		im.queue.advance(it, StatusComplete)
		return im.settle(it, res, EventSkipped,
			fmt.Sprintf("container archive, %d nested queued", len(pv.Nested)))
	}

	vol, err := im.store.SaveVolume(pv)
	if err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			return im.skipItem(it, res, err.Error())
		}
		return im.failItem(it, res, err)
	}

	im.queue.advance(it, StatusComplete)
	res.Outcome = EventImported
	res.Volume = vol
	im.publish(&events.ItemCompleted{
		BaseEvent:  events.NewBaseEvent(events.EventItemCompleted, events.EntityItem, src.ID),
		SeriesName: vol.SeriesName,
		VolumeName: vol.Name,
		Pages:      vol.PageCount,
		Chars:      vol.Chars,
		SizeBytes:  vol.SizeBytes,
	})
	im.publish(&events.VolumeAdded{
		BaseEvent:  events.NewBaseEvent(events.EventVolumeAdded, events.EntityVolume, vol.ID),
		SeriesName: vol.SeriesName,
		VolumeName: vol.Name,
	})
	im.addHistory(vol.ID, EventImported, map[string]any{
		"series":     vol.SeriesName,
		"volume":     vol.Name,
		"pages":      vol.PageCount,
		"chars":      vol.Chars,
		"size_bytes": vol.SizeBytes,
		"files":      len(pv.Files),
	})
	im.log.Info("volume imported",
		"series", vol.SeriesName, "volume", vol.Name,
		"pages", vol.PageCount, "size_bytes", vol.SizeBytes)
	return res
}

// skipItem settles an item that imported nothing for a benign reason:
// duplicate, declined confirmation, already-seen archive. The item stays
// in the queue as errored so the reason remains visible.
func (im *Importer) skipItem(it *Item, res Result, reason string) Result {
	im.queue.fail(it, reason)
	return im.settle(it, res, EventSkipped, reason)
}

// failItem marks an item errored. The drain moves on to the next item.
func (im *Importer) failItem(it *Item, res Result, err error) Result {
	im.queue.fail(it, err.Error())
	return im.settle(it, res, EventFailed, err.Error())
}

// settle records a non-imported outcome everywhere it is reported: the
// result, the event bus, history, and the log.
func (im *Importer) settle(it *Item, res Result, outcome, reason string) Result {
	res.Outcome = outcome
	res.Reason = reason

	base := events.NewBaseEvent(events.EventItemSkipped, events.EntityItem, it.Source.ID)
	if outcome == EventFailed {
		base = events.NewBaseEvent(events.EventItemFailed, events.EntityItem, it.Source.ID)
		im.publish(&events.ItemFailed{BaseEvent: base, BasePath: it.Source.BasePath, Reason: reason})
		im.log.Warn("import item failed", "title", it.DisplayTitle, "error", reason)
	} else {
		im.publish(&events.ItemSkipped{BaseEvent: base, BasePath: it.Source.BasePath, Reason: reason})
		im.log.Info("import item skipped", "title", it.DisplayTitle, "reason", reason)
	}
	im.addHistory("", outcome, map[string]any{
		"title":  it.DisplayTitle,
		"path":   it.Source.BasePath,
		"reason": reason,
	})
	return res
}

// confirmImageOnly asks once, for the whole batch, whether sources with no
// metadata anywhere should be imported as image-only volumes. Declining
// cancels exactly those items; the rest of the batch is untouched. A nil
// Confirmer declines.
func (im *Importer) confirmImageOnly(ctx context.Context, items []*Item, sum *Summary) ([]*Item, error) {
	var group []*Item
	for _, it := range items {
		if it.Source.ImageOnly {
			group = append(group, it)
		}
	}
	if len(group) == 0 {
		return nil, nil
	}

	ok := false
	if im.confirm != nil {
		var err error
		ok, err = im.confirm.ConfirmImageOnly(ctx, seriesOf(group), len(group))
		if err != nil {
			return nil, fmt.Errorf("confirm image-only: %w", err)
		}
	} else {
		im.log.Info("no confirmer configured, declining image-only import", "volumes", len(group))
	}
	if ok {
		return nil, nil
	}

	for _, it := range group {
		// Direct items are not queued; removal is a no-op for them.
		_ = im.queue.Remove(it.Source.ID)
		sum.Results = append(sum.Results, im.settle(it, Result{
			ID:           it.Source.ID,
			DisplayTitle: it.DisplayTitle,
		}, EventSkipped, "image-only import declined"))
	}
	return group, nil
}

// seriesOf lists the distinct series names in a group, in first-appearance
// order, for the confirmation prompt.
func seriesOf(items []*Item) []string {
	seen := make(map[string]bool)
	var series []string
	for _, it := range items {
		name := it.Source.SeriesHint()
		if !seen[name] {
			seen[name] = true
			series = append(series, name)
		}
	}
	return series
}

// enqueueNested feeds archives found inside an item back into the queue;
// they run after everything that was already waiting.
func (im *Importer) enqueueNested(nested []*pairing.Source) {
	for _, ns := range nested {
		it, pos := im.queue.Enqueue(ns)
		im.publish(&events.ItemQueued{
			BaseEvent: events.NewBaseEvent(events.EventItemQueued, events.EntityItem, ns.ID),
			BasePath:  ns.BasePath,
			Position:  pos,
		})
		im.log.Info("nested archive queued", "title", it.DisplayTitle, "position", pos)
	}
}

func (im *Importer) completed(opID string, sum *Summary) {
	im.publish(&events.ImportCompleted{
		BaseEvent: events.NewBaseEvent(events.EventImportCompleted, events.EntityImport, opID),
		Imported:  sum.Imported(),
		Skipped:   sum.Skipped(),
		Failed:    sum.Failed(),
	})
	im.log.Info("import finished",
		"imported", sum.Imported(), "skipped", sum.Skipped(), "failed", sum.Failed())
}

// addHistory records an import event, best effort.
func (im *Importer) addHistory(volumeID, event string, data map[string]any) {
	if im.history == nil {
		return
	}
	payload, _ := json.Marshal(data)
	_ = im.history.Add(&HistoryEntry{VolumeID: volumeID, Event: event, Data: string(payload)})
}

func (im *Importer) publish(e events.Event) {
	if im.bus != nil {
		im.bus.Publish(e)
	}
}

// archiveDigest identifies an archive by content, so an archive nested
// inside itself extracts once instead of forever.
func archiveDigest(blob fileset.Blob) (string, error) {
	rc, err := blob.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
