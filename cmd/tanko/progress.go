package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/vmunix/tanko/internal/events"
)

// watchProgress subscribes to the bus and prints import lifecycle lines
// until the bus closes. The returned channel closes once the final event
// has been printed, so callers can flush before printing the summary.
func watchProgress(w io.Writer, bus *events.Bus) <-chan struct{} {
	ch := bus.SubscribeAll(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range ch {
			printEvent(w, e)
		}
	}()
	return done
}

func printEvent(w io.Writer, e events.Event) {
	switch ev := e.(type) {
	case *events.ImportStarted:
		if !ev.Direct {
			fmt.Fprintf(w, "Importing %d item(s)...\n", ev.Items)
		}
	case *events.ItemQueued:
		fmt.Fprintf(w, "  queued %s\n", ev.BasePath)
	case *events.ItemStarted:
		fmt.Fprintf(w, "  importing %s\n", ev.BasePath)
	case *events.ItemProgressed:
		fmt.Fprintf(w, "\r    extracting %d/%d", ev.Done, ev.Total)
		if ev.Done == ev.Total {
			fmt.Fprintln(w)
		}
	case *events.ItemCompleted:
		fmt.Fprintf(w, "  + %s %s (%d pages, %s)\n",
			ev.SeriesName, ev.VolumeName, ev.Pages, humanize.IBytes(uint64(ev.SizeBytes)))
	case *events.ItemSkipped:
		fmt.Fprintf(w, "  - %s: %s\n", ev.BasePath, ev.Reason)
	case *events.ItemFailed:
		fmt.Fprintf(w, "  ! %s: %s\n", ev.BasePath, ev.Reason)
	}
}
