package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/tanko/internal/archive"
	"github.com/vmunix/tanko/internal/events"
	"github.com/vmunix/tanko/internal/fileset"
	"github.com/vmunix/tanko/internal/importer"
	"github.com/vmunix/tanko/internal/pairing"
)

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import volumes into the library",
	Long: `Import manga volumes into the library.

Paths may be mokuro sidecar files, image directories, archives, or
directories holding any mix of them. Files are paired into volumes
automatically: a lone volume imports directly, larger batches drain
through the queue one volume at a time.

Examples:
  tanko import ~/scans/Yotsubato
  tanko import vol01.cbz vol02.cbz
  tanko import --dry-run ~/scans     - preview the pairing only
  tanko import --yes ~/scans         - answer yes to all prompts`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolP("yes", "y", false, "Answer yes to all prompts")
	importCmd.Flags().Bool("dry-run", false, "Preview pairing without importing")
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	autoYes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	entries, err := fileset.Collect(args)
	if err != nil {
		return err
	}
	sources, warnings := pairing.Pair(fileset.ClassifyAll(entries))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if dryRun {
		ex, err := archive.NewPool(nil, 0).Acquire()
		if err != nil {
			return err
		}
		defer func() { _ = ex.Close() }()
		printPlan(os.Stdout, sources, ex)
		return nil
	}

	decision := pairing.Route(sources)
	if decision.Empty() {
		return fmt.Errorf("nothing to import under %s", strings.Join(args, ", "))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	log := newLogger(cfg)
	bus := events.NewBus(log.With("component", "bus"))
	for _, w := range warnings {
		bus.Publish(&events.PairingWarning{
			BaseEvent: events.NewBaseEvent(events.EventPairingWarning, events.EntityItem, w.Path),
			Path:      w.Path,
			Reason:    w.Reason,
		})
	}

	var confirm importer.Confirmer
	if autoYes || cfg.Import.AutoConfirm {
		confirm = autoConfirmer{}
	} else {
		confirm = newTerminalConfirmer(os.Stdin, os.Stdout)
	}

	im := importer.New(db, importer.Config{
		Root:    cfg.Library.Root,
		Batch:   cfg.Import.BatchSize,
		Confirm: confirm,
		Bus:     bus,
	}, log.With("component", "importer"))

	// Enqueue before watching so the initial batch does not print one
	// queued line per item; nested archives discovered mid-drain still do.
	if decision.Direct == nil {
		im.Enqueue(decision.Queued...)
	}
	var done <-chan struct{}
	if cfg.Import.ShowProgress() {
		done = watchProgress(os.Stdout, bus)
	}

	var sum *importer.Summary
	if decision.Direct != nil {
		sum, err = im.ImportDirect(cmd.Context(), decision.Direct)
	} else {
		sum, err = im.ProcessQueue(cmd.Context())
	}

	_ = bus.Close()
	if done != nil {
		<-done
	}

	if sum != nil {
		printImportSummary(os.Stdout, sum, done == nil)
	}
	return err
}

// archiveLister previews archive contents without extracting them.
type archiveLister interface {
	List(blob fileset.Blob, name string) ([]archive.Entry, error)
}

func printPlan(w io.Writer, sources []*pairing.Source, lister archiveLister) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "Nothing to import")
		return
	}

	fmt.Fprintln(w, "Dry-run preview (no changes made):")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-24s %-24s %-10s %s\n", "SERIES", "VOLUME", "KIND", "CONTENT")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 72))

	imageOnly := false
	for _, src := range sources {
		name := src.VolumeHint()
		if src.ImageOnly {
			name += " *"
			imageOnly = true
		}
		fmt.Fprintf(w, "  %-24s %-24s %-10s %s\n",
			truncate(src.SeriesHint(), 24), truncate(name, 24), src.Kind, planContent(src, lister))
	}

	if imageOnly {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  * no OCR metadata found")
	}
}

func planContent(src *pairing.Source, lister archiveLister) string {
	switch src.Kind {
	case pairing.KindArchive:
		size := humanize.IBytes(uint64(src.EstimatedSize))
		if n, ok := listImages(lister, src); ok {
			return fmt.Sprintf("%s (%s, %d images)", src.ArchiveName, size, n)
		}
		return fmt.Sprintf("%s (%s)", src.ArchiveName, size)
	case pairing.KindTOC:
		return fmt.Sprintf("%d chapters, %d images", len(src.Chapters), src.PageCount())
	default:
		return fmt.Sprintf("%d images", src.PageCount())
	}
}

// listImages counts the image entries an archive would yield. An
// unreadable archive degrades to a size-only preview line; the real
// import reports the failure properly.
func listImages(lister archiveLister, src *pairing.Source) (int, bool) {
	if lister == nil {
		return 0, false
	}
	entries, err := lister.List(src.Archive, src.ArchiveName)
	if err != nil {
		return 0, false
	}
	n := 0
	for _, e := range entries {
		if fileset.Classify(fileset.Entry{Path: e.Path}).Category == fileset.CategoryImage {
			n++
		}
	}
	return n, true
}

// printImportSummary totals the run. When no progress watcher printed
// per-item lines, detailed lists the skip and failure reasons too.
func printImportSummary(w io.Writer, sum *importer.Summary, detailed bool) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Imported %d volume(s)", sum.Imported())
	if size := sum.TotalSize(); size > 0 {
		fmt.Fprintf(w, ", %s", humanize.IBytes(uint64(size)))
	}
	if n := sum.Skipped(); n > 0 {
		fmt.Fprintf(w, ", %d skipped", n)
	}
	if n := sum.Failed(); n > 0 {
		fmt.Fprintf(w, ", %d failed", n)
	}
	fmt.Fprintln(w)

	if !detailed {
		return
	}
	for _, r := range sum.Results {
		switch r.Outcome {
		case importer.EventSkipped:
			fmt.Fprintf(w, "  - %s: %s\n", r.DisplayTitle, r.Reason)
		case importer.EventFailed:
			fmt.Fprintf(w, "  ! %s: %s\n", r.DisplayTitle, r.Reason)
		}
	}
}

// truncate shortens s to at most n runes for column display.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
