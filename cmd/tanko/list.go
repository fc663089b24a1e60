package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/tanko/internal/library"
)

var listCmd = &cobra.Command{
	Use:   "list [series]",
	Short: "List library contents",
	Long: `List the series in the library, or the volumes of one series.

Examples:
  tanko list
  tanko list "Yotsubato!"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runListCmd,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runListCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store := library.NewStore(db, cfg.Library.Root)
	if len(args) == 1 {
		return listVolumes(store, args[0])
	}
	return listSeries(store)
}

func listSeries(store *library.Store) error {
	series, err := store.ListSeries()
	if err != nil {
		return err
	}
	if len(series) == 0 {
		fmt.Println("Library is empty")
		return nil
	}

	fmt.Printf("  %-32s %8s %12s %10s\n", "SERIES", "VOLUMES", "CHARS", "SIZE")
	fmt.Println("  " + strings.Repeat("-", 66))
	for _, s := range series {
		fmt.Printf("  %-32s %8d %12s %10s\n",
			truncate(s.Name, 32), s.Volumes,
			humanize.Comma(int64(s.TotalChars)), humanize.IBytes(uint64(s.SizeBytes)))
	}
	fmt.Printf("\n%d series\n", len(series))
	return nil
}

func listVolumes(store *library.Store, series string) error {
	volumes, _, err := store.ListVolumes(library.VolumeFilter{SeriesName: &series})
	if err != nil {
		return err
	}
	if len(volumes) == 0 {
		fmt.Printf("No volumes for %q. Run 'tanko list' to see all series.\n", series)
		return nil
	}

	fmt.Printf("  %-36s %-24s %6s %12s %10s %s\n", "ID", "VOLUME", "PAGES", "CHARS", "SIZE", "ADDED")
	fmt.Println("  " + strings.Repeat("-", 104))
	imageOnly := false
	for _, v := range volumes {
		name := v.Name
		if v.ImageOnly {
			name += " *"
			imageOnly = true
		}
		fmt.Printf("  %-36s %-24s %6d %12s %10s %s\n",
			v.ID, truncate(name, 24), v.PageCount,
			humanize.Comma(int64(v.Chars)), humanize.IBytes(uint64(v.SizeBytes)),
			humanize.Time(v.AddedAt))
	}
	if imageOnly {
		fmt.Println("\n  * image-only, no OCR text")
	}
	return nil
}
