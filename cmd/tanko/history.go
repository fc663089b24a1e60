package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/tanko/internal/importer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show import history",
	Long: `Show recent import history, most recent first.

Examples:
  tanko history
  tanko history -n 50
  tanko history --event skipped`,
	Args: cobra.NoArgs,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum entries to show")
	historyCmd.Flags().String("event", "", "Filter by event (imported, skipped, failed, deleted)")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	event, _ := cmd.Flags().GetString("event")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	filter := importer.HistoryFilter{Limit: limit}
	if event != "" {
		filter.Event = &event
	}
	entries, err := importer.NewHistoryStore(db).List(filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history")
		return nil
	}

	fmt.Printf("  %-16s %-10s %s\n", "WHEN", "EVENT", "WHAT")
	fmt.Println("  " + strings.Repeat("-", 64))
	for _, e := range entries {
		fmt.Printf("  %-16s %-10s %s\n",
			humanize.Time(e.CreatedAt), e.Event, historyLabel(e))
	}
	return nil
}

// historyLabel summarizes an entry's JSON payload in one line.
func historyLabel(e *importer.HistoryEntry) string {
	var d struct {
		Series string `json:"series"`
		Volume string `json:"volume"`
		Title  string `json:"title"`
		Pages  int    `json:"pages"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(e.Data), &d); err != nil {
		return e.VolumeID
	}

	label := d.Title
	if label == "" {
		label = strings.TrimSpace(d.Series + " " + d.Volume)
	}
	if d.Pages > 0 {
		label += fmt.Sprintf(" (%d pages)", d.Pages)
	}
	if d.Reason != "" {
		label += " - " + d.Reason
	}
	return label
}
