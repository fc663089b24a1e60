package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/tanko/internal/importer"
	"github.com/vmunix/tanko/internal/library"
)

var rmCmd = &cobra.Command{
	Use:   "rm <volume-id>",
	Short: "Remove a volume from the library",
	Long: `Remove a volume's catalog records and its files under the library
root. Volume IDs are shown by 'tanko list <series>'.`,
	Args: cobra.ExactArgs(1),
	RunE: runRmCmd,
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func runRmCmd(cmd *cobra.Command, args []string) error {
	autoYes, _ := cmd.Flags().GetBool("yes")
	id := args[0]

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
	vol, err := store.GetVolume(id)
	if errors.Is(err, library.ErrNotFound) {
		return fmt.Errorf("no volume with ID %s", id)
	}
	if err != nil {
		return err
	}

	if !autoYes {
		question := fmt.Sprintf("Remove %s %s (%d pages)?", vol.SeriesName, vol.Name, vol.PageCount)
		ok, err := newTerminalConfirmer(os.Stdin, os.Stdout).ask(question)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := store.DeleteVolume(id); err != nil {
		return err
	}

	data, _ := json.Marshal(map[string]any{"series": vol.SeriesName, "volume": vol.Name})
	_ = importer.NewHistoryStore(db).Add(&importer.HistoryEntry{
		VolumeID: id,
		Event:    importer.EventDeleted,
		Data:     string(data),
	})

	fmt.Printf("Removed %s %s\n", vol.SeriesName, vol.Name)
	return nil
}
