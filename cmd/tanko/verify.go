package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/tanko/internal/library"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify library files against the catalog",
	Long: `Check every cataloged volume against the library root: each recorded
file must exist on disk with its recorded size, and stored pages must
agree with the volume's page count.`,
	Args: cobra.NoArgs,
	RunE: runVerifyCmd,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := library.NewStore(db, cfg.Library.Root).VerifyFiles()
	if err != nil {
		return err
	}

	fmt.Printf("Checked %d volume(s), %d passed\n", result.Checked, result.Passed)
	if len(result.Problems) == 0 {
		return nil
	}

	fmt.Println()
	for _, p := range result.Problems {
		if p.Path != "" {
			fmt.Printf("  %s %s: %s: %s\n", p.Series, p.Volume, p.Path, p.Issue)
		} else {
			fmt.Printf("  %s %s: %s\n", p.Series, p.Volume, p.Issue)
		}
	}
	return fmt.Errorf("%d problem(s) found", len(result.Problems))
}
