package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	ingestSession string
	ingestOwner   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into a session",
	Long: `Parses, chunks, embeds and indexes the given files so they can be
asked about with "docchat chat". Without --session a new session is
created and its id printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSession, "session", "", "session to ingest into (default: create a new one)")
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", "local", "owner identity for in-process use")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	sessionID := ingestSession
	if sessionID == "" {
		session, err := app.sessions.Create(ctx, ingestOwner)
		if err != nil {
			return err
		}
		sessionID = session.ID
		cmd.Printf("Created session %s\n", sessionID)
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, err := app.ingest.Ingest(ctx, ingestOwner, sessionID, filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		cmd.Printf("Ingested %s (document %s)\n", doc.Name, doc.ID)
	}
	return nil
}
