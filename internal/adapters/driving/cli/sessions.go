package cli

import (
	"github.com/spf13/cobra"
)

var sessionsOwner string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions and their documents",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsOwner, "owner", "local", "owner identity for in-process use")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
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
	sessions, err := app.sessions.List(ctx, sessionsOwner)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions.")
		return nil
	}

	for _, session := range sessions {
		cmd.Printf("%s  %s\n", session.ID, session.CreatedAt.Format("2006-01-02 15:04"))
		docs, err := app.sessions.Documents(ctx, sessionsOwner, session.ID)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			cmd.Printf("    %s\n", doc.Name)
		}
	}
	return nil
}
