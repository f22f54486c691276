package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mhaddaou/docchat/internal/adapters/driving/tui"
)

var (
	chatSession string
	chatOwner   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a session's documents in the terminal",
	Long: `Opens an interactive terminal session against a local docchat
instance, no server needed. Use --session to continue an existing
conversation; ingest documents first with "docchat ingest".

Controls:
  Enter  - Send the question
  Esc    - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session to chat in (default: create a new one)")
	chatCmd.Flags().StringVar(&chatOwner, "owner", "local", "owner identity for in-process use")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
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
	sessionID := chatSession
	if sessionID == "" {
		session, err := app.sessions.Create(ctx, chatOwner)
		if err != nil {
			return err
		}
		sessionID = session.ID
		cmd.Printf("Created session %s\n", sessionID)
	}

	model := tui.New(app.chat, app.sessions, chatOwner, sessionID)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}
