package chatcmder

import (
	"github.com/spf13/cobra"

	"github.com/healthdeskco/healthdesk/app"
	"github.com/healthdeskco/healthdesk/cmd/healthdesk/conf"
	"github.com/healthdeskco/healthdesk/pkg/logger"
	"github.com/healthdeskco/healthdesk/tui"
)

const chatLongDesc string = `Chat with the health assistant in the terminal.

Opens an interactive session on a fresh conversation thread. Answers
are rendered as markdown with their color-coded risk indicators.

Examples:
  healthdesk chat
  healthdesk chat --model gpt-4o --db history.db`

const chatShortDesc string = "Chat with the assistant in the terminal"

type chatCommander struct {
	conf conf.Flags
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	conf.Register(cmd, &cmder.conf)

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	cfg, err := conf.Load(cmd, &c.conf)
	if err != nil {
		return err
	}

	// The UI owns the terminal, so logs go to stderr.
	a, err := app.New(cfg, app.WithLogger(logger.NewStderrLogger(cfg.Debug)))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.Start(ctx); err != nil {
		return err
	}

	return tui.Run(ctx, a.Agent)
}
