package askcmder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/healthdeskco/healthdesk/app"
	"github.com/healthdeskco/healthdesk/cmd/healthdesk/conf"
	"github.com/healthdeskco/healthdesk/pkg/logger"
)

const askLongDesc string = `Ask the health assistant a single question.

Runs one conversation turn and prints the answer to stdout. Pass
--thread to continue an earlier conversation; combined with --db,
the assistant remembers previous turns on that thread.

Examples:
  healthdesk ask "what helps with a sore throat?"
  healthdesk ask --db history.db --thread checkup "and how long until it passes?"`

const askShortDesc string = "Ask a single health question"

type askCommander struct {
	conf     conf.Flags
	threadID string
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, strings.Join(args, " "))
		},
	}

	conf.Register(cmd, &cmder.conf)
	cmd.Flags().StringVar(&cmder.threadID, "thread", "", "Conversation thread to continue")

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command, question string) error {
	cfg, err := conf.Load(cmd, &c.conf)
	if err != nil {
		return err
	}

	// stdout carries only the answer, so logs go to stderr.
	a, err := app.New(cfg, app.WithLogger(logger.NewStderrLogger(cfg.Debug)))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.Start(ctx); err != nil {
		return err
	}

	thread := c.threadID
	if thread == "" {
		thread = uuid.NewString()
	}

	reply, err := a.Agent.Respond(ctx, thread, question)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
