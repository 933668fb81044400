package mcpcmder

import (
	"github.com/spf13/cobra"

	"github.com/healthdeskco/healthdesk/app"
	"github.com/healthdeskco/healthdesk/cmd/healthdesk/conf"
	"github.com/healthdeskco/healthdesk/mcpserver"
	"github.com/healthdeskco/healthdesk/pkg/logger"
)

const mcpLongDesc string = `Expose the health assistant as an MCP server.

Registers an ask_health tool that runs a full conversation turn,
including web search, and returns the assistant's answer. The stdio
transport speaks the protocol on stdin/stdout for editor and agent
clients; the sse transport serves HTTP.

Examples:
  healthdesk mcp
  healthdesk mcp --transport sse --addr :8081`

const mcpShortDesc string = "Expose the assistant as an MCP server"

type mcpCommander struct {
	conf      conf.Flags
	transport string
	addr      string
}

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	conf.Register(cmd, &cmder.conf)
	cmd.Flags().StringVarP(&cmder.transport, "transport", "t", mcpserver.TransportStdio, `Transport mode ("stdio" or "sse")`)
	cmd.Flags().StringVar(&cmder.addr, "addr", ":8081", "Listen address for the sse transport")

	return cmd
}

func (c *mcpCommander) run(cmd *cobra.Command) error {
	cfg, err := conf.Load(cmd, &c.conf)
	if err != nil {
		return err
	}

	// The stdio transport owns stdout, so logs go to stderr.
	a, err := app.New(cfg, app.WithLogger(logger.NewStderrLogger(cfg.Debug)))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.Start(ctx); err != nil {
		return err
	}

	srv, err := mcpserver.New(mcpserver.Config{
		Name:      "healthdesk",
		Version:   version(cmd),
		Transport: c.transport,
		Addr:      c.addr,
	}, a.Agent, a.Logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func version(cmd *cobra.Command) string {
	if v := cmd.Root().Version; v != "" {
		return v
	}
	return "dev"
}
