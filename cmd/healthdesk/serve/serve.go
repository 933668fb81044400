package servecmder

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/healthdeskco/healthdesk/app"
	"github.com/healthdeskco/healthdesk/cmd/healthdesk/conf"
	"github.com/healthdeskco/healthdesk/server"
)

const serveLongDesc string = `Run the healthdesk HTTP server.

Serves the chat API: POST /api/chat accepts a text message or raw
PCM audio (transcribed with Whisper), runs a conversation turn, and
returns the assistant's answer with its color-coded risk indicator.

Examples:
  healthdesk serve
  healthdesk serve --listen :9090 --db history.db
  healthdesk serve --config healthdesk.toml --pprof`

const serveShortDesc string = "Run the healthdesk HTTP server"

type serveCommander struct {
	conf        conf.Flags
	listenAddr  string
	enablePprof bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	conf.Register(cmd, &cmder.conf)
	cmd.Flags().StringVarP(&cmder.listenAddr, "listen", "l", "", "HTTP listen address")
	cmd.Flags().BoolVar(&cmder.enablePprof, "pprof", false, "Mount pprof handlers under /debug/pprof")

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	cfg, err := conf.Load(cmd, &c.conf)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.ListenAddr = c.listenAddr
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		return err
	}

	srv := server.New(server.Config{
		ListenAddr:  cfg.ListenAddr,
		EnablePprof: c.enablePprof,
	}, a.Agent, a.Transcriber, a.Store, a.Logger)

	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			a.Logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	return srv.Run()
}
