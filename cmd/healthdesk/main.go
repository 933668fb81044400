package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	askcmder "github.com/healthdeskco/healthdesk/cmd/healthdesk/ask"
	chatcmder "github.com/healthdeskco/healthdesk/cmd/healthdesk/chat"
	mcpcmder "github.com/healthdeskco/healthdesk/cmd/healthdesk/mcp"
	servecmder "github.com/healthdeskco/healthdesk/cmd/healthdesk/serve"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "healthdesk",
		Short: "Conversational health information assistant",
		Long: `healthdesk answers health questions with color-coded risk
indicators, grounding its answers in web search. It is not a
substitute for professional medical advice.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		servecmder.NewServeCmd(),
		mcpcmder.NewMCPCmd(),
		chatcmder.NewChatCmd(),
		askcmder.NewAskCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
