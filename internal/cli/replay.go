package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"market-insights-service/internal/sections"
)

func (app *App) replaySectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay-sections [trace.jsonl]",
		Short: "Replay a recorded visibility/scroll trace through the section tracker",
		Long: `Reads a JSON-lines trace (stdin when no file is given) of intersection,
scroll and select events with millisecond offsets, runs it through the
active-section tracker on a virtual clock and prints every transition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: app.runReplaySections,
	}
	cmd.Flags().Bool("no-intersection", false, "Replay as if intersection observation were unsupported")
	return cmd
}

func (app *App) runReplaySections(cmd *cobra.Command, args []string) error {
	console := app.console(cmd)

	cfg, err := app.config(cmd)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer f.Close()
		in = f
	}

	events, err := sections.ReadTrace(in)
	if err != nil {
		return err
	}

	noIntersection, _ := cmd.Flags().GetBool("no-intersection")
	opts := cfg.Sections.TrackerOptions()
	opts.Logger = log.New(cmd.ErrOrStderr(), "dashctl: ", 0)

	res, err := sections.Replay(cmd.Context(), events, opts, noIntersection)
	if err != nil {
		return err
	}

	if res.Degraded {
		console.LogWarning("Tracker ran on scroll position only")
	}
	rows := make([][]string, 0, len(res.Transitions))
	for _, tr := range res.Transitions {
		rows = append(rows, []string{fmt.Sprintf("%dms", tr.At.Milliseconds()), string(tr.Section)})
	}
	console.Table([]string{"AT", "ACTIVE SECTION"}, rows)
	console.LogSuccess("%d events replayed, final section %s", res.Events, res.Final)
	return nil
}
