package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Console writes CLI output through pterm.
type Console struct {
	out io.Writer
	// Spinner enables animated status lines; off for non-terminal output.
	Spinner bool
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Info.Sprintfln(format, a...))
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Warning.Sprintfln(format, a...))
}

func (c *Console) LogError(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Error.Sprintfln(format, a...))
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Success.Sprintfln(format, a...))
}

// Status shows a spinner until the returned stop func is called.
func (c *Console) Status(message string) (stop func()) {
	if !c.Spinner {
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.WithWriter(c.out).Start(message)
	if err != nil {
		return func() {}
	}
	return func() { _ = spinner.Stop() }
}

// Table renders rows under a header as a boxed table.
func (c *Console) Table(header []string, rows [][]string) {
	data := pterm.TableData{header}
	data = append(data, rows...)

	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		c.LogError("render table: %v", err)
		return
	}
	fmt.Fprintln(c.out, rendered)
}

// DailyBars draws one bar per day scaled to the largest total.
func (c *Console) DailyBars(title string, days []time.Time, totals []float64) {
	peak := 0.0
	for _, v := range totals {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		c.LogWarning("no activity in the selected range")
		return
	}

	data := pterm.TableData{{"Date", "Total", ""}}
	for i, day := range days {
		n := int(totals[i] / peak * 40)
		data = append(data, []string{
			day.Format("2006-01-02"),
			formatFloat(totals[i]),
			pterm.FgBlue.Sprint(strings.Repeat("█", n)),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		c.LogError("render bars: %v", err)
		return
	}
	fmt.Fprintln(c.out, pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(rendered))
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}
