package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

// printSummary writes one row per host and a total row
func printSummary(w io.Writer, results []Result, colored bool) {
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Host", "Transmitted", "Received", "Loss"})

	lost := color.New(color.FgRed)
	lost.EnableColor()

	var transmitted, received int
	for _, res := range results {
		transmitted += res.Transmitted
		received += res.Received

		loss := formatLoss(res.Transmitted, res.Received)
		if colored && res.Received == 0 {
			loss = lost.Sprint(loss)
		}

		table.Append([]string{
			res.Host,
			fmt.Sprintf("%d", res.Transmitted),
			fmt.Sprintf("%d", res.Received),
			loss,
		})
	}

	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", transmitted),
		fmt.Sprintf("%d", received),
		formatLoss(transmitted, received),
	})

	table.Render()
}

// formatLoss formats the share of requests without a reply
func formatLoss(transmitted, received int) string {
	if transmitted == 0 {
		return "-"
	}

	return fmt.Sprintf("%.0f%%", 100*(1-float64(received)/float64(transmitted)))
}

// isTerminal checks if the given file is a terminal
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
