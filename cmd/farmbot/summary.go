package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"farmbot/internal/core/domain"
)

// renderSummary renders the end-of-run delivery report.
func renderSummary(s *domain.RunSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.SetTitle("Harvest %s", s.RunID)
	tw.AppendHeader(table.Row{"File", "Size", "Status"})

	for _, d := range s.Deliveries {
		status := "delivered"
		if d.Error != "" {
			status = "failed: " + d.Error
		}
		tw.AppendRow(table.Row{d.Name, formatSize(d.Size), status})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("discovered %d / selected %d", s.Discovered, s.Selected),
		"",
		fmt.Sprintf("delivered %d/%d", s.Delivered, s.Acquired),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	if !s.CompletedAt.IsZero() {
		tw.SetCaption("completed %s", s.CompletedAt.Format(time.RFC3339))
	}
	return tw.Render()
}

func formatSize(n int64) string {
	const mib = 1024 * 1024
	if n >= mib {
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	}
	return fmt.Sprintf("%d B", n)
}
