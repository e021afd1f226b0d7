package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ridewell/rematch/internal/model"
)

const dateFormat = "2006-01-02"

// RenderDrivers writes the driver pool as a table. Drivers whose id is in
// highlighted get a likely-match marker; the one matching selectedID is
// marked as the current selection.
func RenderDrivers(w io.Writer, drivers []model.Driver, highlighted map[string]bool, selectedID string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"", "ID", "Name", "Phone", "License", "Hired"})
	for _, d := range drivers {
		marker := ""
		switch {
		case d.ID == selectedID:
			marker = SuccessStyle.Render(SuccessIcon)
		case highlighted[d.ID]:
			marker = HighlightStyle.Render(HighlightIcon)
		}
		hired := ""
		if !d.HireDate.IsZero() {
			hired = d.HireDate.Format(dateFormat)
		}
		tw.AppendRow(table.Row{marker, d.ID, d.FullName, d.Phone, d.LicenseNumber, hired})
	}
	tw.Render()
}

// RenderLeads writes the unmatched lead pool as a table, marking the current
// selection.
func RenderLeads(w io.Writer, leads []model.Lead, selectedID string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"", "ID", "Name", "Phone", "Created"})
	for _, l := range leads {
		marker := ""
		if l.ID == selectedID {
			marker = SuccessStyle.Render(SuccessIcon)
		}
		tw.AppendRow(table.Row{marker, l.ID, l.FullName(), l.Phone, l.CreatedAt.Format(dateFormat)})
	}
	tw.Render()
}

// RenderRegistrations writes the unmatched registration pool as a table,
// marking the current selection.
func RenderRegistrations(w io.Writer, regs []model.ScoutRegistration, selectedID string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"", "ID", "Name", "Phone", "License", "Registered"})
	for _, r := range regs {
		marker := ""
		if r.ID == selectedID {
			marker = SuccessStyle.Render(SuccessIcon)
		}
		tw.AppendRow(table.Row{marker, r.ID, r.FullName(), r.Phone, r.LicenseNumber, r.RegisteredAt.Format(dateFormat)})
	}
	tw.Render()
}

// RenderGroups writes the transaction groups. Collapsed groups show only
// their header row; expanded groups list every member with its selection
// marker.
func RenderGroups(w io.Writer, groups []model.TransactionGroup, expanded func(key string) bool, selected func(id int64) bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"", "Group", "Txn", "Date", "Milestone", "Amount", "Comment"})
	for _, g := range groups {
		header := fmt.Sprintf("%s (%d)", g.Key, g.Count())
		if !expanded(g.Key) {
			tw.AppendRow(table.Row{"", SubtleStyle.Render("+ " + header), "", "", "", "", ""})
			continue
		}
		tw.AppendRow(table.Row{"", FormatTitle(header), "", "", "", "", ""})
		for _, t := range g.Transactions {
			marker := ""
			if selected(t.ID) {
				marker = SuccessStyle.Render(SuccessIcon)
			}
			tw.AppendRow(table.Row{
				marker, "", t.ID, t.Date.Format(dateFormat), t.MilestoneType,
				fmt.Sprintf("%.2f", t.Amount), t.Comment,
			})
		}
	}
	tw.Render()
}
