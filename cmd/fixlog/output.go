package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/descriptor"
	"github.com/ozgurkzlkaya/fixlog/internal/grid"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/ozgurkzlkaya/fixlog/internal/ui"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func listFooter(noun string, shown int, meta query.PageMeta) {
	line := fmt.Sprintf("%d %s (%d total)", shown, noun, meta.Total)
	if meta.PageCount > 1 {
		line += fmt.Sprintf(", page %d/%d", meta.Page, meta.PageCount)
	}
	fmt.Println(ui.RenderMuted(line))
}

// printRowTable renders grid rows using the column descriptors: labels as
// headers, per-column formatters for cells.
func printRowTable(cols []descriptor.ColumnDescriptor, rows []grid.Row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Label
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = formatCell(col, r[col.ID])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}

func formatCell(col descriptor.ColumnDescriptor, v any) string {
	if col.Format != nil {
		return col.Format(v)
	}
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

func printProductTable(products []*model.Product, meta query.PageMeta) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERIAL\tMODEL\tSTATUS\tWARRANTY END\tCOMPANY")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Serial, truncate(p.ModelName, 30), p.Status,
			formatDate(p.WarrantyEnd), p.CompanyID)
	}
	w.Flush()
	fmt.Println()
	listFooter("products", len(products), meta)
}

func printProduct(p *model.Product) {
	fmt.Printf("%s  %s\n", ui.RenderAccent(p.ID), p.Serial)
	fmt.Printf("  model:     %s", p.ModelName)
	if p.ModelType != "" {
		fmt.Printf(" (%s)", p.ModelType)
	}
	fmt.Println()
	fmt.Printf("  status:    %s\n", p.Status)
	if p.CompanyID != "" {
		fmt.Printf("  company:   %s\n", p.CompanyID)
	}
	if p.WarrantyStart != nil || p.WarrantyEnd != nil {
		fmt.Printf("  warranty:  %s .. %s\n", formatDate(p.WarrantyStart), formatDate(p.WarrantyEnd))
		if p.UnderWarranty(time.Now()) {
			fmt.Printf("             %s\n", ui.RenderAccent("in warranty"))
		} else {
			fmt.Printf("             %s\n", ui.RenderMuted("out of warranty"))
		}
	}
	if p.Notes != "" {
		fmt.Printf("  notes:     %s\n", p.Notes)
	}
	fmt.Printf("  updated:   %s\n", ui.RenderMuted(p.UpdatedAt.Format(time.RFC3339)))
}

func printIssueTable(issues []*model.Issue, meta query.PageMeta) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRI\tTITLE\tPRODUCT\tASSIGNEE\tREPORTED")
	for _, is := range issues {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			is.ID, ui.RenderIssueStatus(is.Status), ui.RenderPriority(is.Priority),
			truncate(is.Title, 50), is.ProductID, is.Assignee,
			is.ReportedAt.Format("2006-01-02"))
	}
	w.Flush()
	fmt.Println()
	listFooter("issues", len(issues), meta)
}

func printIssue(is *model.Issue) {
	fmt.Printf("%s  %s\n", ui.RenderAccent(is.ID), is.Title)
	fmt.Printf("  status:    %s  %s\n", ui.RenderIssueStatus(is.Status), ui.RenderPriority(is.Priority))
	fmt.Printf("  product:   %s\n", is.ProductID)
	if is.CompanyID != "" {
		fmt.Printf("  company:   %s\n", is.CompanyID)
	}
	if is.Category != "" {
		fmt.Printf("  category:  %s\n", is.Category)
	}
	if is.Assignee != "" {
		fmt.Printf("  assignee:  %s\n", is.Assignee)
	}
	fmt.Printf("  reported:  %s\n", is.ReportedAt.Format(time.RFC3339))
	if is.ResolvedAt != nil {
		fmt.Printf("  resolved:  %s\n", is.ResolvedAt.Format(time.RFC3339))
	}
	if is.Description != "" {
		fmt.Printf("\n  %s\n", is.Description)
	}
	if len(is.Shipments) > 0 {
		fmt.Println("\n  shipments:")
		for _, sh := range is.Shipments {
			fmt.Printf("    %s  %s %s  %s\n", sh.ID, sh.Direction,
				ui.RenderShipmentStatus(sh.Status), sh.Tracking)
		}
	}
}

func printShipmentTable(shipments []*model.Shipment, meta query.PageMeta) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tISSUE\tDIR\tSTATUS\tCARRIER\tTRACKING\tDELIVERED")
	for _, sh := range shipments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sh.ID, sh.IssueID, sh.Direction, ui.RenderShipmentStatus(sh.Status),
			sh.Carrier, sh.Tracking, formatDate(sh.DeliveredAt))
	}
	w.Flush()
	fmt.Println()
	listFooter("shipments", len(shipments), meta)
}

func printShipment(sh *model.Shipment) {
	fmt.Printf("%s  issue %s\n", ui.RenderAccent(sh.ID), sh.IssueID)
	fmt.Printf("  direction: %s\n", sh.Direction)
	fmt.Printf("  status:    %s\n", ui.RenderShipmentStatus(sh.Status))
	if sh.Carrier != "" {
		fmt.Printf("  carrier:   %s\n", sh.Carrier)
	}
	if sh.Tracking != "" {
		fmt.Printf("  tracking:  %s\n", sh.Tracking)
	}
	fmt.Printf("  shipped:   %s\n", formatDate(sh.ShippedAt))
	fmt.Printf("  delivered: %s\n", formatDate(sh.DeliveredAt))
}

func printCompanyTable(companies []*model.Company, meta query.PageMeta) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tEMAIL\tPHONE")
	for _, c := range companies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, truncate(c.Name, 40), c.Kind, c.Email, c.Phone)
	}
	w.Flush()
	fmt.Println()
	listFooter("companies", len(companies), meta)
}

func printCompany(c *model.Company) {
	fmt.Printf("%s  %s (%s)\n", ui.RenderAccent(c.ID), c.Name, c.Kind)
	if c.Email != "" {
		fmt.Printf("  email:    %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Printf("  phone:    %s\n", c.Phone)
	}
	if c.Address != "" {
		fmt.Printf("  address:  %s\n", c.Address)
	}
}

func printNotificationTable(notifications []*model.Notification) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tENTITY\tAGE")
	for _, n := range notifications {
		title := truncate(n.Title, 50)
		if !n.Read {
			title = ui.RenderAccent(title)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.Type, title, n.EntityID, formatAge(n.CreatedAt))
	}
	w.Flush()
	fmt.Println()
	fmt.Println(ui.RenderMuted(fmt.Sprintf("%d notifications", len(notifications))))
}

func printEventTable(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOPIC\tACTOR")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Topic, e.Actor)
	}
	w.Flush()
}

func printStats(s *model.Stats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "open issues\t%d\n", s.OpenIssues)
	fmt.Fprintf(w, "in repair\t%d\n", s.InRepair)
	fmt.Fprintf(w, "waiting parts\t%d\n", s.WaitingParts)
	fmt.Fprintf(w, "resolved\t%d\n", s.ResolvedIssues)
	fmt.Fprintf(w, "closed\t%d\n", s.ClosedIssues)
	fmt.Fprintf(w, "products\t%d\n", s.TotalProducts)
	fmt.Fprintf(w, "unread notifications\t%d\n", s.UnreadNotifications)
	w.Flush()
}

func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
