// Package pdf renders the printable inventory report.
//
// Page layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: title + scope           │  generated at            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: items / low / depleted / expiring                  │
//	│  TABLE: Medicine | Batch | Barangay | Qty | Expiry | State   │
//	│  ALERTS                                                      │
//	│  SUGGESTIONS                                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/application/inventory"
)

var (
	colorPrimary  = &props.Color{Red: 0, Green: 110, Blue: 80}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ inventory.ReportGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implements inventory.ReportGenerator with Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator builds the generator. title heads every page.
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	if title == "" {
		title = "NagaCare Medication Inventory"
	}
	return &MarotoPDFGenerator{title: title}
}

// GenerateInventoryReport renders overview and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInventoryReport(overview *dto.InventoryOverviewResponse) ([]byte, error) {
	if overview == nil {
		return nil, fmt.Errorf("pdf: nil overview")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(overview))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(overview))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(overview.Items)...)

	if len(overview.Alerts) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("ALERTS"))
		for _, a := range overview.Alerts {
			color := colorGray
			if a.Severity == "critical" {
				color = colorCritical
			}
			m.AddRows(bulletRow(fmt.Sprintf("[%s] %s", a.Severity, a.Message), color))
		}
	}
	if len(overview.Suggestions) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("SUGGESTED ACTIONS"))
		for _, s := range overview.Suggestions {
			m.AddRows(bulletRow(s.Message, colorGray))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoPDFGenerator) headerRow(o *dto.InventoryOverviewResponse) core.Row {
	scope := "City Health Office (all barangays)"
	if o.Barangay != "" {
		scope = "Barangay " + o.Barangay
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generated", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(o.GeneratedAt.Format("2006-01-02 15:04"), props.Text{Size: 9, Align: align.Right, Top: 7}),
		),
	)
}

func summaryRow(o *dto.InventoryOverviewResponse) core.Row {
	var low, depleted, expiring int
	for _, it := range o.Items {
		switch it.State {
		case "LOW":
			low++
		case "DEPLETED":
			depleted++
		}
		if it.IsExpiringSoon {
			expiring++
		}
	}
	cell := func(label string, value int) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(fmt.Sprintf("%d", value), props.Text{Style: fontstyle.Bold, Size: 12, Top: 5, Align: align.Center}),
		)
	}
	return row.New(14).Add(
		cell("Items", len(o.Items)),
		cell("Low stock", low),
		cell("Depleted", depleted),
		cell("Expiring in 30 days", expiring),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Medicine", 3, align.Left),
		h("Batch", 2, align.Left),
		h("Barangay", 2, align.Left),
		h("Qty", 1, align.Right),
		h("Expiry", 2, align.Center),
		h("State", 2, align.Center),
	)
}

func itemRows(items []dto.MedicationResponse) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		barangay := it.Barangay
		if barangay == "" {
			barangay = "Central supply"
		}
		stateColor := colorGray
		if it.State != "OK" {
			stateColor = colorCritical
		}
		cellText := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		rows = append(rows, row.New(6).Add(
			cellText(it.MedicineName, 3, align.Left),
			cellText(it.BatchNumber, 2, align.Left),
			cellText(barangay, 2, align.Left),
			cellText(fmt.Sprintf("%d", it.Quantity), 1, align.Right),
			cellText(it.ExpirationDate, 2, align.Center),
			col.New(2).Add(text.New(it.State, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Top: 1, Color: stateColor})),
		))
	}
	return rows
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1})))
}

func bulletRow(s string, color *props.Color) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New("- "+s, props.Text{Size: 8, Top: 1, Color: color})))
}
