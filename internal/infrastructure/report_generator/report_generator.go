package report_generator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

// maxErrorRows caps the error table; the full list stays queryable via the API.
const maxErrorRows = 500

type ReportGenerator struct {
	now func() time.Time
}

func New() *ReportGenerator {
	return &ReportGenerator{now: time.Now}
}

// GenerateSummary renders the outcome of one ingestion job as a PDF.
func (g *ReportGenerator) GenerateSummary(jobID, owner string, summary *domain.Summary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(12, "Bulk Data Processing Summary", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
		text.NewRow(6, "Generated "+g.now().UTC().Format(time.RFC1123), props.Text{
			Size:  8,
			Align: align.Center,
		}),
		line.NewRow(4),
	)

	m.AddRows(
		field("Process ID", jobID),
		field("Uploaded by", owner),
		field("Total rows", strconv.Itoa(summary.Total)),
		field("Inserted", strconv.Itoa(summary.Success)),
		field("Failed", strconv.Itoa(summary.Failed)),
		line.NewRow(4),
	)

	if len(summary.Errors) == 0 {
		m.AddRows(text.NewRow(8, "All rows were inserted.", props.Text{Size: 10}))
	} else {
		m.AddRows(errorRows(summary.Errors)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}

	return doc.GetBytes(), nil
}

func field(label, value string) core.Row {
	return tableRow(7,
		text.NewCol(4, label, props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(8, value, props.Text{Size: 10}),
	)
}

func errorRows(errs []domain.RowError) []core.Row {
	rows := []core.Row{
		text.NewRow(9, "Failed rows", props.Text{Size: 12, Style: fontstyle.Bold}),
		tableRow(6,
			text.NewCol(2, "Row", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(10, "Error", props.Text{Size: 9, Style: fontstyle.Bold}),
		),
	}

	for i, e := range errs {
		if i == maxErrorRows {
			rows = append(rows, text.NewRow(6,
				fmt.Sprintf("... and %d more", len(errs)-maxErrorRows),
				props.Text{Size: 9, Style: fontstyle.Italic},
			))
			break
		}

		rows = append(rows, tableRow(6,
			text.NewCol(2, strconv.Itoa(e.Row), props.Text{Size: 9}),
			text.NewCol(10, e.Message, props.Text{Size: 9}),
		))
	}

	return rows
}

func tableRow(height float64, cols ...core.Col) core.Row {
	return row.New(height).Add(cols...)
}
