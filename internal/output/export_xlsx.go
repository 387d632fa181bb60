package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/KirkDiggler/craft-sim/internal/reconciler"
	"github.com/KirkDiggler/craft-sim/internal/services/crafting"

	"github.com/xuri/excelize/v2"
)

const maxSuggestions = 3

// ExportReportXLSX writes the reconciliation report for curators and returns
// the file name. The Unmatched sheet lists each unmatched simulator mod with
// its closest official texts.
func ExportReportXLSX(dir string, report *reconciler.Report) (string, error) {
	if report == nil {
		return "", crafterr.InvalidArgument("report cannot be nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Unmatched"
	_ = f.SetSheetName("Sheet1", sheet)
	summary := "Summary"
	_, _ = f.NewSheet(summary)

	headers := []string{"Simulator ID", "Normalized Text"}
	for i := 1; i <= maxSuggestions; i++ {
		headers = append(headers, fmt.Sprintf("Suggestion %d", i), fmt.Sprintf("Official ID %d", i), fmt.Sprintf("Distance %d", i))
	}
	if err := writeHeader(f, sheet, headers); err != nil {
		return "", err
	}

	for i, u := range report.Unmatched {
		row := i + 2
		f.SetCellValue(sheet, cell(1, row), u.SimulatorID)
		f.SetCellValue(sheet, cell(2, row), string(u.NormalizedText))
		for j, s := range u.Suggestions {
			if j == maxSuggestions {
				break
			}
			col := 3 + j*3
			f.SetCellValue(sheet, cell(col, row), string(s.Text))
			f.SetCellValue(sheet, cell(col+1, row), s.OfficialID)
			f.SetCellValue(sheet, cell(col+2, row), s.Distance)
		}
	}

	rows := [][2]any{
		{"Run ID", report.RunID},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Matched", report.Matched},
		{"Curated", report.Curated},
		{"Unmatched", len(report.Unmatched)},
	}
	for i, r := range rows {
		f.SetCellValue(summary, cell(1, i+1), r[0])
		f.SetCellValue(summary, cell(2, i+1), r[1])
	}

	if idx, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(idx)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s_reconciliation_%s.xlsx", report.GeneratedAt.Format("20060102"), report.RunID))
	return save(f, dir, filename)
}

// ExportOutcomesXLSX writes an outcome distribution and, when mc is set, a
// Monte Carlo sheet next to it
func ExportOutcomesXLSX(dir, name string, outcomes []*crafting.Outcome, mc *crafting.MonteCarloResult) (string, error) {
	if name == "" {
		return "", crafterr.InvalidArgument("export name is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Outcomes"
	_ = f.SetSheetName("Sheet1", sheet)
	if err := writeHeader(f, sheet, []string{"Mod", "Affix", "Tier ilvl", "Source", "Values", "Removed", "Probability"}); err != nil {
		return "", err
	}

	row := 1
	for _, o := range outcomes {
		row++
		f.SetCellValue(sheet, cell(1, row), o.Added.ModID)
		f.SetCellValue(sheet, cell(2, row), o.Added.AffixClass.String())
		if o.Added.Tier != nil {
			f.SetCellValue(sheet, cell(3, row), o.Added.Tier.ILvl)
			f.SetCellValue(sheet, cell(4, row), o.Added.Tier.SourceID)
		}
		f.SetCellValue(sheet, cell(5, row), joinValues(o.Added.Values))
		if o.Removed != nil {
			f.SetCellValue(sheet, cell(6, row), o.Removed.String())
		}
		f.SetCellValue(sheet, cell(7, row), o.Probability)
	}

	// Percent formatting: 1.0 => 100%
	pctStyleID, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return "", err
	}
	if row > 1 {
		if err := f.SetCellStyle(sheet, "G2", fmt.Sprintf("G%d", row), pctStyleID); err != nil {
			return "", err
		}
	}

	if mc != nil {
		mcSheet := "Monte Carlo"
		_, _ = f.NewSheet(mcSheet)
		if err := writeHeader(f, mcSheet, []string{"Tier", "Count", "Frequency"}); err != nil {
			return "", err
		}
		mcRow := 1
		for _, k := range mc.Keys() {
			mcRow++
			f.SetCellValue(mcSheet, cell(1, mcRow), k)
			f.SetCellValue(mcSheet, cell(2, mcRow), mc.Counts[k])
			f.SetCellValue(mcSheet, cell(3, mcRow), mc.Frequencies[k])
		}
		if mcRow > 1 {
			if err := f.SetCellStyle(mcSheet, "C2", fmt.Sprintf("C%d", mcRow), pctStyleID); err != nil {
				return "", err
			}
		}
	}

	if idx, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(idx)
	}

	return save(f, dir, filepath.Join(dir, fmt.Sprintf("outcomes_%s.xlsx", name)))
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(i+1, 1), h)
	}

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", cell(len(headers), 1), headerStyleID)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func joinValues(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return strings.Join(parts, ", ")
}

func save(f *excelize.File, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", crafterr.Wrap(err, "failed to create output directory")
	}
	if err := f.SaveAs(filename); err != nil {
		return "", crafterr.Wrapf(err, "failed to write %s", filename)
	}
	return filename, nil
}
