package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/enkal/eki"
)

// ErrEmptyHistory indicates there are no iteration summaries to export.
var ErrEmptyHistory = errors.New("report: calibration history is empty")

// fmt4 renders a value with four significant digits.
func fmt4(x float64) string { return fmt.Sprintf("%.4g", x) }

// headerRow builds the shared column layout: iteration, then one mean and
// one std column per parameter in canonical order.
func headerRow(names []string) []string {
	header := make([]string, 0, 1+2*len(names))
	header = append(header, "iter")
	for _, name := range names {
		header = append(header, name, name+"_std")
	}

	return header
}

// dataRow renders one summary into the shared column layout.
func dataRow(s eki.IterationSummary) []string {
	mean := s.Mean()
	variance := s.Variance()
	row := make([]string, 0, 1+2*len(mean))
	row = append(row, fmt.Sprintf("%d", s.Iteration()))
	for i := range mean {
		row = append(row, fmt4(mean[i]), fmt4(math.Sqrt(variance[i])))
	}

	return row
}

// WriteTable writes the history as a fixed-width console table: one row per
// iteration, one mean/std column pair per parameter.
func WriteTable(w io.Writer, history []eki.IterationSummary) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}

	headers := headerRow(history[0].Names())
	rows := make([][]string, len(history))
	for i, s := range history {
		rows[i] = dataRow(s)
	}

	// Column widths: max of header and cell contents.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	line := func() error {
		var b strings.Builder
		b.WriteString("+")
		for _, width := range widths {
			b.WriteString(strings.Repeat("-", width+2) + "+")
		}
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())

		return err
	}

	writeRow := func(cells []string) error {
		var b strings.Builder
		b.WriteString("|")
		for j, cell := range cells {
			fmt.Fprintf(&b, " %*s |", widths[j], cell)
		}
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())

		return err
	}

	if err := line(); err != nil {
		return err
	}
	if err := writeRow(headers); err != nil {
		return err
	}
	if err := line(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}

	return line()
}

// WriteTSV saves the history as a tab-separated file with the same column
// layout as WriteTable.
func WriteTSV(filename string, history []eki.IterationSummary) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}

	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	w.Comma = '\t'

	if err = w.Write(headerRow(history[0].Names())); err != nil {
		return err
	}
	for _, s := range history {
		if err = w.Write(dataRow(s)); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// SaveXLSX saves the history as an XLSX workbook with three sheets:
//
//   - Summary    — run-level facts: iterations, ensemble size, final means.
//   - Iterations — per iteration, per parameter mean and variance.
//   - Members    — the final iteration's constrained per-member records.
func SaveXLSX(filename string, history []eki.IterationSummary) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}

	names := history[0].Names()
	final := history[len(history)-1]

	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)
	f.SetCellValue(summary, "A1", "Iterations")
	f.SetCellValue(summary, "B1", final.Iteration())
	f.SetCellValue(summary, "A2", "Ensemble size")
	f.SetCellValue(summary, "B2", final.Size())
	finalMean := final.Mean()
	for i, name := range names {
		row := i + 3
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(summary, cell, name)
		cell, _ = excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(summary, cell, finalMean[i])
	}

	iterations := "Iterations"
	f.NewSheet(iterations)
	col := 1
	f.SetCellValue(iterations, "A1", "iter")
	col++
	for _, name := range names {
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(iterations, cell, name)
		col++
		cell, _ = excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(iterations, cell, name+"_var")
		col++
	}
	for r, s := range history {
		row := r + 2
		col = 1
		cell, _ := excelize.CoordinatesToCellName(col, row)
		f.SetCellValue(iterations, cell, s.Iteration())
		col++
		mean := s.Mean()
		variance := s.Variance()
		for i := range names {
			cell, _ = excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(iterations, cell, mean[i])
			col++
			cell, _ = excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(iterations, cell, variance[i])
			col++
		}
	}

	members := "Members"
	f.NewSheet(members)
	f.SetCellValue(members, "A1", "member")
	for i, name := range names {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(members, cell, name)
	}
	for j := 0; j < final.Size(); j++ {
		row := j + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(members, cell, j)
		rec := final.Member(j)
		for i, name := range names {
			cell, _ = excelize.CoordinatesToCellName(i+2, row)
			f.SetCellValue(members, cell, rec[name])
		}
	}

	return f.SaveAs(filename)
}
