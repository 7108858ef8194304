// Package review exports dialogue pairs to a spreadsheet for hand review before training.
package review

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/theimaginaryfoundation/dialogue-forge/dialogue"
	"github.com/theimaginaryfoundation/dialogue-forge/dialogue/fileutils"
)

const sheet = "Pairs"

var headers = []string{"#", "Source", "Speaker", "Prompt", "Response", "Keep"}

// BuildWorkbook renders pairs into an xlsx workbook, one row per pair, with a "Keep" column
// prefilled to "y" for reviewers to flip.
func BuildWorkbook(pairs []dialogue.Pair) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("review: rename sheet: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("review: style: %w", err)
	}

	for i, p := range pairs {
		row := i + 2
		vals := []any{i + 1, p.Source, p.Speaker, p.Prompt, p.Response, "y"}
		for j, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	if len(pairs) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), len(pairs)+1)
		_ = f.SetCellStyle(sheet, "A2", last, wrap)
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)  // #
	_ = f.SetColWidth(sheet, "B", "B", 28) // source
	_ = f.SetColWidth(sheet, "C", "C", 16) // speaker
	_ = f.SetColWidth(sheet, "D", "E", 60) // prompt, response
	_ = f.SetColWidth(sheet, "F", "F", 6)  // keep
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("review: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteWorkbook builds the workbook and writes it to path atomically.
func WriteWorkbook(path string, pairs []dialogue.Pair, overwrite bool) error {
	if err := fileutils.CheckOverwrite(path, overwrite); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	b, err := BuildWorkbook(pairs)
	if err != nil {
		return err
	}
	if err := fileutils.WriteFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("review: write %s: %w", path, err)
	}
	return nil
}
