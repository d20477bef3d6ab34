// Package export writes run outputs that are not plain tables: rating
// workbooks and JSON run reports.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/rapm/internal/domain/rapm"
)

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

// Sheet is one rating table in a workbook.
type Sheet struct {
	Name  string
	Table rapm.Table
}

var ratingHeader = []interface{}{
	"PLAYER_ID", "PLAYER_NAME", "RAPM", "O-RAPM", "D-RAPM",
	"RAPM_Rank", "O-RAPM_Rank", "D-RAPM_Rank",
}

// SheetName turns a label such as "2017-18/2018-19" into a valid sheet name.
func SheetName(label string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// WriteRatingsWorkbook writes one sheet per table with a frozen header row.
// Values are rounded to three decimals and the intercept is noted next to the header.
func WriteRatingsWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook: no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	seen := make(map[string]int, len(sheets))
	for i, s := range sheets {
		name := SheetName(s.Name)
		if n := seen[name]; n > 0 {
			suffix := fmt.Sprintf("_%d", n+1)
			if len(name)+len(suffix) > maxSheetName {
				name = name[:maxSheetName-len(suffix)]
			}
			name += suffix
		}
		seen[SheetName(s.Name)]++

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("workbook: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("workbook: new sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, s.Table); err != nil {
			return fmt.Errorf("workbook: sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("workbook: write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t rapm.Table) error {
	head := append(append([]interface{}(nil), ratingHeader...), "RAPM_Intercept", rapm.Round(t.Intercept, 3))
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	for i, r := range t.Ratings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.PlayerID, r.Name,
			rapm.Round(r.Total, 3), rapm.Round(r.Offense, 3), rapm.Round(r.Defense, 3),
			r.TotalRank, r.OffenseRank, r.DefenseRank,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
