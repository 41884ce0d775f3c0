// Command xlsx2csv converts the store's order export workbook into the
// CSV snapshot the historical loader reads. Only the first sheet is
// taken; cell values are written as displayed.
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <input.xlsx> <output.csv>\n", os.Args[0])
		os.Exit(2)
	}
	inPath, outPath := os.Args[1], os.Args[2]

	wb, err := excelize.OpenFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open workbook: %v\n", err)
		os.Exit(1)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		fmt.Fprintln(os.Stderr, "workbook has no sheets")
		os.Exit(1)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read sheet %q: %v\n", sheets[0], err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for _, row := range rows {
		// Pad short rows so every record has the header's width.
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			os.Exit(1)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "flush failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d rows from sheet %q to %s\n", len(rows), sheets[0], outPath)
}
