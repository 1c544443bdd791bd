package utils

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	a, b := data[i][0], data[j][0]
	return a != b && natsort.Compare(a, b)
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteAsCSV writes columns followed by data rows ordered naturally by their
// first cell. Rows with equal first cells keep their order.
func WriteAsCSV(data CSV, path, subpath, filename string, columns []string) error {
	clearName := GetFilename(filename)
	file, err := OpenFile(true, path, subpath, clearName)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", clearName, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return err
	}
	sort.Stable(data)
	if err := w.WriteAll(data); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}
