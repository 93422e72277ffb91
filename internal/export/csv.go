package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/calendar/internal/store"
)

var csvHeader = []string{"ID", "Description", "Completed", "Due Date"}

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Description,
			strconv.FormatBool(t.Completed),
			t.DueDate.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
