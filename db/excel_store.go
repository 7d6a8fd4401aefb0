package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"
	"rollcall-roster/models"
	"rollcall-roster/roster"
)

var excelHeader = []interface{}{"Name", "Average"}

// ExcelStore persists the roster as a workbook: a header row, then
// column A = name, column B = average.
type ExcelStore struct {
	Path  string
	Sheet string
}

// NewExcelStore creates an ExcelStore writing to sheet in path
func NewExcelStore(path, sheet string) *ExcelStore {
	if sheet == "" {
		sheet = "Students"
	}
	return &ExcelStore{Path: path, Sheet: sheet}
}

func (s *ExcelStore) Location() string {
	return s.Path
}

// Save writes students to a new workbook at Path, replacing any existing file
func (s *ExcelStore) Save(_ context.Context, students []models.Student) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), s.Sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", s.Sheet, err)
	}
	if err := f.SetSheetRow(s.Sheet, "A1", &excelHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, st := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{st.Name, st.Average}
		if err := f.SetSheetRow(s.Sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		log.Printf("Error writing workbook %s: %v", s.Path, err)
		return fmt.Errorf("failed to open file for writing: %w", err)
	}
	return nil
}

// Load reads students from the workbook at Path
func (s *ExcelStore) Load(_ context.Context) ([]models.Student, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		log.Printf("Error opening workbook %s: %v", s.Path, err)
		return nil, fmt.Errorf("failed to open file for reading: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()
	return readWorkbook(f, s.Sheet)
}

// ImportStudentsFromExcel reads students from an uploaded workbook stream.
// The first sheet is used unless sheet names an existing one.
func ImportStudentsFromExcel(file io.Reader, sheet string) ([]models.Student, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		log.Printf("Error opening Excel reader: %v", err)
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) ([]models.Student, error) {
	if idx, err := f.GetSheetIndex(sheet); sheet == "" || err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		log.Printf("Error getting rows from sheet '%s': %v", sheet, err)
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheet, err)
	}

	students := make([]models.Student, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 {
			log.Printf("Skipping row %d: missing average", i+1)
			continue
		}
		avg, err := roster.ParseAverage(row[1])
		if err != nil || !roster.ValidAverage(avg) {
			log.Printf("Skipping row %d: invalid average %q", i+1, row[1])
			continue
		}
		students = append(students, models.Student{Name: row[0], Average: avg})
	}
	return students, nil
}
