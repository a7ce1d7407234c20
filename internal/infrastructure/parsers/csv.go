package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser parses questions from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed questions.
// Expected columns: text, control_ref (optional).
func (p *CSVParser) Parse(r io.Reader) ([]RawQuestion, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	if _, ok := colIndex["text"]; !ok {
		return nil, fmt.Errorf("missing required column: text")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawQuestions.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawQuestion, error) {
	questions := []RawQuestion{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		questions = append(questions, RawQuestion{
			Text:       getColumn(record, colIndex, "text"),
			ControlRef: getColumn(record, colIndex, "control_ref"),
			LineNum:    lineNum,
		})
	}

	return questions, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
