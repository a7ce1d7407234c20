package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses questions from a JSON array.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed questions.
func (p *JSONParser) Parse(r io.Reader) ([]RawQuestion, error) {
	var questions []RawQuestion

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&questions); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Array index + 1
	for i := range questions {
		questions[i].LineNum = i + 1
	}

	return questions, nil
}
