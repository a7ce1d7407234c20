package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses questions from a YAML sequence.
type YAMLParser struct{}

// Parse reads YAML from the reader and returns parsed questions.
// LineNum is the source line of each sequence item.
func (p *YAMLParser) Parse(r io.Reader) ([]RawQuestion, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []RawQuestion{}, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parsing YAML: line %d: expected a list of questions", root.Line)
	}

	questions := make([]RawQuestion, 0, len(root.Content))
	for _, item := range root.Content {
		var q RawQuestion
		if err := item.Decode(&q); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		q.LineNum = item.Line
		questions = append(questions, q)
	}

	return questions, nil
}
