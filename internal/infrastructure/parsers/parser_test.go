package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawQuestion
	}{
		{
			name:  "single question",
			input: `[{"text": "Is there a policy?", "control_ref": "A.5"}]`,
			expected: []RawQuestion{
				{Text: "Is there a policy?", ControlRef: "A.5", LineNum: 1},
			},
		},
		{
			name:  "missing control ref",
			input: `[{"text": "Q1"}, {"text": "Q2", "control_ref": "A.6"}]`,
			expected: []RawQuestion{
				{Text: "Q1", LineNum: 1},
				{Text: "Q2", ControlRef: "A.6", LineNum: 2},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawQuestion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid JSON", input: "{not json"},
		{name: "object instead of array", input: `{"text": "Q1"}`},
		{name: "empty input", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	input := "text,control_ref\n" +
		"Is there a policy?,A.5\n" +
		"\"Are roles, and duties, assigned?\",A.6\n" +
		"Unmapped question,\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, RawQuestion{Text: "Is there a policy?", ControlRef: "A.5", LineNum: 2}, result[0])
	assert.Equal(t, "Are roles, and duties, assigned?", result[1].Text)
	assert.Equal(t, "", result[2].ControlRef)
	assert.Equal(t, 4, result[2].LineNum)
}

func TestCSVParser_Parse_TextOnly(t *testing.T) {
	input := "Text\nQ1\nQ2\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Q1", result[0].Text)
	assert.Equal(t, "", result[0].ControlRef)
}

func TestCSVParser_Parse_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing text column", input: "control_ref\nA.5\n"},
		{name: "empty input", input: ""},
		{name: "unterminated quote", input: "text\n\"broken\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestYAMLParser_Parse_ValidInput(t *testing.T) {
	input := `- text: Is there a policy?
  control_ref: A.5
- text: Unmapped question
`

	parser := &YAMLParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, RawQuestion{Text: "Is there a policy?", ControlRef: "A.5", LineNum: 1}, result[0])
	assert.Equal(t, RawQuestion{Text: "Unmapped question", LineNum: 3}, result[1])
}

func TestYAMLParser_Parse_Empty(t *testing.T) {
	parser := &YAMLParser{}
	result, err := parser.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestYAMLParser_Parse_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "mapping instead of list", input: "text: Q1\n"},
		{name: "malformed", input: "- text: [unclosed\n"},
		{name: "wrong item type", input: "- [a, b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &YAMLParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected Parser
	}{
		{format: "json", expected: &JSONParser{}},
		{format: "JSON", expected: &JSONParser{}},
		{format: "csv", expected: &CSVParser{}},
		{format: "yaml", expected: &YAMLParser{}},
		{format: "yml", expected: &YAMLParser{}},
		{format: "xml", expected: nil},
		{format: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForFormat(tt.format))
		})
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		expected Parser
	}{
		{filename: "questions.json", expected: &JSONParser{}},
		{filename: "/path/to/Questions.CSV", expected: &CSVParser{}},
		{filename: "template.yaml", expected: &YAMLParser{}},
		{filename: "template.yml", expected: &YAMLParser{}},
		{filename: "questions.txt", expected: nil},
		{filename: "noextension", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForFile(tt.filename))
		})
	}
}
