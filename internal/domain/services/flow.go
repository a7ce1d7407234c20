package services

import (
	"strings"

	"github.com/ersonp/auditshield/internal/domain/entities"
)

// Validation reports whether an answer is complete. Only a "No" can be
// incomplete: it needs a comment and a non-compliance level.
type Validation struct {
	Complete       bool `json:"complete"`
	MissingComment bool `json:"missing_comment,omitempty"`
	MissingLevel   bool `json:"missing_level,omitempty"`
}

// ValidateAnswer checks an answer for completeness.
func ValidateAnswer(a entities.Answer) Validation {
	if a.Value != entities.AnswerNo {
		return Validation{Complete: true}
	}
	v := Validation{
		MissingComment: strings.TrimSpace(a.Comment) == "",
		MissingLevel:   a.NonComplianceLevel == entities.LevelNone,
	}
	v.Complete = !v.MissingComment && !v.MissingLevel
	return v
}

// IncompleteAnswers returns the answers that fail validation.
func IncompleteAnswers(answers []entities.Answer) []entities.Answer {
	var incomplete []entities.Answer
	for _, a := range answers {
		if !ValidateAnswer(a).Complete {
			incomplete = append(incomplete, a)
		}
	}
	return incomplete
}

// GuidedFlow walks an audit's questions one at a time.
type GuidedFlow struct {
	items []QuestionAnswer
	index int
}

// NewGuidedFlow starts a flow at the first question.
func NewGuidedFlow(items []QuestionAnswer) *GuidedFlow {
	return &GuidedFlow{items: items}
}

// Len returns the number of questions.
func (f *GuidedFlow) Len() int {
	return len(f.items)
}

// Index returns the zero-based position of the current question.
func (f *GuidedFlow) Index() int {
	return f.index
}

// Current returns the current question and answer. ok is false when the flow
// has no questions.
func (f *GuidedFlow) Current() (QuestionAnswer, bool) {
	if len(f.items) == 0 {
		return QuestionAnswer{}, false
	}
	return f.items[f.index], true
}

// IsLast reports whether the current question is the final one.
func (f *GuidedFlow) IsLast() bool {
	return f.index >= len(f.items)-1
}

// Update replaces the current answer, typically with the one just saved.
func (f *GuidedFlow) Update(answer entities.Answer) {
	if len(f.items) == 0 {
		return
	}
	f.items[f.index].Answer = &answer
}

// Next advances to the following question. It refuses to move past an
// incomplete answer, and returns that answer's validation so the caller can
// re-prompt; the answer itself is left untouched.
func (f *GuidedFlow) Next() (Validation, bool) {
	v := f.currentValidation()
	if !v.Complete || f.IsLast() {
		return v, false
	}
	f.index++
	return v, true
}

// Previous moves back one question. It never validates.
func (f *GuidedFlow) Previous() bool {
	if f.index == 0 {
		return false
	}
	f.index--
	return true
}

// CanFinish reports whether every answer in the flow is complete.
func (f *GuidedFlow) CanFinish() bool {
	for _, item := range f.items {
		if !validateItem(item).Complete {
			return false
		}
	}
	return true
}

func (f *GuidedFlow) currentValidation() Validation {
	item, ok := f.Current()
	if !ok {
		return Validation{Complete: true}
	}
	return validateItem(item)
}

// validateItem treats a missing answer as the blank "No" an audit starts with.
func validateItem(item QuestionAnswer) Validation {
	if item.Answer == nil {
		return ValidateAnswer(entities.Answer{Value: entities.AnswerNo})
	}
	return ValidateAnswer(*item.Answer)
}
