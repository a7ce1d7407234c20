package entities

// Question is an immutable checklist item from the question template.
type Question struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	// ControlRef is the framework clause the question maps to, e.g. "A.9.1".
	// Empty when the question is not mapped to a control.
	ControlRef string `json:"control_ref,omitempty"`
}
