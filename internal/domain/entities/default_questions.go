package entities

// DefaultQuestions is the built-in ISO/IEC 27001 Annex A checklist seeded on
// first run when the question table is empty.
var DefaultQuestions = []Question{
	// A.5 Information security policies
	{Text: "Is there an information security policy approved by management?", ControlRef: "A.5"},
	{Text: "Is the security policy reviewed periodically?", ControlRef: "A.5"},

	// A.6 Organization of information security
	{Text: "Are security roles and responsibilities clearly defined?", ControlRef: "A.6"},
	{Text: "Is there segregation of duties to prevent fraud or misuse?", ControlRef: "A.6"},

	// A.7 Human resource security
	{Text: "Do staff sign confidentiality agreements?", ControlRef: "A.7"},
	{Text: "Do staff receive periodic security training?", ControlRef: "A.7"},

	// A.8 Asset management
	{Text: "Is there an up-to-date asset inventory?", ControlRef: "A.8"},
	{Text: "Does every asset have an assigned owner?", ControlRef: "A.8"},

	// A.9 Access control
	{Text: "Is access granted following the principle of least privilege?", ControlRef: "A.9"},
	{Text: "Are inactive accounts removed or disabled in time?", ControlRef: "A.9"},

	// A.10 Cryptography
	{Text: "Is approved cryptography used for sensitive data?", ControlRef: "A.10"},
	{Text: "Are cryptographic keys managed correctly?", ControlRef: "A.10"},

	// A.11 Physical and environmental security
	{Text: "Is physical access to critical areas controlled?", ControlRef: "A.11"},
	{Text: "Are there protections against fire or flooding?", ControlRef: "A.11"},

	// A.12 Operations security
	{Text: "Are development, test and production environments segregated?", ControlRef: "A.12"},
	{Text: "Are activity logs monitored regularly?", ControlRef: "A.12"},

	// A.13 Communications security
	{Text: "Are networks segmented according to criticality?", ControlRef: "A.13"},
	{Text: "Is transmitted information adequately protected?", ControlRef: "A.13"},

	// A.14 System acquisition, development and maintenance
	{Text: "Do applications pass security testing before release?", ControlRef: "A.14"},
	{Text: "Do software changes follow a formal change control process?", ControlRef: "A.14"},

	// A.15 Supplier relationships
	{Text: "Do supplier contracts include security requirements?", ControlRef: "A.15"},
	{Text: "Is the risk of critical suppliers assessed?", ControlRef: "A.15"},

	// A.16 Information security incident management
	{Text: "Is there a formal process for reporting incidents?", ControlRef: "A.16"},
	{Text: "Are incidents analysed to prevent recurrence?", ControlRef: "A.16"},

	// A.17 Business continuity
	{Text: "Are continuity plans documented?", ControlRef: "A.17"},
	{Text: "Are the plans tested periodically?", ControlRef: "A.17"},

	// A.18 Compliance
	{Text: "Does the organization comply with applicable laws and regulations?", ControlRef: "A.18"},
	{Text: "Is there monitoring to detect non-compliance?", ControlRef: "A.18"},
}

// DefaultControlRefs returns the distinct control references of the default
// template in template order.
func DefaultControlRefs() []string {
	seen := make(map[string]bool, len(DefaultQuestions))
	refs := make([]string, 0, len(DefaultQuestions)/2)
	for _, q := range DefaultQuestions {
		if !seen[q.ControlRef] {
			seen[q.ControlRef] = true
			refs = append(refs, q.ControlRef)
		}
	}
	return refs
}
