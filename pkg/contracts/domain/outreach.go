package domain

// OutreachDraft is a templated, partially personalized message for one
// trainer. Placeholders that could not be resolved from aggregate data stay
// verbatim in the body and are listed for manual personalization. Drafts
// are never sent by this system.
type OutreachDraft struct {
	Trainer     string   `json:"trainer"`
	Subject     string   `json:"subject,omitempty"`
	Body        string   `json:"body"`
	Unresolved  []string `json:"unresolved_placeholders,omitempty"`
	EvidenceRow string   `json:"evidence_row,omitempty"`
}
