package contacts

import "strings"

// RuleDuplicate marks a candidate dropped because an equivalent one was
// already kept or rejected earlier in the text.
const RuleDuplicate = "duplicate"

// Decision records what happened to one recognised candidate.
type Decision struct {
	Kind      string `json:"kind"` // email or phone
	Pattern   string `json:"pattern"`
	Candidate string `json:"candidate"`
	Rule      string `json:"rule,omitempty"` // empty when kept
}

// Kept reports whether the candidate made it into the Record.
func (d Decision) Kept() bool {
	return d.Rule == ""
}

// Explain walks text exactly like Extract but reports every candidate along
// with the rule that discarded it. The kept decisions, in order, equal
// Extract(text).
func Explain(text string) []Decision {
	decisions := []Decision{}
	if text == "" {
		return decisions
	}

	seenEmails := make(map[string]bool)
	for _, p := range emailPatterns {
		for _, raw := range p.candidates(text) {
			d := Decision{Kind: "email", Pattern: p.Name, Candidate: normalizeEmail(raw)}
			key := strings.ToLower(d.Candidate)
			if seenEmails[key] {
				d.Rule = RuleDuplicate
			} else {
				seenEmails[key] = true
				d.Rule, _ = RejectEmail(d.Candidate)
			}
			decisions = append(decisions, d)
		}
	}

	seenPhones := make(map[string]bool)
	for _, p := range phonePatterns {
		for _, raw := range p.candidates(text) {
			d := Decision{Kind: "phone", Pattern: p.Name, Candidate: strings.TrimSpace(raw)}
			national, ok := NationalNumber(d.Candidate)
			switch {
			case !ok:
				d.Rule, _ = RejectPhone(d.Candidate)
			case seenPhones[national]:
				d.Rule = RuleDuplicate
			default:
				seenPhones[national] = true
				d.Rule, _ = RejectPhone(d.Candidate)
			}
			decisions = append(decisions, d)
		}
	}
	return decisions
}
