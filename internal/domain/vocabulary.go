package domain

import "strings"

// VocabularyEntry is one word a book teaches. Entries live in a standalone
// collection keyed by book ID, which is what the quiz generator reads.
type VocabularyEntry struct {
	ID            string            `json:"id"`
	BookID        string            `json:"book_id"`
	Word          string            `json:"word"`
	Definition    string            `json:"definition"`
	Options       string            `json:"options"` // comma-separated wrong answers
	CorrectAnswer string            `json:"correct_answer"`
	Etymology     string            `json:"etymology,omitempty"`
	Translations  map[string]string `json:"translations,omitempty"`
	Context       string            `json:"context,omitempty"`
}

// OptionList splits the comma-separated options field, trimming whitespace
// and dropping empties.
func (v *VocabularyEntry) OptionList() []string {
	parts := strings.Split(v.Options, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
