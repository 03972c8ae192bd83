package assessment

import "fmt"

// Entry is a single question in the bank, tagged with the level it probes.
type Entry struct {
	Level    CEFRLevel
	Question string
}

// Bank is an ordered, immutable sequence of assessment questions.
// The index is the lookup key; entries are never mutated after construction.
type Bank struct {
	entries []Entry
}

// NewBank builds a bank from the given entries. The slice is copied so the
// caller cannot alter the bank afterwards.
func NewBank(entries []Entry) Bank {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return Bank{entries: copied}
}

// DefaultBank returns the standard question sequence for the given target
// language. Questions step up the scale from pure vocabulary recall to
// open-ended production.
func DefaultBank(targetLanguage string) Bank {
	return NewBank([]Entry{
		{
			Level:    LevelA1,
			Question: fmt.Sprintf("Let's start with a simple one. How do you say 'friend' in %s?", targetLanguage),
		},
		{
			Level:    LevelA2,
			Question: fmt.Sprintf("Okay, now how would you say 'I am learning' in %s?", targetLanguage),
		},
		{
			Level:    LevelB1,
			Question: fmt.Sprintf("Now, try to tell me what you had for breakfast this morning in %s. Don't worry about perfection, just try your best!", targetLanguage),
		},
		{
			Level:    LevelB2,
			Question: fmt.Sprintf("Last one: describe your plans for the coming weekend in %s, with as much detail as you can.", targetLanguage),
		},
	})
}

// Len returns the number of questions in the bank.
func (b Bank) Len() int {
	return len(b.entries)
}

// At returns the entry at index i. Panics if i is out of range, matching
// slice semantics; callers index only with values bounded by Len.
func (b Bank) At(i int) Entry {
	return b.entries[i]
}
