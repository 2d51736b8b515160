package models

// QuizOption is one answer choice being authored.
type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizQuestion is a finished question inside a draft.
type QuizQuestion struct {
	Text                 string       `json:"text"`
	Options              []QuizOption `json:"options"`
	AllowMultipleCorrect bool         `json:"allowMultipleCorrect"`
}

// QuizDraft is the in-memory authoring state for one builder session. Drafts
// are never pushed upstream; there is no persistence contract for them yet.
type QuizDraft struct {
	SessionID            string         `json:"session_id"`
	AllowMultipleCorrect bool           `json:"allowMultipleCorrect"`
	Pending              QuizQuestion   `json:"pending"`
	Questions            []QuizQuestion `json:"questions"`
}

// Option count bounds for a question under authoring.
const (
	QuizMinOptions = 2
	QuizMaxOptions = 6
)
