package models

type QuizOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type QuizQuestion struct {
	Number        int          `json:"number"`
	Question      string       `json:"question"`
	Options       []QuizOption `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

type GenerateQuizRequest struct {
	Content      string `json:"content"`
	NumQuestions int    `json:"num_questions"`
	SourceKind   string `json:"source"`
	SourceTitle  string `json:"source_title"`
}
