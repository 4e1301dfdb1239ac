package models

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type GenerateFlashcardsRequest struct {
	Content     string `json:"content"`
	NumCards    int    `json:"num_cards"`
	SourceKind  string `json:"source"`
	SourceTitle string `json:"source_title"`
}
