package models

// Flashcard is a single front/back study card. Both sides are plain text:
// structural markup is stripped before a card ever reaches the client.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSetResponse is the reply of the flashcard generation endpoint.
type FlashcardSetResponse struct {
	Success    bool        `json:"success"`
	Flashcards []Flashcard `json:"flashcards"`
	Title      string      `json:"title"`
	Count      int         `json:"count"`
	Note       string      `json:"note,omitempty"`
}
