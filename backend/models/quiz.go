package models

// Category is a trivia category as exposed to clients.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Question is a multiple-choice trivia question with decoded text.
type Question struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}
