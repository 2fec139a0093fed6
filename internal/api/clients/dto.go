package clients

import "encoding/json"

type ClientInput struct {
	Name     string  `json:"name" binding:"required"`
	Lastname string  `json:"lastname"`
	Email    *string `json:"email"`
	Goal     string  `json:"goal"`
	Notes    string  `json:"notes"`
}

type ProgramInput struct {
	Title   string          `json:"title" binding:"required"`
	Content json.RawMessage `json:"content"`
	Status  string          `json:"status"`
}
