package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AddNoteRequest is the request body for POST /add.
type AddNoteRequest struct {
	Name     string `json:"name" example:"Remember my cheese"`
	Contents string `json:"contents" example:"I want both Gouda and Cheddar"`
}

// Validate checks that both fields are present.
func (r AddNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Contents, validation.Required),
	)
}

// UpdateNoteRequest is the request body for PUT /note/{name}.
type UpdateNoteRequest struct {
	Contents string `json:"contents" example:"I want Gouda only"`
}

// Validate checks that contents are present.
func (r UpdateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Contents, validation.Required),
	)
}
