package person

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// birthDateLayout: calendar date only, no timezone, no time-of-day
const birthDateLayout = "2006-01-02"

// CreatePersonRequest là payload của POST /pessoas
// Stack phân biệt absent (nil) và empty list ([]) - cả hai đều valid.
type CreatePersonRequest struct {
	Nickname  string   `json:"apelido"`
	Name      string   `json:"nome"`
	BirthDate string   `json:"nascimento"`
	Stack     []string `json:"stack"`
}

// Validate kiểm tra field constraints, không có side effects.
// Any failure rejects the whole payload with a client error.
func (r CreatePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname,
			validation.Required.Error("apelido is required"),
			validation.Length(1, 32).Error("apelido must be at most 32 characters"),
		),
		validation.Field(&r.Name,
			validation.Required.Error("nome is required"),
			validation.Length(1, 100).Error("nome must be at most 100 characters"),
		),
		validation.Field(&r.BirthDate,
			validation.Required.Error("nascimento is required"),
			validation.Date(birthDateLayout).Error("nascimento must be a valid YYYY-MM-DD date"),
		),
		validation.Field(&r.Stack,
			validation.Each(validation.Length(0, 32).Error("stack elements must be at most 32 characters")),
		),
	)
}
