package events

import (
	"encoding/json"
	"fmt"
)

// SubscribeRequest is the body of a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,mailbox"`
	Name  string `json:"name"`
}

// ContactRequest is the body of a demo submission from the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,mailbox"`
	Demo    string `json:"demo" validate:"required"`
	Message string `json:"message"`
}

// Result is the only value the API returns for a subscribe or demo
// submission, successful or not.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// formValue accepts any JSON scalar for a form field. Numbers and booleans
// keep their JSON text, so {"email":123} fails address validation with "123"
// instead of failing to decode. null decodes as "".
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	switch {
	case string(data) == "null":
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("expected a string, number, or boolean: %s", data)
	default:
		*v = formValue(data)
	}
	return nil
}

func (r *SubscribeRequest) UnmarshalJSON(data []byte) error {
	var form struct {
		Email formValue `json:"email"`
		Name  formValue `json:"name"`
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return err
	}
	*r = SubscribeRequest{Email: string(form.Email), Name: string(form.Name)}
	return nil
}

func (r *ContactRequest) UnmarshalJSON(data []byte) error {
	var form struct {
		Name    formValue `json:"name"`
		Email   formValue `json:"email"`
		Demo    formValue `json:"demo"`
		Message formValue `json:"message"`
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return err
	}
	*r = ContactRequest{
		Name:    string(form.Name),
		Email:   string(form.Email),
		Demo:    string(form.Demo),
		Message: string(form.Message),
	}
	return nil
}
