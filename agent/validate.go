package agent

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/thehangoversessions/sessionsapi/email"
)

const (
	MsgEmailRequired    = "Email address is required"
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgContactRequired  = "Name, email, and demo link are required"
	mailboxValidatorTag = "mailbox"
)

// ValidationError reports a request the caller must correct. Message is safe
// to return to the caller as is.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validationMessages maps validator tags to the message returned for the
// first failing tag. A "required" failure always wins over any other.
type validationMessages struct {
	required string
	mailbox  string
}

var subscribeMessages = validationMessages{
	required: MsgEmailRequired, mailbox: MsgInvalidEmail,
}

var contactMessages = validationMessages{
	required: MsgContactRequired, mailbox: MsgInvalidEmail,
}

// RequestValidator checks the validate struct tags of incoming requests.
//
// It is safe for concurrent use once constructed.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// RegisterValidation only fails for an empty tag or a nil function.
	_ = validate.RegisterValidation(
		mailboxValidatorTag,
		func(fl validator.FieldLevel) bool {
			return email.IsValidAddress(fl.Field().String())
		},
	)
	return &RequestValidator{validate: validate}
}

func (v *RequestValidator) check(req any, msgs validationMessages) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	valErr := &ValidationError{Fields: make([]string, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		valErr.Fields = append(valErr.Fields, fe.Field())

		if fe.Tag() == "required" {
			valErr.Message = msgs.required
		} else if valErr.Message == "" {
			valErr.Message = msgs.mailbox
		}
	}
	return valErr
}
