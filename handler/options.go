package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thehangoversessions/sessionsapi/email"
)

const (
	DefaultSenderName  = "The Hangover Sessions"
	DefaultContactName = "Demo Submissions"
)

type Options struct {
	Credentials    email.Credentials
	ListId         int64
	Sender         email.Address
	Recipient      email.Address
	MailjetUrl     string
	Timeout        time.Duration
	ImportInterval time.Duration
	AllowedOrigins []string
}

type UndefinedEnvVarsError struct {
	UndefinedVars []string
}

func (e *UndefinedEnvVarsError) Error() string {
	return "undefined environment variables: " +
		strings.Join(e.UndefinedVars, ", ")
}

// GetOptions reads the handler configuration from the environment.
//
// If any required variables are undefined, it returns the Options it could
// build along with an *UndefinedEnvVarsError. Operations depending on the
// missing values will fail with ops.ErrConfiguration. Any other error means a
// variable held a malformed value, and the returned Options will be nil.
func GetOptions(getenv func(string) string) (*Options, error) {
	env := environment{getenv: getenv}
	return env.options()
}

type environment struct {
	getenv      func(string) string
	missingVars []string
	errs        []string
}

func (env *environment) options() (*Options, error) {
	opts := Options{
		Sender:         email.Address{Name: DefaultSenderName},
		Recipient:      email.Address{Name: DefaultContactName},
		Timeout:        email.DefaultTimeout,
		ImportInterval: email.DefaultImportInterval,
	}
	env.assign(&opts.Credentials.PublicKey, "MAILJET_PUBLIC_KEY")
	env.assign(&opts.Credentials.SecretKey, "MAILJET_SECRET_KEY")
	env.assignListId(&opts.ListId, "NEWSLETTER_LIST_ID")
	env.assign(&opts.Sender.Email, "SENDER_EMAIL")
	env.assign(&opts.Recipient.Email, "CONTACT_EMAIL")

	env.assignOptional(&opts.Sender.Name, "SENDER_NAME")
	env.assignOptional(&opts.Recipient.Name, "CONTACT_NAME")
	env.assignOptional(&opts.MailjetUrl, "MAILJET_API_URL")
	env.assignDuration(&opts.Timeout, "MAILJET_TIMEOUT")
	env.assignDuration(&opts.ImportInterval, "IMPORT_INTERVAL")
	opts.AllowedOrigins = env.origins("ALLOWED_ORIGINS")

	if len(env.errs) != 0 {
		return nil, fmt.Errorf(
			"invalid environment variables:\n  %s",
			strings.Join(env.errs, "\n  "),
		)
	} else if len(env.missingVars) != 0 {
		return &opts, &UndefinedEnvVarsError{UndefinedVars: env.missingVars}
	}
	return &opts, nil
}

func (env *environment) assign(opt *string, varname string) {
	if value := env.getenv(varname); value == "" {
		env.missingVars = append(env.missingVars, varname)
	} else {
		*opt = value
	}
}

func (env *environment) assignOptional(opt *string, varname string) {
	if value := env.getenv(varname); value != "" {
		*opt = value
	}
}

func (env *environment) assignListId(opt *int64, varname string) {
	value := ""
	env.assign(&value, varname)

	if value == "" {
		return
	} else if id, err := strconv.ParseInt(value, 10, 64); err != nil || id <= 0 {
		env.errs = append(
			env.errs, varname+": not a positive integer: "+value,
		)
	} else {
		*opt = id
	}
}

func (env *environment) assignDuration(opt *time.Duration, varname string) {
	value := env.getenv(varname)

	if value == "" {
		return
	} else if d, err := time.ParseDuration(value); err != nil || d <= 0 {
		env.errs = append(
			env.errs, varname+": not a positive duration: "+value,
		)
	} else {
		*opt = d
	}
}

func (env *environment) origins(varname string) []string {
	value := env.getenv(varname)
	if value == "" {
		return DefaultAllowedOrigins
	}

	origins := make([]string, 0, strings.Count(value, ",")+1)
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
