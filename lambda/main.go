package main

import (
	"errors"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/thehangoversessions/sessionsapi/email"
	"github.com/thehangoversessions/sessionsapi/handler"
)

func buildHandler() (*handler.Handler, error) {
	opts, err := handler.GetOptions(os.Getenv)

	var undefErr *handler.UndefinedEnvVarsError
	if errors.As(err, &undefErr) {
		// Operations needing the missing values will report a configuration
		// error to the caller.
		log.Printf("ERROR: %s", err)
	} else if err != nil {
		return nil, err
	}

	client := email.NewHttpClient(opts.Timeout)
	return handler.NewProdHandler(opts, client, log.Default()), nil
}

func main() {
	// Disable standard logger flags. The CloudWatch logs show that the Lambda
	// runtime already adds a timestamp at the beginning of every log line
	// emitted by the function.
	log.SetFlags(0)

	if h, err := buildHandler(); err != nil {
		log.Fatalf("Failed to initialize process: %s", err.Error())
	} else {
		lambda.Start(h.HandleEvent)
	}
}
