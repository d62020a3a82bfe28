package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/thehangoversessions/sessionsapi/agent"
	"github.com/thehangoversessions/sessionsapi/email"
)

// SiteName appears in demo notifications.
const SiteName = "The Hangover Sessions"

type Handler struct {
	api *apiHandler
	cli *cliHandler
}

func NewHandler(
	subAgent agent.SubscriptionAgent,
	allowedOrigins []string,
	importThrottle email.Throttle,
	currentTime func() time.Time,
	logger *log.Logger,
) *Handler {
	return &Handler{
		api: &apiHandler{
			Agent:       subAgent,
			CurrentTime: currentTime,
			cors:        &corsPolicy{allowedOrigins: allowedOrigins},
			log:         logger,
		},
		cli: &cliHandler{
			Agent: subAgent, Throttle: importThrottle, Log: logger,
		},
	}
}

// NewProdAgent builds the agent that talks to Mailjet via client.
//
// Options missing credentials, a list ID, or sender and recipient addresses
// still produce a usable agent. Its operations will return
// ops.ErrConfiguration instead of calling Mailjet.
func NewProdAgent(
	opts *Options, client *http.Client, logger *log.Logger,
) *agent.ProdAgent {
	pa := &agent.ProdAgent{
		ListId: opts.ListId,
		Notifier: &email.DemoNotifier{
			Sender:    opts.Sender,
			Recipient: opts.Recipient,
			SiteName:  SiteName,
		},
		Validator:   agent.NewRequestValidator(),
		CurrentTime: time.Now,
		Log:         logger,
	}

	if opts.Credentials.Defined() {
		mj := email.NewMailjetClient(
			opts.MailjetUrl, opts.Credentials, client, opts.Timeout,
		)
		pa.Lists = mj
		pa.Mailer = mj
	}
	return pa
}

func NewProdHandler(
	opts *Options, client *http.Client, logger *log.Logger,
) *Handler {
	return NewHandler(
		NewProdAgent(opts, client, logger),
		opts.AllowedOrigins,
		email.NewIntervalThrottle(opts.ImportInterval),
		time.Now,
		logger,
	)
}

func (h *Handler) HandleEvent(ctx context.Context, event *Event) (any, error) {
	switch event.Type {
	case ApiRequest:
		return h.api.HandleEvent(ctx, event.ApiRequest), nil
	case CommandLineEvent:
		return h.cli.HandleEvent(ctx, event.CommandLineEvent)
	}
	return nil, fmt.Errorf("unexpected event type: %s: %+v", event.Type, event)
}

// HandleApiRequest serves a single API request outside of the Lambda runtime.
func (h *Handler) HandleApiRequest(
	ctx context.Context, req *awsevents.APIGatewayV2HTTPRequest,
) *awsevents.APIGatewayV2HTTPResponse {
	return h.api.HandleEvent(ctx, req)
}
