package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/thehangoversessions/sessionsapi/ops"
)

const DefaultMailjetUrl = "https://api.mailjet.com"

// DefaultTimeout bounds every outbound provider call when no other timeout is
// configured.
const DefaultTimeout = 10 * time.Second

// Provider response bodies are only kept for the logs.
const maxResponseBodyLen = 64 * 1024

// Endpoint names, also used as metric labels.
const (
	EndpointListRecipient      = "listrecipient"
	EndpointContact            = "contact"
	EndpointManageManyContacts = "managemanycontacts"
	EndpointSend               = "send"
)

func NewHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type Credentials struct {
	PublicKey string
	SecretKey string
}

func (c Credentials) Defined() bool {
	return c.PublicKey != "" && c.SecretKey != ""
}

type Contact struct {
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

type ContactsListAction string

// AddNoForce adds contacts to a list without changing the subscription status
// of contacts already on it.
const AddNoForce = ContactsListAction("addnoforce")

// ListManager wraps the Mailjet contact and list operations used to subscribe
// an address to the newsletter.
//
// Each method returns a *ProviderError if Mailjet responded with a non-2xx
// status, or an error wrapping ops.ErrExternal if no usable response arrived.
type ListManager interface {
	AddListRecipient(ctx context.Context, listId int64, address string) error
	CreateContact(ctx context.Context, contact Contact) error
	ManageManyContacts(
		ctx context.Context,
		listId int64,
		action ContactsListAction,
		contacts ...Contact,
	) error
}

// Mailer sends transactional messages.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// ProviderError describes a request that Mailjet received and rejected.
//
// Err holds the error reported by the Mailjet client library, such as a
// *mailjet.RequestError or *mailjet.APIFeedbackErrorsV31.
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf(
		"mailjet %s: %d %s: %s",
		e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode), e.Body,
	)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MailjetClient implements ListManager and Mailer using the Mailjet Go client
// library.
//
// It holds no per-request state and may be shared between goroutines. Every
// call gets its own *mailjet.Client wrapping a copy of Client.
type MailjetClient struct {
	BaseUrl     string
	Credentials Credentials
	Client      *http.Client
	Timeout     time.Duration
}

func NewMailjetClient(
	baseUrl string, creds Credentials, client *http.Client, timeout time.Duration,
) *MailjetClient {
	if baseUrl == "" {
		baseUrl = DefaultMailjetUrl
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MailjetClient{
		BaseUrl: baseUrl, Credentials: creds, Client: client, Timeout: timeout,
	}
}

type listRecipientRequest struct {
	ContactAlt     string `json:"ContactAlt"`
	ListId         int64  `json:"ListID"`
	IsUnsubscribed bool   `json:"IsUnsubscribed"`
}

func (c *MailjetClient) AddListRecipient(
	ctx context.Context, listId int64, address string,
) error {
	return c.call(ctx, EndpointListRecipient, func(mj *mailjet.Client) error {
		return mj.Post(&mailjet.FullRequest{
			Info:    &mailjet.Request{Resource: "listrecipient"},
			Payload: &listRecipientRequest{ContactAlt: address, ListId: listId},
		}, &listResponse{})
	})
}

func (c *MailjetClient) CreateContact(ctx context.Context, contact Contact) error {
	return c.call(ctx, EndpointContact, func(mj *mailjet.Client) error {
		return mj.Post(&mailjet.FullRequest{
			Info:    &mailjet.Request{Resource: "contact"},
			Payload: &contact,
		}, &listResponse{})
	})
}

type manageManyContactsRequest struct {
	Action   ContactsListAction `json:"Action"`
	Contacts []Contact          `json:"Contacts"`
}

func (c *MailjetClient) ManageManyContacts(
	ctx context.Context,
	listId int64,
	action ContactsListAction,
	contacts ...Contact,
) error {
	return c.call(ctx, EndpointManageManyContacts, func(mj *mailjet.Client) error {
		return mj.Post(&mailjet.FullRequest{
			Info: &mailjet.Request{
				Resource: "contactslist",
				ID:       listId,
				Action:   "managemanycontacts",
			},
			Payload: &manageManyContactsRequest{Action: action, Contacts: contacts},
		}, &listResponse{})
	})
}

func (c *MailjetClient) Send(ctx context.Context, msg *Message) error {
	to := make(mailjet.RecipientsV31, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, mailjet.RecipientV31{Email: addr.Email, Name: addr.Name})
	}
	info := mailjet.InfoMessagesV31{
		From:     &mailjet.RecipientV31{Email: msg.From.Email, Name: msg.From.Name},
		To:       &to,
		Subject:  msg.Subject,
		TextPart: msg.TextPart,
		HTMLPart: msg.HtmlPart,
	}

	return c.call(ctx, EndpointSend, func(mj *mailjet.Client) (err error) {
		_, err = mj.SendMailV31(
			&mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{info}},
		)
		return
	})
}

// listResponse receives the REST API's response envelope, which is unused.
type listResponse struct {
	Count int
	Total int
}

func (c *MailjetClient) call(
	ctx context.Context, endpoint string, request func(*mailjet.Client) error,
) (err error) {
	outcome := ops.CallTransportError
	defer func() {
		ops.ProviderCallsTotal.WithLabelValues(endpoint, outcome).Inc()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	ex := &exchange{ctx: ctx, next: http.DefaultTransport}
	client := http.Client{}
	if c.Client != nil {
		client = *c.Client
		if c.Client.Transport != nil {
			ex.next = c.Client.Transport
		}
	}
	client.Transport = ex

	mj := mailjet.NewMailjetClient(
		c.Credentials.PublicKey, c.Credentials.SecretKey,
	)
	mj.SetClient(&client)
	mj.SetBaseURL(c.BaseUrl + "/v3")
	err = request(mj)

	switch {
	case ex.readErr != nil:
		const errFmt = "%w: mailjet %s: reading response failed: %w"
		return fmt.Errorf(errFmt, ops.ErrExternal, endpoint, ex.readErr)
	case ex.statusCode == 0 && err != nil:
		return fmt.Errorf("%w: mailjet %s: %w", ops.ErrExternal, endpoint, err)
	case ex.statusCode == 0:
		const errFmt = "%w: mailjet %s: no response received"
		return fmt.Errorf(errFmt, ops.ErrExternal, endpoint)
	case ex.statusCode < 200 || ex.statusCode >= 300:
		outcome = ops.CallRejected
		return &ProviderError{
			Endpoint:   endpoint,
			StatusCode: ex.statusCode,
			Body:       string(ex.body),
			Err:        err,
		}
	}
	// Mailjet accepted the request even if its response didn't decode.
	outcome = ops.CallAccepted
	return nil
}

// exchange is the http.RoundTripper for a single call. It applies the call's
// context and keeps the final response's status and body, which the Mailjet
// client library doesn't always surface.
type exchange struct {
	ctx        context.Context
	next       http.RoundTripper
	statusCode int
	body       []byte
	readErr    error
}

func (ex *exchange) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := ex.next.RoundTrip(req.WithContext(ex.ctx))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodyLen))
	if err != nil {
		ex.readErr = err
		return nil, err
	}
	ex.statusCode = res.StatusCode
	ex.body = body
	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}
