package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/thehangoversessions/sessionsapi/email"
	"github.com/thehangoversessions/sessionsapi/events"
	"github.com/thehangoversessions/sessionsapi/ops"
)

// Operation names, used in log lines and as metric labels.
const (
	SubscribeOperation  = "subscribe"
	SubmitDemoOperation = "submit demo"
)

type SubscriptionAgent interface {
	Subscribe(
		ctx context.Context, req *events.SubscribeRequest,
	) (ops.OperationResult, error)
	SubmitDemo(
		ctx context.Context, req *events.ContactRequest, sourceIp string,
	) (ops.OperationResult, error)
}

type ProdAgent struct {
	ListId      int64
	Lists       email.ListManager
	Mailer      email.Mailer
	Notifier    *email.DemoNotifier
	Validator   *RequestValidator
	CurrentTime func() time.Time
	Log         *log.Logger
}

// Subscribe adds req.Email to the newsletter list.
//
// It tries adding the address to the list directly. If Mailjet rejects that,
// it creates the contact, ignoring any failure, and tries adding it to the
// list once more. If that's rejected too, it falls back to adding the contact
// in bulk without forcing its subscription status. Each step runs at most
// once. A transport failure at any step besides contact creation ends the
// chain immediately.
func (a *ProdAgent) Subscribe(
	ctx context.Context, req *events.SubscribeRequest,
) (result ops.OperationResult, err error) {
	defer a.countOperation(SubscribeOperation, &result)

	if err = a.Validator.check(req, subscribeMessages); err != nil {
		return ops.Invalid, err
	} else if a.Lists == nil || a.ListId <= 0 {
		const errFmt = "%w: Mailjet credentials or newsletter list ID undefined"
		return ops.NotSubscribed, fmt.Errorf(errFmt, ops.ErrConfiguration)
	}

	address := req.Email
	contact := email.Contact{Email: address, Name: req.Name}

	if err = a.Lists.AddListRecipient(ctx, a.ListId, address); err == nil {
		return ops.Subscribed, nil
	} else if !a.rejected(address, err) {
		return ops.NotSubscribed, a.subscribeFailed(address, err)
	}

	if err = a.Lists.CreateContact(ctx, contact); err != nil {
		a.Log.Printf("%s: creating contact failed, continuing: %s", address, err)
	}

	if err = a.Lists.AddListRecipient(ctx, a.ListId, address); err == nil {
		return ops.SubscribedAfterCreate, nil
	} else if !a.rejected(address, err) {
		return ops.NotSubscribed, a.subscribeFailed(address, err)
	}

	err = a.Lists.ManageManyContacts(ctx, a.ListId, email.AddNoForce, contact)
	if err != nil {
		return ops.NotSubscribed, a.subscribeFailed(address, err)
	}
	return ops.SubscribedInBulk, nil
}

func (a *ProdAgent) rejected(address string, err error) bool {
	var provErr *email.ProviderError
	if !errors.As(err, &provErr) {
		return false
	}
	a.Log.Printf("%s: %s", address, provErr)
	return true
}

func (a *ProdAgent) subscribeFailed(address string, err error) error {
	return fmt.Errorf("subscribing %s failed: %w", address, err)
}

// SubmitDemo emails the details of a demo submission to the sessions team.
func (a *ProdAgent) SubmitDemo(
	ctx context.Context, req *events.ContactRequest, sourceIp string,
) (result ops.OperationResult, err error) {
	defer a.countOperation(SubmitDemoOperation, &result)
	result = ops.DemoNotSubmitted

	if err = a.Validator.check(req, contactMessages); err != nil {
		return ops.Invalid, err
	} else if !a.mailerConfigured() {
		const errFmt = "%w: Mailjet credentials, sender, or recipient undefined"
		return result, fmt.Errorf(errFmt, ops.ErrConfiguration)
	}

	var msg *email.Message
	if msg, err = a.Notifier.NewMessage(req, sourceIp, a.CurrentTime()); err != nil {
		err = fmt.Errorf("building demo notification failed: %w", err)
	} else if err = a.Mailer.Send(ctx, msg); err != nil {
		err = fmt.Errorf("sending demo from %s failed: %w", req.Email, err)
	} else {
		result = ops.DemoSubmitted
	}
	return
}

func (a *ProdAgent) mailerConfigured() bool {
	return a.Mailer != nil &&
		a.Notifier != nil &&
		a.Notifier.Sender.Email != "" &&
		a.Notifier.Recipient.Email != ""
}

func (a *ProdAgent) countOperation(op string, result *ops.OperationResult) {
	ops.OperationsTotal.WithLabelValues(op, result.String()).Inc()
}
