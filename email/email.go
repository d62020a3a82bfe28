package email

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/thehangoversessions/sessionsapi/events"
)

const ExampleContactJson = `  {
    "name": "Alex Example",
    "email": "alex@example.com",
    "demo": "https://soundcloud.com/alex-example/first-demo",
    "message": "Recorded this one live last weekend."
  }`

var ExampleNotifier = &DemoNotifier{
	Sender:    Address{Email: "noreply@example.com", Name: "The Hangover Sessions"},
	Recipient: Address{Email: "demos@example.com", Name: "Demo Submissions"},
	SiteName:  "The Hangover Sessions",
}

const ExampleSourceIp = "192.0.2.1"

var ExampleTime = time.Date(2024, time.June, 1, 12, 30, 0, 0, time.UTC)

func ParseContactRequestFromJson(r io.Reader) (*events.ContactRequest, error) {
	req := &events.ContactRequest{}
	if err := json.NewDecoder(r).Decode(req); err != nil {
		return nil, fmt.Errorf("failed to parse contact request from JSON: %w", err)
	}
	return req, nil
}

// EmitPreviewMessageFromJson renders the demo notification for the contact
// request read from input without sending it.
func EmitPreviewMessageFromJson(
	notifier *DemoNotifier, input io.Reader, output io.Writer,
) error {
	req, err := ParseContactRequestFromJson(input)
	if err != nil {
		return err
	}
	msg, err := notifier.NewMessage(req, ExampleSourceIp, ExampleTime)
	if err != nil {
		return fmt.Errorf("failed to emit preview message: %w", err)
	}
	_, err = io.WriteString(output, formatPreview(msg))
	return err
}

func formatPreview(msg *Message) string {
	sb := &strings.Builder{}
	writeAddr := func(label string, addr Address) {
		sb.WriteString(label)
		sb.WriteString(": ")
		if addr.Name != "" {
			sb.WriteString(addr.Name + " ")
		}
		sb.WriteString("<" + addr.Email + ">\n")
	}
	writeAddr("From", msg.From)
	for _, to := range msg.To {
		writeAddr("To", to)
	}
	sb.WriteString("Subject: " + msg.Subject + "\n\n")
	sb.WriteString("--- text ---\n")
	sb.WriteString(msg.TextPart)
	sb.WriteString("--- html ---\n")
	sb.WriteString(msg.HtmlPart)
	return sb.String()
}
