package email

import (
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/thehangoversessions/sessionsapi/events"
)

type Address struct {
	Email string
	Name  string
}

// Message is a single transactional message with text and HTML parts.
type Message struct {
	From     Address
	To       []Address
	Subject  string
	TextPart string
	HtmlPart string
}

const noDemoMessage = "No additional message provided."

// DemoNotifier builds the message sent to the sessions team for every demo
// submitted through the contact form.
type DemoNotifier struct {
	Sender    Address
	Recipient Address
	SiteName  string
}

type demoParams struct {
	events.ContactRequest
	SiteName  string
	SourceIp  string
	Timestamp string
	Time      string
}

var demoTextTemplate = template.Must(template.New("demoText").Parse(
	`New demo submission received:

Name: {{.Name}}
Email: {{.Email}}
Demo Link: {{.Demo}}

Message:
{{.Message}}

---
Submitted via {{.SiteName}} website
IP: {{.SourceIp}}
Timestamp: {{.Timestamp}}
`))

var demoHtmlTemplate = htmltemplate.Must(htmltemplate.New("demoHtml").Parse(
	`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4a5d3a;">New Demo Submission</h2>

  <div style="background: #f4f1e8; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Demo Link:</strong> <a href="{{.Demo}}" target="_blank">{{.Demo}}</a></p>
  </div>

  <h3 style="color: #4a5d3a;">Message:</h3>
  <div style="background: #ffffff; padding: 15px; border-left: 4px solid #d4822a; margin: 10px 0;">
    <p>{{.Message}}</p>
  </div>

  <hr style="margin: 20px 0; border: none; border-top: 1px solid #d4c5a9;">
  <p style="color: #666; font-size: 12px;">
    Submitted via {{.SiteName}} website<br>
    IP: {{.SourceIp}}<br>
    Time: {{.Time}}
  </p>
</div>
`))

func (n *DemoNotifier) NewMessage(
	req *events.ContactRequest, sourceIp string, now time.Time,
) (msg *Message, err error) {
	sub := *req
	if strings.TrimSpace(sub.Message) == "" {
		sub.Message = noDemoMessage
	}
	params := &demoParams{
		ContactRequest: sub,
		SiteName:       n.SiteName,
		SourceIp:       sourceIp,
		Timestamp:      now.UTC().Format(time.RFC3339),
		Time:           now.UTC().Format(time.RFC1123),
	}
	text := &strings.Builder{}
	html := &strings.Builder{}

	if err = demoTextTemplate.Execute(text, params); err != nil {
		return
	} else if err = demoHtmlTemplate.Execute(html, params); err != nil {
		return
	}
	msg = &Message{
		From:     n.Sender,
		To:       []Address{n.Recipient},
		Subject:  "New Demo Submission from " + req.Name,
		TextPart: text.String(),
		HtmlPart: html.String(),
	}
	return
}
