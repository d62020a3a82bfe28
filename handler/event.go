package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/thehangoversessions/sessionsapi/events"
)

type EventType int

const (
	UnknownEvent EventType = iota - 1
	NullEvent
	ApiRequest
	CommandLineEvent
)

func (event EventType) String() string {
	switch event {
	case NullEvent:
		return "Null"
	case ApiRequest:
		return "API Request"
	case CommandLineEvent:
		return "Command Line"
	}
	return "Unknown"
}

type Event struct {
	Type             EventType
	ApiRequest       *awsevents.APIGatewayV2HTTPRequest
	CommandLineEvent *events.CommandLineEvent
}

// Inspired by:
// https://www.synvert-tcm.com/blog/handling-multiple-aws-lambda-event-types-with-go/
func (event *Event) UnmarshalJSON(data []byte) (err error) {
	switch {
	case bytes.Equal(data, []byte("null")):
		return
	case bytes.Contains(data, []byte(`"rawPath":`)):
		event.Type = ApiRequest
		event.ApiRequest = &awsevents.APIGatewayV2HTTPRequest{}
		err = json.Unmarshal(data, event.ApiRequest)
	case bytes.Contains(data, []byte(`"sessionsCommand":`)):
		event.Type = CommandLineEvent
		event.CommandLineEvent = &events.CommandLineEvent{}
		err = json.Unmarshal(data, event.CommandLineEvent)
	}

	if err != nil {
		err = fmt.Errorf("failed to parse %s event: %w", event.Type, err)
	}
	return
}
