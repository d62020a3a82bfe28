package handler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/thehangoversessions/sessionsapi/agent"
	"github.com/thehangoversessions/sessionsapi/email"
	"github.com/thehangoversessions/sessionsapi/events"
)

type cliHandler struct {
	Agent    agent.SubscriptionAgent
	Throttle email.Throttle
	Log      *log.Logger
}

func (h *cliHandler) HandleEvent(
	ctx context.Context, e *events.CommandLineEvent,
) (res any, err error) {
	switch {
	case e.SessionsCommand == events.CommandLineSubscribeEvent &&
		e.Subscribe != nil:
		res = h.HandleSubscribeEvent(ctx, e.Subscribe)
	case e.SessionsCommand == events.CommandLineImportEvent && e.Import != nil:
		res = h.HandleImportEvent(ctx, e.Import)
	default:
		err = fmt.Errorf("unknown sessions command: %s", e.SessionsCommand)
	}
	return
}

func (h *cliHandler) HandleSubscribeEvent(
	ctx context.Context, e *events.SubscribeRequest,
) (res *events.SubscribeResponse) {
	result, err := h.Agent.Subscribe(ctx, e)
	res = &events.SubscribeResponse{
		Success: err == nil && result.Success(), Result: result.String(),
	}

	if err != nil {
		res.Details = err.Error()
	}
	const logFmt = "subscribe: %s: success: %t; result: %s"
	h.Log.Printf(logFmt, e.Email, res.Success, res.Result)
	return
}

func (h *cliHandler) HandleImportEvent(
	ctx context.Context, e *events.ImportEvent,
) (res *events.ImportResponse) {
	res = &events.ImportResponse{}
	imported := make([]string, 0, len(e.Addresses))

	for i, address := range e.Addresses {
		if err := h.Throttle.PauseBeforeNextRequest(ctx); err != nil {
			for _, skipped := range e.Addresses[i:] {
				res.Failures = append(res.Failures, skipped+": "+err.Error())
			}
			break
		}

		req := &events.SubscribeRequest{Email: address}
		result, err := h.Agent.Subscribe(ctx, req)

		if err == nil && !result.Success() {
			err = fmt.Errorf("unexpected result: %s", result)
		}
		if err != nil {
			res.Failures = append(res.Failures, address+": "+err.Error())
			continue
		} else if res.Results == nil {
			res.Results = make(map[string]int)
		}
		res.Results[result.String()]++
		imported = append(imported, address)
	}
	res.NumImported = len(imported)

	if res.NumImported != 0 {
		h.Log.Printf(
			"imported %d: %s", res.NumImported, strings.Join(imported, ", "),
		)
	}
	if len(res.Failures) != 0 {
		h.Log.Printf(
			"failed to import %d:\n  %s",
			len(res.Failures),
			strings.Join(res.Failures, "\n  "),
		)
	}
	return
}
