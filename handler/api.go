package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/thehangoversessions/sessionsapi/agent"
	"github.com/thehangoversessions/sessionsapi/events"
	"github.com/thehangoversessions/sessionsapi/ops"
)

const (
	NewsletterPath = "/api/newsletter"
	ContactPath    = "/api/contact"
	HealthPath     = "/health"
)

const (
	MsgSubscribed         = "Successfully subscribed! Welcome to The Hangover Sessions community."
	MsgSubscribeFailed    = "Failed to subscribe. Please try again later."
	MsgDemoSubmitted      = "Demo submitted successfully! We'll get back to you soon."
	MsgDemoFailed         = "Failed to submit demo. Please try again later."
	MsgConfigurationError = "Server configuration error. Please contact support."
)

// Same layout as JavaScript's Date.prototype.toISOString().
const healthTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Route labels for ApiResponsesTotal.
const (
	routePreflight = "preflight"
	routeNotFound  = "not_found"
)

type apiHandler struct {
	Agent       agent.SubscriptionAgent
	CurrentTime func() time.Time
	cors        *corsPolicy
	log         *log.Logger
}

type errorWithStatus struct {
	HttpStatus int
	Message    string
}

func (err *errorWithStatus) Error() string {
	return err.Message
}

type apiRequest struct {
	Id       string
	RawPath  string
	Method   string
	Origin   string
	SourceIp string
	Body     string
	isBase64 bool
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type notFoundResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

func (h *apiHandler) HandleEvent(
	ctx context.Context, origReq *awsevents.APIGatewayV2HTTPRequest,
) *awsevents.APIGatewayV2HTTPResponse {
	req := newApiRequest(origReq)
	res := &awsevents.APIGatewayV2HTTPResponse{Headers: map[string]string{}}
	route, err := h.handleApiRequest(ctx, req, res)

	res.Headers["Content-Type"] = "application/json"
	h.cors.addHeaders(res.Headers, req.Origin)
	logApiResponse(h.log, origReq, res, err)
	ops.ApiResponsesTotal.WithLabelValues(
		metricMethod(req.Method), route, strconv.Itoa(res.StatusCode),
	).Inc()
	return res
}

// metricMethod keeps arbitrary client-supplied methods out of metric labels.
func metricMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return "other"
}

func logApiResponse(
	log *log.Logger,
	req *awsevents.APIGatewayV2HTTPRequest,
	res *awsevents.APIGatewayV2HTTPResponse,
	err error,
) {
	reqId := req.RequestContext.RequestID
	desc := req.RequestContext.HTTP
	errMsg := ""

	if err != nil {
		errMsg = ": " + err.Error()
	}

	log.Printf(`%s: %s "%s %s %s" %d%s`,
		reqId,
		desc.SourceIP, desc.Method, desc.Path, desc.Protocol, res.StatusCode,
		errMsg,
	)
}

// header returns the value of a request header regardless of casing.
//
// API Gateway lowercases header names, but `sam local` and other HTTP/1.1
// servers may pass them through in canonical form. HTTP header names are case
// insensitive, and HTTP/2 requires lowercase names:
//
// - HTTP/1.1: https://www.rfc-editor.org/rfc/rfc7230#section-3.2
// - HTTP/2:   https://www.rfc-editor.org/rfc/rfc7540#section-8.1.2
func header(req *awsevents.APIGatewayV2HTTPRequest, name string) string {
	if value, ok := req.Headers[name]; ok {
		return value
	}
	return req.Headers[http.CanonicalHeaderKey(name)]
}

func newApiRequest(req *awsevents.APIGatewayV2HTTPRequest) *apiRequest {
	method := req.RequestContext.HTTP.Method
	path := req.RawPath

	if path == "" {
		path = req.RequestContext.HTTP.Path
	}

	return &apiRequest{
		Id:       req.RequestContext.RequestID,
		RawPath:  path,
		Method:   method,
		Origin:   header(req, "origin"),
		SourceIp: req.RequestContext.HTTP.SourceIP,
		Body:     req.Body,
		isBase64: req.IsBase64Encoded,
	}
}

// decodeBody parses the JSON request body into v.
//
// The prod API Gateway base64 encodes POST bodies, while `sam local` doesn't,
// so this checks the IsBase64Encoded flag either way.
func (req *apiRequest) decodeBody(v any) error {
	body := []byte(req.Body)

	if req.isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			msg := "failed to base64 decode body: " + err.Error()
			return &errorWithStatus{http.StatusBadRequest, msg}
		}
		body = decoded
	}

	if err := json.Unmarshal(body, v); err != nil {
		msg := "failed to parse JSON body: " + err.Error()
		return &errorWithStatus{http.StatusBadRequest, msg}
	}
	return nil
}

func (h *apiHandler) handleApiRequest(
	ctx context.Context,
	req *apiRequest,
	res *awsevents.APIGatewayV2HTTPResponse,
) (route string, err error) {
	switch {
	case req.Method == http.MethodOptions:
		route = routePreflight
		res.StatusCode = http.StatusOK
	case req.Method == http.MethodPost && req.RawPath == NewsletterPath:
		route = NewsletterPath
		err = h.subscribe(ctx, req, res)
	case req.Method == http.MethodPost && req.RawPath == ContactPath:
		route = ContactPath
		err = h.submitDemo(ctx, req, res)
	case req.Method == http.MethodGet && req.RawPath == HealthPath:
		route = HealthPath
		setJsonBody(res, http.StatusOK, &healthResponse{
			Status:    "ok",
			Timestamp: h.CurrentTime().UTC().Format(healthTimestampLayout),
		})
	default:
		route = routeNotFound
		setJsonBody(res, http.StatusNotFound, &notFoundResponse{
			Error: "Not Found", Path: req.RawPath, Method: req.Method,
		})
	}
	return
}

func (h *apiHandler) subscribe(
	ctx context.Context,
	req *apiRequest,
	res *awsevents.APIGatewayV2HTTPResponse,
) error {
	sub := &events.SubscribeRequest{}

	if err := req.decodeBody(sub); err != nil {
		setResultBody(res, err, MsgSubscribeFailed)
		return err
	}
	result, err := h.Agent.Subscribe(ctx, sub)
	logOperationResult(h.log, req.Id, agent.SubscribeOperation, result, err)
	setOperationResultBody(res, result, err, MsgSubscribed, MsgSubscribeFailed)
	return nil
}

func (h *apiHandler) submitDemo(
	ctx context.Context,
	req *apiRequest,
	res *awsevents.APIGatewayV2HTTPResponse,
) error {
	demo := &events.ContactRequest{}

	if err := req.decodeBody(demo); err != nil {
		setResultBody(res, err, MsgDemoFailed)
		return err
	}
	sourceIp := req.SourceIp
	if sourceIp == "" {
		sourceIp = "unknown"
	}
	result, err := h.Agent.SubmitDemo(ctx, demo, sourceIp)
	logOperationResult(h.log, req.Id, agent.SubmitDemoOperation, result, err)
	setOperationResultBody(res, result, err, MsgDemoSubmitted, MsgDemoFailed)
	return nil
}

// setOperationResultBody maps the outcome of an agent operation to a response.
// Only validation messages reach the caller. Every other error collapses to
// failureMsg or the configuration error message.
func setOperationResultBody(
	res *awsevents.APIGatewayV2HTTPResponse,
	result ops.OperationResult,
	err error,
	successMsg, failureMsg string,
) {
	if err == nil && result.Success() {
		setJsonBody(res, http.StatusOK, &events.Result{
			Success: true, Message: successMsg,
		})
		return
	} else if err == nil {
		err = fmt.Errorf("unexpected operation result: %s", result)
	}
	setResultBody(res, err, failureMsg)
}

func setResultBody(
	res *awsevents.APIGatewayV2HTTPResponse, err error, failureMsg string,
) {
	status := http.StatusInternalServerError
	msg := failureMsg

	var valErr *agent.ValidationError
	var statusErr *errorWithStatus

	if errors.As(err, &valErr) {
		status = http.StatusBadRequest
		msg = valErr.Message
	} else if errors.Is(err, ops.ErrConfiguration) {
		msg = MsgConfigurationError
	} else if errors.As(err, &statusErr) {
		status = statusErr.HttpStatus
	}
	setJsonBody(res, status, &events.Result{Success: false, Message: msg})
}

func setJsonBody(
	res *awsevents.APIGatewayV2HTTPResponse, status int, body any,
) {
	res.StatusCode = status

	if data, err := json.Marshal(body); err != nil {
		// None of the response types can fail to marshal.
		res.StatusCode = http.StatusInternalServerError
		res.Body = `{"success":false,"message":"Internal error"}`
	} else {
		res.Body = string(data)
	}
}

func logOperationResult(
	log *log.Logger,
	requestId string,
	op string,
	result ops.OperationResult,
	err error,
) {
	prefix := "result"
	errMsg := ""
	if err != nil {
		prefix = "ERROR"
		errMsg = ": " + err.Error()
	}
	log.Printf("%s: %s: %s: %s%s", requestId, prefix, op, result, errMsg)
}
