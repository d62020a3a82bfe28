//go:build small_tests || all_tests

package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"testing"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thehangoversessions/sessionsapi/agent"
	"github.com/thehangoversessions/sessionsapi/email"
	"github.com/thehangoversessions/sessionsapi/events"
	"github.com/thehangoversessions/sessionsapi/ops"
	"github.com/thehangoversessions/sessionsapi/testdata"
	"github.com/thehangoversessions/sessionsapi/testutils"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func resultJson(success bool, msg string) string {
	return fmt.Sprintf(`{"success":%t,"message":"%s"}`, success, msg)
}

func assertCorsHeaders(
	t *testing.T, res *awsevents.APIGatewayV2HTTPResponse, origin string,
) {
	t.Helper()

	assert.DeepEqual(t, map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Max-Age":       "86400",
	}, res.Headers)
}

func TestLogApiResponse(t *testing.T) {
	req := apiGatewayRequest(http.MethodPost, NewsletterPath)
	res := &awsevents.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK}

	t.Run("WithoutError", func(t *testing.T) {
		logs, logger := testutils.NewLogs()

		logApiResponse(logger, req, res, nil)

		const expected = `deadbeef: 192.0.2.1 "POST /api/newsletter HTTP/2" 200`
		assert.Equal(t, "test logger: "+expected+"\n", logs.Logs())
	})

	t.Run("WithError", func(t *testing.T) {
		logs, logger := testutils.NewLogs()

		logApiResponse(logger, req, res, errors.New("unexpected EOF"))

		logs.AssertContains(t, `"POST /api/newsletter HTTP/2" 200: unexpected EOF`)
	})
}

func TestNewApiRequest(t *testing.T) {
	t.Run("Succeeds", func(t *testing.T) {
		origReq := apiGatewayRequest(http.MethodPost, ContactPath)
		origReq.Body = `{"name":"Alex"}`

		req := newApiRequest(origReq)

		assert.Equal(t, apiRequest{
			Id:       testRequestId,
			RawPath:  ContactPath,
			Method:   http.MethodPost,
			Origin:   testOrigin,
			SourceIp: testdata.TestSourceIp,
			Body:     `{"name":"Alex"}`,
		}, *req)
	})

	t.Run("ParsesCanonicalOriginHeader", func(t *testing.T) {
		origReq := apiGatewayRequest(http.MethodPost, ContactPath)
		origReq.Headers = map[string]string{"Origin": "http://localhost:3000"}

		req := newApiRequest(origReq)

		assert.Equal(t, "http://localhost:3000", req.Origin)
	})

	t.Run("FallsBackToRequestContextPath", func(t *testing.T) {
		origReq := apiGatewayRequest(http.MethodGet, HealthPath)
		origReq.RawPath = ""

		req := newApiRequest(origReq)

		assert.Equal(t, HealthPath, req.RawPath)
	})
}

func TestDecodeBody(t *testing.T) {
	const body = `{"email":"alex@example.com","name":"Alex"}`
	expected := &events.SubscribeRequest{Email: "alex@example.com", Name: "Alex"}

	t.Run("DecodesJson", func(t *testing.T) {
		req := &apiRequest{Body: body}
		sub := &events.SubscribeRequest{}

		assert.NilError(t, req.decodeBody(sub))
		assert.DeepEqual(t, expected, sub)
	})

	t.Run("DecodesBase64EncodedBody", func(t *testing.T) {
		req := &apiRequest{
			Body:     base64.StdEncoding.EncodeToString([]byte(body)),
			isBase64: true,
		}
		sub := &events.SubscribeRequest{}

		assert.NilError(t, req.decodeBody(sub))
		assert.DeepEqual(t, expected, sub)
	})

	t.Run("ErrorsIfBase64DecodingFails", func(t *testing.T) {
		req := &apiRequest{Body: "not base64", isBase64: true}

		err := req.decodeBody(&events.SubscribeRequest{})

		var statusErr *errorWithStatus
		assert.Assert(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.HttpStatus)
		assert.ErrorContains(t, err, "failed to base64 decode body: ")
	})

	t.Run("ErrorsIfJsonIsMalformed", func(t *testing.T) {
		req := &apiRequest{Body: `{"email":`}

		err := req.decodeBody(&events.SubscribeRequest{})

		var statusErr *errorWithStatus
		assert.Assert(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.HttpStatus)
		assert.ErrorContains(t, err, "failed to parse JSON body: ")
	})
}

func TestHandleApiEvent(t *testing.T) {
	ctx := context.Background()

	setup := func(
		method, path, body string,
	) (*handlerFixture, *awsevents.APIGatewayV2HTTPRequest) {
		f := newHandlerFixture()
		req := apiGatewayRequest(method, path)
		req.Body = body
		return f, req
	}

	const subscribeBody = `{"email":"alex@example.com","name":"Alex"}`
	const demoBody = `{"name":"Alex","email":"alex@example.com",` +
		`"demo":"https://soundcloud.com/alex/demo"}`

	t.Run("RespondsToPreflightOnAnyPath", func(t *testing.T) {
		f, req := setup(http.MethodOptions, "/anything", "")

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "", res.Body)
		assertCorsHeaders(t, res, testOrigin)
	})

	t.Run("ReportsHealth", func(t *testing.T) {
		f, req := setup(http.MethodGet, HealthPath, "")

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		const expected = `{"status":"ok","timestamp":"2024-06-01T12:30:15.000Z"}`
		assert.Equal(t, expected, res.Body)
		assertCorsHeaders(t, res, testOrigin)
	})

	t.Run("ReturnsNotFoundForUnknownRoute", func(t *testing.T) {
		f, req := setup(http.MethodGet, NewsletterPath, "")

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		const expected = `{"error":"Not Found",` +
			`"path":"/api/newsletter","method":"GET"}`
		assert.Equal(t, expected, res.Body)
		assertCorsHeaders(t, res, testOrigin)
		assert.Assert(t, is.Len(f.agent.SubscribeRequests, 0))
	})

	t.Run("CountsUnknownMethodsAsOther", func(t *testing.T) {
		f, req := setup("BREW", "/coffee", "")
		counter := ops.ApiResponsesTotal.WithLabelValues(
			"other", routeNotFound, "404",
		)
		before := testutil.ToFloat64(counter)

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("SubscribeSucceeds", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, subscribeBody)
		f.agent.ReturnValue = ops.SubscribedInBulk

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, resultJson(true, MsgSubscribed), res.Body)
		assertCorsHeaders(t, res, testOrigin)
		assert.DeepEqual(t, []*events.SubscribeRequest{
			{Email: testdata.TestEmail, Name: testdata.TestName},
		}, f.agent.SubscribeRequests)
		f.logs.AssertContains(t, "deadbeef: result: subscribe: SubscribedInBulk")
		f.logs.AssertContains(t, `"POST /api/newsletter HTTP/2" 200`)
	})

	t.Run("SubscribeReturnsValidationMessage", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, `{"email":"nope"}`)
		f.agent.ReturnValue = ops.Invalid
		f.agent.Error = &agent.ValidationError{Message: agent.MsgInvalidEmail}

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, resultJson(false, agent.MsgInvalidEmail), res.Body)
	})

	t.Run("SubscribePassesNonStringEmailToValidation", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, `{"email":123}`)
		f.agent.ReturnValue = ops.Invalid
		f.agent.Error = &agent.ValidationError{Message: agent.MsgInvalidEmail}

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, resultJson(false, agent.MsgInvalidEmail), res.Body)
		assert.DeepEqual(t, []*events.SubscribeRequest{
			{Email: "123"},
		}, f.agent.SubscribeRequests)
	})

	t.Run("SubscribeReturnsConfigurationError", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, subscribeBody)
		f.agent.ReturnValue = ops.NotSubscribed
		f.agent.Error = fmt.Errorf(
			"%w: newsletter list ID undefined", ops.ErrConfiguration,
		)

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, resultJson(false, MsgConfigurationError), res.Body)
		f.logs.AssertContains(
			t,
			"deadbeef: ERROR: subscribe: NotSubscribed: "+
				"configuration error: newsletter list ID undefined",
		)
	})

	t.Run("SubscribeHidesProviderErrors", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, subscribeBody)
		f.agent.ReturnValue = ops.NotSubscribed
		f.agent.Error = &email.ProviderError{
			Endpoint:   email.EndpointManageManyContacts,
			StatusCode: http.StatusUnauthorized,
			Body:       `{"ErrorMessage":"API key authentication failed"}`,
		}

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, resultJson(false, MsgSubscribeFailed), res.Body)
		f.logs.AssertContains(t, "API key authentication failed")
	})

	t.Run("SubscribeFailsIfResultUnsuccessful", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, subscribeBody)
		f.agent.ReturnValue = ops.NotSubscribed

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, resultJson(false, MsgSubscribeFailed), res.Body)
	})

	t.Run("SubscribeRejectsMalformedBody", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, "{bogus")

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, resultJson(false, MsgSubscribeFailed), res.Body)
		assert.Assert(t, is.Len(f.agent.SubscribeRequests, 0))
		f.logs.AssertContains(t, `HTTP/2" 400: failed to parse JSON body`)
	})

	t.Run("SubmitDemoSucceeds", func(t *testing.T) {
		f, req := setup(http.MethodPost, ContactPath, demoBody)
		f.agent.ReturnValue = ops.DemoSubmitted

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, resultJson(true, MsgDemoSubmitted), res.Body)
		assert.DeepEqual(t, &events.ContactRequest{
			Name:  testdata.TestName,
			Email: testdata.TestEmail,
			Demo:  testdata.TestDemo,
		}, f.agent.DemoRequest)
		assert.Equal(t, testdata.TestSourceIp, f.agent.SourceIp)
		f.logs.AssertContains(t, "deadbeef: result: submit demo: DemoSubmitted")
	})

	t.Run("SubmitDemoUsesPlaceholderIfSourceIpUnknown", func(t *testing.T) {
		f, req := setup(http.MethodPost, ContactPath, demoBody)
		req.RequestContext.HTTP.SourceIP = ""
		f.agent.ReturnValue = ops.DemoSubmitted

		f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, "unknown", f.agent.SourceIp)
	})

	t.Run("SubmitDemoReturnsValidationMessage", func(t *testing.T) {
		f, req := setup(http.MethodPost, ContactPath, `{"name":"Alex"}`)
		f.agent.ReturnValue = ops.Invalid
		f.agent.Error = &agent.ValidationError{Message: agent.MsgContactRequired}

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, resultJson(false, agent.MsgContactRequired), res.Body)
	})

	t.Run("SubmitDemoFails", func(t *testing.T) {
		f, req := setup(http.MethodPost, ContactPath, demoBody)
		f.agent.ReturnValue = ops.DemoNotSubmitted
		f.agent.Error = fmt.Errorf("%w: mailjet send: timeout", ops.ErrExternal)

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, resultJson(false, MsgDemoFailed), res.Body)
	})

	t.Run("SetsNullOriginForUnknownOrigin", func(t *testing.T) {
		f, req := setup(http.MethodPost, NewsletterPath, subscribeBody)
		req.Headers["origin"] = "https://evil.example.com"
		f.agent.ReturnValue = ops.Subscribed

		res := f.handler.HandleApiRequest(ctx, req)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assertCorsHeaders(t, res, "null")
	})

	t.Run("SetsWildcardOriginIfNoOrigin", func(t *testing.T) {
		f, req := setup(http.MethodOptions, NewsletterPath, "")
		delete(req.Headers, "origin")

		res := f.handler.HandleApiRequest(ctx, req)

		assertCorsHeaders(t, res, "*")
	})
}

func TestMetricMethod(t *testing.T) {
	assert.Equal(t, http.MethodPost, metricMethod(http.MethodPost))
	assert.Equal(t, http.MethodOptions, metricMethod(http.MethodOptions))
	assert.Equal(t, "other", metricMethod("BREW"))
	assert.Equal(t, "other", metricMethod("post"))
	assert.Equal(t, "other", metricMethod(""))
}
