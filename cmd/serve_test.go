//go:build small_tests || all_tests

package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/thehangoversessions/sessionsapi/testutils"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

type testApiRequestHandler struct {
	Request  *awsevents.APIGatewayV2HTTPRequest
	Response *awsevents.APIGatewayV2HTTPResponse
}

func (h *testApiRequestHandler) HandleApiRequest(
	_ context.Context, req *awsevents.APIGatewayV2HTTPRequest,
) *awsevents.APIGatewayV2HTTPResponse {
	h.Request = req
	return h.Response
}

const testRequestId = "00000000-1111-2222-3333-444444444444"

func newTestApiRouter() (http.Handler, *testApiRequestHandler) {
	h := &testApiRequestHandler{
		Response: &awsevents.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers: map[string]string{
				"Content-Type":                "application/json",
				"Access-Control-Allow-Origin": "*",
			},
			Body: `{"success":true,"message":"ok"}`,
		},
	}
	return NewApiRouter(h, func() string { return testRequestId }), h
}

func TestApiRouter(t *testing.T) {
	t.Run("TranslatesRequestAndResponse", func(t *testing.T) {
		router, h := newTestApiRouter()
		body := `{"email":"alex@example.com"}`
		req := httptest.NewRequest(
			http.MethodPost,
			"/api/newsletter?src=popup",
			strings.NewReader(body),
		)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("User-Agent", "sessions-test")
		req.RemoteAddr = "192.0.2.1:54321"
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.DeepEqual(t, &awsevents.APIGatewayV2HTTPRequest{
			Version:        "2.0",
			RouteKey:       "$default",
			RawPath:        "/api/newsletter",
			RawQueryString: "src=popup",
			Headers: map[string]string{
				"content-type": "application/json",
				"origin":       "http://localhost:3000",
				"user-agent":   "sessions-test",
			},
			Body: body,
			RequestContext: awsevents.APIGatewayV2HTTPRequestContext{
				RequestID: testRequestId,
				HTTP: awsevents.APIGatewayV2HTTPRequestContextHTTPDescription{
					Method:    http.MethodPost,
					Path:      "/api/newsletter",
					Protocol:  "HTTP/1.1",
					SourceIP:  "192.0.2.1",
					UserAgent: "sessions-test",
				},
			},
		}, h.Request)

		res := rec.Result()
		resBody, _ := io.ReadAll(res.Body)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
		assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, `{"success":true,"message":"ok"}`, string(resBody))
	})

	t.Run("UsesForwardedForAddress", func(t *testing.T) {
		router, h := newTestApiRouter()
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")

		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "203.0.113.7", h.Request.RequestContext.HTTP.SourceIP)
	})

	t.Run("ServesMetrics", func(t *testing.T) {
		router, h := newTestApiRouter()
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Assert(t, is.Contains(rec.Body.String(), "go_goroutines"))
		assert.Assert(t, is.Nil(h.Request))
	})
}

func TestServe(t *testing.T) {
	t.Run("FailsOnMalformedEnvironment", func(t *testing.T) {
		_, logger := testutils.NewLogs()
		getenv := func(name string) string {
			if name == "NEWSLETTER_LIST_ID" {
				return "bogus"
			}
			return ""
		}

		err := serve(context.Background(), "127.0.0.1:0", getenv, logger)

		assert.ErrorContains(t, err, "invalid environment variables")
	})

	t.Run("ShutsDownWhenContextCanceled", func(t *testing.T) {
		logs, logger := testutils.NewLogs()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := serve(ctx, "127.0.0.1:0", func(string) string { return "" }, logger)

		assert.NilError(t, err)
		logs.AssertContains(t, "ERROR: undefined environment variables: ")
		logs.AssertContains(t, "shutting down API server")
	})

	t.Run("FailsIfCannotListen", func(t *testing.T) {
		_, logger := testutils.NewLogs()

		err := serve(
			context.Background(), "bogus-address", func(string) string { return "" }, logger,
		)

		assert.ErrorContains(t, err, "serving API on bogus-address failed")
	})
}
