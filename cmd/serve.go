package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/thehangoversessions/sessionsapi/email"
	"github.com/thehangoversessions/sessionsapi/handler"
)

const DefaultServeAddr = ":8787"

const (
	maxRequestBodyLen = 1 << 20
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

const serveDescription = `` +
	`Serves the newsletter and contact API over HTTP

Reads the same environment variables as the deployed function. Each request is
translated into an API Gateway v2 event and handled exactly as in production.
Prometheus metrics are available at /metrics.
`

func init() {
	rootCmd.AddCommand(newServeCmd(os.Getenv))
}

func newServeCmd(getenv func(string) string) (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the API locally",
		Long:  serveDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			return serve(ctx, getStringFlag(cmd, FlagAddr), getenv, logger)
		},
	}
	cmd.Flags().String(FlagAddr, DefaultServeAddr, "address to listen on")
	return
}

func serve(
	ctx context.Context,
	addr string,
	getenv func(string) string,
	logger *log.Logger,
) (err error) {
	var opts *handler.Options
	var undefErr *handler.UndefinedEnvVarsError

	if opts, err = handler.GetOptions(getenv); errors.As(err, &undefErr) {
		logger.Printf("ERROR: %s", err)
	} else if err != nil {
		return
	}

	h := handler.NewProdHandler(opts, email.NewHttpClient(opts.Timeout), logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewApiRouter(h, uuid.NewString),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errs := make(chan error, 1)

	go func() {
		logger.Printf("serving API on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err = <-errs:
		return fmt.Errorf("serving API on %s failed: %w", addr, err)
	case <-ctx.Done():
	}

	logger.Printf("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type ApiRequestHandler interface {
	HandleApiRequest(
		context.Context, *awsevents.APIGatewayV2HTTPRequest,
	) *awsevents.APIGatewayV2HTTPResponse
}

func NewApiRouter(h ApiRequestHandler, newRequestId func() string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", &apiGatewayAdapter{h, newRequestId})
	return r
}

// apiGatewayAdapter translates net/http requests into the API Gateway v2
// payload format and writes back the handler's response.
type apiGatewayAdapter struct {
	handler      ApiRequestHandler
	newRequestId func() string
}

func (a *apiGatewayAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyLen))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	res := a.handler.HandleApiRequest(r.Context(), a.newRequest(r, body))

	for name, value := range res.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(res.StatusCode)
	io.WriteString(w, res.Body)
}

func (a *apiGatewayAdapter) newRequest(
	r *http.Request, body []byte,
) *awsevents.APIGatewayV2HTTPRequest {
	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		headers[strings.ToLower(name)] = strings.Join(values, ",")
	}

	sourceIp := r.RemoteAddr
	if host, _, err := net.SplitHostPort(sourceIp); err == nil {
		sourceIp = host
	}

	return &awsevents.APIGatewayV2HTTPRequest{
		Version:        "2.0",
		RouteKey:       "$default",
		RawPath:        r.URL.Path,
		RawQueryString: r.URL.RawQuery,
		Headers:        headers,
		Body:           string(body),
		RequestContext: awsevents.APIGatewayV2HTTPRequestContext{
			RequestID: a.newRequestId(),
			HTTP: awsevents.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  sourceIp,
				UserAgent: r.UserAgent(),
			},
		},
	}
}
