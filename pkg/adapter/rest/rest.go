// Package rest provides the "rest" pipe adapter, the default adapter type.
//
// A REST pipe talks to one resource URL, built from the baseURL setting and
// the endpoint setting (the pipe name when unset):
//
//	GET    {url}        read all
//	GET    {url}/{id}   read one
//	POST   {url}        save a record without an id
//	PUT    {url}/{id}   save a record with an id
//	DELETE {url}/{id}   remove
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajitpratap0/pipes/pkg/clients"
	"github.com/ajitpratap0/pipes/pkg/errors"
	jsonpool "github.com/ajitpratap0/pipes/pkg/json"
	"github.com/ajitpratap0/pipes/pkg/logger"
	"github.com/ajitpratap0/pipes/pkg/metrics"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Type is the adapter type name
const Type = "rest"

const tracerName = "github.com/ajitpratap0/pipes/pkg/adapter/rest"

// Pipe reads and writes records of one REST resource
type Pipe struct {
	pipe.Base

	url         string
	headers     map[string]string
	contentType string
	client      *clients.HTTPClient
	tracer      trace.Tracer
}

// New creates a REST pipe. It performs no I/O.
//
// Settings:
//   - baseURL: prefix of the resource URL
//   - endpoint: resource path, defaults to the pipe name
//   - timeout: request timeout ("10s" or seconds), default 30s
//   - headers: extra request headers
//   - contentType: default "application/json"
//   - rateLimit: maximum requests per second, 0 for none
//   - insecureSkipVerify: skip TLS certificate checks
func New(name, recordID string, settings pipe.Settings) (pipe.Pipe, error) {
	timeout, err := settings.Duration("timeout", 30*time.Second)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid timeout")
	}

	httpConfig := clients.DefaultHTTPConfig()
	httpConfig.RequestTimeout = timeout
	if v, ok := settings["rateLimit"].(float64); ok {
		httpConfig.RateLimit = v
	} else if v, ok := settings["rateLimit"].(int); ok {
		httpConfig.RateLimit = float64(v)
	}
	if v, ok := settings["insecureSkipVerify"].(bool); ok {
		httpConfig.InsecureSkipVerify = v
	}

	log := logger.Get().With(zap.String("component", "rest_client"), zap.String("pipe", name))

	p := &Pipe{
		Base:        pipe.NewBase(name, Type, recordID),
		url:         ResolveURL(settings.String("baseURL", ""), settings.String("endpoint", name)),
		headers:     settings.StringMap("headers"),
		contentType: settings.String("contentType", "application/json"),
		client:      clients.NewHTTPClient(httpConfig, log),
		tracer:      otel.Tracer(tracerName),
	}

	return p, nil
}

// ResolveURL joins a base URL and an endpoint with exactly one slash
// between them. An empty base leaves the endpoint untouched.
func ResolveURL(baseURL, endpoint string) string {
	if baseURL == "" {
		return endpoint
	}
	if endpoint == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// URL returns the resource URL
func (p *Pipe) URL() string {
	return p.url
}

// Stats returns the HTTP statistics of this pipe
func (p *Pipe) Stats() clients.HTTPStats {
	return p.client.GetStats()
}

// Read fetches the collection, or a single record when opts.ID is set
func (p *Pipe) Read(ctx context.Context, opts pipe.ReadOptions) (records []pipe.Record, err error) {
	ctx, finish := p.begin(ctx, "read")
	defer func() { finish(err) }()

	target := p.url
	if opts.ID != "" {
		target = p.itemURL(opts.ID)
	}
	if len(opts.Query) > 0 {
		q := url.Values{}
		for k, v := range opts.Query {
			q.Set(k, v)
		}
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + q.Encode()
	}

	body, err := p.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

// Save creates the record with POST when it has no identifier, otherwise
// updates it with PUT. The server's representation is returned when the
// response has a body.
func (p *Pipe) Save(ctx context.Context, record pipe.Record) (saved pipe.Record, err error) {
	ctx, finish := p.begin(ctx, "save")
	defer func() { finish(err) }()

	if record == nil {
		return nil, errors.New(errors.ErrorTypeData, "record is nil")
	}

	payload, err := jsonpool.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode record")
	}

	method, target := http.MethodPost, p.url
	if id, ok := record.ID(p.RecordID()); ok {
		method, target = http.MethodPut, p.itemURL(fmt.Sprint(id))
	}

	body, err := p.do(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return record, nil
	}

	var out pipe.Record
	if err := jsonpool.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode saved record")
	}
	return out, nil
}

// Remove deletes the record with the given identifier
func (p *Pipe) Remove(ctx context.Context, id string) (err error) {
	ctx, finish := p.begin(ctx, "remove")
	defer func() { finish(err) }()

	if id == "" {
		return errors.New(errors.ErrorTypeData, "record id is required")
	}
	_, err = p.do(ctx, http.MethodDelete, p.itemURL(id), nil)
	return err
}

// Close releases idle connections
func (p *Pipe) Close() error {
	return p.client.Close()
}

func (p *Pipe) itemURL(id string) string {
	return strings.TrimRight(p.url, "/") + "/" + url.PathEscape(id)
}

// begin starts a span and returns the function that ends it, logs the
// outcome and records metrics for the operation. The pipe name is put in
// the context unless the caller already did.
func (p *Pipe) begin(ctx context.Context, operation string) (context.Context, func(error)) {
	timer := metrics.NewTimer(operation)
	if _, ok := ctx.Value(logger.PipeKey).(string); !ok {
		ctx = context.WithValue(ctx, logger.PipeKey, p.Name())
	}
	ctx, span := p.tracer.Start(ctx, "rest."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pipe.name", p.Name()),
			attribute.String("pipe.url", p.url),
		))
	log := logger.WithContext(ctx).With(zap.String("component", "rest_pipe"), zap.String("operation", operation))

	return ctx, func(err error) {
		elapsed := timer.Stop()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Debug("operation failed",
				zap.Duration("elapsed", elapsed),
				zap.Bool("retryable", errors.IsRetryable(err)),
				zap.Error(err))
		} else {
			log.Debug("operation completed", zap.Duration("elapsed", elapsed))
		}
		span.End()
		metrics.ObservePipeRequest(Type, p.Name(), timer.Name(), elapsed, err)
	}
}

func (p *Pipe) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	headers := make(map[string]string, len(p.headers)+2)
	for k, v := range p.headers {
		headers[k] = v
	}
	headers["Accept"] = "application/json"

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
		headers["Content-Type"] = p.contentType
	}

	resp, err := p.client.Request(ctx, method, target, body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, method, target, data)
	}
	return data, nil
}

func statusError(status int, method, target string, body []byte) error {
	errType := errors.ErrorTypeData
	switch {
	case status == http.StatusNotFound:
		errType = errors.ErrorTypeNotFound
	case status == http.StatusTooManyRequests:
		errType = errors.ErrorTypeRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		errType = errors.ErrorTypeTimeout
	case status >= 500:
		errType = errors.ErrorTypeConnection
	}

	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}

	return errors.New(errType, fmt.Sprintf("%s %s returned %d", method, target, status)).
		WithDetail("status", status).
		WithDetail("body", string(body))
}

func decodeRecords(body []byte) ([]pipe.Record, error) {
	recs, err := jsonpool.DecodeRecords(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode records")
	}
	return recs, nil
}
