package p6

import (
	"context"
	"encoding/xml"
	"fmt"
	"net"
	"net/url"
	"p6export/soap"
	"p6export/wssecurity"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultPort = 443

// Reader issues one unfiltered, unordered read per entity type.
type Reader interface {
	ReadResourceHours(ctx context.Context) ([]ResourceHour, error)
	ReadResources(ctx context.Context) ([]Resource, error)
	ReadResourceRates(ctx context.Context) ([]ResourceRate, error)
	ReadTimesheets(ctx context.Context) ([]Timesheet, error)
	ReadResourceAssignments(ctx context.Context) ([]ResourceAssignment, error)
	ReadResourceAssignmentPeriodActuals(ctx context.Context) ([]ResourceAssignmentPeriodActual, error)
}

type ReaderConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	PasswordType wssecurity.PasswordType
	// Timeout bounds each remote call; zero disables the bound.
	Timeout    time.Duration
	HTTPClient soap.Doer
	Logger     *zap.Logger
	LogTraffic bool
	UserAgent  string
	Clock      func() time.Time
}

type SOAPReader struct {
	host       string
	port       int
	timeout    time.Duration
	client     *soap.Client
	middleware []soap.Middleware
}

var _ Reader = (*SOAPReader)(nil)

// NewReader validates the connection settings and builds one credential block
// up front so bad credentials fail before any call is made.
func NewReader(cfg ReaderConfig) (*SOAPReader, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, fmt.Errorf("p6 host is required")
	}
	if strings.Contains(host, "://") || strings.Contains(host, "/") {
		return nil, fmt.Errorf("p6 host must be a bare host name, got %q", cfg.Host)
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("p6 port out of range: %d", cfg.Port)
	}

	passwordType := cfg.PasswordType
	if passwordType == "" {
		passwordType = wssecurity.PasswordText
	}
	builder := wssecurity.Builder{
		Username:     cfg.Username,
		Password:     cfg.Password,
		PasswordType: passwordType,
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	if _, err := builder.Build(clock()); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = 0
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "p6export"
	}

	middleware := []soap.Middleware{soap.WithAuth(builder, clock)}
	if cfg.LogTraffic {
		middleware = append(middleware, soap.WithLogging(cfg.Logger))
	}

	return &SOAPReader{
		host:    host,
		port:    port,
		timeout: timeout,
		client: soap.NewClient(soap.ClientConfig{
			HTTPClient:     cfg.HTTPClient,
			Timeout:        timeout,
			DisableTimeout: timeout == 0,
			UserAgent:      userAgent,
		}),
		middleware: middleware,
	}, nil
}

// EndpointURL composes https://host:port/path.
func EndpointURL(host string, port int, path string) string {
	endpoint := url.URL{
		Scheme: "https",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   path,
	}
	return endpoint.String()
}

func (r *SOAPReader) ReadResourceHours(ctx context.Context) ([]ResourceHour, error) {
	return readAll(ctx, r, ResourceHours)
}

func (r *SOAPReader) ReadResources(ctx context.Context) ([]Resource, error) {
	return readAll(ctx, r, Resources)
}

func (r *SOAPReader) ReadResourceRates(ctx context.Context) ([]ResourceRate, error) {
	return readAll(ctx, r, ResourceRates)
}

func (r *SOAPReader) ReadTimesheets(ctx context.Context) ([]Timesheet, error) {
	return readAll(ctx, r, Timesheets)
}

func (r *SOAPReader) ReadResourceAssignments(ctx context.Context) ([]ResourceAssignment, error) {
	return readAll(ctx, r, ResourceAssignments)
}

func (r *SOAPReader) ReadResourceAssignmentPeriodActuals(ctx context.Context) ([]ResourceAssignmentPeriodActual, error) {
	return readAll(ctx, r, ResourceAssignmentPeriodActuals)
}

// readRequest has no Filter or OrderBy element: the service returns every
// record in its default order.
type readRequest struct {
	XMLName xml.Name
	Fields  []string `xml:"Field"`
}

type readResponse[T any] struct {
	XMLName xml.Name
	Records []record[T] `xml:",any"`
}

func readAll[T any](ctx context.Context, r *SOAPReader, entity Entity[T]) ([]T, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var out readResponse[T]
	req := &soap.Request{
		Endpoint:  EndpointURL(r.host, r.port, entity.Path()),
		Operation: entity.Operation(),
		Body: readRequest{
			XMLName: xml.Name{Space: entity.Namespace(), Local: entity.Operation()},
			Fields:  entity.Fields(),
		},
		Out: &out,
	}

	invoke := soap.Chain(r.client.Invoke, r.middleware...)
	if _, err := invoke(ctx, req); err != nil {
		return nil, &RemoteReadError{Entity: entity.Kind, Err: err}
	}
	records, err := checkResponse(entity, out)
	if err != nil {
		return nil, &RemoteReadError{Entity: entity.Kind, Err: err}
	}
	return records, nil
}

// checkResponse rejects a reply to another operation, foreign record elements
// and records without a required field.
func checkResponse[T any](entity Entity[T], out readResponse[T]) ([]T, error) {
	if want := entity.ResponseName(); out.XMLName != want {
		return nil, fmt.Errorf("%w: expected <%s xmlns=%q>, got <%s xmlns=%q>",
			soap.ErrMalformedResponse, want.Local, want.Space, out.XMLName.Local, out.XMLName.Space)
	}

	required := entity.RequiredFields()
	records := make([]T, 0, len(out.Records))
	for i, rec := range out.Records {
		if rec.name.Local != string(entity.Kind) {
			return nil, fmt.Errorf("%w: record %d is <%s>, expected <%s>", soap.ErrMalformedResponse, i, rec.name.Local, entity.Kind)
		}
		if absent := rec.missing(required); len(absent) > 0 {
			return nil, fmt.Errorf("%w: %s record %d lacks required %s",
				soap.ErrMalformedResponse, entity.Kind, i, strings.Join(absent, ", "))
		}
		records = append(records, rec.value)
	}
	return records, nil
}
