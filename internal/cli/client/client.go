package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/fina-agent/fina-console/internal/cli/types"
	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// APIClient wraps Hertz Client for HTTP communication with the agent backend
type APIClient struct {
	client *client.Client
	server string
	token  string
	logger *slog.Logger
}

var _ domain.AgentClient = (*APIClient)(nil)

// Option configures an APIClient
type Option func(*APIClient)

// WithLogger sets the logger used for skipped frames and request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *APIClient) {
		c.logger = l
	}
}

// NewAPIClient creates a new API client
func NewAPIClient(server, token string, opts ...Option) (*APIClient, error) {
	// Normalize server URL
	normalizedServer, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// Use standard library dialer for streaming support
	// netpoll doesn't support streaming well, causing panics
	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	ac := &APIClient{
		client: c,
		server: normalizedServer,
		token:  token,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(ac)
	}
	return ac, nil
}

// Server returns the normalized base address
func (c *APIClient) Server() string {
	return c.server
}

// normalizeServerURL normalizes server URL to ensure it has a scheme and no trailing slash
func normalizeServerURL(server string) (string, error) {
	// Add scheme if missing
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	// scheme://host only; endpoints carry the /api/v1 prefix
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// StreamChat posts a message and returns the decoded stream. The event channel is
// closed when the backend ends the stream; a transport failure is reported on the
// error channel. Frames that are not valid JSON are logged and skipped.
func (c *APIClient) StreamChat(ctx context.Context, message, threadID string) (<-chan entity.StreamEvent, <-chan error, error) {
	bodyBytes, err := sonic.Marshal(types.ChatRequest{Message: message, ThreadID: threadID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpointChatStream)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("Accept", "text/event-stream")
	c.authorize(req)
	req.SetBody(bodyBytes)

	if err := c.client.Do(ctx, req, resp); err != nil {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, domain.NewTransportError(err)
	}

	if statusCode := resp.StatusCode(); statusCode < 200 || statusCode >= 300 {
		detail := decodeDetail(resp.Body())
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
		return nil, nil, domain.NewTransportError(fmt.Errorf("chat stream HTTP %d: %s", statusCode, detail))
	}

	eventCh := make(chan entity.StreamEvent, 10)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(eventCh)
			close(errCh)
			protocol.ReleaseRequest(req)
			protocol.ReleaseResponse(resp)
		}()

		bodyStream := resp.BodyStream()
		if bodyStream == nil {
			// the whole body was buffered
			bodyStream = strings.NewReader(string(resp.Body()))
		}

		if err := c.parseSSEStream(ctx, bodyStream, eventCh); err != nil {
			errCh <- domain.NewTransportError(err)
		}
	}()

	return eventCh, errCh, nil
}

// parseSSEStream reads `data:` frames line by line as they arrive
func (c *APIClient) parseSSEStream(ctx context.Context, reader io.Reader, eventCh chan<- entity.StreamEvent) error {
	scanner := bufio.NewScanner(reader)

	// Increase buffer size for large SSE messages
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines, comments and non-data fields
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		dataStr := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if dataStr == "" {
			continue
		}
		if dataStr == "[DONE]" {
			return nil
		}

		var frame types.StreamEvent
		if err := sonic.UnmarshalString(dataStr, &frame); err != nil {
			perr := domain.NewParseError(dataStr, err)
			c.logger.Warn("skipping malformed stream frame", "error", perr)
			continue
		}

		select {
		case eventCh <- frame.ToEntity():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stream read failed: %w", err)
	}
	return nil
}

// Approve submits a supervisor decision. A non-2xx answer is returned as an approval
// error carrying the backend's detail.
func (c *APIClient) Approve(ctx context.Context, approval entity.ApprovalRequest) (*entity.ApprovalDecision, error) {
	bodyBytes, err := sonic.Marshal(types.NewApproveRequest(approval))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpointApprove)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	c.authorize(req)
	req.SetBody(bodyBytes)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return nil, domain.NewTransportError(err)
	}

	statusCode := resp.StatusCode()
	body := resp.Body()
	if statusCode < 200 || statusCode >= 300 {
		return nil, domain.NewApprovalError(statusCode, decodeDetail(body))
	}

	var decision types.ApprovalResponse
	if err := sonic.Unmarshal(body, &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	d := decision.ToEntity()
	return &d, nil
}

// Ingest uploads a document for retrieval
func (c *APIClient) Ingest(ctx context.Context, filename string, r io.Reader) (*entity.IngestResult, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpointIngest)
	c.authorize(req)
	req.SetFileReader("file", filename, r)

	var out types.IngestResponse
	if err := c.exchange(ctx, req, resp, &out); err != nil {
		return nil, err
	}

	result := out.ToEntity()
	return &result, nil
}

// ThreadStatus fetches the audit view of a thread
func (c *APIClient) ThreadStatus(ctx context.Context, threadID string) (*entity.ThreadStatus, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(fmt.Sprintf(c.server+endpointThread, url.PathEscape(threadID)))
	c.authorize(req)

	var out types.ThreadStatusResponse
	if err := c.exchange(ctx, req, resp, &out); err != nil {
		return nil, err
	}

	status := out.ToEntity()
	return &status, nil
}

// Health checks the backend
func (c *APIClient) Health(ctx context.Context) (*entity.Health, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(c.server + endpointHealth)

	var out types.HealthResponse
	if err := c.exchange(ctx, req, resp, &out); err != nil {
		return nil, err
	}

	h := out.ToEntity()
	return &h, nil
}

// Logout asks the backend to drop the session's ephemeral data
func (c *APIClient) Logout(ctx context.Context) error {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.server + endpointLogout)
	c.authorize(req)

	var out types.StatusResponse
	return c.exchange(ctx, req, resp, &out)
}

func (c *APIClient) authorize(req *protocol.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// exchange sends req and decodes a 2xx JSON body into out
func (c *APIClient) exchange(ctx context.Context, req *protocol.Request, resp *protocol.Response, out any) error {
	if err := c.client.Do(ctx, req, resp); err != nil {
		return domain.NewTransportError(err)
	}

	statusCode := resp.StatusCode()
	body := resp.Body()
	if statusCode < 200 || statusCode >= 300 {
		return statusError(statusCode, decodeDetail(body))
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// statusError maps an HTTP failure onto the domain taxonomy
func statusError(statusCode int, detail string) error {
	switch statusCode {
	case consts.StatusNotFound:
		return &domain.DomainError{Code: "NOT_FOUND", Message: detail, Err: domain.ErrNotFound}
	case consts.StatusUnauthorized:
		return &domain.DomainError{Code: "UNAUTHORIZED", Message: detail, Err: domain.ErrUnauthorized}
	case consts.StatusForbidden:
		return domain.NewForbiddenError(detail)
	case consts.StatusBadRequest, consts.StatusUnprocessableEntity:
		return domain.NewInvalidInputError(detail)
	default:
		return domain.NewTransportError(fmt.Errorf("HTTP %d: %s", statusCode, detail))
	}
}

// decodeDetail extracts {"detail": ...} from an error body, falling back to the raw text
func decodeDetail(body []byte) string {
	var e types.ErrorResponse
	if err := sonic.Unmarshal(body, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(body))
}
