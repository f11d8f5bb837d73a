package hubspot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/partnerhub-backend/internal/platform/httpx"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

const defaultBaseURL = "https://api.hubapi.com"

// Object is a CRM record as returned by the v3 objects API.
// Raw holds the verbatim response body.
type Object struct {
	ID         string             `json:"id"`
	Properties map[string]*string `json:"properties"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
	Archived   bool               `json:"archived"`

	Raw json.RawMessage `json:"-"`
}

// Property returns the named property, or nil when it is absent, null or blank.
func (o *Object) Property(name string) *string {
	if o == nil || o.Properties == nil {
		return nil
	}
	v, ok := o.Properties[name]
	if !ok || v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

type Client interface {
	GetObject(ctx context.Context, objectType, objectID string, properties []string) (*Object, error)
}

type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	MaxRetries  int
}

// APIError is a non-2xx response from the CRM.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Body)
	var env struct {
		Message  string `json:"message"`
		Category string `json:"category"`
	}
	if json.Unmarshal([]byte(msg), &env) == nil && env.Message != "" {
		msg = env.Message
		if env.Category != "" {
			msg = env.Category + ": " + msg
		}
	}
	return fmt.Sprintf("hubspot http %d: %s", e.StatusCode, msg)
}

func (e *APIError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

var ErrNotFound = errors.New("crm object not found")

type client struct {
	log        *logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
	retry      httpx.RetryPolicy
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	return NewWithHTTPClient(log, cfg, nil)
}

// NewWithHTTPClient lets tests swap the transport.
func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("missing HUBSPOT_ACCESS_TOKEN")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid HUBSPOT_BASE_URL %q: %w", baseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &client{
		log:        log.With("service", "HubSpotClient"),
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		retry:      httpx.RetryPolicy{MaxRetries: maxRetries, BaseDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second},
	}, nil
}

func (c *client) GetObject(ctx context.Context, objectType, objectID string, properties []string) (*Object, error) {
	objectType = strings.TrimSpace(objectType)
	objectID = strings.TrimSpace(objectID)
	if objectType == "" || objectID == "" {
		return nil, fmt.Errorf("object type and id are required")
	}

	q := url.Values{}
	if len(properties) > 0 {
		q.Set("properties", strings.Join(properties, ","))
	}
	q.Set("archived", "false")
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/%s?%s",
		c.baseURL, url.PathEscape(objectType), url.PathEscape(objectID), q.Encode())

	var raw []byte
	err := c.retry.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		resp, body, err := c.getOnce(ctx, endpoint)
		raw = body
		return resp, err
	}, func(attempt int, sleep time.Duration, err error) {
		c.log.Warn("HubSpot request retrying",
			"object_type", objectType,
			"object_id", objectID,
			"attempt", attempt,
			"sleep", sleep.String(),
			"error", err.Error(),
		)
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrNotFound, objectType, objectID, err)
		}
		return nil, err
	}

	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("hubspot decode error: %w", err)
	}
	obj.Raw = json.RawMessage(raw)
	return &obj, nil
}

func (c *client) getOnce(ctx context.Context, endpoint string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
