package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/scuttlebutt/internal/common"
	"github.com/dmitrijs2005/scuttlebutt/internal/server/models"
)

// HTTPClient is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends the request and decodes a JSON reply into out when out is not
// nil. It returns the raw body for plain-text replies.
func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, body string, auth bool, out any) (string, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, strings.NewReader(body))
	if err != nil {
		return "", err
	}
	if body != "" {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	if auth {
		token := c.accessToken()
		if token == "" {
			return "", ErrNotLoggedIn
		}
		req.Header.Set(common.AccessTokenHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := statusError(resp.StatusCode); err != nil {
		return "", err
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return "", fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return string(raw), nil
}

// statusError maps a response status onto the common error kinds.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest:
		return common.ErrorBadRequest
	case code == http.StatusNotFound:
		return common.ErrorNotFound
	case code == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	default:
		return fmt.Errorf("%w: status %d", common.ErrorInternal, code)
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, "", false, nil)
	return err
}

func (c *HTTPClient) Signup(ctx context.Context, name, email, hash string) (*models.User, error) {
	u := &models.User{}
	q := url.Values{"name": {name}, "email": {email}}
	if _, err := c.do(ctx, http.MethodPost, "/api/user", q, hash, false, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login exchanges the hash for a token and keeps it for later calls.
func (c *HTTPClient) Login(ctx context.Context, id int64, hash string) error {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	token, err := c.do(ctx, http.MethodPost, "/api/login", q, hash, false, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
	return nil
}

func (c *HTTPClient) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *HTTPClient) User(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if _, err := c.do(ctx, http.MethodGet, "/api/user", q, "", false, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if _, err := c.do(ctx, http.MethodGet, "/api/user/groups", nil, "", true, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *HTTPClient) DMs(ctx context.Context) ([]models.Group, error) {
	var dms []models.Group
	if _, err := c.do(ctx, http.MethodGet, "/api/user/dms", nil, "", true, &dms); err != nil {
		return nil, err
	}
	return dms, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	g := &models.Group{}
	if _, err := c.do(ctx, http.MethodPost, "/api/group", url.Values{"name": {name}}, "", true, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (c *HTTPClient) CreateDM(ctx context.Context, uid int64) (*models.Group, error) {
	g := &models.Group{}
	q := url.Values{"uid": {strconv.FormatInt(uid, 10)}}
	if _, err := c.do(ctx, http.MethodPost, "/api/dm", q, "", true, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (c *HTTPClient) LeaveGroup(ctx context.Context, gid int64) error {
	q := url.Values{"gid": {strconv.FormatInt(gid, 10)}}
	_, err := c.do(ctx, http.MethodDelete, "/api/user/groups", q, "", true, nil)
	return err
}

func (c *HTTPClient) LeaveDM(ctx context.Context, gid int64) error {
	q := url.Values{"gid": {strconv.FormatInt(gid, 10)}}
	_, err := c.do(ctx, http.MethodDelete, "/api/user/dms", q, "", true, nil)
	return err
}
