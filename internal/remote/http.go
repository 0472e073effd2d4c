package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roster-sync/internal/domain"
	"roster-sync/internal/httpx"
)

const (
	contentTypeJSON = "application/json"
	acceptJSON      = contentTypeJSON

	employeePath = "/Employee"
)

// HTTPCollection talks to a REST collection rooted at BaseURL + /Employee.
type HTTPCollection struct {
	BaseURL string
	HTTP    *http.Client
}

// createRequest is the POST body; the server assigns the id.
type createRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	IsActive int    `json:"isActive"`
}

func NewHTTPCollection(baseURL string, timeout time.Duration) *HTTPCollection {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tr := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPCollection{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

func (c *HTTPCollection) collectionURL() string {
	return c.BaseURL + employeePath
}

func (c *HTTPCollection) recordURL(id int) string {
	return c.collectionURL() + "/" + strconv.Itoa(id)
}

func (c *HTTPCollection) List(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	err := httpx.DoJSON(ctx, c.HTTP, c.builder(http.MethodGet, c.collectionURL(), nil), &out)
	if err != nil {
		return nil, fmt.Errorf("remote: list employees failed: %w", err)
	}
	if out == nil {
		out = []domain.Employee{}
	}
	return out, nil
}

func (c *HTTPCollection) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	b, err := json.Marshal(createRequest{Name: e.Name, Age: e.Age, IsActive: e.IsActive})
	if err != nil {
		return domain.Employee{}, err
	}

	var created domain.Employee
	decoded, err := c.write(ctx, http.MethodPost, c.collectionURL(), b, &created)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("remote: create employee failed: %w", err)
	}
	if !decoded {
		// acknowledged without a record; the id is unknown until the next list
		created = e
		created.ID = 0
	}
	return created, nil
}

func (c *HTTPCollection) Update(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if e.ID == 0 {
		return domain.Employee{}, errors.New("remote: update requires an id")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return domain.Employee{}, err
	}

	var updated domain.Employee
	decoded, err := c.write(ctx, http.MethodPut, c.recordURL(e.ID), b, &updated)
	if err != nil {
		return domain.Employee{}, c.wrap("update", e.ID, err)
	}
	if !decoded || updated.ID == 0 {
		updated = e
	}
	return updated, nil
}

func (c *HTTPCollection) Delete(ctx context.Context, id int) error {
	_, _, err := httpx.Do(ctx, c.HTTP, c.builder(http.MethodDelete, c.recordURL(id), nil))
	if err != nil {
		return c.wrap("delete", id, err)
	}
	return nil
}

// write sends a mutation. Any 2xx acknowledges it; the body is decoded into
// out only when it is labelled JSON (or unlabelled and parses). decoded
// reports whether out was filled.
func (c *HTTPCollection) write(ctx context.Context, method, url string, body []byte, out any) (decoded bool, err error) {
	resp, respBody, err := httpx.Do(ctx, c.HTTP, c.builder(method, url, body))
	if err != nil {
		return false, err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return false, nil
	}

	ct := resp.Header.Get("Content-Type")
	switch {
	case ct == "":
		return json.Unmarshal(respBody, out) == nil, nil
	case isJSON(ct):
		if err := json.Unmarshal(respBody, out); err != nil {
			return false, fmt.Errorf("json parse error: %w", err)
		}
		return true, nil
	default:
		return false, nil
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == contentTypeJSON || strings.HasSuffix(mt, "+json")
}

// wrap maps a 404 on a record URL to ErrNotFound while keeping the HTTP error
// reachable through errors.As.
func (c *HTTPCollection) wrap(op string, id int, err error) error {
	var herr *httpx.HTTPError
	if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("remote: %s employee %d failed: %w: %w", op, id, ErrNotFound, err)
	}
	return fmt.Errorf("remote: %s employee %d failed: %w", op, id, err)
}

func (c *HTTPCollection) builder(method, url string, body []byte) func(context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		var r *http.Request
		var err error
		if body != nil {
			r, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		} else {
			r, err = http.NewRequestWithContext(ctx, method, url, nil)
		}
		if err != nil {
			return nil, err
		}
		if body != nil {
			r.Header.Set("Content-Type", contentTypeJSON)
		}
		r.Header.Set("Accept", acceptJSON)
		return r, nil
	}
}
