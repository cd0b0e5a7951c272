// Package remote implements the repository-hosting service client: paginated
// fetch, creation, update and deletion of records by entity kind against the
// GitHub REST v3 API. Rate-limit waits happen here; callers treat returned
// errors as final.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

const (
	perPage      = 100
	userAgent    = "baldrick-gitvault"
	maxRateWaits = 2
	maxRateSleep = 5 * time.Minute
	acceptHeader = "application/vnd.github+json"
)

// Client talks to one repository on the remote service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	token      string
}

// NewClient builds a client from configuration and a resolved API token.
func NewClient(cfg config.RemoteConfig, token string) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = config.DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(base, "/"),
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		token:      token,
	}
}

func (c *Client) repoURL(rel string) string {
	return fmt.Sprintf("%s/repos/%s/%s/%s", c.baseURL, c.owner, c.repo, rel)
}

// List fetches every record of the kind, following pagination.
func (c *Client) List(ctx context.Context, kind string) ([]model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	if spec.listPath == "" {
		return nil, fmt.Errorf("remote: kind %q is only listable under a parent", kind)
	}
	return c.listPages(ctx, spec, c.repoURL(spec.listPath))
}

// ListForParent fetches records of a nested kind scoped to one parent number
// (reviews of one pull request, assets of one release).
func (c *Client) ListForParent(ctx context.Context, kind string, parent int64) ([]model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	if spec.nestedPath == "" {
		return nil, fmt.Errorf("remote: kind %q is not parent-scoped", kind)
	}
	recs, err := c.listPages(ctx, spec, c.repoURL(fmt.Sprintf(spec.nestedPath, parent)))
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].Parent = parent
	}
	return recs, nil
}

func (c *Client) listPages(ctx context.Context, spec kindSpec, first string) ([]model.Record, error) {
	u, err := url.Parse(first)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, vs := range spec.listParams {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	q.Set("per_page", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()

	var out []model.Record
	next := u.String()
	for next != "" {
		var items []json.RawMessage
		var links string
		links, err = c.doJSON(ctx, http.MethodGet, next, nil, &items)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			rec, keep, err := extract(spec, item)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, rec)
			}
		}
		next = nextLink(links)
	}
	return out, nil
}

// Create posts a new record of the kind. For nested-creation kinds, parent is
// the parent record's number (issue number for comments, release ID filling
// the path for assets); pass 0 for top-level kinds.
func (c *Client) Create(ctx context.Context, kind string, parent int64, rec model.Record) (model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return model.Record{}, err
	}
	path := spec.listPath
	if spec.createPath != "" {
		path = fmt.Sprintf(spec.createPath, parent)
	}
	if path == "" {
		return model.Record{}, fmt.Errorf("remote: kind %q does not support creation", kind)
	}
	var created json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodPost, c.repoURL(path), rec.Data, &created); err != nil {
		return model.Record{}, err
	}
	out, _, err := extract(spec, created)
	return out, err
}

// Update patches the existing record addressed by rec (by natural key, number
// or ID depending on the kind) with rec's payload.
func (c *Client) Update(ctx context.Context, kind string, rec model.Record) (model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return model.Record{}, err
	}
	path, err := itemPath(spec, kind, rec)
	if err != nil {
		return model.Record{}, err
	}
	var updated json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodPatch, c.repoURL(path), rec.Data, &updated); err != nil {
		return model.Record{}, err
	}
	out, _, err := extract(spec, updated)
	return out, err
}

// Delete removes the existing record addressed by rec.
func (c *Client) Delete(ctx context.Context, kind string, rec model.Record) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	path, err := itemPath(spec, kind, rec)
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodDelete, c.repoURL(path), nil, nil)
	return err
}

func itemPath(spec kindSpec, kind string, rec model.Record) (string, error) {
	switch spec.itemBy {
	case addrKey:
		return fmt.Sprintf(spec.itemPath, url.PathEscape(rec.Key)), nil
	case addrNumber:
		return fmt.Sprintf(spec.itemPath, rec.Number), nil
	case addrID:
		return fmt.Sprintf(spec.itemPath, rec.ID), nil
	}
	return "", fmt.Errorf("remote: kind %q does not support update/delete", kind)
}

// doJSON performs one request, waiting out rate-limit pauses, and decodes the
// response body into out when non-nil. It returns the Link header for
// pagination. Errors returned from here have already been retried.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body json.RawMessage, out any) (string, error) {
	for attempt := 0; ; attempt++ {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
		if err != nil {
			return "", err
		}
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("User-Agent", userAgent)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("%s %s: %w", method, rawURL, err)
		}
		if wait, limited := rateLimited(resp); limited && attempt < maxRateWaits {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if err := sleepCtx(ctx, wait); err != nil {
				return "", err
			}
			continue
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return "", fmt.Errorf("%s %s: status=%d body=%s", method, rawURL, resp.StatusCode, strings.TrimSpace(string(b)))
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return "", fmt.Errorf("%s %s: decode: %w", method, rawURL, err)
			}
		} else {
			io.Copy(io.Discard, resp.Body)
		}
		return resp.Header.Get("Link"), nil
	}
}

// rateLimited reports whether the response is a rate-limit rejection and how
// long to wait before retrying.
func rateLimited(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return 0, false
	}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			return capSleep(time.Duration(secs) * time.Second), true
		}
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		reset := resp.Header.Get("X-RateLimit-Reset")
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			return capSleep(time.Until(time.Unix(epoch, 0)) + time.Second), true
		}
		return time.Minute, true
	}
	return 0, false
}

func capSleep(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	if d > maxRateSleep {
		return maxRateSleep
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// nextLink extracts the rel="next" URL from a Link header, or "".
func nextLink(link string) string {
	for _, part := range strings.Split(link, ",") {
		seg := strings.Split(part, ";")
		if len(seg) < 2 {
			continue
		}
		urlPart := strings.Trim(strings.TrimSpace(seg[0]), "<>")
		for _, attr := range seg[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				return urlPart
			}
		}
	}
	return ""
}

// extract builds a model.Record from one payload item. keep is false when the
// item should be filtered from the listing (a pull request in the issues
// collection).
func extract(spec kindSpec, item json.RawMessage) (model.Record, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return model.Record{}, false, fmt.Errorf("remote: parse record: %w", err)
	}
	if spec.dropPullRequests {
		if _, isPR := fields["pull_request"]; isPR {
			return model.Record{}, false, nil
		}
	}
	rec := model.Record{Data: item}
	if raw, ok := fields["id"]; ok {
		_ = json.Unmarshal(raw, &rec.ID)
	}
	if spec.numberField != "" {
		if raw, ok := fields[spec.numberField]; ok {
			_ = json.Unmarshal(raw, &rec.Number)
		}
	}
	if spec.keyField != "" {
		if raw, ok := fields[spec.keyField]; ok {
			_ = json.Unmarshal(raw, &rec.Key)
		}
	}
	return rec, true, nil
}
