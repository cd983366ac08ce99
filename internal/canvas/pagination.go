package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// fetchPage retrieves one page of a collection and returns its records plus
// the follow link for the next page, if any. A single-object body is
// normalised into a one-element page.
func (c *Client) fetchPage(ctx context.Context, target string, query url.Values) ([]json.RawMessage, string, error) {
	body, linkHeader, err := c.do(ctx, "GET", target, query, nil)
	if err != nil {
		return nil, "", err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		trimmed := strings.TrimSpace(string(body))
		if strings.HasPrefix(trimmed, "{") {
			records = []json.RawMessage{json.RawMessage(trimmed)}
		} else {
			return nil, "", fmt.Errorf("decode page for %s: %w", target, err)
		}
	}

	return records, parseNextLink(linkHeader), nil
}

// GetAllPages drives the pagination loop for a collection endpoint,
// concatenating pages in the order Canvas returns them. The first request
// carries the configured per_page size; subsequent requests follow the
// rel="next" link verbatim because it embeds its own page state. A short
// delay separates page fetches to stay clear of Canvas rate limits, and the
// loop aborts once a hard page ceiling is reached so a malformed or
// self-referential follow link can never spin forever.
func (c *Client) GetAllPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("per_page") == "" {
		query.Set("per_page", strconv.Itoa(c.pageSize))
	}

	var all []json.RawMessage
	target := path
	useQuery := query

	for page := 1; ; page++ {
		if page > c.maxPages {
			return nil, fmt.Errorf("pagination for %s exceeded %d pages", path, c.maxPages)
		}

		records, next, err := c.fetchPage(ctx, target, useQuery)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d of %s: %w", page, path, err)
		}
		all = append(all, records...)

		if next == "" {
			break
		}

		target = next
		useQuery = nil

		if c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}
	}

	return all, nil
}

// FetchAllPages decodes every record from a paginated collection into T.
func FetchAllPages[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	raw, err := c.GetAllPages(ctx, path, query)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(raw))
	for _, record := range raw {
		var item T
		if err := json.Unmarshal(record, &item); err != nil {
			return nil, fmt.Errorf("decode record from %s: %w", path, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// parseNextLink extracts the rel="next" URL from a Canvas Link header.
// Header form: <url>; rel="current", <url>; rel="next", ...
func parseNextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")
		for _, attr := range segments[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}
