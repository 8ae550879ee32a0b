package headhunter

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// page is one page of a paged list endpoint.
type page struct {
	Items   []any
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

// getItems collects the items of every page of a list endpoint.
func (c *Client) getItems(endpoint string) ([]any, error) {
	var items []any

	for n := 0; ; n++ {
		q := url.Values{}
		if n > 0 {
			q.Set("page", strconv.Itoa(n))
		}

		var p page
		if err := c.getJSON(endpoint, q, &p); err != nil {
			return nil, err
		}
		items = append(items, p.Items...)

		if p.Page >= p.Pages-1 {
			return items, nil
		}
		c.logger.Debug("additional request needed",
			zap.Int("page", p.Page+1),
			zap.Int("pages", p.Pages),
			zap.Int("per_page", p.PerPage),
		)
	}
}

func (c *Client) getJSON(endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Content-Type", contentType)
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gz.Close()
		body = gz
	}

	return json.NewDecoder(body).Decode(target)
}
