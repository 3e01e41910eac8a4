package gateway

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/apperror"
	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
)

// ExportFilter narrows a spreadsheet export. Empty fields are not sent.
type ExportFilter struct {
	Type  string
	Value string
}

func (f ExportFilter) query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Value != "" {
		q.Set("value", f.Value)
	}
	return q
}

// Download describes a finished export.
type Download struct {
	Filename    string
	Bytes       int64
	ContentType string
}

// Export streams the spreadsheet of kind into w. Filename is the one the
// server suggested, or "<kind>.xlsx". Exports are never retried.
func (c *Client) Export(ctx context.Context, kind domain.Kind, filter ExportFilter, w io.Writer) (Download, error) {
	req := Request{Kind: kind, Action: domain.DownloadExcel, Query: filter.query()}
	start := time.Now()

	resp, err := c.send(ctx, req)
	if err != nil {
		c.observe(req, "transport", start, 0, err)
		metrics.ObserveExport(kind.String(), "error")
		return Download{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		c.breaker.RecordSuccess()
		c.observe(req, "remote", start, resp.StatusCode, nil)
		metrics.ObserveExport(kind.String(), "error")
		return Download{}, apperror.Remote(resp.StatusCode, extractMessage(body))
	}

	body := &trackedReader{r: resp.Body}
	n, err := io.Copy(w, body)
	if err != nil {
		metrics.ObserveExport(kind.String(), "error")
		if body.err == nil {
			// The destination failed; the server did its part.
			c.breaker.RecordSuccess()
			c.observe(req, "ok", start, resp.StatusCode, nil)
			return Download{}, fmt.Errorf("write export: %w", err)
		}
		c.breaker.RecordFailure()
		c.observe(req, "transport", start, resp.StatusCode, err)
		return Download{}, apperror.Transport(fmt.Errorf("read export: %w", err))
	}
	c.breaker.RecordSuccess()
	c.observe(req, "ok", start, resp.StatusCode, nil)
	metrics.ObserveExport(kind.String(), "ok")

	return Download{
		Filename:    filenameFrom(resp.Header.Get("Content-Disposition"), kind.String()+".xlsx"),
		Bytes:       n,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// trackedReader remembers the first read error other than io.EOF, so a
// broken stream can be told apart from a failing destination.
type trackedReader struct {
	r   io.Reader
	err error
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// filenameFrom extracts a safe base name from a Content-Disposition header.
func filenameFrom(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}
	name := strings.TrimSpace(params["filename"])
	if name == "" {
		return fallback
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return fallback
	}
	return name
}
