// Package webman reads live temperature data from a console running the
// webMAN MOD web interface.
package webman

import (
	"context"
	"io"
	"net/http"
	"strings"

	"codeberg.org/mutker/ps3temp/internal/errors"
	"codeberg.org/mutker/ps3temp/internal/extract"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	// StatusPath is the page that carries the CPU/RSX/FAN summary link.
	StatusPath = "/cpursx.ps3?/sman.ps3"

	statusSelector = `a.s[href="/cpursx.ps3?up"]`

	FieldCPU = "cpu"
	FieldRSX = "rsx"
	FieldFan = "fan"
)

// webMAN separates labels and values with either spaces or &nbsp;.
var statusExtractor = extract.New(
	extract.MustPattern(FieldCPU, `CPU:[\s\x{a0}]*(\d+)°C`),
	extract.MustPattern(FieldRSX, `RSX:[\s\x{a0}]*(\d+)°C`),
	extract.MustPattern(FieldFan, `FAN:[\s\x{a0}]*(\d+)%`),
)

// Reading is one parsed status line.
type Reading struct {
	CPU int
	RSX int
	Fan int
}

type Client struct {
	addr string
	hc   *http.Client
}

// NewClient returns a client for the console at addr (host or host:port).
// A nil hc uses http.DefaultClient.
func NewClient(addr string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{addr: addr, hc: hc}
}

// URL returns the status page URL.
func (c *Client) URL() string {
	return "http://" + c.addr + StatusPath
}

// Read fetches the status page and parses the current reading.
func (c *Client) Read(ctx context.Context) (Reading, error) {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), http.NoBody)
	if err != nil {
		return Reading{}, errFactory.Wrap(ErrRequestFailed, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return Reading{}, errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reading{}, errFactory.WithData(ErrUnexpectedStatus, resp.Status)
	}

	// webMAN pages are not always UTF-8; decode per the declared charset
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return Reading{}, errFactory.Wrap(ErrInvalidHTML, err)
	}

	text, err := StatusText(body)
	if err != nil {
		return Reading{}, err
	}

	return ParseStatus(text)
}

// StatusText returns the text of the status link in an HTML document.
func StatusText(r io.Reader) (string, error) {
	errFactory := errors.New()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", errFactory.Wrap(ErrInvalidHTML, err)
	}

	sel := doc.Find(statusSelector).First()
	if sel.Length() == 0 {
		return "", errFactory.WithData(ErrStatusElementNotFound, statusSelector)
	}

	return strings.TrimSpace(sel.Text()), nil
}

// ParseStatus extracts the CPU, RSX and FAN values from the status text.
func ParseStatus(text string) (Reading, error) {
	errFactory := errors.New()

	fields, err := statusExtractor.Extract(text)
	if err != nil {
		return Reading{}, errFactory.Wrap(ErrStatusExtractionFailed, err)
	}

	return Reading{
		CPU: fields[FieldCPU],
		RSX: fields[FieldRSX],
		Fan: fields[FieldFan],
	}, nil
}
