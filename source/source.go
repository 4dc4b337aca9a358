// Package source resolves document source strings into document bytes.
//
// A source is one of:
//
//   - an inline payload: "data:application/pdf;base64,JVBERi0xLjcK..."
//   - a remote URL: "https://example.com/report.pdf"
//   - a local file: "file:///tmp/report.pdf" or a plain path
//
// The kind is decided by prefix sniffing only. A string that starts like a
// data URL but lacks the ";base64," marker is not inline; it is handled as a
// URL and fails when fetched.
package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Kind classifies a source string.
type Kind int

const (
	// Local is a file path or file:// URL.
	Local Kind = iota
	// Remote is an http:// or https:// URL.
	Remote
	// Inline is a base64 data URL.
	Inline
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Remote:
		return "remote"
	case Inline:
		return "inline"
	default:
		return "local"
	}
}

// PDFDataURLPrefix is the prefix produced by EncodeDataURL for PDF payloads.
const PDFDataURLPrefix = "data:application/pdf;base64,"

// MaxInlineBytes is the largest payload EncodeDataURL accepts (50 MiB).
// Decoding enforces no limit.
const MaxInlineBytes = 50 << 20

// ErrTooLarge is returned by EncodeDataURL for payloads over the limit.
var ErrTooLarge = errors.New("payload exceeds inline size limit")

// ErrUnsupportedScheme is returned for URLs that cannot be fetched.
var ErrUnsupportedScheme = errors.New("unsupported source scheme")

// Sniff classifies src by its prefix.
func Sniff(src string) Kind {
	if _, _, ok := splitDataURL(src); ok {
		return Inline
	}
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Remote
	}
	return Local
}

// splitDataURL returns the media type and encoded payload of a base64 data
// URL.
func splitDataURL(src string) (mediaType, payload string, ok bool) {
	if len(src) < 5 || !strings.EqualFold(src[:5], "data:") {
		return "", "", false
	}
	rest := src[5:]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", "", false
	}
	meta := rest[:comma]
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return "", "", false
	}
	return meta[:len(meta)-len(";base64")], rest[comma+1:], true
}

// DecodeDataURL decodes a base64 data URL.
func DecodeDataURL(src string) ([]byte, error) {
	_, payload, ok := splitDataURL(src)
	if !ok {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders drop the padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return data, nil
}

// EncodeDataURL turns data into a base64 data URL with the given media type,
// rejecting payloads larger than max bytes. A max of zero means MaxInlineBytes.
func EncodeDataURL(data []byte, mediaType string, max int64) (string, error) {
	if max <= 0 {
		max = MaxInlineBytes
	}
	if int64(len(data)) > max {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), max)
	}
	if mediaType == "" {
		mediaType = "application/pdf"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Fetcher retrieves source bytes.
type Fetcher struct {
	// Client is used for remote sources. Nil means a client with Timeout.
	Client *http.Client
	// Timeout applies to remote fetches when Client is nil.
	Timeout time.Duration
}

// NewFetcher returns a fetcher with the given remote timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Timeout: timeout}
}

// Fetch returns the bytes named by src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch Sniff(src) {
	case Inline:
		return DecodeDataURL(src)
	case Remote:
		return f.fetchRemote(ctx, src)
	default:
		return readLocal(src)
	}
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: f.Timeout}
}

func (f *Fetcher) fetchRemote(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf, */*")

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", src, resp.Status)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return buf.Bytes(), nil
}

func readLocal(src string) ([]byte, error) {
	path, err := localPath(src)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// localPath maps a non-remote source to a filesystem path. Single-letter
// schemes are drive letters, not URL schemes.
func localPath(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		return src, nil
	}
	if strings.EqualFold(u.Scheme, "file") {
		if u.Path == "" {
			return "", fmt.Errorf("empty file URL %q", src)
		}
		return u.Path, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedScheme, u.Scheme)
}
