package upload

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Uploader sends one file and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// FormField is the multipart field carrying the file.
const FormField = "file"

// Path is appended to the base URL.
const Path = "/upload_image"

// Client posts files to an image endpoint. It never retries and applies no
// timeout of its own; cancel ctx to give up.
type Client struct {
	baseURL string
	http    *resty.Client
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces time.Now for the cache-busting timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = resty.New().
		SetRetryCount(0).
		SetTimeout(0)
	return c
}

type uploadReply map[string]any

// Upload posts f as the single multipart field "file" and returns the URL
// from the reply, decorated with the same t=<epoch ms> used on the request.
// A reply without a usable url yields a *ServerError. The HTTP status code
// is not consulted.
func (c *Client) Upload(ctx context.Context, f File) (string, error) {
	if c.baseURL == "" {
		return "", ErrNoBaseURL
	}
	body, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer body.Close()

	ts := strconv.FormatInt(c.now().UnixMilli(), 10)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("t", ts).
		SetHeader("Cache-Control", "no-cache, no-store, must-revalidate").
		SetHeader("Pragma", "no-cache").
		SetHeader("Expires", "0").
		SetMultipartField(FormField, f.Name, f.ContentType, body).
		Post(c.baseURL + Path)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", Path, err)
	}

	var reply uploadReply
	if err := json.Unmarshal(resp.Body(), &reply); err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	if reply == nil {
		return "", fmt.Errorf("decode reply: not a JSON object")
	}
	if u, ok := reply["url"].(string); ok && u != "" {
		return CacheBust(u, ts), nil
	}
	return "", &ServerError{Message: reply.errorMessage()}
}

func (r uploadReply) errorMessage() string {
	switch v := r["error"].(type) {
	case nil:
		return UnknownErrorMessage
	case string:
		if v == "" {
			return UnknownErrorMessage
		}
		return v
	case bool:
		if !v {
			return UnknownErrorMessage
		}
		return "true"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// CacheBust appends t=<ts> to rawURL, keeping any fragment last.
func CacheBust(rawURL, ts string) string {
	base, frag, hasFrag := strings.Cut(rawURL, "#")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	out := base + sep + "t=" + ts
	if hasFrag {
		out += "#" + frag
	}
	return out
}
