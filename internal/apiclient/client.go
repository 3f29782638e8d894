// Package apiclient talks JSON to the PixelSınav REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

const maxBody = 4 << 20

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport defaults to an otelhttp-instrumented http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

type Client struct {
	base string
	ua   string
	http *http.Client
	log  *slog.Logger
}

func New(cfg Config) *Client {
	rt := cfg.Transport
	if rt == nil {
		rt = otelhttp.NewTransport(http.DefaultTransport)
	}
	h := &http.Client{Transport: rt}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "pixelsinav-cli"
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), ua: ua, http: h, log: log}
}

// Do implements form.Transport. Non-2xx replies are returned as responses, not errors.
func (c *Client) Do(ctx context.Context, r form.Request) (form.Response, error) {
	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return form.Response{}, fmt.Errorf("encode %s %s: %w", r.Method, r.Path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, c.base+r.Path, body)
	if err != nil {
		return form.Response{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, r.Token)
}

func (c *Client) send(req *http.Request, token string) (form.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return form.Response{}, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return form.Response{}, fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}
	c.log.Debug("api call", "method", req.Method, "path", req.URL.Path, "status", res.StatusCode, "elapsed", time.Since(start))
	return decode(res.StatusCode, raw), nil
}

// decode reads the {success, message, data} envelope. An envelope without data carries no
// entity; bare bodies without a success marker are returned whole as Data. Non-JSON bodies
// become the message.
func decode(status int, raw []byte) form.Response {
	out := form.Response{Status: status}
	trimmed := bytes.TrimSpace(raw)
	var env map[string]json.RawMessage
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &env) != nil {
		if status/100 != 2 {
			out.Message = string(trimmed)
		}
		return out
	}
	v, envelope := env["success"]
	if envelope {
		b := truthy(v)
		out.Success = &b
	}
	for _, k := range []string{"message", "error"} {
		var s string
		if json.Unmarshal(env[k], &s) == nil && s != "" {
			out.Message = s
			break
		}
	}
	if d, ok := env["data"]; ok {
		out.Data = d
	} else if !envelope {
		out.Data = json.RawMessage(trimmed)
	}
	return out
}

func truthy(v json.RawMessage) bool {
	switch strings.TrimSpace(string(v)) {
	case "true", `"true"`, "1":
		return true
	}
	return false
}

// Fetch performs r and returns the entity it yields. Failures carry a *form.Error.
func (c *Client) Fetch(ctx context.Context, r form.Request) (*form.Draft, error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return nil, &form.Error{Kind: form.KindTransport, Message: "request failed", Err: err}
	}
	if !resp.OK() {
		kind := form.KindServer
		if resp.Status == http.StatusUnauthorized {
			kind = form.KindAuth
		}
		return nil, &form.Error{Kind: kind, Message: resp.Message, Status: resp.Status, Err: errors.New(http.StatusText(resp.Status))}
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("fetch %s: reply carries no entity", r.Path)
	}
	d, err := form.DraftFromJSON(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Path, err)
	}
	return d, nil
}

// Upload posts one file as multipart field "file" and returns its reference.
func (c *Client) Upload(ctx context.Context, path, token, filename string, content io.Reader) (form.FileRef, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return form.FileRef{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return form.FileRef{}, err
	}
	if err := mw.Close(); err != nil {
		return form.FileRef{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return form.FileRef{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.send(req, token)
	if err != nil {
		return form.FileRef{}, err
	}
	if !resp.OK() {
		return form.FileRef{}, &form.Error{Kind: form.KindServer, Message: resp.Message, Status: resp.Status, Err: errors.New("upload rejected")}
	}
	var ref form.FileRef
	if err := json.Unmarshal(resp.Data, &ref); err != nil {
		return form.FileRef{}, fmt.Errorf("decode upload reply: %w", err)
	}
	if ref.Key == "" {
		return form.FileRef{}, errors.New("upload reply has no key")
	}
	return ref, nil
}
