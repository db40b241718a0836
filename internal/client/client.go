// Package client talks to the school API the way the web form does: it
// validates locally with the shared rules, then posts or fetches over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"schoolapi/internal/config"
	"schoolapi/internal/model"
	"schoolapi/internal/validation"
)

// Image is a file selected for upload.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// AddResult is the decoded success body of POST /addschool.
type AddResult struct {
	Message string        `json:"message"`
	School  *model.School `json:"data"`
}

type listBody struct {
	Schools []model.School `json:"schools"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client is a thin HTTP client for the school API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a Client from cfg. Requests are traced with otelhttp and bounded by cfg.Timeout.
func New(cfg *config.ClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// fieldOrder is the order fields are written into the multipart payload.
var fieldOrder = []string{"name", "address", "city", "state", "contact", "email_id"}

// AddSchool posts one school. Field values are trimmed; img is written last.
func (c *Client) AddSchool(ctx context.Context, in validation.SchoolInput, img Image) (*AddResult, error) {
	body, contentType, err := encodeSchool(validation.Normalize(in), img)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/addschool", body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var out AddResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.School != nil {
		out.School.Image = c.ResolveURL(out.School.Image)
	}
	return &out, nil
}

// ListSchools fetches every school record.
func (c *Client) ListSchools(ctx context.Context) ([]model.School, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/showschool", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var out listBody
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Schools == nil {
		out.Schools = []model.School{}
	}
	for i := range out.Schools {
		out.Schools[i].Image = c.ResolveURL(out.Schools[i].Image)
	}
	return out.Schools, nil
}

// ResolveURL turns a root-relative image path such as /uploads/x.png into an
// absolute URL on the API host. Absolute URLs are returned unchanged.
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ref
	}
	base, err := url.Parse(c.baseURL)
	if err != nil || base.Host == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// SendContact posts a contact message and returns the server confirmation.
func (c *Client) SendContact(ctx context.Context, name, email, message string) (string, error) {
	if err := validation.ValidateContactMessage(name, email, message).Err(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{
		"name":    strings.TrimSpace(name),
		"email":   strings.TrimSpace(email),
		"message": strings.TrimSpace(message),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contact", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeSchool(in validation.SchoolInput, img Image) (*bytes.Buffer, string, error) {
	values := map[string]string{
		"name":     in.Name,
		"address":  in.Address,
		"city":     in.City,
		"state":    in.State,
		"contact":  in.Contact,
		"email_id": in.EmailID,
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, k := range fieldOrder {
		if err := w.WriteField(k, values[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(img.Name)))
	h.Set("Content-Type", img.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
