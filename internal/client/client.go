// Package client uploads images to a running uimage server.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"uimage/internal/server"
	"uimage/internal/ui"
)

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.Code, e.Body)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Progress, if set, receives a progress bar while uploading.
	Progress io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

// Upload sends the file at path as the "file" part of a form and returns
// the names the server stored it under.
func (c *Client) Upload(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	body, ctype, err := encodeForm(filepath.Base(path), ContentTypeFor(path, data), data)
	if err != nil {
		return nil, errors.Wrap(err, "encoding form")
	}

	total := int64(body.Len())
	var r io.Reader = body
	if c.Progress != nil {
		r = ui.NewProgressReader("Uploading", total, body, c.Progress)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/upload", r)
	if err != nil {
		return nil, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", ctype)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "posting upload")
	}
	defer resp.Body.Close()

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(msg)}
	}
	return resp.Header.Values(server.ImageNameHeader), nil
}

// ViewURL is the wrapped-view page of a stored image.
func (c *Client) ViewURL(name string) string {
	return c.BaseURL + "/v1/image/" + name
}

// RawURL is the image itself.
func (c *Client) RawURL(name string) string {
	return c.BaseURL + "/v1/image/raw/" + name
}

// ContentTypeFor guesses the content type from the file extension and
// falls back to sniffing the content.
func ContentTypeFor(path string, content []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(content)
}

func encodeForm(filename, contentType string, data []byte) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	pw, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := pw.Write(data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}
