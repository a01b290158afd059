package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Multipart is a form-data body. Its content type is always the writer's
// boundary type.
type Multipart struct {
	buf    bytes.Buffer
	w      *multipart.Writer
	closed bool
}

// NewMultipart returns an empty multipart body.
func NewMultipart() *Multipart {
	m := &Multipart{}
	m.w = multipart.NewWriter(&m.buf)
	return m
}

// AddField adds a plain form field.
func (m *Multipart) AddField(name, value string) error {
	if m.closed {
		return fmt.Errorf("multipart body already closed")
	}
	return m.w.WriteField(name, value)
}

// AddFile adds a file part with the given content type. An empty content
// type defaults to application/octet-stream.
func (m *Multipart) AddFile(field, filename, contentType string, r io.Reader) error {
	if m.closed {
		return fmt.Errorf("multipart body already closed")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := m.w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}
	return nil
}

// ContentType returns the multipart/form-data content type with boundary.
func (m *Multipart) ContentType() string {
	return m.w.FormDataContentType()
}

// Close writes the trailing boundary. Safe to call more than once.
func (m *Multipart) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.w.Close()
}

// Len returns the encoded size so far.
func (m *Multipart) Len() int {
	return m.buf.Len()
}

// encodeBody turns a call body into a reader plus the content type it
// implies. An empty content type means "use the default".
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		if err := b.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
		}
		return bytes.NewReader(b.buf.Bytes()), b.ContentType(), nil
	case url.Values:
		return bytes.NewReader([]byte(b.Encode())), contentTypeForm, nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(data), "", nil
	}
}
