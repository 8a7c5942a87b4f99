package mixcloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/jaki95/mixcloud/internal/domain"
	"github.com/jaki95/mixcloud/internal/form"
	"github.com/jaki95/mixcloud/internal/tracklist"
)

const maxUploadResponseSize = 1 << 20

// UploadResult is the raw answer to an upload.
type UploadResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Upload publishes cc with the given audio and an optional picture. Both
// streams are read once, while the request is sent; closing them is up to the
// caller. A part is named after its stream when the stream has a Name method,
// as *os.File does.
//
// A response with status 400 or above is returned together with an *APIError.
func (c *Client) Upload(ctx context.Context, cc *domain.Cloudcast, audio, picture io.Reader) (*UploadResult, error) {
	if !c.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if cc == nil {
		return nil, errNilCloudcast
	}
	if audio == nil {
		return nil, errNoAudio
	}
	u, err := c.endpoint("upload")
	if err != nil {
		return nil, err
	}

	fields := form.Encode(cc)
	body, pipe := io.Pipe()
	writer := multipart.NewWriter(pipe)
	go func() {
		pipe.CloseWithError(writeUploadForm(writer, fields, audio, picture))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, u, body)
	if err != nil {
		body.CloseWithError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	slog.Info("Uploading cloudcast", "name", cc.Name(), "sections", len(cc.Sections()), "tags", len(cc.Tags()))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q: %w", cc.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}
	result := &UploadResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return result, newAPIError(req, resp.StatusCode, respBody)
	}

	slog.Info("Uploaded cloudcast", "name", cc.Name(), "status", resp.StatusCode)
	return result, nil
}

// UploadYAML uploads the mix described by the YAML document in r.
func (c *Client) UploadYAML(ctx context.Context, r io.Reader, audio, picture io.Reader) (*UploadResult, error) {
	cc, err := tracklist.LoadMix(r)
	if err != nil {
		return nil, err
	}
	return c.Upload(ctx, cc, audio, picture)
}

// writeUploadForm writes the cloudcast fields, then the audio and picture
// parts.
func writeUploadForm(w *multipart.Writer, fields form.Fields, audio, picture io.Reader) error {
	for _, key := range fields.Keys() {
		if err := w.WriteField(key, fields[key]); err != nil {
			return err
		}
	}
	if err := writeFilePart(w, form.FieldAudio, audio); err != nil {
		return err
	}
	if picture != nil {
		if err := writeFilePart(w, form.FieldPicture, picture); err != nil {
			return err
		}
	}
	return w.Close()
}

func writeFilePart(w *multipart.Writer, field string, r io.Reader) error {
	filename := field
	if named, ok := r.(interface{ Name() string }); ok && named.Name() != "" {
		filename = filepath.Base(named.Name())
	}

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read %s: %w", field, err)
	}
	return nil
}
