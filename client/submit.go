package harmonyclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"

	"github.com/earthdata-go/harmony/request"
)

const coveragesVersion = "1.0.0"

// Submit validates a request and submits it as an asynchronous job.
// Invalid requests fail locally with an InvalidRequestError carrying
// every validation message. Requests with a shape file are sent as a
// multipart POST; everything else is a GET.
func (c *Client) Submit(ctx context.Context, req *request.Request, opts ...RequestOption) (*Job, error) {
	if req == nil {
		return nil, fmt.Errorf("harmonyclient: request is required")
	}
	if msgs := req.Validate(); len(msgs) > 0 {
		return nil, &InvalidRequestError{Messages: msgs}
	}

	endpoint := fmt.Sprintf("/%s/ogc-api-coverages/%s/collections/%s/coverage/rangeset",
		url.PathEscape(req.Collection), coveragesVersion, req.VariablePath())

	var job Job
	if req.ShapeFile == "" {
		if err := c.doJSON(ctx, http.MethodGet, endpoint, req.QueryValues(), nil, &job, opts); err != nil {
			return nil, err
		}
		return &job, nil
	}

	if err := c.submitMultipart(ctx, endpoint, req, &job, opts); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) submitMultipart(ctx context.Context, endpoint string, req *request.Request, out *Job, opts []RequestOption) error {
	shapeType, err := req.ShapeContentType()
	if err != nil {
		return err
	}
	shape, err := os.Open(req.ShapeFile)
	if err != nil {
		return fmt.Errorf("harmonyclient: opening shape file: %w", err)
	}
	defer shape.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, values := range req.QueryValues() {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return err
			}
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="shapefile"; filename=%q`, filepath.Base(req.ShapeFile)))
	header.Set("Content-Type", shapeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, shape); err != nil {
		return fmt.Errorf("harmonyclient: reading shape file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	urlStr, err := c.buildURL(endpoint, nil)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, body)
	if err != nil {
		return err
	}
	for key, values := range c.defaultHeaders {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(httpReq); err != nil {
			return err
		}
	}

	resp, err := c.do(ctx, httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp.Body, out)
}
