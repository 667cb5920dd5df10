package crmsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

const (
	productImageUploadPath = "/api/upload/product-image"
	signatureUploadPath    = "/api/upload/signature"

	uploadField = "image"
)

// UploadProductImage uploads a product image and returns the server-assigned
// file name.
func (c *Client) UploadProductImage(ctx context.Context, filename string, r io.Reader) (*UploadResponse, error) {
	return c.upload(ctx, productImageUploadPath, filename, r)
}

// UploadSignature uploads an image for the signature rich-text section.
func (c *Client) UploadSignature(ctx context.Context, filename string, r io.Reader) (*UploadResponse, error) {
	return c.upload(ctx, signatureUploadPath, filename, r)
}

func (c *Client) upload(ctx context.Context, target, filename string, r io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(uploadField, path.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return call[UploadResponse](ctx, c, request{
		method:      http.MethodPost,
		path:        target,
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	})
}

// DisplayURL joins an uploaded file name onto the CMS origin that serves
// uploads.
func DisplayURL(cmsBaseURL, filename string) string {
	return strings.TrimSuffix(cmsBaseURL, "/") + "/uploads/" + strings.TrimPrefix(filename, "/")
}
