package richtext

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// ErrNoUploadHandler is returned when an image is inserted into an editor
// without an upload handler.
var ErrNoUploadHandler = errors.New("richtext: no upload handler registered")

// UploadHandler stores an inline image and returns the URL to embed.
type UploadHandler func(ctx context.Context, name string, r io.Reader) (url string, err error)

// Editor edits one rich-text section.
type Editor interface {
	// Render shows initialHTML for editing and reports every change to
	// onChange. It returns the content when editing ends.
	Render(initialHTML string, onChange func(string)) string

	// RegisterUploadHandler sets where inline images go.
	RegisterUploadHandler(UploadHandler)
}

// SignatureUploader is the slice of the API client used for signature
// images.
type SignatureUploader interface {
	UploadSignature(ctx context.Context, filename string, r io.Reader) (*crmsdk.UploadResponse, error)
}

// NewSignatureHandler uploads images to the signature endpoint and embeds
// them by their CMS URL.
func NewSignatureHandler(api SignatureUploader, cmsBaseURL string) UploadHandler {
	return func(ctx context.Context, name string, r io.Reader) (string, error) {
		resp, err := api.UploadSignature(ctx, name, r)
		if err != nil {
			return "", err
		}
		return crmsdk.DisplayURL(cmsBaseURL, resp.Filename), nil
	}
}

// PassthroughEditor is the non-interactive editor used by the console: the
// content comes from a draft file, so Render only normalises it.
type PassthroughEditor struct {
	upload UploadHandler
}

func (e *PassthroughEditor) Render(initialHTML string, onChange func(string)) string {
	out := Normalize(initialHTML)
	if onChange != nil && out != initialHTML {
		onChange(out)
	}
	return out
}

func (e *PassthroughEditor) RegisterUploadHandler(h UploadHandler) {
	e.upload = h
}

// InsertImage uploads r through the registered handler and appends an
// image element to content.
func (e *PassthroughEditor) InsertImage(ctx context.Context, content, name string, r io.Reader) (string, error) {
	if e.upload == nil {
		return content, ErrNoUploadHandler
	}

	url, err := e.upload(ctx, name, r)
	if err != nil {
		return content, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return content + fmt.Sprintf(`<p><img src="%s" alt="%s"></p>`, html.EscapeString(url), html.EscapeString(name)), nil
}

var _ Editor = (*PassthroughEditor)(nil)
