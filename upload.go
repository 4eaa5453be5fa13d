package filestack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/filestack/filestack-go/transform"
	"github.com/filestack/filestack-go/upload"
	"github.com/filestack/filestack-go/utils"
)

// Upload transfers content through the multipart protocol and returns the
// stored file. Sources that support io.ReaderAt with a known size (*os.File,
// *bytes.Reader) are streamed part by part; anything else is buffered in
// memory first.
func (c *Client) Upload(ctx context.Context, content io.Reader, opts upload.Options, store upload.StoreOptions) (*FileLink, error) {
	ra, size, err := readerAt(content)
	if err != nil {
		return nil, utils.WrapUploadError(err)
	}

	result, err := c.uploader.Upload(ctx, ra, size, opts, store)
	if err != nil {
		return nil, err
	}
	return fileLinkFromResult(result), nil
}

// UploadFile uploads the file at path. The filename defaults to the file's
// base name.
func (c *Client) UploadFile(ctx context.Context, path string, opts upload.Options, store upload.StoreOptions) (*FileLink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapUploadError(err)
	}
	defer f.Close() //nolint:errcheck

	if opts.Filename == "" {
		opts.Filename = filepath.Base(path)
	}
	return c.Upload(ctx, f, opts, store)
}

// storeURLResponse mirrors the processing API's store-task result.
type storeURLResponse struct {
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Container string `json:"container"`
	Key       string `json:"key"`
}

// StoreURL ingests an external URL server-side and returns the stored file.
func (c *Client) StoreURL(ctx context.Context, externalURL string, store upload.StoreOptions) (*FileLink, error) {
	if err := utils.ValidateExternalURL(externalURL); err != nil {
		return nil, utils.WrapStoreError(err)
	}

	t := transform.NewFromURL(c.apiKey, externalURL).
		WithHost(c.api.Hosts().Process).
		Store(transform.StoreParams{
			Location:  store.Location,
			Container: store.Container,
			Path:      store.Path,
			Region:    store.Region,
			Access:    store.Access,
		})
	if !c.security.IsZero() {
		t = t.WithSecurity(c.security)
	}

	var out storeURLResponse
	if err := c.api.GetJSON(ctx, t.String(), &out); err != nil {
		return nil, utils.WrapStoreError(err)
	}

	handle := handleFromURL(out.URL)
	if handle == "" {
		return nil, utils.WrapStoreError(fmt.Errorf("no handle in store response url %q", out.URL))
	}
	return &FileLink{
		Handle:   handle,
		URL:      out.URL,
		Filename: out.Filename,
		Mimetype: out.Type,
		Size:     out.Size,
		Status:   "Stored",
	}, nil
}

func fileLinkFromResult(r *upload.Result) *FileLink {
	return &FileLink{
		Handle:     r.Handle,
		URL:        r.URL,
		Filename:   r.Filename,
		Mimetype:   r.Mimetype,
		Size:       r.Size,
		Status:     r.Status,
		UploadTags: r.UploadTags,
	}
}

// handleFromURL extracts the trailing handle segment of a file URL.
func handleFromURL(rawurl string) string {
	rawurl = strings.TrimSuffix(rawurl, "/")
	idx := strings.LastIndex(rawurl, "/")
	if idx < 0 || idx == len(rawurl)-1 {
		return ""
	}
	return rawurl[idx+1:]
}

// readerAt adapts a reader into the random-access form the upload engine
// needs, buffering when the source offers no better option.
func readerAt(content io.Reader) (io.ReaderAt, int64, error) {
	switch v := content.(type) {
	case *os.File:
		info, err := v.Stat()
		if err != nil {
			return nil, 0, err
		}
		return v, info.Size(), nil
	case *bytes.Reader:
		return v, v.Size(), nil
	}

	buf, err := io.ReadAll(content)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(buf), int64(len(buf)), nil
}
