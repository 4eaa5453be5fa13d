package filestack

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/filestack/filestack-go/utils"
)

// FileLink describes a stored file: the opaque handle issued by the service
// and the descriptive attributes returned alongside it.
type FileLink struct {
	Handle     string
	URL        string
	Filename   string
	Mimetype   string
	Size       int64
	Status     string
	UploadTags map[string]string
}

// Metadata holds the attributes reported for a stored file. Only requested
// attributes are populated.
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	Mimetype  string `json:"mimetype,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Uploaded  int64  `json:"uploaded,omitempty"`
	Writeable *bool  `json:"writeable,omitempty"`
	MD5       string `json:"md5,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
	Location  string `json:"location,omitempty"`
	Path      string `json:"path,omitempty"`
	Container string `json:"container,omitempty"`
}

// MetadataOptions select which attributes Metadata requests. The zero value
// requests the service's default attribute set.
type MetadataOptions struct {
	Size      bool
	Mimetype  bool
	Filename  bool
	Uploaded  bool
	Writeable bool
	MD5       bool
	SHA256    bool
	Location  bool
	Path      bool
	Container bool
}

func (o MetadataOptions) values() url.Values {
	v := url.Values{}
	for name, selected := range map[string]bool{
		"size":      o.Size,
		"mimetype":  o.Mimetype,
		"filename":  o.Filename,
		"uploaded":  o.Uploaded,
		"writeable": o.Writeable,
		"md5":       o.MD5,
		"sha256":    o.SHA256,
		"location":  o.Location,
		"path":      o.Path,
		"container": o.Container,
	} {
		if selected {
			v.Set(name, "true")
		}
	}
	return v
}

// Metadata returns attributes of the file behind handle.
func (c *Client) Metadata(ctx context.Context, handle string, opts MetadataOptions) (*Metadata, error) {
	if err := utils.ValidateHandle(handle); err != nil {
		return nil, utils.WrapMetadataError(err)
	}

	endpoint := c.api.Hosts().API + "/api/file/" + handle + "/metadata"
	query := opts.values()
	mergeValues(query, c.security.Values())
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var md Metadata
	if err := c.api.GetJSON(ctx, endpoint, &md); err != nil {
		return nil, utils.WrapMetadataError(err)
	}
	return &md, nil
}

// RetrieveOptions adjust content delivery. The zero value serves the file as
// stored.
type RetrieveOptions struct {
	// Download forces an attachment content disposition, prompting browsers
	// to save instead of render.
	Download bool

	// Extension overrides the filename extension used for the response.
	Extension string

	// Cache allows the CDN to serve a cached copy.
	Cache bool
}

func (o RetrieveOptions) values() url.Values {
	v := url.Values{}
	if o.Download {
		v.Set("dl", "true")
	}
	if o.Extension != "" {
		v.Set("extension", o.Extension)
	}
	if o.Cache {
		v.Set("cache", "true")
	}
	return v
}

// Retrieve downloads the file behind handle. The caller owns the returned
// reader and must close it.
func (c *Client) Retrieve(ctx context.Context, handle string, opts RetrieveOptions) (io.ReadCloser, error) {
	if err := utils.ValidateHandle(handle); err != nil {
		return nil, utils.WrapRetrieveError(err)
	}

	segments := []string{c.api.Hosts().CDN}
	if !c.security.IsZero() {
		segments = append(segments, c.security.TaskString())
	}
	segments = append(segments, handle)

	endpoint := strings.Join(segments, "/")
	if query := opts.values(); len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.api.Get(ctx, endpoint)
	if err != nil {
		return nil, utils.WrapRetrieveError(err)
	}
	return resp.Body, nil
}

// Remove deletes the file behind handle. Requires a security policy with the
// remove call.
func (c *Client) Remove(ctx context.Context, handle string) error {
	if err := utils.ValidateHandle(handle); err != nil {
		return utils.WrapRemoveError(err)
	}
	if c.security.IsZero() {
		return utils.WrapRemoveError(ErrSecurityRequired)
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	mergeValues(query, c.security.Values())

	endpoint := c.api.Hosts().API + "/api/file/" + handle + "?" + query.Encode()
	if err := c.api.Delete(ctx, endpoint); err != nil {
		return utils.WrapRemoveError(err)
	}
	return nil
}

// RemoveMetadata purges the cached metadata of the file behind handle
// without deleting the file. Requires a security policy.
func (c *Client) RemoveMetadata(ctx context.Context, handle string) error {
	if err := utils.ValidateHandle(handle); err != nil {
		return utils.WrapRemoveError(err)
	}
	if c.security.IsZero() {
		return utils.WrapRemoveError(ErrSecurityRequired)
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	mergeValues(query, c.security.Values())

	endpoint := c.api.Hosts().API + "/api/file/" + handle + "/metadata?" + query.Encode()
	if err := c.api.Delete(ctx, endpoint); err != nil {
		return utils.WrapRemoveError(err)
	}
	return nil
}

// overwriteResponse mirrors the file descriptor returned by the overwrite
// endpoint.
type overwriteResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Mimetype string `json:"mimetype"`
}

// Overwrite replaces the content of the file behind handle, keeping the
// handle stable. Requires a security policy with the write call.
func (c *Client) Overwrite(ctx context.Context, handle string, content io.Reader) (*FileLink, error) {
	if err := utils.ValidateHandle(handle); err != nil {
		return nil, utils.WrapOverwriteError(err)
	}
	if c.security.IsZero() {
		return nil, utils.WrapOverwriteError(ErrSecurityRequired)
	}

	body, err := io.ReadAll(content)
	if err != nil {
		return nil, utils.WrapOverwriteError(err)
	}

	endpoint := c.api.Hosts().API + "/api/file/" + handle + "?" + c.security.Values().Encode()
	contentType := utils.DetectContentType(body, "")

	var out overwriteResponse
	if err := c.api.Post(ctx, endpoint, contentType, bytes.NewReader(body), &out); err != nil {
		return nil, utils.WrapOverwriteError(err)
	}
	return &FileLink{
		Handle:   handle,
		URL:      out.URL,
		Filename: out.Filename,
		Mimetype: out.Mimetype,
		Size:     out.Size,
	}, nil
}

func mergeValues(dst, src url.Values) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Set(k, v)
		}
	}
}
