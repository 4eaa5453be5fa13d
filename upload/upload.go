package upload

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // part checksums are a protocol requirement, not a security control
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/filestack/filestack-go/api"
	"github.com/filestack/filestack-go/security"
	"github.com/filestack/filestack-go/utils"
)

var errSizeRequired = errors.New("content size must be greater than zero")

// Uploader drives multipart uploads for one API key.
type Uploader struct {
	client   *api.Client
	apiKey   string
	security security.Security
}

// NewUploader returns an Uploader sending requests through client.
func NewUploader(client *api.Client, apiKey string, sec security.Security) *Uploader {
	return &Uploader{client: client, apiKey: apiKey, security: sec}
}

// Upload transfers size bytes of content and returns the stored file
// descriptor. Content is read through ReadAt, so parts can be transferred
// concurrently without buffering the whole file.
func (u *Uploader) Upload(ctx context.Context, content io.ReaderAt, size int64, opts Options, store StoreOptions) (*Result, error) {
	if size <= 0 {
		return nil, utils.WrapUploadError(errSizeRequired)
	}
	opts = opts.withDefaults()

	filename := utils.SanitizeFilename(opts.Filename)
	mimetype := opts.Mimetype
	if mimetype == "" {
		mimetype = sniffContentType(content, size, filename)
	}

	parts := splitParts(size, opts.PartSize)

	if opts.OnStart != nil {
		summary := Summary{Filename: filename, Mimetype: mimetype, Size: size, Parts: len(parts)}
		if err := opts.OnStart(summary); err != nil {
			return nil, fmt.Errorf("upload rejected: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if opts.Token != nil {
		opts.Token.bind(cancel)
	}

	sess := &uploadSession{
		uploader: u,
		opts:     opts,
		store:    store,
		content:  content,
		size:     size,
		filename: filename,
		mimetype: mimetype,
		parts:    parts,
		progress: newProgressTracker(size, opts.OnProgress),
	}

	if err := sess.start(ctx); err != nil {
		return nil, utils.WrapUploadError(err)
	}
	if err := sess.uploadParts(ctx); err != nil {
		if opts.Token != nil && opts.Token.Cancelled() {
			return nil, utils.WrapUploadError(ErrCancelled)
		}
		return nil, utils.WrapUploadError(err)
	}
	result, err := sess.complete(ctx)
	if err != nil {
		return nil, utils.WrapUploadError(err)
	}
	if opts.OnDone != nil {
		opts.OnDone(*result)
	}
	return result, nil
}

// startResponse is the multipart session descriptor returned by
// /multipart/start.
type startResponse struct {
	URI         string `json:"uri"`
	Region      string `json:"region"`
	UploadID    string `json:"upload_id"`
	LocationURL string `json:"location_url"`
}

// presignResponse is the presigned transfer target returned by
// /multipart/upload.
type presignResponse struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// uploadSession is the in-flight state of a single upload.
type uploadSession struct {
	uploader *Uploader
	opts     Options
	store    StoreOptions
	content  io.ReaderAt
	size     int64
	filename string
	mimetype string
	parts    []*part
	progress *progressTracker
	start_   startResponse
}

func (s *uploadSession) start(ctx context.Context) error {
	values := url.Values{}
	values.Set("apikey", s.uploader.apiKey)
	values.Set("filename", s.filename)
	values.Set("mimetype", s.mimetype)
	values.Set("size", strconv.FormatInt(s.size, 10))
	if s.opts.Intelligent {
		values.Set("fii", "true")
	}
	mergeValues(values, s.store.formValues())
	mergeValues(values, s.uploader.security.Values())
	if tags := encodeTags(s.opts.Tags); tags != "" {
		values.Set("upload_tags", tags)
	}

	endpoint := s.uploader.client.Hosts().Upload + "/multipart/start"
	return withRetry(ctx, s.opts.Retries, 0, s.opts.OnRetry, func() error {
		return s.uploader.client.PostForm(ctx, endpoint, values, &s.start_)
	})
}

func (s *uploadSession) uploadParts(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, p := range s.parts {
		p := p
		g.Go(func() error {
			if err := s.gate(gctx); err != nil {
				return err
			}
			if s.opts.Intelligent {
				return s.uploadPartIntelligent(gctx, p)
			}
			return s.uploadPart(gctx, p)
		})
	}
	return g.Wait()
}

// uploadPart transfers one part in regular multipart mode: presign, PUT,
// record ETag. Presign and PUT are retried as a unit since presigned URLs
// are single-use.
func (s *uploadSession) uploadPart(ctx context.Context, p *part) error {
	buf, err := s.readRange(p.offset, p.size)
	if err != nil {
		return fmt.Errorf("part %d: %w", p.number, err)
	}
	sum := md5.Sum(buf) //nolint:gosec

	values := s.baseValues()
	values.Set("part", strconv.Itoa(p.number))
	values.Set("size", strconv.FormatInt(p.size, 10))
	values.Set("md5", base64.StdEncoding.EncodeToString(sum[:]))

	endpoint := s.uploader.client.Hosts().Upload + "/multipart/upload"
	err = withRetry(ctx, s.opts.Retries, p.number, s.opts.OnRetry, func() error {
		if err := s.gate(ctx); err != nil {
			return err
		}
		var presigned presignResponse
		if err := s.uploader.client.PostForm(ctx, endpoint, values, &presigned); err != nil {
			return err
		}
		etag, err := s.uploader.client.Put(ctx, presigned.URL, presigned.Headers, bytes.NewReader(buf), p.size)
		if err != nil {
			return err
		}
		p.etag = etag
		return nil
	})
	if err != nil {
		return fmt.Errorf("part %d: %w", p.number, err)
	}

	p.loaded.Store(p.size)
	s.progress.add(p.size)
	return nil
}

func (s *uploadSession) complete(ctx context.Context) (*Result, error) {
	values := s.baseValues()
	values.Set("filename", s.filename)
	values.Set("mimetype", s.mimetype)
	values.Set("size", strconv.FormatInt(s.size, 10))
	if s.opts.Intelligent {
		values.Set("fii", "true")
	} else {
		values.Set("parts", s.etagList())
	}
	mergeValues(values, s.store.formValues())
	if tags := encodeTags(s.opts.Tags); tags != "" {
		values.Set("upload_tags", tags)
	}

	endpoint := s.uploader.client.Hosts().Upload + "/multipart/complete"
	var result Result
	for attempt := 0; ; attempt++ {
		var code int
		err := withRetry(ctx, s.opts.Retries, 0, s.opts.OnRetry, func() error {
			var err error
			code, err = s.uploader.client.PostFormStatus(ctx, endpoint, values, &result)
			return err
		})
		if err != nil {
			return nil, err
		}
		if code != http.StatusAccepted {
			return &result, nil
		}
		// file is still being assembled server-side; poll with backoff
		if attempt >= s.opts.Retries {
			return nil, fmt.Errorf("complete: file still assembling after %d polls", attempt+1)
		}
		if err := sleepCtx(ctx, backoffDelay(attempt+1)); err != nil {
			return nil, err
		}
	}
}

// etagList renders "1:etag;2:etag;..." ordered by part number.
func (s *uploadSession) etagList() string {
	ordered := make([]*part, len(s.parts))
	copy(ordered, s.parts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].number < ordered[j].number })

	entries := make([]string, len(ordered))
	for i, p := range ordered {
		entries[i] = strconv.Itoa(p.number) + ":" + p.etag
	}
	return strings.Join(entries, ";")
}

// baseValues returns the form fields common to every request within the
// multipart session.
func (s *uploadSession) baseValues() url.Values {
	values := url.Values{}
	values.Set("apikey", s.uploader.apiKey)
	values.Set("uri", s.start_.URI)
	values.Set("region", s.start_.Region)
	values.Set("upload_id", s.start_.UploadID)
	mergeValues(values, s.uploader.security.Values())
	return values
}

// gate blocks while the upload is paused and fails fast on cancellation.
func (s *uploadSession) gate(ctx context.Context) error {
	if s.opts.Token == nil {
		return ctx.Err()
	}
	return s.opts.Token.wait(ctx)
}

func (s *uploadSession) readRange(offset, size int64) ([]byte, error) {
	buf := make([]byte, size)
	n, err := s.content.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(n) != size {
		return nil, fmt.Errorf("read content: short read at offset %d", offset)
	}
	return buf, nil
}

func sniffContentType(content io.ReaderAt, size int64, filename string) string {
	head := make([]byte, 512)
	if size < int64(len(head)) {
		head = head[:size]
	}
	n, err := content.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		n = 0
	}
	return utils.DetectContentType(head[:n], filename)
}

func mergeValues(dst, src url.Values) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Set(k, v)
		}
	}
}

func encodeTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(raw)
}
