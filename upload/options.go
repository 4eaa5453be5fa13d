package upload

import (
	"encoding/json"
	"net/url"
	"time"
)

// Defaults and floors for upload tuning. The service rejects parts smaller
// than 5 MiB in regular multipart mode.
const (
	DefaultPartSize    int64 = 8 * 1024 * 1024
	MinPartSize        int64 = 5 * 1024 * 1024
	DefaultChunkSize   int64 = 8 * 1024 * 1024
	MinChunkSize       int64 = 32 * 1024
	DefaultConcurrency       = 3
	DefaultRetries           = 10
)

// Options tune a single upload. The zero value is usable; all fields are
// optional.
type Options struct {
	// Filename reported to the service. Defaults to the name of the source
	// file when known, else "untitled".
	Filename string

	// Mimetype reported to the service. Sniffed from content when empty.
	Mimetype string

	// PartSize is the size of each multipart part in bytes. Values below the
	// service minimum of 5 MiB are raised to it.
	PartSize int64

	// ChunkSize is the initial chunk size for intelligent ingestion. Chunks
	// shrink adaptively on transient failures, never below 32 KiB.
	ChunkSize int64

	// Concurrency bounds the number of parts in flight. Defaults to 3.
	Concurrency int

	// Retries bounds retry attempts per operation. Defaults to 10.
	Retries int

	// Intelligent enables intelligent ingestion: chunked part transfer with
	// adaptive chunk sizing, for unreliable networks.
	Intelligent bool

	// Tags are stored with the file and echoed back on completion.
	Tags map[string]string

	// Token, when set, allows pausing, resuming, and cancelling the upload.
	Token *Token

	// OnStart runs after the upload plan is computed but before any request
	// is made. Returning an error aborts the upload and the error is
	// propagated to the caller.
	OnStart func(Summary) error

	// OnProgress receives progress updates as parts and chunks complete.
	OnProgress func(Progress)

	// OnRetry is notified before each retry backoff.
	OnRetry func(RetryEvent)

	// OnDone runs with the stored file descriptor after a successful
	// completion, before Upload returns.
	OnDone func(Result)
}

// withDefaults returns a copy of o with unset fields defaulted and
// out-of-range values clamped.
func (o Options) withDefaults() Options {
	if o.PartSize < MinPartSize {
		o.PartSize = DefaultPartSize
	}
	if o.ChunkSize <= 0 || o.ChunkSize > o.PartSize {
		o.ChunkSize = o.PartSize
	}
	if o.ChunkSize < MinChunkSize {
		o.ChunkSize = MinChunkSize
	}
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Retries < 0 {
		o.Retries = DefaultRetries
	}
	return o
}

// StoreOptions select where the service persists the uploaded file.
type StoreOptions struct {
	// Location is the storage backend: s3 (default), gcs, azure, rackspace,
	// or dropbox.
	Location string

	// Container is the bucket or container name.
	Container string

	// Path is the key prefix within the container. A trailing slash denotes
	// a directory.
	Path string

	// Region is the storage region, for backends that have one.
	Region string

	// Access is "public" or "private".
	Access string

	// Workflows are workflow ids triggered after the file is stored.
	Workflows []string
}

// formValues renders the store options as multipart/start form fields.
func (so StoreOptions) formValues() url.Values {
	v := url.Values{}
	if so.Location != "" {
		v.Set("store_location", so.Location)
	}
	if so.Container != "" {
		v.Set("store_container", so.Container)
	}
	if so.Path != "" {
		v.Set("store_path", so.Path)
	}
	if so.Region != "" {
		v.Set("store_region", so.Region)
	}
	if so.Access != "" {
		v.Set("store_access", so.Access)
	}
	if len(so.Workflows) > 0 {
		raw, _ := json.Marshal(so.Workflows)
		v.Set("workflows", string(raw))
	}
	return v
}

// Summary describes the upload plan, delivered to OnStart before any bytes
// move.
type Summary struct {
	Filename string
	Mimetype string
	Size     int64
	Parts    int
}

// Progress is a point-in-time view of upload progress. SentBytes counts only
// confirmed transfers, so it is monotonic non-decreasing across retries.
type Progress struct {
	TotalBytes int64
	SentBytes  int64
	Percent    float64
}

// RetryEvent describes one retry of a part or chunk operation.
type RetryEvent struct {
	// Part is the 1-based part number, or 0 for session-level operations.
	Part    int
	Attempt int
	Err     error
	Delay   time.Duration
}

// Result is the stored file descriptor returned on completion.
type Result struct {
	Handle     string            `json:"handle"`
	URL        string            `json:"url"`
	Filename   string            `json:"filename"`
	Size       int64             `json:"size"`
	Mimetype   string            `json:"mimetype"`
	Status     string            `json:"status"`
	UploadTags map[string]string `json:"upload_tags,omitempty"`
}
