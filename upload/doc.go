/*
Package upload implements the multipart upload protocol.

An upload runs in three phases against the upload service:

 1. start: POST /multipart/start registers the upload (filename, mimetype,
    size, storage destination) and returns the upload session descriptor
    (uri, region, upload_id).
 2. parts: the content is split into fixed-size parts uploaded concurrently.
    For each part, POST /multipart/upload returns a presigned storage URL and
    headers; the part bytes are PUT directly to storage and the returned ETag
    is recorded. In intelligent-ingestion mode each part is instead sent as a
    sequence of smaller chunks whose size halves on transient failure, and the
    part is sealed with POST /multipart/commit.
 3. complete: POST /multipart/complete assembles the file and returns its
    handle. In intelligent mode the service may respond 202 while assembly is
    still in progress, in which case completion is polled with backoff.

# Usage

	uploader := upload.NewUploader(apiClient, "MYAPIKEY", sec)
	result, err := uploader.Upload(ctx, f, size, upload.Options{
	    Filename:    "report.pdf",
	    Concurrency: 5,
	    OnProgress:  func(p upload.Progress) { fmt.Printf("%.1f%%\n", p.Percent) },
	}, upload.StoreOptions{Location: "s3", Path: "reports/"})

Transient failures (5xx, 408, 429, transport errors) are retried per part
with exponential backoff and jitter, up to Options.Retries attempts. An
upload can be paused, resumed, and cancelled through a Token passed in
Options.Token.
*/
package upload
