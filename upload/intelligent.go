package upload

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/filestack/filestack-go/api"
)

// uploadPartIntelligent transfers one part in intelligent-ingestion mode:
// the part is sent as a sequence of chunks, each presigned and PUT with its
// offset, then sealed with /multipart/commit. On a transient chunk failure
// the chunk size halves (down to MinChunkSize) before the retry, adapting to
// unreliable networks.
func (s *uploadSession) uploadPartIntelligent(ctx context.Context, p *part) error {
	chunkSize := s.opts.ChunkSize

	for sent := int64(0); sent < p.size; {
		if err := s.gate(ctx); err != nil {
			return err
		}

		n := chunkSize
		if remaining := p.size - sent; remaining < n {
			n = remaining
		}

		written, err := s.uploadChunk(ctx, p, sent, n, &chunkSize)
		if err != nil {
			return fmt.Errorf("part %d: %w", p.number, err)
		}
		sent += written
		p.loaded.Add(written)
		s.progress.add(written)
	}

	if err := s.commitPart(ctx, p); err != nil {
		return fmt.Errorf("part %d: %w", p.number, err)
	}
	return nil
}

// uploadChunk transfers one chunk of size n at the given offset within p,
// shrinking *chunkSize on each transient failure. It returns the number of
// bytes actually transferred (n, or a smaller amount after shrinking).
func (s *uploadSession) uploadChunk(ctx context.Context, p *part, offset, n int64, chunkSize *int64) (int64, error) {
	endpoint := s.uploader.client.Hosts().Upload + "/multipart/upload"

	for attempt := 0; ; attempt++ {
		if err := s.gate(ctx); err != nil {
			return 0, err
		}

		buf, err := s.readRange(p.offset+offset, n)
		if err != nil {
			return 0, err
		}

		values := s.baseValues()
		values.Set("part", strconv.Itoa(p.number))
		values.Set("size", strconv.FormatInt(n, 10))
		values.Set("offset", strconv.FormatInt(offset, 10))
		values.Set("fii", "true")

		err = func() error {
			var presigned presignResponse
			if err := s.uploader.client.PostForm(ctx, endpoint, values, &presigned); err != nil {
				return err
			}
			_, err := s.uploader.client.Put(ctx, presigned.URL, presigned.Headers, bytes.NewReader(buf), n)
			return err
		}()
		if err == nil {
			return n, nil
		}
		if !api.IsRetryable(err) || attempt >= s.opts.Retries {
			return 0, err
		}

		// shrink the chunk before retrying; the failed bytes are re-sent at
		// the smaller size
		if *chunkSize > MinChunkSize {
			*chunkSize /= 2
			if *chunkSize < MinChunkSize {
				*chunkSize = MinChunkSize
			}
		}
		if n > *chunkSize {
			n = *chunkSize
		}

		delay := backoffDelay(attempt + 1)
		if d, ok := api.RetryAfter(err); ok && d > delay {
			delay = d
		}
		if s.opts.OnRetry != nil {
			s.opts.OnRetry(RetryEvent{Part: p.number, Attempt: attempt + 1, Err: err, Delay: delay})
		}
		if serr := sleepCtx(ctx, delay); serr != nil {
			return 0, serr
		}
	}
}

// commitPart seals an intelligent-mode part after all its chunks have been
// transferred.
func (s *uploadSession) commitPart(ctx context.Context, p *part) error {
	values := s.baseValues()
	values.Set("part", strconv.Itoa(p.number))
	values.Set("size", strconv.FormatInt(s.size, 10))

	endpoint := s.uploader.client.Hosts().Upload + "/multipart/commit"
	return withRetry(ctx, s.opts.Retries, p.number, s.opts.OnRetry, func() error {
		return s.uploader.client.PostForm(ctx, endpoint, values, nil)
	})
}
