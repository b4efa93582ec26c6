package bundle

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"outreach-engine/internal/events"
)

// Provider yields the active config bundle. Stage handlers depend on this
// interface so tests can supply a fixed bundle.
type Provider interface {
	Bundle(ctx context.Context) *Bundle
}

// S3API is the slice of the S3 client the loader uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader fetches the encrypted bundle from S3 once and caches it for the
// process lifetime. Any fetch or decrypt failure falls back to the embedded
// default bundle; a missing bundle never fails a workflow.
type Loader struct {
	s3     S3API
	bucket string
	key    string
	encKey string
	rec    events.Recorder

	mu     sync.Mutex
	cached *Bundle
}

func NewLoader(client S3API, bucket, key, encKey string, rec events.Recorder) *Loader {
	return &Loader{s3: client, bucket: bucket, key: key, encKey: encKey, rec: rec}
}

func (l *Loader) Bundle(ctx context.Context) *Bundle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached
	}

	b, err := l.fetch(ctx)
	if err != nil {
		l.rec.Record(events.Event{
			Kind:   events.KindAdapter,
			Reason: "config bundle fetch failed, using embedded default: " + err.Error(),
		})
		b = Default()
	}
	l.cached = b
	return b
}

func (l *Loader) fetch(ctx context.Context) (*Bundle, error) {
	if l.s3 == nil || l.bucket == "" {
		return nil, errors.New("s3 source not configured")
	}
	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	encrypted, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return DecryptJSON(l.encKey, string(encrypted))
}

// Static wraps a fixed bundle as a Provider.
type Static struct {
	B *Bundle
}

func (s Static) Bundle(context.Context) *Bundle { return s.B }
