package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/circuitbreaker"
)

// Source fetches raw model bytes from a location
type Source interface {
	Fetch(ctx context.Context, location *url.URL) ([]byte, error)
}

// Source kinds, used as metric labels
const (
	SourceFile = "file"
	SourceS3   = "s3"
	SourceHTTP = "http"
)

// Sources routes a location to the source registered for its scheme
type Sources struct {
	File Source
	S3   Source
	HTTP Source
}

// Resolve parses the location and returns the source kind and source for it
func (s Sources) Resolve(location string) (string, Source, *url.URL, error) {
	u, err := parseLocation(location)
	if err != nil {
		return "", nil, nil, fmt.Errorf("parse model location: %w", err)
	}

	var (
		kind string
		src  Source
	)
	switch strings.ToLower(u.Scheme) {
	case "", "file":
		kind, src = SourceFile, s.File
	case "s3":
		kind, src = SourceS3, s.S3
	case "http", "https":
		kind, src = SourceHTTP, s.HTTP
	default:
		return "", nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, u.Scheme)
	}

	if src == nil {
		return kind, nil, nil, fmt.Errorf("%w: %s", ErrSourceNotConfigured, kind)
	}
	return kind, src, u, nil
}

// LocalPath returns the filesystem path for a file location, or false for any
// other scheme.
func LocalPath(location string) (string, bool) {
	switch locationScheme(location) {
	case "":
		return location, true
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return "", false
		}
		return u.Path, true
	default:
		return "", false
	}
}

// RedactLocation masks the password of a URL location and drops its query,
// which may carry signed credentials. Plain paths are returned unchanged.
func RedactLocation(location string) string {
	if locationScheme(location) == "" {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return "<invalid model location>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.Redacted()
}

// locationScheme returns the lowercased scheme of a "scheme://..." location,
// or "" for a plain filesystem path.
func locationScheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return ""
	}
	scheme := location[:i]
	for j, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(scheme)
}

// parseLocation parses URL locations. Plain paths are kept verbatim so that
// '#', '?' and '%' in file names survive.
func parseLocation(location string) (*url.URL, error) {
	if locationScheme(location) == "" {
		return &url.URL{Path: location}, nil
	}
	return url.Parse(location)
}

// FileSource reads models from the local filesystem
type FileSource struct{}

// Fetch reads the file
func (FileSource) Fetch(_ context.Context, location *url.URL) ([]byte, error) {
	data, err := os.ReadFile(location.Path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return data, nil
}

// S3Config configures an S3-compatible object store
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Source reads models from an S3-compatible object store.
// Locations take the form s3://bucket/key.
type S3Source struct {
	client *minio.Client
}

// NewS3Source creates an S3 source, or returns nil when no endpoint is set
func NewS3Source(cfg S3Config) (*S3Source, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &S3Source{client: client}, nil
}

// Fetch downloads the object
func (s *S3Source) Fetch(ctx context.Context, location *url.URL) ([]byte, error) {
	bucket := location.Host
	key := strings.TrimPrefix(location.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 location %q must be s3://bucket/key", location.String())
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// HTTPSource downloads models over HTTP(S)
type HTTPSource struct {
	client  *resty.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewHTTPSource creates an HTTP source with the given request timeout
func NewHTTPSource(timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *HTTPSource {
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.DefaultConfig("model-http-source"))
	}
	return &HTTPSource{
		client:  resty.New().SetTimeout(timeout),
		breaker: breaker,
	}
}

// Fetch performs a GET and returns the body of a 200 response
func (s *HTTPSource) Fetch(ctx context.Context, location *url.URL) ([]byte, error) {
	return circuitbreaker.ExecuteWithResult(s.breaker, ctx, func() ([]byte, error) {
		resp, err := s.client.R().SetContext(ctx).Get(location.String())
		if err != nil {
			return nil, fmt.Errorf("download model: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("download model: unexpected status %d", resp.StatusCode())
		}
		return resp.Body(), nil
	})
}
