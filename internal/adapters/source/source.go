// Package source fetches raw dataset bytes from files, web servers and object storage.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source yields the raw bytes of a dataset.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// New builds a Source for location. Plain paths and file:// URLs read from
// disk, http(s):// URLs are downloaded and s3://bucket/key reads an object.
func New(location string, opts ...Option) (Source, error) {
	st := settings{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&st)
	}
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnsupportedLocation)
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		return &FileSource{Path: location}, nil
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		p := u.Path
		if u.Host != "" {
			p = u.Host + p
		}
		return &FileSource{Path: p}, nil
	case "http", "https":
		client := st.client
		if client == nil {
			client = &http.Client{Timeout: st.timeout}
		}
		return &HTTPSource{URL: location, Client: client}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("%w: %q needs a bucket and a key", ErrUnsupportedLocation, location)
		}
		client := st.s3Client
		if client == nil {
			client = newS3Client(st.s3)
		}
		return &S3Source{Bucket: u.Host, Key: key, Client: client, Timeout: st.timeout}, nil
	}
	return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedLocation, u.Scheme)
}

// FileSource reads a local file.
type FileSource struct {
	Path string
}

func (s *FileSource) Location() string { return s.Path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return b, nil
}

// HTTPSource downloads the dataset with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Location() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, s.URL, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return b, nil
}

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads one object from a bucket.
type S3Source struct {
	Bucket  string
	Key     string
	Client  ObjectGetter
	Timeout time.Duration
}

func (s *S3Source) Location() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = out.Body.Close() }()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return b, nil
}

func newS3Client(cfg S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	o := s3.Options{Region: region}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		o.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		))
	} else {
		o.Credentials = aws.AnonymousCredentials{}
	}
	if cfg.Endpoint != "" {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	}
	return s3.New(o)
}
