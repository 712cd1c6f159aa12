package source

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds remote fetches when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// S3Config holds the connection settings for object storage locations.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type settings struct {
	timeout  time.Duration
	client   *http.Client
	s3       S3Config
	s3Client ObjectGetter
}

// Option configures a Source built by New.
type Option func(*settings)

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient replaces the client used for http and https locations.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithS3Config sets the object storage connection settings.
func WithS3Config(cfg S3Config) Option {
	return func(s *settings) {
		s.s3 = cfg
	}
}

// WithS3Client replaces the object storage client.
func WithS3Client(c ObjectGetter) Option {
	return func(s *settings) {
		if c != nil {
			s.s3Client = c
		}
	}
}
