package transport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/sanitizer"
)

// S3Client is the subset of the S3 API used by the S3 transport.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures the S3 transport.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // S3-compatible services
	BaseURL        string // public URL base for stored objects
	ForcePathStyle bool
}

type S3Option func(*s3Options)

type s3Options struct {
	httpClient    *http.Client
	client        S3Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3.Options)
	uploadTimeout time.Duration
}

// WithS3Client uses a pre-configured client.
func WithS3Client(c S3Client) S3Option {
	return func(o *s3Options) {
		o.client = c
	}
}

func WithS3HTTPClient(c *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = c
	}
}

func WithS3ConfigOption(opt func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) {
		o.configOptions = append(o.configOptions, opt)
	}
}

func WithS3ClientOption(opt func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.clientOptions = append(o.clientOptions, opt)
	}
}

// WithS3UploadTimeout bounds a whole submission. Zero keeps the caller's
// deadline.
func WithS3UploadTimeout(d time.Duration) S3Option {
	return func(o *s3Options) {
		o.uploadTimeout = d
	}
}

// S3 stores submissions in a bucket. A submission to s3://bucket/prefix
// writes every file to prefix/<submission>/<field>/<n>-<filename> followed
// by a manifest.json describing the fields and files. Objects already
// written are removed when a later write fails.
type S3 struct {
	client        S3Client
	bucket        string
	baseURL       string
	uploadTimeout time.Duration
}

// NewS3 creates an S3 transport.
func NewS3(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if options.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
		}
		awsOptions = append(awsOptions, options.configOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadAWSConfig, err)
		}
		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range options.clientOptions {
				opt(o)
			}
		})
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3{
		client:        client,
		bucket:        cfg.Bucket,
		baseURL:       strings.TrimSuffix(baseURL, "/") + "/",
		uploadTimeout: options.uploadTimeout,
	}, nil
}

// Manifest describes a stored submission.
type Manifest struct {
	ID     string              `json:"id"`
	Fields map[string][]string `json:"fields"`
	Files  []StoredFile        `json:"files"`
}

// StoredFile is one uploaded file.
type StoredFile struct {
	Field    string `json:"field"`
	Name     string `json:"name"`
	Key      string `json:"key"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MIMEType string `json:"type"`
	SHA256   string `json:"sha256"`
}

// Do uploads the submission. Storage errors with an HTTP status come back
// as a non-2xx Response; errors without one wrap ErrNetwork.
func (t *S3) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Payload == nil {
		return nil, ErrNilPayload
	}
	bucket, prefix, err := t.target(req.URL)
	if err != nil {
		return nil, err
	}
	if t.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.uploadTimeout)
		defer cancel()
	}

	id, ok := logger.SubmissionIDFromContext(ctx)
	if !ok {
		id = uuid.NewString()
	}
	root := path.Join(prefix, id)

	manifest := Manifest{ID: id, Fields: req.Payload.Fields()}
	var total int64
	for _, part := range req.Payload.Parts() {
		if part.IsFile() {
			total += part.File.Size
		}
	}

	var (
		loaded  int64
		written []string
	)
	for i, part := range req.Payload.Parts() {
		if !part.IsFile() {
			continue
		}
		f := *part.File
		field := sanitizer.ToKebabCase(strings.TrimSuffix(part.Name, "[]"))
		if field == "" {
			field = "file"
		}
		key := path.Join(root, field, fmt.Sprintf("%d-%s", i, file.SanitizeFilename(f.Name)))

		sum, err := file.Hash(f, sha256.New())
		if err != nil {
			t.rollback(ctx, bucket, written)
			return nil, err
		}

		if _, err := t.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(f.Data),
			ContentLength: aws.Int64(f.Size),
			ContentType:   aws.String(f.MIMEType),
			Metadata: map[string]string{
				"field":    sanitizer.ToASCII(part.Name),
				"filename": sanitizer.ToASCII(f.Name),
			},
		}); err != nil {
			t.rollback(ctx, bucket, written)
			return classifyS3Error(err)
		}
		written = append(written, key)

		loaded += f.Size
		if req.Progress != nil {
			req.Progress(loaded, total)
		}

		manifest.Files = append(manifest.Files, StoredFile{
			Field:    part.Name,
			Name:     f.Name,
			Key:      key,
			URL:      t.objectURL(bucket, key),
			Size:     f.Size,
			MIMEType: f.MIMEType,
			SHA256:   sum,
		})
	}

	body, err := json.Marshal(manifest)
	if err != nil {
		t.rollback(ctx, bucket, written)
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	if _, err := t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path.Join(root, "manifest.json")),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		t.rollback(ctx, bucket, written)
		return classifyS3Error(err)
	}

	return &Response{
		StatusCode: http.StatusCreated,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}, nil
}

// target splits s3://bucket/prefix. An empty bucket falls back to the
// configured one.
func (t *S3) target(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: expected s3 scheme: %q", ErrInvalidURL, raw)
	}
	prefix = strings.Trim(u.Path, "/")
	if strings.Contains(prefix, "..") {
		return "", "", fmt.Errorf("%w: invalid prefix %q", ErrInvalidURL, prefix)
	}
	bucket = u.Host
	if bucket == "" {
		bucket = t.bucket
	}
	return bucket, prefix, nil
}

func (t *S3) objectURL(bucket, key string) string {
	if bucket != t.bucket {
		return "s3://" + bucket + "/" + key
	}
	return t.baseURL + key
}

// rollback removes written objects. Failures are ignored; the parent
// context may already be done, so a short detached one is used.
func (t *S3) rollback(ctx context.Context, bucket string, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	for _, key := range keys {
		_, _ = t.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
	}
}

type httpStatusError interface {
	HTTPStatusCode() int
}

// classifyS3Error maps a storage failure to a response. Context and
// connection failures have no status and wrap ErrNetwork.
func classifyS3Error(err error) (*Response, error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	status := 0
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		status = http.StatusNotFound
	}

	code, message := "", err.Error()
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code, message = apiErr.ErrorCode(), apiErr.ErrorMessage()
		if status == 0 {
			switch code {
			case "AccessDenied":
				status = http.StatusForbidden
			case "NoSuchBucket":
				status = http.StatusNotFound
			case "RequestTimeout":
				status = http.StatusRequestTimeout
			case "EntityTooLarge":
				status = http.StatusRequestEntityTooLarge
			case "SlowDown", "ServiceUnavailable":
				status = http.StatusServiceUnavailable
			}
		}
	}
	var hs httpStatusError
	if status == 0 && errors.As(err, &hs) && hs.HTTPStatusCode() > 0 {
		status = hs.HTTPStatusCode()
	}
	if status == 0 {
		if apiErr == nil {
			return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
		}
		status = http.StatusBadGateway
	}

	body, _ := json.Marshal(map[string]string{"error": code, "message": message})
	return &Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       body,
	}, nil
}
