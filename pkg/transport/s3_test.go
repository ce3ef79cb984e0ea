package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/formdata"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/transport"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client transport.S3Client) *transport.S3 {
	t.Helper()
	tr, err := transport.NewS3(context.Background(), transport.S3Config{
		Bucket: "forms",
		Region: "us-east-1",
	}, transport.WithS3Client(client))
	require.NoError(t, err)
	return tr
}

func keyIs(key string) any {
	return mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == key
	})
}

func TestNewS3RequiresBucketAndRegion(t *testing.T) {
	t.Parallel()

	_, err := transport.NewS3(context.Background(), transport.S3Config{Bucket: "forms"})
	assert.ErrorIs(t, err, transport.ErrInvalidConfig)
}

func TestS3Upload(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	var (
		mu       sync.Mutex
		manifest []byte
	)
	client.On("PutObject", mock.Anything, keyIs("uploads/sub-1/cv/3-cv.txt"), mock.Anything).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(*s3.PutObjectInput)
			assert.Equal(t, "forms", aws.ToString(in.Bucket))
			assert.Equal(t, "text/plain", aws.ToString(in.ContentType))
			assert.Equal(t, "cv[]", in.Metadata["field"])
		}).
		Return(&s3.PutObjectOutput{}, nil).Once()
	client.On("PutObject", mock.Anything, keyIs("uploads/sub-1/manifest.json"), mock.Anything).
		Run(func(args mock.Arguments) {
			in := args.Get(1).(*s3.PutObjectInput)
			data, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			mu.Lock()
			manifest = data
			mu.Unlock()
		}).
		Return(&s3.PutObjectOutput{}, nil).Once()

	var loaded, total int64
	ctx := logger.WithSubmissionID(context.Background(), "sub-1")
	resp, err := newS3(t, client).Do(ctx, &transport.Request{
		URL:     "s3:///uploads/",
		Payload: samplePayload(),
		Progress: func(l, tot int64) {
			loaded, total = l, tot
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.Equal(t, int64(11), loaded)
	assert.Equal(t, int64(11), total)

	mu.Lock()
	defer mu.Unlock()
	assert.JSONEq(t, string(manifest), string(resp.Body))

	var m transport.Manifest
	require.NoError(t, json.Unmarshal(resp.Body, &m))
	assert.Equal(t, "sub-1", m.ID)
	assert.Equal(t, []string{"Ann"}, m.Fields["name"])
	require.Len(t, m.Files, 1)
	assert.Equal(t, "cv.txt", m.Files[0].Name)
	assert.Equal(t, "https://forms.s3.us-east-1.amazonaws.com/uploads/sub-1/cv/3-cv.txt", m.Files[0].URL)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", m.Files[0].SHA256)

	client.AssertExpectations(t)
}

func TestS3FailureRollsBack(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	payload := formdata.New().
		AddFile("docs[]", file.New("a.txt", "text/plain", []byte("a"))).
		AddFile("docs[]", file.New("b.txt", "text/plain", []byte("b")))

	client.On("PutObject", mock.Anything, keyIs("s/docs/0-a.txt"), mock.Anything).
		Return(&s3.PutObjectOutput{}, nil).Once()
	client.On("PutObject", mock.Anything, keyIs("s/docs/1-b.txt"), mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}).Once()
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "s/docs/0-a.txt" && aws.ToString(in.Bucket) == "other"
	}), mock.Anything).Return(&s3.DeleteObjectOutput{}, nil).Once()

	ctx := logger.WithSubmissionID(context.Background(), "s")
	resp, err := newS3(t, client).Do(ctx, &transport.Request{URL: "s3://other", Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, resp.OK())

	body, err := resp.JSON()
	require.NoError(t, err)
	assert.Equal(t, "AccessDenied", body["error"])
	assert.Equal(t, "denied", body["message"])

	client.AssertExpectations(t)
}

func TestS3ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    error
	}{
		{name: "slow down", err: &smithy.GenericAPIError{Code: "SlowDown"}, wantStatus: http.StatusServiceUnavailable},
		{name: "no bucket", err: &smithy.GenericAPIError{Code: "NoSuchBucket"}, wantStatus: http.StatusNotFound},
		{name: "unknown api error", err: &smithy.GenericAPIError{Code: "Weird"}, wantStatus: http.StatusBadGateway},
		{name: "canceled", err: context.Canceled, wantErr: transport.ErrNetwork},
		{name: "plain", err: errors.New("dial tcp: refused"), wantErr: transport.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &MockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			resp, err := newS3(t, client).Do(context.Background(), &transport.Request{
				URL:     "s3://forms/x",
				Payload: formdata.New().Add("a", "b"),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestS3InvalidTarget(t *testing.T) {
	t.Parallel()

	tr := newS3(t, &MockS3Client{})
	for _, u := range []string{"https://example.com", "s3://forms/../etc"} {
		_, err := tr.Do(context.Background(), &transport.Request{URL: u, Payload: formdata.New()})
		assert.ErrorIs(t, err, transport.ErrInvalidURL, u)
	}
	_, err := tr.Do(context.Background(), &transport.Request{URL: "s3://forms"})
	assert.ErrorIs(t, err, transport.ErrNilPayload)
}

func TestS3GeneratesSubmissionID(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return strings.HasSuffix(aws.ToString(in.Key), "/manifest.json")
	}), mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()

	resp, err := newS3(t, client).Do(context.Background(), &transport.Request{
		URL:     "s3://forms/p",
		Payload: formdata.New().Add("a", "b"),
	})
	require.NoError(t, err)

	var m transport.Manifest
	require.NoError(t, json.Unmarshal(resp.Body, &m))
	assert.Len(t, m.ID, 36)
	assert.Empty(t, m.Files)
}
