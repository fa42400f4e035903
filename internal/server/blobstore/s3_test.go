package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/photodiary/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory bucket speaking the s3API calls.
type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	deleteErr    error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.contentTypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	exerciseStore(t, &S3Store{client: newFakeS3(), bucket: "photodiary"})
}

func TestS3Store_DetectsContentType(t *testing.T) {
	fake := newFakeS3()
	s := &S3Store{client: fake, bucket: "photodiary"}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, s.Put(context.Background(), "a.png", png))
	assert.Equal(t, "image/png", fake.contentTypes["a.png"])
}

func TestS3Store_Errors(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("bucket gone")
	fake.deleteErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}
	s := &S3Store{client: fake, bucket: "photodiary"}

	err := s.Put(context.Background(), "a.jpg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")

	err = s.Delete(context.Background(), "a.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
	assert.True(t, isNotFound(&s3types.NoSuchKey{}))
	assert.True(t, isNotFound(&s3types.NotFound{}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "SlowDown"}))
	assert.False(t, isNotFound(errors.New("dial tcp: refused")))
}

func TestNewS3Store_UsesConfig(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	defer func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew }()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BlobBackend = config.BlobBackendS3

	var gotOpts s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", creds.AccessKeyID)
		assert.Equal(t, "secretpassword", creds.SecretAccessKey)
		return aws.Config{Region: lo.Region}, nil
	}
	fake := newFakeS3()
	newS3ClientFromConfig = func(c aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return fake
	}

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.IsType(t, &S3Store{}, s)
	assert.Equal(t, "photodiary", s.(*S3Store).bucket)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = orig }()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	_, err := NewS3Store(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile")
}
