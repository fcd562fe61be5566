package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/truproof/internal/common"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	buckets map[string]bool

	putErr    error
	getErr    error
	headErr   error
	deleteErr error

	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}, buckets: map[string]bool{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, aws.ToString(in.Key))
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.buckets[aws.ToString(in.Bucket)] = true
	return &s3.CreateBucketOutput{}, nil
}

func TestS3Store_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	s := NewS3Store(api, "certifications")

	ref, err := s.Put(ctx, []byte("%PDF-1.4"), ".pdf")
	require.NoError(t, err)
	assert.Regexp(t, `^artifacts/\d{4}/\d{2}/\d{2}/[0-9a-f]{32}\.pdf$`, ref)
	assert.Equal(t, "application/pdf", api.types[ref])

	rc, err := s.Open(ctx, ref)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.4", string(b))

	require.NoError(t, s.Delete(ctx, ref))
	assert.Equal(t, []string{ref}, api.deleted)

	_, err = s.Open(ctx, ref)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, ref), common.ErrorNotFound)
	assert.Len(t, api.deleted, 1)
}

func TestS3Store_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	api := newFakeS3()
	api.putErr = boom
	_, err := NewS3Store(api, "b").Put(ctx, []byte("x"), ".pdf")
	assert.ErrorIs(t, err, boom)

	api = newFakeS3()
	api.getErr = boom
	_, err = NewS3Store(api, "b").Open(ctx, "artifacts/x.pdf")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	api = newFakeS3()
	api.headErr = boom
	err = NewS3Store(api, "b").Delete(ctx, "artifacts/x.pdf")
	assert.ErrorIs(t, err, boom)

	api = newFakeS3()
	api.objects["artifacts/x.pdf"] = []byte("x")
	api.deleteErr = boom
	err = NewS3Store(api, "b").Delete(ctx, "artifacts/x.pdf")
	assert.ErrorIs(t, err, boom)

	_, err = NewS3Store(newFakeS3(), "b").Open(ctx, "../x")
	assert.Error(t, err)
}

func TestS3Store_EnsureBucket(t *testing.T) {
	api := newFakeS3()
	s := NewS3Store(api, "certifications")

	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.True(t, api.buckets["certifications"])
	require.NoError(t, s.EnsureBucket(context.Background()))
}

type noSuchBucketS3 struct{ *fakeS3 }

func (f noSuchBucketS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NoSuchBucket{}
	}
	return f.fakeS3.HeadBucket(ctx, in, opts...)
}

func TestS3Store_EnsureBucketCreatesOnNoSuchBucket(t *testing.T) {
	api := noSuchBucketS3{newFakeS3()}

	require.NoError(t, NewS3Store(api, "certifications").EnsureBucket(context.Background()))
	assert.True(t, api.buckets["certifications"])
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("x")))
	assert.False(t, isNotFound(&types.NoSuchBucket{}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchBucket"}))

	assert.True(t, isNoSuchBucket(&types.NoSuchBucket{}))
	assert.True(t, isNoSuchBucket(&smithy.GenericAPIError{Code: "NoSuchBucket"}))
	assert.False(t, isNoSuchBucket(&types.NoSuchKey{}))
}

func TestS3Store_MissingBucketIsNotMissingObject(t *testing.T) {
	ctx := context.Background()
	noBucket := &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}

	api := newFakeS3()
	api.headErr = noBucket
	err := NewS3Store(api, "typo").Delete(ctx, "artifacts/x.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, api.deleted)

	api = newFakeS3()
	api.getErr = &types.NoSuchBucket{}
	_, err = NewS3Store(api, "typo").Open(ctx, "artifacts/x.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestNewS3Client(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", creds.AccessKeyID)
		assert.Equal(t, "secret", creds.SecretAccessKey)
		return aws.Config{Region: lo.Region}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	c, err := NewS3Client(context.Background(), S3Config{
		AccessKey:    "admin",
		SecretKey:    "secret",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(opts.BaseEndpoint))
}

func TestNewS3Client_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Client(context.Background(), S3Config{})
	assert.Error(t, err)
}
