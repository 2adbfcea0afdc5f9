package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   []byte
	del    *s3.DeleteObjectInput
	putErr error
	delErr error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.del = in
	return &s3.DeleteObjectOutput{}, f.delErr
}

type fakePresign struct {
	in  *s3.GetObjectInput
	err error
}

func (f *fakePresign) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.in = in
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Expires != presignExpires {
		return nil, errors.New("unexpected expiry")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://s3.example/" + *in.Bucket + "/" + *in.Key + "?sig=1"}, nil
}

func TestS3Store_Put(t *testing.T) {
	objs := &fakeObjects{}
	s := &S3Store{bucket: "triptales", objects: objs, presign: &fakePresign{}}

	path, err := s.Put(context.Background(), "p1.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/itinerary-proofs/p1.png", path)

	require.NotNil(t, objs.put)
	assert.Equal(t, "triptales", *objs.put.Bucket)
	assert.Equal(t, "itinerary-proofs/p1.png", *objs.put.Key)
	assert.Equal(t, "image/png", *objs.put.ContentType)
	assert.Equal(t, int64(9), *objs.put.ContentLength)
	assert.Equal(t, []byte("png-bytes"), objs.body)
}

func TestS3Store_PutError(t *testing.T) {
	s := &S3Store{bucket: "b", objects: &fakeObjects{putErr: errors.New("denied")}, presign: &fakePresign{}}

	_, err := s.Put(context.Background(), "p1.png", "image/png", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestS3Store_DeleteAndLocate(t *testing.T) {
	objs := &fakeObjects{}
	pre := &fakePresign{}
	s := &S3Store{bucket: "b", objects: objs, presign: pre}
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "p1.webp"))
	assert.Equal(t, "itinerary-proofs/p1.webp", *objs.del.Key)

	loc, err := s.Locate(ctx, "p1.webp")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example/b/itinerary-proofs/p1.webp?sig=1", loc.URL)
	assert.Empty(t, loc.FilePath)

	_, err = s.Locate(ctx, "../x.webp")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	pre.err = errors.New("no creds")
	_, err = s.Locate(ctx, "p1.webp")
	assert.Error(t, err)
}

func TestNewS3Store_WiresConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ak", creds.AccessKeyID)
		assert.Equal(t, "sk", creds.SecretAccessKey)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	presignCalled := false
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		presignCalled = true
		return &s3.PresignClient{}
	}

	s, err := NewS3Store(context.Background(), S3Options{
		Region: "eu-west-1", AccessKey: "ak", SecretKey: "sk", Endpoint: "http://minio:9000", Bucket: "photos",
	})
	require.NoError(t, err)
	assert.Equal(t, "photos", s.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.True(t, presignCalled)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad profile")
	}

	_, err := NewS3Store(context.Background(), S3Options{Region: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad profile")
}

var (
	_ PhotoStore = (*S3Store)(nil)
	_ PhotoStore = (*LocalStore)(nil)
)
