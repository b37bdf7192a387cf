package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func stubAWS(t *testing.T, putter *fakePutter) *s3.Options {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var captured s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(&captured)
		}
		return putter
	}
	return &captured
}

func testRun() *models.Run {
	at := time.Date(2026, 3, 6, 17, 30, 0, 0, time.UTC)
	return &models.Run{
		ID:         "run-1",
		ApprovedAt: at,
		Total:      models.MustMoney("150.5"),
		Entries: []*models.HistoryEntry{
			{ID: "h-1", PersonID: "p-1", PersonName: "Ana", WorkItemID: "w-1", Description: "logo", Amount: models.MustMoney("100"), CreatedAt: at},
			{ID: "h-2", PersonID: "p-2", PersonName: "Bo", WorkItemID: "w-2", Description: "copy", Amount: models.MustMoney("50.5"), CreatedAt: at},
		},
	}
}

func TestArchiveRun_PutsReceipt(t *testing.T) {
	putter := &fakePutter{}
	opts := stubAWS(t, putter)

	a, err := NewS3Archiver(context.Background(), Options{
		Bucket: "receipts", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000",
		AccessKey: "minio", SecretKey: "minio123", Prefix: "runs",
	})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	require.NoError(t, a.ArchiveRun(context.Background(), testRun()))

	assert.Equal(t, "receipts", aws.ToString(putter.in.Bucket))
	assert.Equal(t, "runs/2026/03/06/run-1.json", aws.ToString(putter.in.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.in.ContentType))

	var got receipt
	require.NoError(t, json.Unmarshal(putter.body, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "150.50", got.Total)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "100.00", got.Entries[0].Amount)
	assert.Equal(t, "Bo", got.Entries[1].PersonName)
}

func TestArchiveRun_PutError(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	stubAWS(t, putter)

	a, err := NewS3Archiver(context.Background(), Options{Bucket: "receipts", Region: "us-east-1"})
	require.NoError(t, err)

	err = a.ArchiveRun(context.Background(), testRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Archiver_Errors(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), Options{})
	assert.Error(t, err)

	stubAWS(t, &fakePutter{})
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3Archiver(context.Background(), Options{Bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestKey_WithoutPrefix(t *testing.T) {
	a := &S3Archiver{}
	assert.Equal(t, "2026/03/06/run-1.json", a.Key(testRun()))
}
