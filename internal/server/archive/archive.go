// Package archive stores a JSON receipt of every approved board run in
// S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options locate the bucket receipts are written to.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// S3Archiver writes run receipts with PutObject.
type S3Archiver struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3Archiver builds the S3 client. Static credentials are used when an
// access key is given, otherwise the default AWS credential chain applies.
func NewS3Archiver(ctx context.Context, o Options) (*S3Archiver, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("archive: bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	return &S3Archiver{client: client, bucket: o.Bucket, prefix: o.Prefix}, nil
}

type receiptEntry struct {
	HistoryID   string    `json:"history_id"`
	PersonID    string    `json:"person_id"`
	PersonName  string    `json:"person_name"`
	WorkItemID  string    `json:"work_item_id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	SettledAt   time.Time `json:"settled_at"`
}

type receipt struct {
	RunID      string         `json:"run_id"`
	ApprovedAt time.Time      `json:"approved_at"`
	Total      string         `json:"total"`
	Entries    []receiptEntry `json:"entries"`
}

func newReceipt(run *models.Run) receipt {
	r := receipt{
		RunID:      run.ID,
		ApprovedAt: run.ApprovedAt,
		Total:      run.Total.StringFixed(2),
		Entries:    make([]receiptEntry, 0, len(run.Entries)),
	}
	for _, e := range run.Entries {
		r.Entries = append(r.Entries, receiptEntry{
			HistoryID:   e.ID,
			PersonID:    e.PersonID,
			PersonName:  e.PersonName,
			WorkItemID:  e.WorkItemID,
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			SettledAt:   e.CreatedAt,
		})
	}
	return r
}

// Key is the object key of a run's receipt: prefix/YYYY/MM/DD/<run id>.json.
func (a *S3Archiver) Key(run *models.Run) string {
	d := run.ApprovedAt.UTC()
	return path.Join(a.prefix, fmt.Sprintf("%04d/%02d/%02d", d.Year(), d.Month(), d.Day()), run.ID+".json")
}

func (a *S3Archiver) ArchiveRun(ctx context.Context, run *models.Run) error {
	body, err := json.MarshalIndent(newReceipt(run), "", "  ")
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(run)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put receipt %s: %w", run.ID, err)
	}
	return nil
}
