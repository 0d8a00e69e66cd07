// Package s3 stores submissions in an S3-compatible object store instead of
// the local filesystem. Objects are keyed users/<username>/<submission>, so
// per-user isolation maps onto key prefixes.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/safestorage/internal/common"
	"github.com/dmitrijs2005/safestorage/internal/filex"
	"github.com/dmitrijs2005/safestorage/internal/logging"
	"github.com/dmitrijs2005/safestorage/internal/submissions"
)

// Config carries the object-store connection settings. BaseEndpoint supports
// S3-compatible backends such as MinIO.
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// api is the slice of the S3 client this store uses; tests provide a fake.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store implements submissions.Store against an S3 bucket.
type Store struct {
	client    api
	bucket    string
	chunkSize int
	depth     int
	logger    logging.Logger
}

// New builds a Store from connection settings, using static credentials and
// an optional custom endpoint.
func New(ctx context.Context, cfg Config, chunkSize, depth int, logger logging.Logger) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return NewStoreWithClient(client, cfg.Bucket, chunkSize, depth, logger), nil
}

// NewStoreWithClient wires an existing client; used by New and by tests.
func NewStoreWithClient(client api, bucket string, chunkSize, depth int, logger logging.Logger) *Store {
	return &Store{client: client, bucket: bucket, chunkSize: chunkSize, depth: depth, logger: logger}
}

func (s *Store) key(username, name string) string {
	return path.Join(submissions.UsersDirName, username, name)
}

// Provision is a no-op: object keys need no directory to exist in advance.
func (s *Store) Provision(ctx context.Context, username string) error {
	return nil
}

// Deprovision is a no-op for the same reason.
func (s *Store) Deprovision(ctx context.Context, username string) error {
	return nil
}

func (s *Store) Put(ctx context.Context, username, name, sourcePath string) error {
	if err := submissions.CheckName(name); err != nil {
		return err
	}
	if err := submissions.CheckPath(sourcePath); err != nil {
		return err
	}

	ok, err := filex.RegularFileExists(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}
	if !ok {
		return common.ErrSourceNotFound
	}

	f, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: open source: %v", common.ErrTransferFailed, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat source: %v", common.ErrTransferFailed, err)
	}

	// A PutObject either fully replaces the object or leaves the previous
	// version untouched, which gives overwrite and all-or-nothing for free.
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(username, name)),
		Body:          f,
		ContentLength: aws.Int64(fi.Size()),
	})
	if err != nil {
		return fmt.Errorf("%w: put object: %v", common.ErrTransferFailed, err)
	}

	s.logger.Debug(ctx, "submission stored", "user", username, "submission", name, "bucket", s.bucket)
	return nil
}

func (s *Store) Get(ctx context.Context, username, name, destinationPath string) error {
	if err := submissions.CheckName(name); err != nil {
		return err
	}
	if err := submissions.CheckPath(destinationPath); err != nil {
		return err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(username, name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return common.ErrSubmissionNotFound
		}
		return fmt.Errorf("%w: get object: %v", common.ErrTransferFailed, err)
	}
	defer out.Body.Close()

	tmp := filex.TempPath(destinationPath)
	dst, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return fmt.Errorf("%w: create staging file: %v", common.ErrTransferFailed, err)
	}

	cleanup := func() {
		dst.Close()
		os.Remove(tmp)
	}

	if _, err := submissions.CopyChunked(ctx, dst, out.Body, s.chunkSize, s.depth); err != nil {
		cleanup()
		return fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close destination: %v", common.ErrTransferFailed, err)
	}
	if err := os.Rename(tmp, destinationPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: finalize destination: %v", common.ErrTransferFailed, err)
	}

	s.logger.Debug(ctx, "submission retrieved", "user", username, "submission", name, "bucket", s.bucket)
	return nil
}
