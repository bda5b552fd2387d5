package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	appconfig "poeflow/config"
	"poeflow/logger"
	"poeflow/models"
)

// parquetRecord is one archived market listing row.
type parquetRecord struct {
	League     string  `parquet:"name=league, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category   string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name       string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ChaosValue float64 `parquet:"name=chaos_value, type=DOUBLE"`
	Count      int32   `parquet:"name=count, type=INT32"`
	GemLevel   int32   `parquet:"name=gem_level, type=INT32"`
	GemQuality int32   `parquet:"name=gem_quality, type=INT32"`
	Corrupted  bool    `parquet:"name=corrupted, type=BOOLEAN"`
	Timestamp  int64   `parquet:"name=timestamp, type=INT64"`
}

// memoryFileWriter implements ParquetFile for in-memory writing.
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{buffer: &bytes.Buffer{}}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error) {
	return mfw.buffer.Read(b)
}

func (mfw *memoryFileWriter) Write(b []byte) (int, error) {
	return mfw.buffer.Write(b)
}

func (mfw *memoryFileWriter) Close() error {
	return nil
}

func (mfw *memoryFileWriter) Bytes() []byte {
	return mfw.buffer.Bytes()
}

// Archiver writes full market snapshots as parquet files, one file per
// category, for offline backtesting. Files always land on local disk;
// when S3 is configured they are mirrored to the bucket as well.
type Archiver struct {
	config   *appconfig.Config
	s3Client *s3.Client
	log      *logger.Log
}

// NewArchiver builds an archiver. The S3 client is only constructed when
// the config enables S3 mirroring.
func NewArchiver(cfg *appconfig.Config) (*Archiver, error) {
	log := logger.GetLogger()
	a := &Archiver{config: cfg, log: log}

	if !cfg.Storage.Archive.S3.Enabled {
		return a, nil
	}

	ctx := context.Background()
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Archive.S3.Region),
	}
	if cfg.Storage.Archive.S3.AccessKeyID != "" && cfg.Storage.Archive.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.Archive.S3.AccessKeyID,
				cfg.Storage.Archive.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.WithComponent("archive").WithError(err).Warn("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	a.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Archive.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Archive.S3.Endpoint)
		}
		o.UsePathStyle = cfg.Storage.Archive.S3.PathStyle
	})

	log.WithComponent("archive").WithFields(logger.Fields{
		"bucket":     cfg.Storage.Archive.S3.Bucket,
		"region":     cfg.Storage.Archive.S3.Region,
		"endpoint":   cfg.Storage.Archive.S3.Endpoint,
		"path_style": cfg.Storage.Archive.S3.PathStyle,
	}).Info("s3 mirroring enabled for snapshot archive")

	return a, nil
}

// ArchiveSnapshot writes every non-empty category of the snapshot to its
// own parquet file and returns the paths written. Categories that fail
// are logged and skipped so one bad category cannot lose the others.
func (a *Archiver) ArchiveSnapshot(ctx context.Context, snapshot models.MarketSnapshot, league string) ([]string, error) {
	if err := os.MkdirAll(a.config.Storage.Archive.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	ts := time.Now().UTC()
	var written []string
	for _, category := range models.Categories() {
		listings := snapshot[category]
		if len(listings) == 0 {
			continue
		}

		path, err := a.archiveCategory(ctx, listings, league, category, ts)
		if err != nil {
			a.log.WithComponent("archive").WithFields(logger.Fields{
				"league":   league,
				"category": category,
			}).WithError(err).Error("failed to archive category")
			continue
		}
		written = append(written, path)
	}
	return written, nil
}

func (a *Archiver) archiveCategory(ctx context.Context, listings []models.Listing, league, category string, ts time.Time) (string, error) {
	data, err := a.encodeParquet(listings, league, category, ts)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%s_%s_%s.parquet",
		league, category, ts.Format("20060102150405"), uuid.New().String())
	path := filepath.Join(a.config.Storage.Archive.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	logger.IncrementArchiveWrite()

	a.log.WithComponent("archive").WithFields(logger.Fields{
		"league":    league,
		"category":  category,
		"listings":  len(listings),
		"file_size": len(data),
		"path":      path,
	}).Info("snapshot category archived")

	if a.s3Client != nil {
		key := filepath.ToSlash(filepath.Join("snapshots", league, category, filename))
		if err := a.uploadToS3(ctx, key, data); err != nil {
			a.log.WithComponent("archive").
				WithError(err).
				WithEnv("S3_BUCKET").
				WithFields(logger.Fields{
					"bucket": a.config.Storage.Archive.S3.Bucket,
					"s3_key": key,
				}).
				Error("failed to mirror archive to S3")
		}
	}
	return path, nil
}

func (a *Archiver) encodeParquet(listings []models.Listing, league, category string, ts time.Time) ([]byte, error) {
	fw := newMemoryFileWriter()
	pw, err := writer.NewParquetWriter(fw, new(parquetRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, l := range listings {
		count := int32(0)
		if l.Count != nil {
			count = int32(*l.Count)
		}
		record := parquetRecord{
			League:     league,
			Category:   category,
			Name:       l.Name,
			ChaosValue: l.ChaosValue,
			Count:      count,
			GemLevel:   int32(l.GemLevel),
			GemQuality: int32(l.GemQuality),
			Corrupted:  l.Corrupted,
			Timestamp:  ts.UnixMilli(),
		}
		if err := pw.Write(record); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}
	return fw.Bytes(), nil
}

func (a *Archiver) uploadToS3(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.config.Storage.Archive.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			"content-type":    "parquet",
			"poeflow-version": a.config.Poeflow.Version,
		},
	}
	if _, err := a.s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3 bucket %s: %w", a.config.Storage.Archive.S3.Bucket, err)
	}
	return nil
}
