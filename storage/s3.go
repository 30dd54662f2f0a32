package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const s3BundlePrefix = "bundle"

const (
	tagCreatedAt  = "app.skillforge.depot.bundle.created_at"
	tagAccessedAt = "app.skillforge.depot.bundle.accessed_at"
	tagSize       = "app.skillforge.depot.bundle.size"
	tagMime       = "app.skillforge.depot.bundle.mime"
)

func NewS3(bucketName string) (Provider, error) {
	var configs []func(*config.LoadOptions) error

	// Used by the test suite
	if val, ok := os.LookupEnv("SKILLFORGE_DEPOT_S3_ENDPOINT"); ok {
		configs = append(configs, config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               val,
				HostnameImmutable: true,
				PartitionID:       "aws",
			}, nil
		})))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), configs...)
	if err != nil {
		return nil, err
	}
	s3Client := s3.NewFromConfig(cfg)

	_, err = s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: &bucketName,
	})
	if err != nil {
		return nil, err
	}

	l := s3Provider{
		bucketName: aws.String(bucketName),
		client:     s3Client,
		config:     cfg,
	}
	return l, nil
}

type s3Provider struct {
	bucketName *string
	client     *s3.Client
	config     aws.Config
}

func (s s3Provider) keyFor(skillID int64) string {
	return s3BundlePrefix + "/" + strings.Join(bundlePathComponents(skillID), "/")
}

func coerceAWSError(key string, err error) error {
	var (
		bne *types.NoSuchBucket
		nsk *types.NoSuchKey
	)
	if errors.As(err, &bne) || errors.As(err, &nsk) {
		return ErrNotExist{path: key}
	}

	if sErr, ok := err.(*smithy.OperationError); ok {
		errString := sErr.Error()
		if strings.Contains(errString, "NoSuchBucket") || strings.Contains(errString, "NoSuchKey") {
			return ErrNotExist{path: key}
		}
	}

	return err
}

func itemFromS3Tags(tags []types.Tag) (*Item, error) {
	vals := map[string]string{}
	for _, t := range tags {
		if t.Key == nil || t.Value == nil {
			continue
		}
		vals[*t.Key] = *t.Value
	}

	item := &Item{Mime: vals[tagMime]}

	var err error
	if item.CreatedAt, err = time.Parse(time.RFC3339, vals[tagCreatedAt]); err != nil {
		return nil, fmt.Errorf("parsing tag %s: %w", tagCreatedAt, err)
	}
	if item.AccessedAt, err = time.Parse(time.RFC3339, vals[tagAccessedAt]); err != nil {
		return nil, fmt.Errorf("parsing tag %s: %w", tagAccessedAt, err)
	}
	if item.Size, err = strconv.ParseInt(vals[tagSize], 10, 64); err != nil {
		return nil, fmt.Errorf("parsing tag %s: %w", tagSize, err)
	}

	return item, nil
}

func s3TagValues(item *Item) url.Values {
	return url.Values{
		tagCreatedAt:  []string{item.CreatedAt.Format(time.RFC3339)},
		tagAccessedAt: []string{item.AccessedAt.Format(time.RFC3339)},
		tagSize:       []string{strconv.FormatInt(item.Size, 10)},
		tagMime:       []string{item.Mime},
	}
}

func awsTagsFromItem(item *Item) []types.Tag {
	vals := s3TagValues(item)
	res := make([]types.Tag, 0, len(vals))
	for _, k := range []string{tagAccessedAt, tagCreatedAt, tagMime, tagSize} {
		k := k
		v := vals[k][0]
		res = append(res, types.Tag{Key: &k, Value: &v})
	}
	return res
}

func (s s3Provider) BundleMeta(skillID int64) (*Item, error) {
	key := s.keyFor(skillID)
	tags, err := s.client.GetObjectTagging(context.Background(), &s3.GetObjectTaggingInput{
		Bucket: s.bucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, coerceAWSError(key, err)
	}

	return itemFromS3Tags(tags.TagSet)
}

func (s s3Provider) GetBundle(skillID int64) (*Item, io.ReadCloser, error) {
	key := s.keyFor(skillID)
	meta, err := s.BundleMeta(skillID)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: s.bucketName,
		Key:    &key,
	})
	if err != nil {
		return nil, nil, coerceAWSError(key, err)
	}

	return meta, obj.Body, nil
}

func (s s3Provider) SetBundle(skillID int64, mime string, objectSize int64, stream io.ReadCloser) error {
	defer func() { _ = stream.Close() }()

	key := s.keyFor(skillID)
	item := Item{
		CreatedAt:  time.Now().UTC(),
		AccessedAt: time.Now().UTC(),
		Size:       objectSize,
		Mime:       mime,
	}

	objectTags := s3TagValues(&item).Encode()
	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:  s.bucketName,
		Key:     &key,
		Body:    stream,
		Tagging: &objectTags,
	})

	return err
}

func (s s3Provider) TouchBundle(skillID int64) error {
	key := s.keyFor(skillID)
	meta, err := s.BundleMeta(skillID)
	if err != nil {
		return err
	}
	meta.AccessedAt = time.Now().UTC()

	_, err = s.client.PutObjectTagging(context.Background(), &s3.PutObjectTaggingInput{
		Bucket:  s.bucketName,
		Key:     &key,
		Tagging: &types.Tagging{TagSet: awsTagsFromItem(meta)},
	})
	return coerceAWSError(key, err)
}

func (s s3Provider) DeleteBundle(skillID int64) error {
	k := s.keyFor(skillID)
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: s.bucketName,
		Key:    &k,
	})
	return coerceAWSError(k, err)
}

func (s s3Provider) listObjectsRecursive(req *s3.ListObjectsV2Input, output *s3.ListObjectsV2Output) ([]types.Object, error) {
	objects := output.Contents
	if output.IsTruncated {
		req.ContinuationToken = output.NextContinuationToken
		extraResponse, err := s.client.ListObjectsV2(context.Background(), req)
		if err != nil {
			return nil, err
		}
		extra, err := s.listObjectsRecursive(req, extraResponse)
		if err != nil {
			return nil, err
		}
		objects = append(objects, extra...)
	}

	return objects, nil
}

func (s s3Provider) listAllBundles() ([]types.Object, error) {
	prefix := s3BundlePrefix
	req := &s3.ListObjectsV2Input{
		Bucket: s.bucketName,
		Prefix: &prefix,
	}
	list, err := s.client.ListObjectsV2(context.Background(), req)
	if err != nil {
		return nil, coerceAWSError(prefix, err)
	}

	objects, err := s.listObjectsRecursive(req, list)
	if err != nil {
		return nil, coerceAWSError(prefix, err)
	}
	return objects, nil
}

func (s s3Provider) PurgeAll() error {
	objects, err := s.listAllBundles()
	if err != nil {
		return err
	}

	// DeleteObjects accepts at most 1k keys per request.
	for start := 0; start < len(objects); start += 1000 {
		end := start + 1000
		if end > len(objects) {
			end = len(objects)
		}

		group := objects[start:end]
		keys := make([]types.ObjectIdentifier, len(group))
		for i, o := range group {
			keys[i].Key = o.Key
		}

		_, err = s.client.DeleteObjects(context.Background(), &s3.DeleteObjectsInput{
			Bucket: s.bucketName,
			Delete: &types.Delete{
				Objects: keys,
			},
		})
		if err != nil {
			return coerceAWSError(s3BundlePrefix, err)
		}
	}

	return nil
}

func (s s3Provider) TotalSize() (int64, error) {
	objects, err := s.listAllBundles()
	if err != nil {
		return 0, err
	}

	size := int64(0)
	for _, v := range objects {
		size += v.Size
	}

	return size, nil
}
