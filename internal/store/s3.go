package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tagay1n/yadisk-client/internal/disk"
)

const downloadLinkExpiry = 15 * time.Minute

// md5MetadataKey is the S3 object metadata key carrying the content
// MD5. Multipart ETags are not plain MD5 digests, so the digest is
// recorded explicitly at upload time and read back from metadata.
const md5MetadataKey = "content-md5"

// S3Options configures an S3Store.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
}

// S3Store is an S3-backed implementation of the RemoteStore interface.
// Files are plain objects; directories are zero-byte marker objects
// whose key ends with "/". Public download links are presigned GET
// URLs, with the object key acting as the public key.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
	bucket    string
	prefix    string
}

// NewS3Store builds an S3 client from the options and wraps it in a
// store.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket")
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithHTTPClient(httpClient),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewS3StoreWithClient wraps an existing S3 client. Useful for tests
// and callers that manage their own AWS configuration.
func NewS3StoreWithClient(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
	}
}

// key maps a remote path onto an object key under the configured prefix.
func (v *S3Store) key(remotePath string) (string, error) {
	p, err := disk.NormalizePath(remotePath)
	if err != nil {
		return "", err
	}
	if v.prefix == "" {
		return p, nil
	}
	return v.prefix + "/" + p, nil
}

// dirKey is the zero-byte marker key for a directory.
func dirKey(key string) string { return key + "/" }

// Exists reports whether the path exists as an object or a directory
// marker.
func (v *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := v.key(path)
	if err != nil {
		return false, err
	}

	for _, k := range []string{key, dirKey(key)} {
		_, err := v.head(ctx, k)
		if err == nil {
			return true, nil
		}
		if !disk.IsNotFound(err) {
			return false, err
		}
	}
	return false, nil
}

// Mkdir writes a zero-byte directory marker. The parent marker must
// already exist and the key must not be taken by a file object.
func (v *S3Store) Mkdir(ctx context.Context, path string) error {
	key, err := v.key(path)
	if err != nil {
		return err
	}

	if _, err := v.head(ctx, key); err == nil {
		return fmt.Errorf("path already exists as a file: %s", path)
	} else if !disk.IsNotFound(err) {
		return err
	}

	if parent := parentPath(path); parent != "" {
		ok, err := v.Exists(ctx, parent)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("parent directory does not exist: %s", parent)
		}
	}

	_, err = v.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &v.bucket,
		Key:    aws.String(dirKey(key)),
	})
	if err != nil {
		return fmt.Errorf("creating directory marker %s: %w", path, err)
	}
	return nil
}

// Stat returns metadata for the remote path. The object key doubles as
// the public key for presigned-link generation.
func (v *S3Store) Stat(ctx context.Context, path string, _ ...string) (*disk.Metadata, error) {
	key, err := v.key(path)
	if err != nil {
		return nil, err
	}

	head, err := v.head(ctx, key)
	if err == nil {
		return &disk.Metadata{
			Type:      disk.ResourceFile,
			MD5:       objectMD5(head),
			Size:      aws.ToInt64(head.ContentLength),
			PublicKey: key,
		}, nil
	}
	if !disk.IsNotFound(err) {
		return nil, err
	}

	if _, err := v.head(ctx, dirKey(key)); err == nil {
		return &disk.Metadata{Type: disk.ResourceDir}, nil
	} else if !disk.IsNotFound(err) {
		return nil, err
	}

	return nil, fmt.Errorf("stat %s: %w", path, disk.ErrNotFound)
}

// Upload streams the local file to the object key. The content MD5 is
// computed up front and stored as object metadata so Stat can report
// it even for multipart uploads.
func (v *S3Store) Upload(ctx context.Context, localFile, remotePath string, overwrite bool) error {
	key, err := v.key(remotePath)
	if err != nil {
		return err
	}

	if _, err := v.head(ctx, dirKey(key)); err == nil {
		return fmt.Errorf("path already exists as a directory: %s", remotePath)
	} else if !disk.IsNotFound(err) {
		return err
	}
	if !overwrite {
		if _, err := v.head(ctx, key); err == nil {
			return fmt.Errorf("file already exists: %s", remotePath)
		} else if !disk.IsNotFound(err) {
			return err
		}
	}

	md5sum, err := disk.MD5File(localFile)
	if err != nil {
		return err
	}

	f, err := os.Open(localFile)
	if err != nil {
		return fmt.Errorf("opening local file: %w", err)
	}
	defer f.Close()

	_, err = v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:   &v.bucket,
		Key:      &key,
		Body:     f,
		Metadata: map[string]string{md5MetadataKey: md5sum},
	})
	if err != nil {
		return fmt.Errorf("uploading to s3://%s/%s: %w", v.bucket, key, err)
	}
	return nil
}

// PublicDownloadLink presigns a GET for the object key.
func (v *S3Store) PublicDownloadLink(ctx context.Context, publicKey string) (string, error) {
	req, err := v.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &v.bucket,
		Key:    &publicKey,
	}, s3.WithPresignExpires(downloadLinkExpiry))
	if err != nil {
		return "", fmt.Errorf("presigning download link for %s: %w", publicKey, err)
	}
	return req.URL, nil
}

// head wraps HeadObject, translating the SDK's 404 into ErrNotFound.
func (v *S3Store) head(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	out, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &v.bucket,
		Key:    &key,
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("s3 key %s: %w", key, disk.ErrNotFound)
		}
		return nil, fmt.Errorf("head s3://%s/%s: %w", v.bucket, key, err)
	}
	return out, nil
}

// objectMD5 extracts the content digest from a HeadObject response,
// preferring the metadata recorded at upload time and falling back to
// the ETag (a plain MD5 for single-part objects).
func objectMD5(head *s3.HeadObjectOutput) string {
	if md5sum, ok := head.Metadata[md5MetadataKey]; ok && md5sum != "" {
		return md5sum
	}
	etag := strings.Trim(aws.ToString(head.ETag), `"`)
	if strings.Contains(etag, "-") {
		// Multipart ETag, not a content MD5.
		return ""
	}
	return etag
}

// Compile-time check that S3Store implements the RemoteStore interface
var _ disk.RemoteStore = (*S3Store)(nil)
