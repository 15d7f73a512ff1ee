package disk

import "context"

// ResourceType identifies what kind of entry a remote path points at.
type ResourceType string

const (
	ResourceFile ResourceType = "file"
	ResourceDir  ResourceType = "dir"
)

// Metadata describes a remote entry. A nil *Metadata means the path
// does not exist.
type Metadata struct {
	Type ResourceType
	// MD5 is the hex-encoded content digest reported by the store.
	// Empty for directories.
	MD5  string
	Size int64
	// PublicKey identifies the entry for shareable-link generation.
	// Empty if the store does not publish the entry.
	PublicKey string
}

// Metadata field names accepted by Stat. Stores may use them to trim
// their responses; they are free to ignore them and return everything.
const (
	FieldType      = "type"
	FieldMD5       = "md5"
	FieldSize      = "size"
	FieldPublicKey = "public_key"
)

// RemoteStore is the capability the upload logic needs from a remote
// storage client. Implementations wrap a real API client or a storage
// backend; the decision logic composes with this interface rather than
// extending any concrete client type, so tests can substitute a double.
//
// All paths are slash-delimited remote paths (see NormalizePath).
type RemoteStore interface {
	// Exists reports whether the remote path exists (file or dir).
	Exists(ctx context.Context, path string) (bool, error)

	// Mkdir creates a single directory. It fails if the parent does
	// not exist or if path already exists as a file.
	Mkdir(ctx context.Context, path string) error

	// Stat returns metadata for the remote path, wrapping ErrNotFound
	// if it does not exist. fields is a bandwidth hint naming the
	// metadata fields the caller needs.
	Stat(ctx context.Context, path string, fields ...string) (*Metadata, error)

	// Upload transfers the local file to remotePath. With overwrite
	// set, it replaces existing content; the operation is an
	// idempotent overwrite.
	Upload(ctx context.Context, localFile, remotePath string, overwrite bool) error

	// PublicDownloadLink resolves a public key to a shareable URL.
	PublicDownloadLink(ctx context.Context, publicKey string) (string, error)
}
