package disk

import (
	"context"
	"fmt"
	"path/filepath"
)

// UploadResult is the outcome of UploadOrReplace: where the file lives
// remotely and the digest now known to match the remote content.
type UploadResult struct {
	RemotePath string
	MD5        string

	// uploaded reports whether content was actually transferred, for
	// journaling.
	uploaded bool
}

// Uploaded reports whether the call transferred content, as opposed to
// keeping the existing remote copy.
func (r *UploadResult) Uploaded() bool { return r.uploaded }

// Uploader implements idempotent upload-or-replace semantics on top of
// a RemoteStore. It owns no state of its own; every call is a fresh
// sequence of remote round-trips. Concurrent calls against the same
// remote path are not coordinated here; callers that need that must
// serialize per path themselves.
type Uploader struct {
	store     RemoteStore
	journal   Journal
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	digestBuf int
}

// NewUploader creates an Uploader with the provided dependencies.
// digestBufSize controls the read chunk size for local digests; pass 0
// for the default.
func NewUploader(store RemoteStore, journal Journal, logger Logger, clock Clock, idgen IDGenerator, digestBufSize int) *Uploader {
	if digestBufSize <= 0 {
		digestBufSize = DefaultDigestBufferSize
	}
	return &Uploader{
		store:     store,
		journal:   journal,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		digestBuf: digestBufSize,
	}
}

// UploadOrReplace uploads localFile into remoteDir, creating missing
// remote directories, unless policy decides the existing remote copy
// should be kept. The digest in the result is the one the remote store
// reports for whatever content ends up at the path: after an upload it
// is re-read from remote metadata rather than computed locally, so any
// server-side content transformation is reflected.
func (u *Uploader) UploadOrReplace(ctx context.Context, localFile, remoteDir string, policy ConflictPolicy) (*UploadResult, error) {
	dir, err := NormalizePath(remoteDir)
	if err != nil {
		return nil, fmt.Errorf("invalid remote dir: %w", err)
	}

	if err := u.EnsureDirs(ctx, dir); err != nil {
		return nil, err
	}

	remotePath := JoinPath(dir, filepath.Base(localFile))

	meta, err := u.StatOrNil(ctx, remotePath, FieldType, FieldMD5)
	if err != nil {
		return nil, err
	}
	if meta != nil && meta.Type == ResourceDir {
		return nil, NewConflictError(remotePath, "path is a directory")
	}

	var result *UploadResult
	switch {
	case meta == nil || policy == AlwaysReplace:
		result, err = u.uploadAndStat(ctx, localFile, remotePath)
	case policy == ReplaceIfDifferent:
		var localMD5 string
		localMD5, err = MD5FileBuffer(localFile, u.digestBuf)
		if err != nil {
			return nil, err
		}
		if localMD5 != meta.MD5 {
			result, err = u.uploadAndStat(ctx, localFile, remotePath)
		} else {
			u.logger.Debug("remote content unchanged", "path", remotePath, "md5", localMD5)
			result = &UploadResult{RemotePath: remotePath, MD5: meta.MD5}
		}
	case policy == Skip:
		u.logger.Debug("skipping existing remote file", "path", remotePath)
		result = &UploadResult{RemotePath: remotePath, MD5: meta.MD5}
	default:
		return nil, fmt.Errorf("unhandled conflict policy: %s", policy)
	}
	if err != nil {
		return nil, err
	}

	u.recordTransfer(ctx, localFile, remotePath, policy, result)
	return result, nil
}

// uploadAndStat overwrites remotePath with localFile and re-reads the
// remote metadata for the authoritative digest.
func (u *Uploader) uploadAndStat(ctx context.Context, localFile, remotePath string) (*UploadResult, error) {
	if err := u.store.Upload(ctx, localFile, remotePath, true); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", localFile, err)
	}

	meta, err := u.store.Stat(ctx, remotePath, FieldMD5)
	if err != nil {
		return nil, fmt.Errorf("reading metadata after upload of %s: %w", remotePath, err)
	}

	u.logger.Info("file uploaded", "path", remotePath, "md5", meta.MD5)
	return &UploadResult{RemotePath: remotePath, MD5: meta.MD5, uploaded: true}, nil
}

// recordTransfer appends the outcome to the journal. Journal failures
// never fail the transfer.
func (u *Uploader) recordTransfer(ctx context.Context, localFile, remotePath string, policy ConflictPolicy, result *UploadResult) {
	if u.journal == nil {
		return
	}

	action := ActionSkipped
	if result.uploaded {
		action = ActionUploaded
	}

	rec := &TransferRecord{
		ID:         u.idgen.New(),
		LocalFile:  localFile,
		RemotePath: remotePath,
		Policy:     policy.String(),
		Action:     action,
		MD5:        result.MD5,
		CreatedAt:  u.clock.Now(),
	}
	if err := u.journal.Record(ctx, rec); err != nil {
		u.logger.Warn("recording transfer failed", "path", remotePath, "error", err)
	}
}

// EnsureDirs creates every missing ancestor of remoteDir, strictly
// root to leaf. It is idempotent: a second call with everything in
// place performs no writes. A prefix that already exists as a file is
// a ConflictError.
func (u *Uploader) EnsureDirs(ctx context.Context, remoteDir string) error {
	dir, err := NormalizePath(remoteDir)
	if err != nil {
		return fmt.Errorf("invalid remote dir: %w", err)
	}

	for _, prefix := range PathPrefixes(dir) {
		meta, err := u.StatOrNil(ctx, prefix, FieldType)
		if err != nil {
			return err
		}
		if meta == nil {
			if err := u.store.Mkdir(ctx, prefix); err != nil {
				return fmt.Errorf("creating remote dir %s: %w", prefix, err)
			}
			u.logger.Debug("remote dir created", "path", prefix)
			continue
		}
		if meta.Type != ResourceDir {
			return NewConflictError(prefix, "path exists as a file")
		}
	}
	return nil
}

// StatOrNil fetches metadata for remotePath, converting a not-found
// result to (nil, nil). Any other store error propagates unchanged.
func (u *Uploader) StatOrNil(ctx context.Context, remotePath string, fields ...string) (*Metadata, error) {
	meta, err := u.store.Stat(ctx, remotePath, fields...)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading metadata of %s: %w", remotePath, err)
	}
	return meta, nil
}

// PublicDownloadLinkByPath resolves a remote path to a shareable URL
// via the entry's public key.
func (u *Uploader) PublicDownloadLinkByPath(ctx context.Context, remotePath string) (string, error) {
	path, err := NormalizePath(remotePath)
	if err != nil {
		return "", fmt.Errorf("invalid remote path: %w", err)
	}

	meta, err := u.store.Stat(ctx, path, FieldPublicKey)
	if err != nil {
		return "", fmt.Errorf("reading metadata of %s: %w", path, err)
	}
	if meta.PublicKey == "" {
		return "", fmt.Errorf("remote path is not published: %s", path)
	}

	return u.store.PublicDownloadLink(ctx, meta.PublicKey)
}
