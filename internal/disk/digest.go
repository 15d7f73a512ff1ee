package disk

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DefaultDigestBufferSize is the chunk size used when streaming a file
// through the digest. The result is independent of the chosen size.
const DefaultDigestBufferSize = 2048

// MD5File computes the hex-encoded MD5 digest of the file at path,
// reading it in DefaultDigestBufferSize chunks. MD5 is used for parity
// with the content hash remote stores report, not for security.
func MD5File(path string) (string, error) {
	return MD5FileBuffer(path, DefaultDigestBufferSize)
}

// MD5FileBuffer is MD5File with an explicit read buffer size.
func MD5FileBuffer(path string, bufSize int) (string, error) {
	if bufSize <= 0 {
		bufSize = DefaultDigestBufferSize
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for digest: %w", err)
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, bufSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
