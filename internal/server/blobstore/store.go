// Package blobstore persists uploaded artifacts. Records reference artifacts
// through an opaque storage ref that is unrelated to the public
// certification id.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/truproof/internal/common"
)

// Store is the blob collaborator used by the certification service.
//
// Put must not return before the data is durable. Open and Delete return
// common.ErrorNotFound for unknown refs.
type Store interface {
	Put(ctx context.Context, data []byte, ext string) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

const keyPrefix = "artifacts"

var now = time.Now

// NewStorageKey returns a fresh key of the form
// artifacts/YYYY/MM/DD/<32 hex chars><ext>.
func NewStorageKey(ext string) (string, error) {
	name, err := common.MakeRandHexString(16)
	if err != nil {
		return "", fmt.Errorf("random key: %w", err)
	}
	d := now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", keyPrefix, d.Year(), d.Month(), d.Day(), name, sanitizeExt(ext)), nil
}

// rasterTypes are the sniffed media types accepted as artifacts. Markup
// formats such as SVG or HTML are never among them.
var rasterTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ContentType sniffs the media type from the bytes. The file name is not
// consulted.
func ContentType(data []byte) string {
	return http.DetectContentType(data)
}

// IsRasterImage reports whether ct is one of the accepted raster image types.
func IsRasterImage(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && rasterTypes[mt]
}

// sanitizeExt keeps ".png"-like extensions and drops anything that could
// alter the key layout.
func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" || ext[0] != '.' || len(ext) > 16 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}

// cleanRef rejects refs that are absolute or escape the key space.
func cleanRef(ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "\\") {
		return "", fmt.Errorf("invalid storage ref %q", ref)
	}
	if c := path.Clean(ref); c != ref || c == "." || strings.HasPrefix(c, "../") || c == ".." {
		return "", fmt.Errorf("invalid storage ref %q", ref)
	}
	return ref, nil
}
