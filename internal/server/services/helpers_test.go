package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/dbx"
	"github.com/dmitrijs2005/truproof/internal/logging"
	"github.com/dmitrijs2005/truproof/internal/server/config"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/certifications"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/repotest"
)

// memBlobs is an in-memory blobstore.Store with injectable failures.
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int

	putErr    error
	openErr   error
	deleteErr error

	deletes []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (m *memBlobs) Put(ctx context.Context, data []byte, ext string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return "", m.putErr
	}
	m.seq++
	ref := fmt.Sprintf("artifacts/test/%04d%s", m.seq, ext)
	m.objects[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (m *memBlobs) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	b, ok := m.objects[ref]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memBlobs) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, ref)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.objects[ref]; !ok {
		return common.ErrorNotFound
	}
	delete(m.objects, ref)
	return nil
}

func (m *memBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// stubManager overrides repository constructors of an embedded manager.
type stubManager struct {
	repomanager.RepositoryManager
	certs    func(dbx.DBTX) certifications.Repository
	profiles func(dbx.DBTX) profiles.Repository
}

func (m *stubManager) Certifications(db dbx.DBTX) certifications.Repository {
	if m.certs != nil {
		return m.certs(db)
	}
	return m.RepositoryManager.Certifications(db)
}

func (m *stubManager) Profiles(db dbx.DBTX) profiles.Repository {
	if m.profiles != nil {
		return m.profiles(db)
	}
	return m.RepositoryManager.Profiles(db)
}

// pngData returns bytes that sniff as image/png.
func pngData(s string) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), s...)
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:       "https://example.com/",
		QRCodeSize:    256,
		MaxUploadSize: 1 << 10,
	}
}

func newSQLiteDeps(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	return repotest.NewSQLite(t), repomanager.NewSQLiteRepositoryManager()
}

func newCertService(t *testing.T) (*CertificationService, *memBlobs, *sql.DB) {
	t.Helper()
	db, m := newSQLiteDeps(t)
	blobs := newMemBlobs()
	return NewCertificationService(db, m, blobs, testConfig(), logging.NewNop()), blobs, db
}
