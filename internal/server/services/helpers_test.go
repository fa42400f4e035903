package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/dmitrijs2005/photodiary/internal/logging"
	"github.com/dmitrijs2005/photodiary/internal/server/blobstore"
	"github.com/dmitrijs2005/photodiary/internal/server/config"
	"github.com/dmitrijs2005/photodiary/internal/server/dbtest"
	"github.com/dmitrijs2005/photodiary/internal/server/repositories/repomanager"
)

type logRecord struct {
	level string
	msg   string
	args  []any
}

// recordingLogger keeps every record so tests can assert on warnings.
type recordingLogger struct {
	mu      sync.Mutex
	records *[]logRecord
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{records: &[]logRecord{}}
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, logRecord{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) With(args ...any) logging.Logger                 { return l }

func (l *recordingLogger) warnings() []logRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logRecord
	for _, r := range *l.records {
		if r.level == "warn" {
			out = append(out, r)
		}
	}
	return out
}

// flakyBlobs wraps a MemoryStore and fails the operations that have an
// error configured.
type flakyBlobs struct {
	*blobstore.MemoryStore
	putErr    error
	existsErr error
	deleteErr error
}

func newFlakyBlobs() *flakyBlobs {
	return &flakyBlobs{MemoryStore: blobstore.NewMemoryStore()}
}

func (f *flakyBlobs) Put(ctx context.Context, name string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, name, data)
}

func (f *flakyBlobs) Exists(ctx context.Context, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.MemoryStore.Exists(ctx, name)
}

func (f *flakyBlobs) Delete(ctx context.Context, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, name)
}

var errDiskFull = errors.New("disk full")

type fixture struct {
	db     *sql.DB
	blobs  *flakyBlobs
	logger *recordingLogger
	svc    *DiaryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.OpenSQLite(t)
	blobs := newFlakyBlobs()
	logger := newRecordingLogger()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.MaxUploadBytes = 1 << 10

	return &fixture{
		db:     db,
		blobs:  blobs,
		logger: logger,
		svc:    NewDiaryService(db, &repomanager.SQLiteRepositoryManager{}, blobs, logger, cfg),
	}
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := f.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func jpeg(label string) []byte {
	return []byte(fmt.Sprintf("\xff\xd8\xff\xe0 %s", label))
}

type brokenOpener struct {
	blobstore.Store
}

func (brokenOpener) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errDiskFull
}
