package grpc

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/photodiary/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type debugRecorder struct {
	nopLogger
	mu   sync.Mutex
	args [][]any
}

func (d *debugRecorder) Debug(_ context.Context, _ string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.args = append(d.args, args)
}

func (d *debugRecorder) With(...any) logging.Logger { return d }

func TestLoggingInterceptor(t *testing.T) {
	rec := &debugRecorder{}
	s := NewHealthServer("", rec, nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.Len(t, rec.args, 2)
	assert.Equal(t, []any{"method", "/grpc.health.v1.Health/Check", "code", "OK"}, rec.args[0][:4])
	assert.Equal(t, "NotFound", rec.args[1][3])
}
