package canvas

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// resetConnection aborts the request's TCP connection with an RST so the
// client observes a connection-reset failure.
func resetConnection(t *testing.T, w http.ResponseWriter) {
	t.Helper()
	hijacker, ok := w.(http.Hijacker)
	require.True(t, ok, "response writer must support hijacking")
	conn, _, err := hijacker.Hijack()
	require.NoError(t, err)
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetLinger(0)
	}
	_ = conn.Close()
}

func TestListCoursesRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			resetConnection(t, w)
			return
		}
		fmt.Fprint(w, `[{"id": 1, "name": "Biology", "workflow_state": "available"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	courses, err := client.ListActiveCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "Biology", courses[0].Name)
	require.Equal(t, int32(3), attempts.Load())
}

func TestListCoursesExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		resetConnection(t, w)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.ListActiveCourses(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "3 attempts")
	require.Equal(t, int32(3), attempts.Load())
}

func TestListCoursesDoesNotRetryRemoteErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"message":"Invalid access token."}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.ListActiveCourses(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid access token")
	require.Equal(t, int32(1), attempts.Load())
}
