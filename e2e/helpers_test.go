//go:build e2e

package e2e

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	APIAddr string
	BaseURL string
	Env     []string
	Cmd     *exec.Cmd
}

func getFreePort(t *testing.T) int {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	require.NoError(t, err)

	l, err := net.ListenTCP("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

// newServer prepares a server for the given backend without starting it, so a
// test can restart it against the same data.
func newServer(t *testing.T, backend string) *TestServer {
	dir := t.TempDir()
	apiAddr := fmt.Sprintf("localhost:%d", getFreePort(t))
	baseURL := fmt.Sprintf("http://%s", apiAddr)

	return &TestServer{
		APIAddr: apiAddr,
		BaseURL: baseURL,
		Env: append(os.Environ(),
			fmt.Sprintf("API_ADDR=%s", apiAddr),
			fmt.Sprintf("SERVER_URL=%s", baseURL),
			fmt.Sprintf("STORE_BACKEND=%s", backend),
			fmt.Sprintf("UPLOADS_PATH=%s", filepath.Join(dir, "uploads")),
			fmt.Sprintf("HASHBOX_DB=%s", filepath.Join(dir, "hashbox.db")),
		),
	}
}

func (s *TestServer) Start(t *testing.T) {
	cmd := exec.Command(serverBinPath)
	cmd.Env = s.Env

	// Redirect output to stdout/stderr for debugging if needed
	// cmd.Stdout = os.Stdout
	// cmd.Stderr = os.Stderr

	require.NoError(t, cmd.Start())
	s.Cmd = cmd

	// Wait for server to be ready
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", s.APIAddr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return true
		}
		return false
	}, 5*time.Second, 200*time.Millisecond, "Server failed to start")
}

// Stop sends SIGINT and waits, so bbolt releases its file lock before a restart.
func (s *TestServer) Stop() {
	if s.Cmd == nil || s.Cmd.Process == nil {
		return
	}
	_ = s.Cmd.Process.Signal(os.Interrupt)
	done := make(chan struct{})
	go func() {
		_ = s.Cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = s.Cmd.Process.Kill()
		<-done
	}
	s.Cmd = nil
}

// CLI runs the binary in client mode against this server and returns its trimmed output.
func (s *TestServer) CLI(t *testing.T, args ...string) string {
	cmd := exec.Command(serverBinPath, args...)
	cmd.Env = s.Env
	cmd.Dir = t.TempDir()

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI %v failed: %s", args, string(output))
	return strings.TrimSpace(string(output))
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
