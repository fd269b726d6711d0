package installer

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/ilisfairy/mcl-installer/internal/platform"
	"github.com/ilisfairy/mcl-installer/internal/service/common"
)

const (
	runtimeArchiveFile = "OpenJDK18U-jre_x64_linux_hotspot_18.0.2_9.tar.gz"
	runtimeRoot        = "jdk-18.0.2+9-jre"
	mclVersion         = "2.1.2"
	mclScript          = "#!/usr/bin/env sh\nexport JAVA_BINARY=java\n$JAVA_BINARY -jar mcl.jar $*\n"
)

// mirror serves an Adoptium listing, a runtime tarball, an MCL manifest and archive.
type mirror struct {
	srv *httptest.Server

	runtimeArchive []byte
	appArchive     []byte

	// failRangeAt makes the n-th ranged runtime request fail with 500 (0 disables it).
	failRangeAt  int64
	rangeCounter atomic.Int64
	// manifestStatus overrides the manifest response status.
	manifestStatus int
}

func newMirror(t *testing.T) *mirror {
	t.Helper()

	m := &mirror{
		runtimeArchive: buildRuntimeArchive(t),
		appArchive:     buildAppArchive(t),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/Adoptium/18/jre/x64/linux/", m.serveRuntime)
	mux.HandleFunc("/assets/mcl/org/itxtech/mcl/package.json", m.serveManifest)
	mux.HandleFunc("/files/mcl-"+mclVersion+".zip", func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "mcl.zip", time.Time{}, bytes.NewReader(m.appArchive))
	})

	m.srv = httptest.NewTLSServer(mux)
	t.Cleanup(m.srv.Close)

	return m
}

func (m *mirror) host() string {
	return strings.TrimPrefix(m.srv.URL, "https://")
}

func (m *mirror) client() *common.Client {
	return common.NewClient(common.WithHTTPClient(m.srv.Client()))
}

func (m *mirror) serveRuntime(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/linux/") {
		_, _ = fmt.Fprintf(w, "<html><body><pre>\n"+
			"<a href=\"../\">../</a>\n"+
			"<a href=\"%[1]s.sha256.txt\" title=\"%[1]s.sha256.txt\">%[1]s.sha256.txt</a>\n"+
			"<a href=\"%[1]s\" title=\"%[1]s\">%[1]s</a>\n"+
			"</pre></body></html>\n", runtimeArchiveFile)

		return
	}

	if !strings.HasSuffix(r.URL.Path, "/"+runtimeArchiveFile) {
		http.NotFound(w, r)
		return
	}

	if r.Header.Get("Range") != "" {
		if n := m.rangeCounter.Add(1); n == m.failRangeAt {
			http.Error(w, "flaky mirror", http.StatusInternalServerError)
			return
		}
	}

	http.ServeContent(w, r, runtimeArchiveFile, time.Time{}, bytes.NewReader(m.runtimeArchive))
}

func (m *mirror) serveManifest(w http.ResponseWriter, _ *http.Request) {
	if m.manifestStatus != 0 {
		w.WriteHeader(m.manifestStatus)
		return
	}

	archiveURL := m.srv.URL + "/files/mcl-" + mclVersion + ".zip"
	oldURL := m.srv.URL + "/files/mcl-2.0.0.zip"

	_ = json.NewEncoder(w).Encode(map[string]any{
		"announcement": "Welcome to iTXTech MCL",
		"type":         "core",
		"channels":     map[string][]string{"stable": {"2.0.0", mclVersion}},
		"repo": map[string]any{
			"2.0.0":    map[string]string{"archive": oldURL},
			mclVersion: map[string]string{"archive": archiveURL},
		},
	})
}

// buildRuntimeArchive returns a tarball with incompressible content so that
// the transfer spans several chunks.
func buildRuntimeArchive(t *testing.T) []byte {
	t.Helper()

	payload := make([]byte, 48*1024)
	_, _ = rand.New(rand.NewSource(1)).Read(payload) //nolint:gosec // Test data.

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	writeTar := func(h *tar.Header, body []byte) {
		require.NoError(t, tw.WriteHeader(h))

		if len(body) > 0 {
			_, err := tw.Write(body)
			require.NoError(t, err)
		}
	}

	writeTar(&tar.Header{Name: runtimeRoot + "/", Typeflag: tar.TypeDir, Mode: 0o755}, nil)
	writeTar(&tar.Header{Name: runtimeRoot + "/bin/", Typeflag: tar.TypeDir, Mode: 0o755}, nil)
	writeTar(&tar.Header{Name: runtimeRoot + "/bin/java", Typeflag: tar.TypeReg, Mode: 0o755, Size: 9}, []byte("#!/bin/sh"))
	writeTar(&tar.Header{Name: runtimeRoot + "/lib/modules", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(payload))}, payload)

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	return buf.Bytes()
}

func buildJar(t *testing.T, version string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	w, err := zw.Create(jarManifestEntry)
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, "Manifest-Version: 1.0\r\nVersion: %s\r\nMain-Class: org.itxtech.mcl.Loader\r\n", version)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// buildAppArchive builds the MCL zip, leaving out the entries named in skip.
func buildAppArchive(t *testing.T, skip ...string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for name, body := range map[string][]byte{
		"mcl.jar": buildJar(t, mclVersion+"-42"),
		"mcl":     []byte(mclScript),
		"mcl.cmd": []byte("@echo off\r\nset JAVA_BINARY=java\r\n%JAVA_BINARY% -jar mcl.jar %*\r\n"),
	} {
		if slices.Contains(skip, name) {
			continue
		}

		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// fakeCommands records invocations instead of running java.
type fakeCommands struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeCommands) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))

	return []byte("openjdk version \"18.0.2\" 2022-07-19\n"), nil
}

func (f *fakeCommands) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

// fakeProcess implements ps.Process.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func listProcesses(processes ...ps.Process) ProcessLister {
	return func() ([]ps.Process, error) {
		return processes, nil
	}
}

func linuxX64() *platform.Tag {
	return &platform.Tag{OS: platform.Linux, Arch: platform.X64}
}
