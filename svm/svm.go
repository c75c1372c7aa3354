// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svm manages solc compiler binaries: a local install cache keyed
// by version, populated from a remote catalog, with checksum verification
// and coalesced concurrent installs.
package svm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/solgraph/solc-build/semver"
)

// Build describes one published compiler binary.
type Build struct {
	Path        string   `json:"path"`
	Version     string   `json:"version"`
	Build       string   `json:"build"`
	LongVersion string   `json:"longVersion"`
	Keccak256   string   `json:"keccak256"`
	SHA256      string   `json:"sha256"`
	URLs        []string `json:"urls"`
}

// Catalog is the compiler-binary catalog document for one host platform.
type Catalog struct {
	Builds   []Build           `json:"builds"`
	Releases map[string]string `json:"releases"`
}

// ErrUnsupportedCompilerVersion is fatal: the requested version is below
// the platform's lowest supported release, or absent from the catalog.
type ErrUnsupportedCompilerVersion struct {
	Version semver.Version
}

func (e *ErrUnsupportedCompilerVersion) Error() string {
	return "unsupported compiler version: " + e.Version.String()
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrUnsupportedCompilerVersion) Kind() string { return "version-error" }

// ErrChecksumMismatch is fatal: the downloaded binary's digest does not
// match the catalog's declared digest. The partial download is removed.
type ErrChecksumMismatch struct {
	Version    semver.Version
	DigestKind string // "sha256" or "keccak256"
}

func (e *ErrChecksumMismatch) Error() string {
	return e.DigestKind + " checksum mismatch downloading solc " + e.Version.String()
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrChecksumMismatch) Kind() string { return "checksum-error" }

// ErrCompilerCatalogUnavailable is returned when both the network fetch and
// the local catalog cache fail, or when the catalog JSON cannot be parsed.
type ErrCompilerCatalogUnavailable struct {
	Cause error
}

func (e *ErrCompilerCatalogUnavailable) Error() string {
	return "compiler catalog unavailable: " + e.Cause.Error()
}

// Kind identifies this error's category for programmatic matching.
func (e *ErrCompilerCatalogUnavailable) Kind() string { return "catalog-error" }

// Manager owns a local install directory and fetches the remote catalog
// for a given platform/arch base URL.
type Manager struct {
	// BaseURL is the catalog's platform-specific base, e.g.
	// "https://binaries.soliditylang.org/linux-amd64".
	BaseURL string
	// CacheDir holds installed compiler binaries, one subdirectory per
	// version, plus the last-fetched catalog JSON.
	CacheDir string

	httpc *http.Client

	mu       sync.Mutex
	inFlight map[string]*installOp
}

type installOp struct {
	done chan struct{}
	err  error
}

// NewManager constructs a Manager. cacheDir is created lazily on first use.
func NewManager(baseURL, cacheDir string) *Manager {
	return &Manager{
		BaseURL:  baseURL,
		CacheDir: cacheDir,
		httpc:    pooledClient(),
		inFlight: make(map[string]*installOp),
	}
}

func pooledClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
				DualStack: true,
			}).DialContext,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
			Proxy:                 http.ProxyFromEnvironment,
		},
		Timeout: 5 * time.Minute,
	}
}

func (m *Manager) catalogCachePath() string {
	return filepath.Join(m.CacheDir, "list.json")
}

func (m *Manager) versionDir(v semver.Version) string {
	return filepath.Join(m.CacheDir, v.String())
}

func (m *Manager) binaryPath(v semver.Version) string {
	return filepath.Join(m.versionDir(v), "solc")
}

// Catalog fetches the remote build catalog, falling back to the last
// successfully cached copy on network failure.
func (m *Manager) Catalog(ctx context.Context) (*Catalog, error) {
	body, fetchErr := m.fetchCatalog(ctx)
	if fetchErr == nil {
		_ = os.MkdirAll(m.CacheDir, 0o755)
		_ = ioutil.WriteFile(m.catalogCachePath(), body, 0o644)
	} else {
		cached, readErr := ioutil.ReadFile(m.catalogCachePath())
		if readErr != nil {
			return nil, &ErrCompilerCatalogUnavailable{Cause: fetchErr}
		}
		body = cached
	}

	var cat Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, &ErrCompilerCatalogUnavailable{Cause: err}
	}
	return &cat, nil
}

func (m *Manager) fetchCatalog(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, m.BaseURL+"/list.json", nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected HTTP status fetching catalog: %s", resp.Status)
	}
	return ioutil.ReadAll(resp.Body)
}

// Path returns the installed binary's path if present and executable.
func (m *Manager) Path(v semver.Version) (string, bool) {
	p := m.binaryPath(v)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return "", false
	}
	return p, true
}

// Install ensures v is present in the cache, downloading and verifying it
// if necessary. Concurrent calls for the same version are coalesced: the
// first caller downloads, the rest await the same result.
func (m *Manager) Install(ctx context.Context, v semver.Version) (string, error) {
	if p, ok := m.Path(v); ok {
		return p, nil
	}

	key := v.String()

	m.mu.Lock()
	op, already := m.inFlight[key]
	if !already {
		op = &installOp{done: make(chan struct{})}
		m.inFlight[key] = op
	}
	m.mu.Unlock()

	if already {
		select {
		case <-op.done:
			if op.err != nil {
				return "", op.err
			}
			return m.binaryPath(v), nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	op.err = m.install(ctx, v)
	close(op.done)

	m.mu.Lock()
	delete(m.inFlight, key)
	m.mu.Unlock()

	if op.err != nil {
		return "", op.err
	}
	return m.binaryPath(v), nil
}

func (m *Manager) install(ctx context.Context, v semver.Version) error {
	cat, err := m.Catalog(ctx)
	if err != nil {
		return err
	}

	filename, ok := cat.Releases[v.String()]
	if !ok {
		return &ErrUnsupportedCompilerVersion{Version: v}
	}

	var build *Build
	for i := range cat.Builds {
		if cat.Builds[i].Path == filename {
			build = &cat.Builds[i]
			break
		}
	}
	if build == nil {
		return &ErrUnsupportedCompilerVersion{Version: v}
	}

	data, err := m.download(ctx, build)
	if err != nil {
		return errors.Wrapf(err, "downloading solc %s", v)
	}

	if err := verify(v, build, data); err != nil {
		return err
	}

	if err := m.extractAndInstall(v, build, data); err != nil {
		return err
	}

	// the metadata index is best-effort: a failure here never undoes an
	// otherwise-successful install.
	_ = m.recordInstall(v.String(), build)
	return nil
}

func (m *Manager) download(ctx context.Context, build *Build) ([]byte, error) {
	var lastErr error
	for _, u := range build.URLs {
		req, err := http.NewRequest(http.MethodGet, m.BaseURL+"/"+u, nil)
		if err != nil {
			lastErr = err
			continue
		}
		req = req.WithContext(ctx)

		resp, err := m.httpc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := ioutil.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = errors.Errorf("unexpected HTTP status %s for %s", resp.Status, u)
			continue
		}
		return body, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no download URLs listed for build")
	}
	return nil, lastErr
}

func verify(v semver.Version, build *Build, data []byte) error {
	sha := sha256.Sum256(data)
	if "0x"+hex.EncodeToString(sha[:]) != build.SHA256 && hex.EncodeToString(sha[:]) != build.SHA256 {
		return &ErrChecksumMismatch{Version: v, DigestKind: "sha256"}
	}

	k := crypto.Keccak256(data)
	if "0x"+hex.EncodeToString(k) != build.Keccak256 && hex.EncodeToString(k) != build.Keccak256 {
		return &ErrChecksumMismatch{Version: v, DigestKind: "keccak256"}
	}
	return nil
}

// extractAndInstall writes data to a temporary path in the version
// directory, sets the executable bit, then renames it atomically into
// place. On any failure, the partial file is removed so a subsequent
// install attempt starts from scratch.
func (m *Manager) extractAndInstall(v semver.Version, build *Build, data []byte) error {
	dir := m.versionDir(v)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, ".solc.tmp")
	if err := ioutil.WriteFile(tmp, data, 0o755); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	final := m.binaryPath(v)
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// EnumerateInstalled lists every version currently present in the cache.
func (m *Manager) EnumerateInstalled() ([]semver.Version, error) {
	entries, err := ioutil.ReadDir(m.CacheDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var versions []semver.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.Parse(e.Name())
		if err != nil {
			continue
		}
		if _, ok := m.Path(v); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// Remove deletes an installed version's directory entirely.
func (m *Manager) Remove(v semver.Version) error {
	return os.RemoveAll(m.versionDir(v))
}
