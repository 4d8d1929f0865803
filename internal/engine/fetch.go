package engine

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResourceBytes caps a single downloaded resource; static ffmpeg builds are ~80MB.
const maxResourceBytes = 512 << 20

// Fetcher downloads one resource
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a Fetcher backed by client
func NewHTTPFetcher(client *http.Client) Fetcher {
	return &httpFetcher{client: client}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxResourceBytes {
		return nil, fmt.Errorf("GET %s: resource larger than %d bytes", url, maxResourceBytes)
	}
	return data, nil
}

// parseChecksums reads sha256sum output: "<hex>  <name>" or "<hex> *<name>" per line.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		name := strings.TrimPrefix(fields[1], "*")
		sums[name] = strings.ToLower(fields[0])
	}
	return sums
}

func verifyChecksum(sums map[string]string, name string, data []byte) error {
	want, ok := sums[name]
	if !ok {
		return fmt.Errorf("no checksum listed for %s", name)
	}
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("checksum mismatch for %s: got %s, want %s", name, got, want)
	}
	return nil
}
