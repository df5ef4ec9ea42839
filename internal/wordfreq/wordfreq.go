// Package wordfreq builds frequency-weighted word lists from the wordfreq dataset.
package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/thumbkey/internal/wordlist"
)

const pypiEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version string
	Path    string
	Cached  bool
}

type pypiFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Packagetype string `json:"packagetype"`
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []pypiFile `json:"urls"`
}

// Options controls which words Extract keeps.
type Options struct {
	// Limit caps the number of words, most frequent first.
	Limit int
	// Keep rejects words when it returns false. Nil keeps everything.
	Keep wordlist.FilterFunc
}

// Fetch downloads the latest wordfreq wheel into cacheDir unless it is already there.
func Fetch(ctx context.Context, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	resp, err := httpGet(ctx, pypiEndpoint)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var payload pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Wheel{}, fmt.Errorf("failed to decode pypi response: %w", err)
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}
	file, ok := pickWheel(payload.URLs)
	if !ok {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	dest := filepath.Join(cacheDir, file.Filename)
	if _, err := os.Stat(dest); err == nil {
		return Wheel{Version: payload.Info.Version, Path: dest, Cached: true}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}
	if err := download(ctx, file.URL, dest); err != nil {
		return Wheel{}, err
	}
	return Wheel{Version: payload.Info.Version, Path: dest}, nil
}

func download(ctx context.Context, url, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "wordfreq-*.whl")
	if err != nil {
		return fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpGet(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move wheel into cache: %w", err)
	}
	return nil
}

func httpGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status for %s: %s", url, resp.Status)
	}
	return resp, nil
}

func pickWheel(files []pypiFile) (pypiFile, bool) {
	var fallback *pypiFile
	for i := range files {
		if files[i].Packagetype != "bdist_wheel" {
			continue
		}
		if strings.HasSuffix(files[i].Filename, "py3-none-any.whl") {
			return files[i], true
		}
		if fallback == nil {
			fallback = &files[i]
		}
	}
	if fallback == nil {
		return pypiFile{}, false
	}
	return *fallback, true
}

// Extract reads the large list for lang from the wheel. Words come out most frequent first,
// weighted by their relative frequency.
func Extract(wheelPath, lang string, opts Options) (wordlist.List, error) {
	if wheelPath == "" {
		return wordlist.List{}, fmt.Errorf("wheel path is required")
	}
	lang = strings.ToLower(lang)
	if lang == "" {
		return wordlist.List{}, fmt.Errorf("language is required")
	}
	if opts.Limit <= 0 {
		return wordlist.List{}, fmt.Errorf("limit must be greater than 0")
	}

	bins, err := readBins(wheelPath, lang)
	if err != nil {
		return wordlist.List{}, err
	}

	var list wordlist.List
	seen := make(map[string]struct{})
	for i, words := range bins {
		freq := BinFrequency(i)
		for _, word := range words {
			if _, ok := seen[word]; ok {
				continue
			}
			if utf8.RuneCountInString(word) < 1 {
				continue
			}
			if opts.Keep != nil && !opts.Keep(word) {
				continue
			}
			seen[word] = struct{}{}
			list.Words = append(list.Words, word)
			list.Weights = append(list.Weights, freq)
			if list.Len() >= opts.Limit {
				return list, nil
			}
		}
	}
	if list.Len() == 0 {
		return wordlist.List{}, fmt.Errorf("no words found for %s", lang)
	}
	return list, nil
}

// BinFrequency converts a centibel bin index into a relative word frequency.
func BinFrequency(bin int) float64 {
	return math.Pow(10, -float64(bin)/100)
}

func readBins(wheelPath, lang string) ([][]string, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	name := "wordfreq/data/large_" + lang + ".msgpack.gz"
	var data *zip.File
	for _, f := range reader.File {
		if strings.ToLower(f.Name) == name {
			data = f
			break
		}
	}
	if data == nil {
		return nil, fmt.Errorf("no data file found for %s", lang)
	}

	rc, err := data.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()
	gz, err := gzip.NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() {
		_ = gz.Close()
	}()

	root, err := decodeMsgpack(gz)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", data.Name, err)
	}
	return binsFromRoot(root)
}

// binsFromRoot accepts the cB layout: a header map followed by one word array per bin.
func binsFromRoot(root interface{}) ([][]string, error) {
	items, ok := root.([]interface{})
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("unsupported wordfreq root %T", root)
	}
	if header, ok := items[0].(map[interface{}]interface{}); ok {
		if format, _ := header["format"].(string); format != "cB" {
			return nil, fmt.Errorf("unsupported wordfreq format %q", format)
		}
		items = items[1:]
	}
	bins := make([][]string, len(items))
	for i, item := range items {
		words, ok := item.([]interface{})
		if !ok {
			return nil, fmt.Errorf("bin %d is %T, expected array", i, item)
		}
		for _, w := range words {
			word, ok := w.(string)
			if !ok {
				return nil, fmt.Errorf("bin %d holds %T, expected string", i, w)
			}
			bins[i] = append(bins[i], word)
		}
	}
	return bins, nil
}

// WriteAttribution writes the CC BY-SA notice that must accompany derived lists.
func WriteAttribution(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	text := strings.Join([]string{
		"Word list generated from the wordfreq dataset.",
		"Source: https://github.com/rspeer/wordfreq",
		"Data license: Creative Commons Attribution-ShareAlike 4.0 International (CC BY-SA 4.0).",
		"https://creativecommons.org/licenses/by-sa/4.0/",
		"Changes were made: filtered to the keyboard character set and truncated.",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(outDir, "ATTRIBUTION.txt"), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	return nil
}
