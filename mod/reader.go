package mod

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

func yamlMarshalManifest(man *Manifest) ([]byte, error) {
	data, err := yaml.Marshal(man)
	if err != nil {
		return nil, fmt.Errorf("encode mod manifest: %w", err)
	}
	return data, nil
}

// Reader opens a packaged mod and serves its resource payloads.
type Reader struct {
	zr       *zip.Reader
	dec      *zstd.Decoder
	meta     *Meta
	manifest *Manifest
	files    map[string]*zip.File
}

// OpenReader reads a mod package from ra.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open mod: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("open mod: %w", err)
	}
	r := &Reader{zr: zr, dec: dec, files: map[string]*zip.File{}}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}
	rawMeta, err := r.readPlain(metaFile)
	if err != nil {
		return nil, err
	}
	if r.meta, err = ParseMeta(rawMeta); err != nil {
		return nil, err
	}
	rawMan, err := r.readPlain(manifestFile)
	if err != nil {
		return nil, err
	}
	if r.manifest, err = ParseManifest(rawMan); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) readPlain(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("open mod: package missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open mod %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("open mod %s: %w", name, err)
	}
	return data, nil
}

// Meta returns the package metadata.
func (r *Reader) Meta() *Meta { return r.meta }

// Manifest returns the package manifest.
func (r *Reader) Manifest() *Manifest { return r.manifest }

// Get returns one resource payload, decompressed.
func (r *Reader) Get(path string) ([]byte, error) {
	raw, err := r.readPlain(path)
	if err != nil {
		return nil, err
	}
	data, err := r.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("open mod %s: %w", path, err)
	}
	return data, nil
}

// Close releases the decompressor.
func (r *Reader) Close() {
	r.dec.Close()
}
