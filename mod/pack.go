package mod

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

const (
	metaFile     = "meta.yml"
	manifestFile = "manifest.yml"
)

// Packer writes a mod package: a zip container holding meta.yml,
// manifest.yml, and one zstd-compressed payload per resource. Payloads are
// compressed once per distinct content hash, so mods with many identical
// files (option variants, mirrored languages) pack quickly.
type Packer struct {
	zw   *zip.Writer
	enc  *zstd.Encoder
	seen map[uint64][]byte
}

// NewPacker starts a package on w.
func NewPacker(w io.Writer) (*Packer, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("pack mod: %w", err)
	}
	return &Packer{
		zw:   zip.NewWriter(w),
		enc:  enc,
		seen: map[uint64][]byte{},
	}, nil
}

func (p *Packer) storeRaw(name string, data []byte) error {
	// Payloads are already zstd-compressed; deflating them again wastes
	// time for no gain.
	w, err := p.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("pack mod %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("pack mod %s: %w", name, err)
	}
	return nil
}

// WriteMeta stores the metadata document.
func (p *Packer) WriteMeta(meta *Meta) error {
	data, err := meta.Encode()
	if err != nil {
		return err
	}
	return p.storeRaw(metaFile, data)
}

// WriteManifest stores the manifest document.
func (p *Packer) WriteManifest(man *Manifest) error {
	data, err := yamlMarshalManifest(man)
	if err != nil {
		return err
	}
	return p.storeRaw(manifestFile, data)
}

// AddResource stores one resource payload under its manifest path.
func (p *Packer) AddResource(path string, data []byte) error {
	hash := xxhash.Sum64(data)
	compressed, ok := p.seen[hash]
	if !ok {
		compressed = p.enc.EncodeAll(data, nil)
		p.seen[hash] = compressed
	}
	return p.storeRaw(path, compressed)
}

// Close finishes the package.
func (p *Packer) Close() error {
	p.enc.Close()
	return p.zw.Close()
}
