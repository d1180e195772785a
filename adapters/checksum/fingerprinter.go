// Package checksum computes module fingerprints for cache validation.
package checksum

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Mode selects what a module fingerprint is computed from.
type Mode uint8

const (
	// ModeStat fingerprints the module file's path, size, and modification
	// time. Cheap enough to run on every revalidation and catches normal
	// module swaps, where the file is replaced wholesale.
	ModeStat Mode = iota
	// ModeContent fingerprints the full file content. Slower, but also
	// catches in-place rewrites that keep size and timestamp.
	ModeContent
)

// Fingerprinter implements ports.Fingerprinter using XXHash.
type Fingerprinter struct {
	mode Mode
}

// Option configures a Fingerprinter.
type Option func(*Fingerprinter)

// WithMode selects the fingerprint mode.
func WithMode(m Mode) Option {
	return func(f *Fingerprinter) {
		f.mode = m
	}
}

// New creates a Fingerprinter. The default mode is ModeStat.
func New(opts ...Option) *Fingerprinter {
	f := &Fingerprinter{mode: ModeStat}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fingerprint returns a stable hex fingerprint for the module. Modules
// without a backing file get an identity fingerprint from their name and
// version, so in-memory modules always validate against themselves.
func (f *Fingerprinter) Fingerprint(ref domain.ModuleRef) (string, error) {
	if ref.InMemory() {
		return identityFingerprint(ref), nil
	}

	switch f.mode {
	case ModeContent:
		return contentFingerprint(ref)
	default:
		return statFingerprint(ref)
	}
}

func identityFingerprint(ref domain.ModuleRef) string {
	hasher := xxhash.New()
	_, _ = hasher.WriteString(ref.Name)
	_, _ = hasher.Write([]byte{0}) // Separator
	_, _ = hasher.WriteString(ref.Version)
	return fmt.Sprintf("%016x", hasher.Sum64())
}

func statFingerprint(ref domain.ModuleRef) (string, error) {
	info, err := os.Stat(ref.Path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat module file"), "path", ref.Path)
	}

	hasher := xxhash.New()
	_, _ = hasher.WriteString(ref.Path)
	_, _ = hasher.Write([]byte{0})

	if err := binary.Write(hasher, binary.LittleEndian, info.Size()); err != nil {
		return "", zerr.Wrap(err, "failed to write size to digest")
	}
	if err := binary.Write(hasher, binary.LittleEndian, info.ModTime().UnixNano()); err != nil {
		return "", zerr.Wrap(err, "failed to write mtime to digest")
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func contentFingerprint(ref domain.ModuleRef) (string, error) {
	file, err := os.Open(ref.Path) //nolint:gosec // Path comes from the module catalog
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open module file"), "path", ref.Path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash module content"), "path", ref.Path)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
