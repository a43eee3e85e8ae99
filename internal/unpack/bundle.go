package unpack

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// BundleFormat selects the compression of a project bundle.
type BundleFormat string

const (
	BundleZstd BundleFormat = "zst"
	BundleXZ   BundleFormat = "xz"
)

// ParseBundleFormat accepts "zst" (or "zstd") and "xz". Empty means zst.
func ParseBundleFormat(name string) (BundleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zst", "zstd":
		return BundleZstd, nil
	case "xz":
		return BundleXZ, nil
	default:
		return "", fmt.Errorf("unknown bundle format %q (want zst or xz)", name)
	}
}

func (f BundleFormat) compressor(w io.Writer) (io.WriteCloser, error) {
	switch f {
	case BundleXZ:
		return xz.NewWriter(w)
	default:
		return zstd.NewWriter(w)
	}
}

// BundleInfo describes a written project bundle.
type BundleInfo struct {
	Path    string
	Sidecar string
	Size    int64
	SHA256  string
	Files   int
}

// Bundle packs a reconstructed project into <projectDir>.tar.<format> with
// a .sha256 sidecar. Entries are stored under the project's base name.
func Bundle(ctx context.Context, projectDir string, format BundleFormat) (*BundleInfo, error) {
	if format == "" {
		format = BundleZstd
	}
	projectDir = filepath.Clean(projectDir)
	bundlePath := projectDir + ".tar." + string(format)
	base := filepath.Base(projectDir)

	out, err := os.Create(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("creating bundle: %w", err)
	}
	zw, err := format.compressor(out)
	if err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("creating %s writer: %w", format, err)
	}
	tw := tar.NewWriter(zw)

	files := 0
	walkErr := filepath.WalkDir(projectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(projectDir, path)
		if err != nil {
			return err
		}
		if err := addFileToTar(tw, path, filepath.ToSlash(filepath.Join(base, rel))); err != nil {
			return fmt.Errorf("adding %s to bundle: %w", rel, err)
		}
		files++
		return nil
	})

	closeErr := tw.Close()
	if err := zw.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if err := out.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("closing bundle: %w", closeErr)
	}

	hash, size, err := hashFile(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("hashing bundle: %w", err)
	}
	sidecar := bundlePath + ".sha256"
	content := fmt.Sprintf("%s  %s\n", hash, filepath.Base(bundlePath))
	if err := os.WriteFile(sidecar, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing sha256 sidecar: %w", err)
	}

	return &BundleInfo{
		Path:    bundlePath,
		Sidecar: sidecar,
		Size:    size,
		SHA256:  hash,
		Files:   files,
	}, nil
}

func addFileToTar(tw *tar.Writer, srcPath, tarPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    tarPath,
		Size:    stat.Size(),
		Mode:    int64(stat.Mode().Perm()),
		ModTime: stat.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// HashFile computes the SHA256 of a file, returning hex string and size.
func HashFile(path string) (string, int64, error) {
	return hashFile(path)
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
