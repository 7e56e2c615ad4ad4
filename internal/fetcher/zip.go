package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIP copies one member of the archive at zipPath into destDir and
// returns its path. member is matched against the full entry name, then
// case-insensitively against the base name. An empty member selects the
// archive's only data file; macOS resource forks and dotfiles are ignored.
func ExtractZIP(zipPath, member, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: open zip archive")
	}
	defer r.Close() //nolint:errcheck

	var data []*zip.File
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && !ignoredZIPEntry(f.Name) {
			data = append(data, f)
		}
	}

	if member == "" {
		if len(data) != 1 {
			return "", eris.Errorf("fetcher: zip must hold exactly 1 data file when no member is named, got %d", len(data))
		}
		return extractZIPEntry(data[0], destDir)
	}

	var byBase *zip.File
	for _, f := range data {
		if f.Name == member {
			return extractZIPEntry(f, destDir)
		}
		if byBase == nil && strings.EqualFold(filepath.Base(f.Name), member) {
			byBase = f
		}
	}
	if byBase != nil {
		return extractZIPEntry(byBase, destDir)
	}
	// An ignored entry is still extracted when named exactly.
	for _, f := range r.File {
		if f.Name == member {
			return extractZIPEntry(f, destDir)
		}
	}
	return "", eris.Wrapf(ErrNotFound, "fetcher: %q not in zip archive", member)
}

func ignoredZIPEntry(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(filepath.Base(name), ".")
}

func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("fetcher: zip entry %q escapes the extraction directory", f.Name)
	}
	if f.FileInfo().IsDir() {
		return "", eris.Errorf("fetcher: zip entry %q is a directory", f.Name)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create extraction directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: open zip entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: create %s", destPath)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close() //nolint:errcheck,gosec
		return "", eris.Wrapf(err, "fetcher: extract %s", f.Name)
	}
	if err := out.Close(); err != nil {
		return "", eris.Wrapf(err, "fetcher: close %s", destPath)
	}
	return destPath, nil
}
