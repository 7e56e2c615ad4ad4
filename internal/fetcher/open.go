package fetcher

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Opener resolves a source location to a local file. A location is a local
// path, an http(s):// or ftp:// URL, or either of those naming a ZIP archive.
// "data.zip#matches.csv" selects an archive member; a bare "data.zip" must
// hold exactly one file.
type Opener struct {
	HTTP    Fetcher
	FTP     Fetcher
	TempDir string // parent for scratch directories; "" means os.TempDir()
}

// NewOpener creates an Opener backed by the given fetchers.
func NewOpener(httpFetcher, ftpFetcher Fetcher, tempDir string) *Opener {
	return &Opener{HTTP: httpFetcher, FTP: ftpFetcher, TempDir: tempDir}
}

// Local returns a local path holding the content of location. The cleanup
// func removes any scratch files and is never nil.
func (o *Opener) Local(ctx context.Context, location string) (string, func(), error) {
	noop := func() {}
	location = strings.TrimSpace(location)
	if location == "" {
		return "", noop, eris.New("fetcher: empty location")
	}

	archive, member := splitArchive(location)
	base := location
	if archive != "" {
		base = archive
	}

	var scratch string
	cleanup := func() {
		if scratch != "" {
			_ = os.RemoveAll(scratch)
		}
	}
	mkScratch := func() (string, error) {
		if scratch == "" {
			dir, err := os.MkdirTemp(o.TempDir, "worldcup-fetch-*")
			if err != nil {
				return "", eris.Wrap(err, "fetcher: create scratch dir")
			}
			scratch = dir
		}
		return scratch, nil
	}

	local, err := o.resolve(ctx, base, mkScratch)
	if err != nil {
		cleanup()
		return "", noop, err
	}

	if archive != "" || strings.EqualFold(filepath.Ext(local), ".zip") {
		dir, err := mkScratch()
		if err != nil {
			cleanup()
			return "", noop, err
		}
		extractDir := filepath.Join(dir, "unzipped")
		local, err = ExtractZIP(local, member, extractDir)
		if err != nil {
			cleanup()
			return "", noop, eris.Wrapf(err, "fetcher: extract %s", location)
		}
	}

	return local, cleanup, nil
}

// ReadAll returns the content of location and the local file name it was
// read from, whose extension identifies the format.
func (o *Opener) ReadAll(ctx context.Context, location string) ([]byte, string, error) {
	local, cleanup, err := o.Local(ctx, location)
	if err != nil {
		return nil, "", err
	}
	defer cleanup()

	data, err := os.ReadFile(local)
	if err != nil {
		return nil, "", eris.Wrapf(err, "fetcher: read %s", location)
	}
	return data, filepath.Base(local), nil
}

func (o *Opener) resolve(ctx context.Context, location string, mkScratch func() (string, error)) (string, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path, or a Windows drive letter.
		if _, err := os.Stat(location); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", eris.Wrapf(ErrNotFound, "fetcher: open %s", location)
			}
			return "", eris.Wrapf(err, "fetcher: stat %s", location)
		}
		return location, nil
	}

	var f Fetcher
	switch u.Scheme {
	case "http", "https":
		f = o.HTTP
	case "ftp":
		f = o.FTP
	case "file":
		return o.resolve(ctx, u.Path, mkScratch)
	default:
		return "", eris.Errorf("fetcher: unsupported scheme %q in %s", u.Scheme, location)
	}
	if f == nil {
		return "", eris.Errorf("fetcher: no %s fetcher configured", u.Scheme)
	}

	dir, err := mkScratch()
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "download"
	}
	dest := filepath.Join(dir, name)

	n, err := f.DownloadToFile(ctx, location, dest)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: download %s", location)
	}
	zap.L().Info("fetcher: downloaded",
		zap.String("location", location),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

// splitArchive separates "archive.zip#member" into its parts. Locations
// without a ".zip#" marker return empty strings.
func splitArchive(location string) (archive, member string) {
	idx := strings.Index(strings.ToLower(location), ".zip#")
	if idx < 0 {
		return "", ""
	}
	return location[:idx+len(".zip")], location[idx+len(".zip#"):]
}
