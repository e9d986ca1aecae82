// Package download fetches the geckodriver binary that arachnid drives.
package download

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
)

// File describes how to download a file from the Web.
type File struct {
	URL  string
	Name string
	// Hash is the hex-encoded SHA-256 of the file. If empty, the file is not
	// verified and is always downloaded again.
	Hash string
	// Rename, if it has two elements, renames the first path to the second
	// after unpacking. Both are relative to the download directory.
	Rename []string
}

// Path returns the location of the downloaded file inside directory.
func (f File) Path(directory string) string {
	return filepath.Join(directory, f.Name)
}

// GeckodriverFile describes a known-good geckodriver release.
var GeckodriverFile = File{
	URL:  "https://github.com/mozilla/geckodriver/releases/download/v0.24.0/geckodriver-v0.24.0-linux64.tar.gz",
	Name: "geckodriver.tar.gz",
	Hash: "03be3d3b16b57e0f3e7e8ba7c1e4bf090620c147e6804f6c6f3203864f5e3784",
}

// DefaultAsset matches the Linux 64-bit geckodriver archive.
const DefaultAsset = `^geckodriver-v[0-9.]+-linux64\.tar\.gz$`

// LatestGeckodriverFile returns a File for the asset of the latest
// mozilla/geckodriver release whose name matches assetName, a regular
// expression.
func LatestGeckodriverFile(ctx context.Context, client *github.Client, assetName string) (File, error) {
	assetNameRE, err := regexp.Compile(assetName)
	if err != nil {
		return File{}, fmt.Errorf("invalid asset name regular expression %q: %s", assetName, err)
	}

	rel, _, err := client.Repositories.GetLatestRelease(ctx, "mozilla", "geckodriver")
	if err != nil {
		return File{}, err
	}
	for _, a := range rel.Assets {
		if !assetNameRE.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		glog.Infof("Latest geckodriver release is %s", rel.GetTagName())
		return File{URL: u, Name: a.GetName()}, nil
	}
	return File{}, fmt.Errorf("release for %s not found at https://github.com/mozilla/geckodriver/releases", assetName)
}

// Download fetches file into directory unless a copy with the expected hash
// is already there, then unpacks it if it is a .tar.gz archive.
func Download(ctx context.Context, client *http.Client, file File, directory string) error {
	if file.Hash != "" && fileSameHash(file, directory) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := downloadFile(ctx, client, file, directory); err != nil {
			return err
		}
	}

	if err := unpack(file, directory); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(directory, rename[0])
		to := filepath.Join(directory, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

// DownloadAll downloads files concurrently. It stops at the first failure.
func DownloadAll(ctx context.Context, client *http.Client, files []File, directory string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := Download(ctx, client, file, directory); err != nil {
				return fmt.Errorf("error handling %s: %v", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func downloadFile(ctx context.Context, client *http.Client, file File, directory string) (err error) {
	req, err := http.NewRequest("GET", file.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: error downloading %q: %s", file.Name, file.URL, resp.Status)
	}

	f, err := os.Create(file.Path(directory))
	if err != nil {
		return fmt.Errorf("error creating %q: %v", file.Path(directory), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %v", file.Path(directory), closeErr)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.URL, err)
	}
	if file.Hash != "" {
		if got := hex.EncodeToString(h.Sum(nil)); got != file.Hash {
			return fmt.Errorf("%s: got sha256 hash %q, want %q", file.Name, got, file.Hash)
		}
	}
	return nil
}

func fileSameHash(file File, directory string) bool {
	f, err := os.Open(file.Path(directory))
	if err != nil {
		return false
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

// unpack extracts a .tar.gz archive into directory. Other files are left as
// they are.
func unpack(file File, directory string) error {
	if !strings.HasSuffix(file.Name, ".tar.gz") && !strings.HasSuffix(file.Name, ".tgz") {
		return nil
	}
	glog.Infof("Unpacking %q", file.Path(directory))

	f, err := os.Open(file.Path(directory))
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("error unpacking %q: %v", file.Name, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error unpacking %q: %v", file.Name, err)
		}
		target := filepath.Join(directory, hdr.Name)
		if target == filepath.Clean(directory) {
			// "./" and the like.
			continue
		}
		if !strings.HasPrefix(target, filepath.Clean(directory)+string(os.PathSeparator)) {
			return fmt.Errorf("error unpacking %q: entry %q escapes the target directory", file.Name, hdr.Name)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, os.FileMode(hdr.Mode).Perm(), tr); err != nil {
				return fmt.Errorf("error unpacking %q: %v", file.Name, err)
			}
		}
	}
}

func writeEntry(path string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
