// Binary fetchdriver downloads the geckodriver binary that arachnid starts
// with its -geckodriver flag.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"

	"github.com/tmickel/arachnid"
	"github.com/tmickel/arachnid/internal/download"
)

var (
	directory      = flag.String("dir", "vendor", "The directory to download into. It is created if needed.")
	downloadLatest = flag.Bool("download_latest", false, "If true, download the latest geckodriver release instead of the pinned one.")
	assetName      = flag.String("asset", download.DefaultAsset, "With -download_latest, a regular expression matching the release asset to download.")
)

func main() {
	flag.Parse()
	defer glog.Flush()
	ctx := context.Background()

	if err := os.MkdirAll(*directory, 0755); err != nil {
		glog.Exitf("Error creating %q: %v", *directory, err)
	}

	file := download.GeckodriverFile
	if *downloadLatest {
		latest, err := download.LatestGeckodriverFile(ctx, github.NewClient(arachnid.DefaultHTTPClient()), *assetName)
		if err != nil {
			glog.Exitf("Unable to find the latest geckodriver: %v", err)
		}
		file = latest
	}

	if err := download.DownloadAll(ctx, arachnid.DefaultHTTPClient(), []download.File{file}, *directory); err != nil {
		glog.Exitf("%v", err)
	}
	glog.Infof("geckodriver is ready in %s", filepath.Join(*directory, "geckodriver"))
}
