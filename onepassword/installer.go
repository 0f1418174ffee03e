package onepassword

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// CLIVersion is the pinned op CLI release the installer fetches.
const CLIVersion = "0.5.7"

// defaultDistributionBaseURL hosts the official op CLI release
// archives.
const defaultDistributionBaseURL = "https://cache.agilebits.com/dist/1P/op/pkg"

// distributionPlatforms maps a GOOS value to the artifact platform
// string in the release archive name.
var distributionPlatforms = map[string]string{
	"darwin":  "darwin_amd64",
	"linux":   "linux_amd64",
	"windows": "windows_amd64",
}

// ReleaseInstaller acquires and locates the op executable from the
// official release archive: download the zip, extract it into a
// versioned folder next to the requested dir, mark the binary
// executable, and delete the archive.
type ReleaseInstaller struct {
	// Version of the op CLI to install.
	Version string
	// Platform is the GOOS value to resolve the artifact for.
	Platform string
	// BaseURL overrides the distribution host, for tests.
	BaseURL string
	// HTTPClient performs the download. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// NewReleaseInstaller returns an installer pinned to the given version
// and platform.
func NewReleaseInstaller(version, platform string) *ReleaseInstaller {
	return &ReleaseInstaller{Version: version, Platform: platform}
}

// ExecutablePath returns where the executable lives under dir,
// installed or not.
func (r *ReleaseInstaller) ExecutablePath(dir string) string {
	name := "op"
	if r.Platform == "windows" {
		name = "op.exe"
	}
	return filepath.Join(fmt.Sprintf("%s-%s", dir, r.Version), name)
}

// IsInstalled reports whether the executable already exists under dir.
func (r *ReleaseInstaller) IsInstalled(dir string) bool {
	_, err := os.Stat(r.ExecutablePath(dir))
	return err == nil
}

// EnsureExecutable returns the executable path under dir, downloading
// and extracting the release archive first when the binary is missing.
// An unrecognized platform is a PlatformNotSupportedError.
func (r *ReleaseInstaller) EnsureExecutable(ctx context.Context, dir string) (string, error) {
	artifactPlatform, ok := distributionPlatforms[r.Platform]
	if !ok {
		return "", &PlatformNotSupportedError{Platform: r.Platform}
	}
	execPath := r.ExecutablePath(dir)
	if r.IsInstalled(dir) {
		return execPath, nil
	}

	folder := fmt.Sprintf("%s-%s", dir, r.Version)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("creating install folder: %w", err)
	}

	archivePath := filepath.Join(folder, "op-"+uuid.NewString()+".zip")
	if err := r.download(ctx, r.archiveURL(artifactPlatform), archivePath); err != nil {
		return "", err
	}
	defer os.Remove(archivePath)

	if err := extractArchive(archivePath, folder); err != nil {
		return "", fmt.Errorf("extracting op archive: %w", err)
	}
	if err := os.Chmod(execPath, 0o755); err != nil {
		return "", fmt.Errorf("marking op executable: %w", err)
	}
	return execPath, nil
}

func (r *ReleaseInstaller) archiveURL(artifactPlatform string) string {
	base := r.BaseURL
	if base == "" {
		base = defaultDistributionBaseURL
	}
	return fmt.Sprintf("%s/v%s/op_%s_v%s.zip", base, r.Version, artifactPlatform, r.Version)
}

func (r *ReleaseInstaller) download(ctx context.Context, url, destination string) error {
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("downloading op archive: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading op archive: unexpected status %s", response.Status)
	}

	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, response.Body); err != nil {
		return fmt.Errorf("writing op archive: %w", err)
	}
	return nil
}

func extractArchive(archivePath, destination string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, entry := range reader.File {
		target := filepath.Join(destination, filepath.Base(entry.Name))
		if entry.FileInfo().IsDir() {
			continue
		}
		source, err := entry.Open()
		if err != nil {
			return err
		}
		file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode())
		if err != nil {
			source.Close()
			return err
		}
		_, err = io.Copy(file, source)
		source.Close()
		file.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
