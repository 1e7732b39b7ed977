package stenprot

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"snemovna-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// ArchiveLink is one per-session transcript zip offered by the
// stenoprotocol archive index.
type ArchiveLink struct {
	Session int
	Href    string
}

var archiveLinkRegex = regexp.MustCompile(`^(\d+)schuz\.zip$`)

func (c *Client) archiveIndexPath() string {
	return fmt.Sprintf("/eknih/%s/stenprot/zip/", c.Term)
}

// FetchArchiveIndex lists the session zip archives with a session
// number of at least minSession.
func (c *Client) FetchArchiveIndex(ctx context.Context, minSession int) ([]ArchiveLink, error) {
	res, err := c.getWithRetry(ctx, c.archiveIndexPath())
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("archive index returned status %d", res.StatusCode())
	}
	content, err := DecodeWindows1250(res.Body())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	var links []ArchiveLink
	for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
		m := archiveLinkRegex.FindStringSubmatch(anchor.Href)
		if m == nil {
			continue
		}
		session, err := strconv.Atoi(m[1])
		if err != nil || session < minSession {
			continue
		}
		links = append(links, ArchiveLink{Session: session, Href: anchor.Href})
	}
	return links, nil
}

// DownloadArchive fetches one session zip into destDir and returns the
// local path. An already-downloaded archive is reused.
func (c *Client) DownloadArchive(ctx context.Context, link ArchiveLink, destDir string) (string, error) {
	zipPath := filepath.Join(destDir, link.Href)
	if _, err := os.Stat(zipPath); err == nil {
		slog.Debug("archive already downloaded", "path", zipPath)
		return zipPath, nil
	}

	res, err := c.getWithRetry(ctx, c.archiveIndexPath()+link.Href)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != 200 {
		return "", fmt.Errorf("archive %s returned status %d", link.Href, res.StatusCode())
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(zipPath, res.Body(), 0644); err != nil {
		return "", err
	}
	return zipPath, nil
}

// ExtractArchive unpacks a session zip into the transcript store,
// flattening any directory structure inside the archive.
func ExtractArchive(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if err := extractArchiveFile(file, destDir); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func extractArchiveFile(file *zip.File, destDir string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(destDir, filepath.Base(file.Name)))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
