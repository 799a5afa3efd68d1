package splitter

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Thumbnail is one rendered page as a data URI.
type Thumbnail struct {
	Page   int    `json:"page"`
	Data   string `json:"data"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Thumbnails renders every page of path. Pages that fail to render are
// logged and left out; the rest keep page order.
func (s *Splitter) Thumbnails(ctx context.Context, path string) ([]Thumbnail, error) {
	total, err := s.PageCount(path)
	if err != nil {
		return nil, err
	}
	tmpDir, err := os.MkdirTemp("", "inv-thumb-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			s.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	pages := make([]*Thumbnail, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(thumbnailWorkers)
	for i := 0; i < total; i++ {
		page := i + 1
		g.Go(func() error {
			th, err := s.renderPage(gctx, path, tmpDir, page)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Error("thumbnail failed", "page", page, "error", err)
				return nil
			}
			pages[page-1] = th
			s.logger.Debug("thumbnail generated", "page", page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Thumbnail, 0, total)
	for _, th := range pages {
		if th != nil {
			out = append(out, *th)
		}
	}
	return out, nil
}

func (s *Splitter) renderPage(ctx context.Context, path, dir string, page int) (*Thumbnail, error) {
	n := strconv.Itoa(page)
	prefix := filepath.Join(dir, "thumb-"+n)
	// pdftoppm -f N -l N -r 150 -jpeg -jpegopt quality=85 -scale-to 280 -singlefile <in.pdf> <prefix>
	args := []string{
		"-f", n, "-l", n,
		"-r", strconv.Itoa(thumbnailDPI),
		"-jpeg", "-jpegopt", "quality=" + strconv.Itoa(thumbnailQuality),
		"-scale-to", strconv.Itoa(thumbnailBox),
		"-singlefile",
		path, prefix,
	}
	if _, errb, err := s.runner.Run(ctx, s.pdftoppm, s.logger, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	data, err := os.ReadFile(prefix + ".jpg")
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode rendered page: %w", err)
	}
	return &Thumbnail{
		Page:   page,
		Data:   "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
