package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/splitter"
)

type result struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	PageCount  *int                 `json:"page_count,omitempty"`
	Thumbnails []splitter.Thumbnail `json:"thumbnails,omitempty"`
	TotalPages *int                 `json:"total_pages,omitempty"`
	SplitFiles []string             `json:"split_files,omitempty"`
	SplitCount *int                 `json:"split_count,omitempty"`
}

func main() {
	var (
		action    = flag.String("action", "", "count, thumbnails or split (required)")
		file      = flag.String("file", "", "path to PDF file (required)")
		outputDir = flag.String("output-dir", "", "output directory for split files")
		ranges    = flag.String("ranges", "", "comma-separated page ranges, e.g. 1,2-4")
	)
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	v := common.NewValidator().
		Field("action", *action, common.Required, common.OneOf("count", "thumbnails", "split")).
		Field("file", *file, common.Required)
	if err := v.Error(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	s := splitter.New(logger, splitter.WithPdftoppm(cfg.OCR.Pdftoppm))

	res := run(context.Background(), s, *action, *file, *outputDir, *ranges)
	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		os.Exit(1)
	}
	if !res.Success {
		os.Exit(1)
	}
}

func run(ctx context.Context, s *splitter.Splitter, action, file, outputDir, ranges string) result {
	if _, err := os.Stat(file); err != nil {
		return result{Error: "File not found: " + file}
	}

	switch action {
	case "count":
		n, err := s.PageCount(file)
		if err != nil {
			return result{Error: err.Error()}
		}
		return result{Success: true, PageCount: &n}

	case "thumbnails":
		thumbs, err := s.Thumbnails(ctx, file)
		if err != nil {
			return result{Error: err.Error()}
		}
		n := len(thumbs)
		return result{Success: true, Thumbnails: thumbs, TotalPages: &n}

	case "split":
		var list []string
		for _, r := range strings.Split(ranges, ",") {
			if r = strings.TrimSpace(r); r != "" {
				list = append(list, r)
			}
		}
		files, err := s.Split(ctx, file, outputDir, list)
		if err != nil {
			var appErr *common.AppError
			if errors.As(err, &appErr) {
				return result{Error: appErr.Message}
			}
			return result{Error: err.Error()}
		}
		n := len(files)
		return result{Success: true, SplitFiles: files, SplitCount: &n}
	}
	return result{Error: "Unknown action: " + action}
}
