package db

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"rollcall-roster/config"
	"rollcall-roster/roster"
)

// Open returns the store selected by cfg.Backend. A file backend whose
// path ends in .xlsx is served by ExcelStore, and the excel backend
// swaps the default text file name for students.xlsx. The returned closer
// releases any connection the store holds.
func Open(ctx context.Context, cfg *config.Config) (roster.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile:
		if strings.EqualFold(filepath.Ext(cfg.File), ".xlsx") {
			return NewExcelStore(cfg.File, cfg.Excel.Sheet), nopCloser{}, nil
		}
		return NewFileStore(cfg.File), nopCloser{}, nil
	case config.BackendExcel:
		path := cfg.File
		if path == config.DefaultFile {
			path = config.DefaultExcelFile
		}
		return NewExcelStore(path, cfg.Excel.Sheet), nopCloser{}, nil
	case config.BackendRedis:
		client, err := InitializeRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisService(client, cfg.Redis.Key), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
