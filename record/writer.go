// Package record stores move records as parquet files.
package record

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CharaWein/chessGo/game"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const schema = "chess_move_v1"

// Writer streams game.MoveRecord rows into a parquet file under
// outDir/tmp and moves it into outDir on Close, so readers never see a
// partial file.
type Writer struct {
	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[game.MoveRecord]

	rows  int
	games map[int64]struct{}
}

func NewWriter(outDir, prefix string) (*Writer, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}
	tmpDir := filepath.Join(abs, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.parquet", prefix, time.Now().UnixNano())
	tmpPath := filepath.Join(tmpDir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}
	w := parquet.NewGenericWriter[game.MoveRecord](f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", schema)

	return &Writer{
		tmpPath: tmpPath,
		outPath: filepath.Join(abs, name),
		file:    f,
		writer:  w,
		games:   make(map[int64]struct{}),
	}, nil
}

func (w *Writer) OutPath() string { return w.outPath }
func (w *Writer) Rows() int       { return w.rows }
func (w *Writer) Games() int      { return len(w.games) }

func (w *Writer) Write(records []game.MoveRecord) error {
	if w.writer == nil {
		return fmt.Errorf("record writer is closed")
	}
	if len(records) == 0 {
		return nil
	}
	if _, err := w.writer.Write(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	w.rows += len(records)
	for _, r := range records {
		w.games[r.Game] = struct{}{}
	}
	return nil
}

// Close finishes the file and moves it into place. With no rows written
// the temporary file is removed and the returned path is empty.
func (w *Writer) Close() (string, error) {
	if w.writer == nil {
		return "", nil
	}
	closeErr := w.writer.Close()
	w.writer = nil
	_ = w.file.Sync()
	fileErr := w.file.Close()
	w.file = nil

	if closeErr != nil {
		return "", fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return "", fmt.Errorf("close parquet file: %w", fileErr)
	}
	if w.rows == 0 {
		_ = os.Remove(w.tmpPath)
		return "", nil
	}
	if err := os.Rename(w.tmpPath, w.outPath); err != nil {
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return w.outPath, nil
}

// ReadFile loads every record of a file written by Writer.
func ReadFile(path string) ([]game.MoveRecord, error) {
	rows, err := parquet.ReadFile[game.MoveRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
