package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"duoboard/domain"
)

// FileBackend keeps each record in its own JSON file inside a data
// directory. Reads and writes cover the whole file under an exclusive
// flock, so concurrent processes sharing the directory cannot interleave
// partial writes.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the data directory if needed and returns a
// backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) LoadBoard(ctx context.Context) (domain.Board, error) {
	var b domain.Board
	if err := f.readRecord(BoardRecord, &b); err != nil {
		return domain.Board{}, err
	}
	return b, nil
}

func (f *FileBackend) SaveBoard(ctx context.Context, b domain.Board) error {
	return f.writeRecord(BoardRecord, b)
}

func (f *FileBackend) LoadInfo(ctx context.Context) ([]domain.InfoItem, error) {
	var items []domain.InfoItem
	if err := f.readRecord(InfoRecord, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *FileBackend) SaveInfo(ctx context.Context, items []domain.InfoItem) error {
	return f.writeRecord(InfoRecord, items)
}

func (f *FileBackend) path(record string) string {
	return filepath.Join(f.dir, record+".json")
}

func (f *FileBackend) readRecord(record string, out any) error {
	file, err := os.Open(f.path(record))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("open %s record: %w", record, err)
	}
	defer file.Close()
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_SH); err != nil {
		return fmt.Errorf("lock %s record: %w", record, err)
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)

	fi, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s record: %w", record, err)
	}
	if fi.Size() == 0 {
		return ErrNotFound
	}
	if err := json.NewDecoder(file).Decode(out); err != nil {
		return fmt.Errorf("decode %s record: %w", record, err)
	}
	return nil
}

func (f *FileBackend) writeRecord(record string, v any) error {
	file, err := os.OpenFile(f.path(record), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s record: %w", record, err)
	}
	defer file.Close()
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock %s record: %w", record, err)
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", record, err)
	}
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate %s record: %w", record, err)
	}
	if _, err := file.WriteAt(data, 0); err != nil {
		return fmt.Errorf("write %s record: %w", record, err)
	}
	return nil
}
