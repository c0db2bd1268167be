package csvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/torgprom/econdash/internal/domain/models"
)

// FileInfo describes one generated CSV file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Rows     int       `json:"rows"`
	Modified time.Time `json:"modified"`
}

// FileWindow is one paginated slice of a CSV file.
type FileWindow struct {
	Filename  string     `json:"filename"`
	TotalRows int        `json:"total_rows"`
	Offset    int        `json:"offset"`
	Limit     int        `json:"limit"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
}

// ColumnStats summarizes one column of a CSV file. Min/Max/Mean are only set
// for numeric columns.
type ColumnStats struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Nulls int      `json:"nulls"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Mean  *float64 `json:"mean,omitempty"`
}

// FileStats summarizes a whole CSV file.
type FileStats struct {
	Filename     string        `json:"filename"`
	TotalRows    int           `json:"total_rows"`
	TotalColumns int           `json:"total_columns"`
	Columns      []ColumnStats `json:"columns"`
}

// resolve validates a browsed file name and returns its path. Only plain .csv
// names inside the data directory are allowed.
func (s *Store) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".csv") {
		return "", ErrFileNotFound
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", ErrFileNotFound
	}
	return path, nil
}

// ListFiles returns metadata for every CSV file in the data directory,
// sorted by name.
func (s *Store) ListFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		_, rows, err := s.readCSV(entry.Name())
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			Rows:     len(rows),
			Modified: info.ModTime().UTC(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ReadWindow returns rows [offset, offset+limit) of a file. An offset at or
// past the end yields an empty page, not an error.
func (s *Store) ReadWindow(name string, offset, limit int) (*FileWindow, error) {
	if offset < 0 || limit < 0 {
		return nil, ErrInvalidRange
	}
	if _, err := s.resolve(name); err != nil {
		return nil, err
	}

	header, rows, err := s.readCSV(name)
	if err != nil {
		return nil, err
	}

	window := &FileWindow{
		Filename:  name,
		TotalRows: len(rows),
		Offset:    offset,
		Limit:     limit,
		Columns:   header,
		Rows:      [][]string{},
	}

	if offset >= len(rows) {
		return window, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	window.Rows = rows[offset:end]
	return window, nil
}

// Stats computes per-column summaries for a file. A column is numeric when
// every non-empty value parses as a float.
func (s *Store) Stats(name string) (*FileStats, error) {
	if _, err := s.resolve(name); err != nil {
		return nil, err
	}

	header, rows, err := s.readCSV(name)
	if err != nil {
		return nil, err
	}

	stats := &FileStats{
		Filename:     name,
		TotalRows:    len(rows),
		TotalColumns: len(header),
		Columns:      make([]ColumnStats, 0, len(header)),
	}

	for col, colName := range header {
		cs := ColumnStats{Name: colName, Type: "numeric"}

		var sum float64
		var count int
		var min, max float64

		for _, row := range rows {
			if col >= len(row) || row[col] == "" {
				cs.Nulls++
				continue
			}
			if cs.Type != "numeric" {
				continue
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				cs.Type = "string"
				continue
			}
			if count == 0 || v < min {
				min = v
			}
			if count == 0 || v > max {
				max = v
			}
			sum += v
			count++
		}

		if cs.Type == "numeric" && count > 0 {
			mean := models.RoundMoney(sum / float64(count))
			cs.Min, cs.Max, cs.Mean = &min, &max, &mean
		}
		stats.Columns = append(stats.Columns, cs)
	}

	return stats, nil
}
