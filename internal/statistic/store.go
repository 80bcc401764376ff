package statistic

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ResultID identifies the repetition that owns a statistic: the name of its
// parent single result and its repetition index.
type ResultID struct {
	Parent string
	Index  int
}

// DirectoryName is the filesystem-safe directory name of the repetition.
func (id ResultID) DirectoryName() string {
	return "sub" + strconv.Itoa(id.Index)
}

func (id ResultID) String() string {
	return id.Parent + "_" + strconv.Itoa(id.Index)
}

// Store persists point lists under a key derived only from the kind and the
// owning repetition, so separate processes agree on where an artifact lives.
type Store interface {
	Exists(kind Kind, id ResultID) bool
	Write(kind Kind, id ResultID, points []Point) error
	Read(kind Kind, id ResultID) ([]Point, error)
}

// CSVStore keeps each point list in <root>/<parent>/sub<index>/<kind>.csv.
type CSVStore struct {
	Root string
}

func NewCSVStore(root string) *CSVStore {
	return &CSVStore{Root: root}
}

func (s *CSVStore) Path(kind Kind, id ResultID) string {
	return filepath.Join(s.Root, id.Parent, id.DirectoryName(), kind.FileName())
}

func (s *CSVStore) Exists(kind Kind, id ResultID) bool {
	info, err := os.Stat(s.Path(kind, id))
	return err == nil && info.Mode().IsRegular()
}

// Write replaces any existing artifact. The file is written next to its
// destination and renamed so readers never see a partial point list.
func (s *CSVStore) Write(kind Kind, id ResultID, points []Point) error {
	path := s.Path(kind, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating statistic dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+kind.FileName()+".*")
	if err != nil {
		return fmt.Errorf("creating statistic file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := WriteCSV(tmp, kind.Header(), points); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", kind.FileName(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", kind.FileName(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming %s: %w", kind.FileName(), err)
	}
	return nil
}

func (s *CSVStore) Read(kind Kind, id ResultID) ([]Point, error) {
	return ReadCSVFile(s.Path(kind, id))
}
