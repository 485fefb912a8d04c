package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"bikeshop-backend/models"
)

// File persists the snapshot as a JSON document on disk. Writes go to a
// temporary file in the same directory and are renamed into place, so a
// crash mid-write never leaves a truncated database.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file store rooted at path. The file is created on the
// first save; a missing file loads as an empty snapshot.
func NewFile(path string) *File {
	return &File{path: path}
}

type fileDocument struct {
	models.Snapshot
	Services []models.RepairService `json:"repairServices"`
}

func (f *File) LoadAll(ctx context.Context) (models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return models.Snapshot{}, err
	}
	return doc.Snapshot, nil
}

func (f *File) SaveAll(ctx context.Context, snap models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Snapshot = snap
	return f.write(doc)
}

func (f *File) LoadServices(ctx context.Context) ([]models.RepairService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	return doc.Services, nil
}

func (f *File) SaveServices(ctx context.Context, services []models.RepairService) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc.Services = services
	return f.write(doc)
}

func (f *File) read() (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func (f *File) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
