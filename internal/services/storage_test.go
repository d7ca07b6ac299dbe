package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageSaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)

	if err := storage.EnsureUploadDir(); err != nil {
		t.Fatalf("EnsureUploadDir: %v", err)
	}

	data := []byte("%PDF-1.4 fake")
	filename, path, err := storage.SaveBytes(data, "resume")
	if err != nil {
		t.Fatalf("SaveBytes: %v", err)
	}

	if !strings.HasPrefix(filename, "resume_") || filepath.Ext(filename) != ".pdf" {
		t.Fatalf("unexpected filename: %q", filename)
	}
	if path != storage.GetFilePath(filename) {
		t.Fatalf("path %q does not match GetFilePath %q", path, storage.GetFilePath(filename))
	}

	stored, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(stored, data) {
		t.Fatalf("stored file mismatch: %q, %v", stored, err)
	}

	if err := storage.DeleteFile(filename); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
}

func TestStorageRejectsEmptyFile(t *testing.T) {
	storage := NewStorageService(t.TempDir())
	if _, _, err := storage.SaveBytes(nil, "resume"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestStorageGetFilePathStaysInUploadDir(t *testing.T) {
	storage := NewStorageService("/srv/uploads")
	if got := storage.GetFilePath("../../etc/passwd"); got != "/srv/uploads/passwd" {
		t.Fatalf("GetFilePath escaped upload dir: %q", got)
	}
}
