package utils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("-")
	if err != nil || full != "-" || dir != "" {
		t.Errorf("GetPathInfo(-) = %q, %q, %v", full, dir, err)
	}

	full, dir, err = GetPathInfo("testdir/../prog.as")
	if err != nil {
		t.Fatalf("GetPathInfo failed: %v", err)
	}
	if !filepath.IsAbs(full) || filepath.Base(full) != "prog.as" || filepath.Dir(full) != dir {
		t.Errorf("GetPathInfo() = %q, %q", full, dir)
	}
}

func TestOpenSource(t *testing.T) {
	r, err := OpenSource("-", bytes.NewBufferString("stdin\n"))
	if err != nil {
		t.Fatalf("OpenSource(-) failed: %v", err)
	}
	if data, _ := io.ReadAll(r); string(data) != "stdin\n" {
		t.Errorf("OpenSource(-) read %q", data)
	}

	path := filepath.Join(t.TempDir(), "in.as")
	if err := os.WriteFile(path, []byte("halt\n"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	r, err = OpenSource(path, nil)
	if err != nil {
		t.Fatalf("OpenSource failed: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "halt\n" {
		t.Errorf("read %q; want %q", data, "halt\n")
	}

	if _, err := OpenSource(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("OpenSource(missing) succeeded; want error")
	}
}

func TestDestinationCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mc")
	d, err := CreateDestination(path, nil)
	if err != nil {
		t.Fatalf("CreateDestination failed: %v", err)
	}
	if _, err := io.WriteString(d, "       halt\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination exists before Commit: %v", err)
	}
	if err := d.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "       halt\n" {
		t.Errorf("destination = %q, %v", data, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries after Commit; want 1", len(entries))
	}
}

func TestDestinationAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mc")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("failed to write old output: %v", err)
	}
	d, err := CreateDestination(path, nil)
	if err != nil {
		t.Fatalf("CreateDestination failed: %v", err)
	}
	io.WriteString(d, "partial")
	if err := d.Abort(); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "old\n" {
		t.Errorf("destination = %q after Abort; want old content", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries after Abort; want 1", len(entries))
	}
}

func TestDestinationStdout(t *testing.T) {
	var buf bytes.Buffer
	d, err := CreateDestination("-", &buf)
	if err != nil {
		t.Fatalf("CreateDestination failed: %v", err)
	}
	io.WriteString(d, "x\n")
	if err := d.Commit(); err != nil {
		t.Errorf("Commit() = %v", err)
	}
	if err := d.Abort(); err != nil {
		t.Errorf("Abort() = %v", err)
	}
	if buf.String() != "x\n" {
		t.Errorf("stdout = %q; want %q", buf.String(), "x\n")
	}
}
