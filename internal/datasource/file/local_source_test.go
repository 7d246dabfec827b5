package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	raw := filepath.Join(dir, "AviationData.csv")
	const payload = "Event.Id,Location\n20001218X45444,\"MOOSE CREEK, ID\"\n"
	if err := os.WriteFile(raw, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name    string
		path    string
		ctx     context.Context
		wantErr error
	}{
		{name: "reads raw export", path: raw, ctx: context.Background()},
		{name: "missing snapshot", path: filepath.Join(dir, "processed.csv"), ctx: context.Background(), wantErr: os.ErrNotExist},
		{name: "canceled before open", path: raw, ctx: canceled, wantErr: context.Canceled},
	}
	for _, c := range cases {
		rc, err := NewLocal(c.path).Open(c.ctx)
		if c.wantErr != nil {
			if !errors.Is(err, c.wantErr) || rc != nil {
				t.Errorf("%s: Open = %v, %v; want %v", c.name, rc, err, c.wantErr)
			}
			if errors.Is(c.wantErr, os.ErrNotExist) && !strings.Contains(err.Error(), c.path) {
				t.Errorf("%s: error %q does not name the path", c.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		got, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil || string(got) != payload {
			t.Errorf("%s: read %q, %v", c.name, got, err)
		}
	}
}

func TestLocalWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "processed", "AviationData_processed.csv")
	src := NewLocal(path)

	if err := src.Write(context.Background(), func(w io.Writer) error {
		_, err := io.WriteString(w, "Event_Id\n1\n")
		return err
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "Event_Id\n1\n" {
		t.Fatalf("content = %q, %v", got, err)
	}

	boom := errors.New("boom")
	err = src.Write(context.Background(), func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if got, _ := os.ReadFile(path); string(got) != "Event_Id\n1\n" {
		t.Fatalf("failed write replaced the file: %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
	if src.Path() != path {
		t.Fatalf("Path() = %q", src.Path())
	}
}
