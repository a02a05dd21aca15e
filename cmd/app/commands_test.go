package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notebook/internal/apperr"
)

// writeConfig points the store at a temporary cache dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "store:\n  cache_dir: " + filepath.Join(dir, "cache") + "\n  file: recent_notes.msgpack\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	err := cmd.Run(context.Background(), append([]string{"notebook", "--config", config}, args...))
	return out.String(), err
}

func TestCLI_AddListShow(t *testing.T) {
	cfg := writeConfig(t)

	out, err := runCLI(t, cfg, "add", "Wed", "It's a rainy day.")
	if err != nil {
		t.Fatal(err)
	}
	if out != "added: Wed\n" {
		t.Errorf("add output = %q", out)
	}
	if _, err := runCLI(t, cfg, "add", "Thu", "Sunny"); err != nil {
		t.Fatal(err)
	}

	out, err = runCLI(t, cfg, "list")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Wed\nThu\n" {
		t.Errorf("list output = %q", out)
	}

	out, err = runCLI(t, cfg, "show", "Wed")
	if err != nil {
		t.Fatal(err)
	}
	if out != "It's a rainy day.\n" {
		t.Errorf("show output = %q", out)
	}
}

func TestCLI_ShowMissing(t *testing.T) {
	_, err := runCLI(t, writeConfig(t), "show", "ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCLI_FindAndClear(t *testing.T) {
	cfg := writeConfig(t)
	for _, n := range [][2]string{{"1", "Today is Friday."}, {"2", "I passed my exam!"}} {
		if _, err := runCLI(t, cfg, "add", n[0], n[1]); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runCLI(t, cfg, "find", "friday")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1\n" {
		t.Errorf("find output = %q", out)
	}

	if _, err := runCLI(t, cfg, "clear"); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, cfg, "list")
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("list after clear = %q", out)
	}
}

func TestCLI_WrongArgCount(t *testing.T) {
	if _, err := runCLI(t, writeConfig(t), "add", "only-name"); err == nil {
		t.Error("add with one argument should fail")
	}
}
