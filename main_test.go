package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/linkvote/internal/cli"
)

func TestRun_SQLiteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := filepath.Join(dir, "e2e.db")
	t.Setenv("BCRYPT_COST", "4")

	steps := []struct {
		args string
		want int
	}{
		{"migrate", cli.ExitOK},
		{"user create -username alice -password secret -email alice@example.com", cli.ExitOK},
		{"content create -user 1 -url http://x.com -title X", cli.ExitOK},
		{"vote -content 1 -user 1", cli.ExitOK},
		{"vote -content 1 -user 1 -down", cli.ExitDuplicate},
		{"user delete -id 1", cli.ExitOK},
		{"content get -id 1", cli.ExitNotFound},
	}
	for _, step := range steps {
		var stdout, stderr bytes.Buffer
		args := append([]string{"-driver", "sqlite", "-dsn", dsn}, strings.Fields(step.args)...)
		if code := run(args, &stdout, &stderr); code != step.want {
			t.Fatalf("%q: expected exit %d, got %d\nstderr: %s", step.args, step.want, code, stderr.String())
		}
	}
}

func TestRun_InvalidDriver(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-driver", "oracle", "migrate"}, &stdout, &stderr); code != cli.ExitUsage {
		t.Fatalf("expected exit %d, got %d", cli.ExitUsage, code)
	}
}
