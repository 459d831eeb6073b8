package archive_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"passpack/internal/archive"
	"passpack/internal/testsupport"
)

func writeWorkDir(t *testing.T, base string, ticketID int, names ...string) string {
	t.Helper()
	workDir := filepath.Join(base, fmt.Sprintf("ticket_%d", ticketID))
	for _, name := range names {
		testsupport.WriteFile(t, filepath.Join(workDir, name), []byte(name))
	}
	return workDir
}

func TestCreatePassesPasswordOnStdinTwice(t *testing.T) {
	base := t.TempDir()
	workDir := writeWorkDir(t, base, 42, "ticket_42_password.txt", "Password_A.png")

	argsFile := filepath.Join(base, "args")
	stdinFile := filepath.Join(base, "stdin")
	binary := filepath.Join(base, "7z")
	testsupport.WriteScript(t, binary, fmt.Sprintf(
		"printf '%%s\\n' \"$@\" > %q\ncat > %q\ntouch \"$4\"\n", argsFile, stdinFile))

	cli := archive.NewCLI(archive.WithBinary(binary))
	archivePath, err := cli.Create(context.Background(), workDir, 42, "s3cret")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := filepath.Join(base, "ticket_42.7z")
	if archivePath != want {
		t.Fatalf("archive path = %q, want %q", archivePath, want)
	}
	if _, err := os.Stat(archivePath); err != nil {
		t.Fatalf("archive missing: %v", err)
	}

	stdin, err := os.ReadFile(stdinFile)
	if err != nil {
		t.Fatalf("read captured stdin: %v", err)
	}
	if string(stdin) != "s3cret\ns3cret\n" {
		t.Fatalf("stdin = %q, want password twice", stdin)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read captured args: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(args)), "\n")
	if len(lines) < 4 || lines[0] != "a" || lines[1] != "-t7z" || lines[2] != "-p" {
		t.Fatalf("unexpected argv %v", lines)
	}
	if strings.Contains(string(args), "s3cret") {
		t.Fatal("password leaked into argv")
	}
	for _, line := range lines[4:] {
		if filepath.Dir(line) != workDir {
			t.Fatalf("archived file %q not from working directory", line)
		}
	}
}

func TestCreateRejectsEmptyWorkingDirectory(t *testing.T) {
	base := t.TempDir()
	workDir := filepath.Join(base, "ticket_9")
	if err := os.MkdirAll(workDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cli := archive.NewCLI(archive.WithBinary("/bin/true"))
	if _, err := cli.Create(context.Background(), workDir, 9, "pw"); err == nil {
		t.Fatal("expected error for empty working directory")
	}
}

func TestCreateRequiresPassword(t *testing.T) {
	base := t.TempDir()
	workDir := writeWorkDir(t, base, 3, "file.txt")

	cli := archive.NewCLI(archive.WithBinary("/bin/true"))
	if _, err := cli.Create(context.Background(), workDir, 3, ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestCreateRemovesPartialArchiveOnFailure(t *testing.T) {
	base := t.TempDir()
	workDir := writeWorkDir(t, base, 5, "file.txt")

	binary := filepath.Join(base, "7z")
	testsupport.WriteScript(t, binary, "touch \"$4\"\nexit 2\n")

	cli := archive.NewCLI(archive.WithBinary(binary))
	if _, err := cli.Create(context.Background(), workDir, 5, "pw"); err == nil {
		t.Fatal("expected compressor failure")
	}
	if _, err := os.Stat(filepath.Join(base, "ticket_5.7z")); !os.IsNotExist(err) {
		t.Fatalf("partial archive left behind: %v", err)
	}
}

func TestCreateSkipsSubdirectories(t *testing.T) {
	base := t.TempDir()
	workDir := writeWorkDir(t, base, 8, "file.txt")
	if err := os.MkdirAll(filepath.Join(workDir, "nested"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	argsFile := filepath.Join(base, "args")
	binary := filepath.Join(base, "7z")
	testsupport.WriteScript(t, binary, fmt.Sprintf(
		"printf '%%s\\n' \"$@\" > %q\ntouch \"$4\"\n", argsFile))

	cli := archive.NewCLI(archive.WithBinary(binary))
	if _, err := cli.Create(context.Background(), workDir, 8, "pw"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read captured args: %v", err)
	}
	if strings.Contains(string(args), "nested") {
		t.Fatalf("subdirectory passed to compressor: %s", args)
	}
}
