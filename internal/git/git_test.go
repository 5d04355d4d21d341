package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitFile(t *testing.T, wt *gogit.Worktree, dir, name, content, msg string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	_, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func initRepo(t *testing.T) (string, *gogit.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	return dir, wt
}

func TestReadFileAtRevision(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, wt, dir, "app/main.py", "print('v1')\n", "first")
	commitFile(t, wt, dir, "app/main.py", "print('v2')\n", "second")

	path := filepath.Join(dir, "app", "main.py")
	got, err := ReadFileAtRevision(path, "HEAD~1")
	if err != nil {
		t.Fatalf("ReadFileAtRevision: %v", err)
	}
	if got != "print('v1')\n" {
		t.Fatalf("got %q", got)
	}
	got, err = ReadFileAtRevision(path, "HEAD")
	if err != nil || got != "print('v2')\n" {
		t.Fatalf("HEAD content %q err=%v", got, err)
	}
}

func TestReadFileAtRevision_DeletedInWorkTree(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, wt, dir, "old.py", "x = 1\n", "add")
	path := filepath.Join(dir, "old.py")
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFileAtRevision(path, "HEAD")
	if err != nil || got != "x = 1\n" {
		t.Fatalf("got %q err=%v", got, err)
	}
}

func TestReadFileAtRevision_MissingFile(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, wt, dir, "a.py", "pass\n", "add")
	_, err := ReadFileAtRevision(filepath.Join(dir, "b.py"), "HEAD")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}

func TestReadFileAtRevision_BadRevision(t *testing.T) {
	dir, wt := initRepo(t)
	commitFile(t, wt, dir, "a.py", "pass\n", "add")
	if _, err := ReadFileAtRevision(filepath.Join(dir, "a.py"), "no-such-branch"); err == nil {
		t.Fatal("expected error for unknown revision")
	}
}

func TestReadFileAtRevision_NotARepo(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFileAtRevision(filepath.Join(dir, "a.py"), "HEAD")
	if !errors.Is(err, ErrNotInRepo) {
		t.Fatalf("want ErrNotInRepo, got %v", err)
	}
}
