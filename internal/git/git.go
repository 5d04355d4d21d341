// Package git reads file content from a git revision using go-git, so a
// review can target a committed version of a file without touching the
// working tree.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotInRepo is returned when the path is not inside a git work tree.
var ErrNotInRepo = errors.New("not inside a git repository")

// ReadFileAtRevision returns the content of path as of rev. rev accepts
// anything go-git can resolve: branch and tag names, hashes, HEAD~N.
func ReadFileAtRevision(path, rev string) (string, error) {
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	repo, root, err := openRepo(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	rel, err := repoRelative(root, abs)
	if err != nil {
		return "", err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("commit %s: %w", hash, err)
	}
	return fileContents(commit, rel, rev)
}

func openRepo(dir string) (*gogit.Repository, string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, "", ErrNotInRepo
	}
	if err != nil {
		return nil, "", fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", fmt.Errorf("worktree: %w", err)
	}
	return repo, wt.Filesystem.Root(), nil
}

// repoRelative maps abs to the slash-separated path git stores. Both sides
// are resolved through symlinks so temp dirs like /var -> /private/var agree.
func repoRelative(root, abs string) (string, error) {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	dir, base := filepath.Split(abs)
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		abs = filepath.Join(d, base)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s is outside repository %s", abs, root)
	}
	return filepath.ToSlash(rel), nil
}

func fileContents(commit *object.Commit, rel, rev string) (string, error) {
	f, err := commit.File(rel)
	if errors.Is(err, object.ErrFileNotFound) {
		return "", fmt.Errorf("%s does not exist at %s: %w", rel, rev, os.ErrNotExist)
	}
	if err != nil {
		return "", fmt.Errorf("read %s at %s: %w", rel, rev, err)
	}
	return f.Contents()
}
