// Package gitsource keeps local working copies of remote text repositories.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
)

// Sync makes localPath a current copy of the repository at url and returns
// the commit it now points at. A missing path is cloned; an existing one is
// pulled from origin.
func Sync(ctx context.Context, url, localPath string) (string, error) {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		return clone(ctx, url, localPath)
	case err != nil:
		return "", fmt.Errorf("checking %s: %w", localPath, err)
	default:
		return pull(ctx, localPath)
	}
}

func clone(ctx context.Context, url, localPath string) (string, error) {
	log := slog.With("url", url, "path", localPath)
	log.Info("Cloning text repository")

	repo, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{URL: url})
	if err != nil {
		// Leave nothing behind so the next Sync clones again.
		_ = os.RemoveAll(localPath)
		return "", fmt.Errorf("cloning %s: %w", url, err)
	}
	head, err := headOf(repo)
	if err != nil {
		return "", err
	}
	log.Info("Cloned text repository", "head", head)
	return head, nil
}

func pull(ctx context.Context, localPath string) (string, error) {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", localPath, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree of %s: %w", localPath, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	upToDate := errors.Is(err, git.NoErrAlreadyUpToDate)
	if err != nil && !upToDate {
		return "", fmt.Errorf("pulling %s: %w", localPath, err)
	}

	head, err := headOf(repo)
	if err != nil {
		return "", err
	}
	slog.Info("Pulled text repository", "path", localPath, "head", head, "up_to_date", upToDate)
	return head, nil
}

func headOf(repo *git.Repository) (string, error) {
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}
