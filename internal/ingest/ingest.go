// Package ingest gathers the raw text that quizzes are generated from.
// Document extraction (PDF and the like) happens elsewhere; this package only
// reads plain text and markdown from files, directories and git repositories.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/studyplan/internal/gitsource"
)

// MinTextLength is the shortest trimmed text worth generating a quiz from.
const MinTextLength = 50

// ErrInsufficientText means the source yielded too little text.
var ErrInsufficientText = errors.New("insufficient text")

// SourceKind tells how a source string is read.
type SourceKind string

const (
	KindFile SourceKind = "file"
	KindDir  SourceKind = "dir"
	KindGit  SourceKind = "git"
)

var textExtensions = map[string]bool{".txt": true, ".md": true}

// Loader reads text from sources. Git sources are checked out under ReposDir.
type Loader struct {
	ReposDir string
}

// Kind classifies source without touching the filesystem for git URLs.
func Kind(source string) (SourceKind, error) {
	if strings.HasSuffix(source, ".git") || strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://") {
		return KindGit, nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("reading source %s: %w", source, err)
	}
	if info.IsDir() {
		return KindDir, nil
	}
	return KindFile, nil
}

// Load returns the text of source, pages joined by a single space.
// It returns ErrInsufficientText when fewer than MinTextLength characters remain.
func (l *Loader) Load(ctx context.Context, source string) (string, error) {
	kind, err := Kind(source)
	if err != nil {
		return "", err
	}
	slog.Info("Loading text source", "kind", kind, "source", source)

	var text string
	switch kind {
	case KindFile:
		b, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", source, err)
		}
		text = readText(source, b)
	case KindDir:
		text, err = readDir(source)
	case KindGit:
		text, err = l.readGit(ctx, source)
	}
	if err != nil {
		return "", err
	}

	if err := CheckText(text); err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}
	return text, nil
}

// CheckText returns ErrInsufficientText when text holds fewer than
// MinTextLength characters once trimmed.
func CheckText(text string) error {
	if len(strings.TrimSpace(text)) < MinTextLength {
		return ErrInsufficientText
	}
	return nil
}

func (l *Loader) readGit(ctx context.Context, repoURL string) (string, error) {
	reposDir := l.ReposDir
	if reposDir == "" {
		reposDir = "repos"
	}
	if err := os.MkdirAll(reposDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("creating repos directory: %w", err)
	}

	localRepoPath, err := gitURLToLocalPath(reposDir, repoURL)
	if err != nil {
		return "", err
	}
	head, err := gitsource.Sync(ctx, repoURL, localRepoPath)
	if err != nil {
		return "", err
	}
	slog.Debug("Reading text repository", "url", repoURL, "head", head)
	return readDir(localRepoPath)
}

// readDir concatenates every text file below root in lexical order.
func readDir(root string) (string, error) {
	var parts []string
	var skipped int

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !textExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			slog.Warn("Skipping unreadable file", "path", path, "error", readErr)
			skipped++
			return nil
		}
		if s := strings.TrimSpace(readText(path, b)); s != "" {
			parts = append(parts, s)
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("walking %s: %w", root, walkErr)
	}

	slog.Info("Read text directory", "path", root, "files", len(parts), "skipped", skipped)
	return strings.Join(parts, " "), nil
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
