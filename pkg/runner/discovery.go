package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoFiles indicates that expansion produced no files.
var ErrNoFiles = errors.New("no matching files")

// globMeta are the characters that make a pattern a glob.
const globMeta = "*?[{"

// Discover expands opts.Patterns into a list of absolute file paths.
// Files appear in pattern order; the files of one directory or glob are
// sorted. Duplicates are dropped. Directory and glob walks skip hidden
// entries. A plain path that does not exist is an error; a glob that
// matches nothing is not, unless nothing at all matches (ErrNoFiles).
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ignore, err := compileGlobs(opts.Ignore)
	if err != nil {
		return nil, err
	}

	filter := &fileFilter{
		workDir:        workDir,
		extensions:     opts.Extensions,
		skipExtensions: opts.SkipExtensions,
		ignore:         ignore,
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(paths []string) {
		for _, p := range paths {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				files = append(files, p)
			}
		}
	}

	for _, pattern := range opts.Patterns {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		if strings.ContainsAny(pattern, globMeta) {
			matched, err := expandGlob(ctx, workDir, pattern, filter)
			if err != nil {
				return nil, err
			}
			add(matched)
			continue
		}

		absPattern := pattern
		if !filepath.IsAbs(pattern) {
			absPattern = filepath.Join(workDir, pattern)
		}
		absPattern = filepath.Clean(absPattern)

		info, err := os.Stat(absPattern)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", pattern, err)
		}

		if info.IsDir() {
			walked, err := walkDirectory(ctx, absPattern, filter.accept, filter)
			if err != nil {
				return nil, err
			}
			add(walked)
		} else if filter.accept(absPattern) {
			add([]string{absPattern})
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, strings.Join(opts.Patterns, " "))
	}
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// expandGlob walks the static prefix of pattern and keeps the files the
// rest of the pattern matches, relative to that prefix.
func expandGlob(ctx context.Context, workDir, pattern string, filter *fileFilter) ([]string, error) {
	pattern = filepath.Clean(pattern)
	prefix := staticPrefix(pattern)

	rest := filepath.ToSlash(pattern)
	if prefix != "." {
		rest = strings.TrimPrefix(rest[len(filepath.ToSlash(prefix)):], "/")
	}

	g, err := glob.Compile(rest, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}

	root := prefix
	if !filepath.IsAbs(root) {
		root = filepath.Join(workDir, root)
	}
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	return walkDirectory(ctx, root, func(path string) bool {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		return g.Match(filepath.ToSlash(rel)) && filter.accept(path)
	}, filter)
}

// staticPrefix returns the longest leading directory of pattern that
// contains no glob metacharacters, or "." when there is none.
func staticPrefix(pattern string) string {
	dir := pattern
	for strings.ContainsAny(dir, globMeta) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dir
}

// walkDirectory recursively walks root and returns the sorted files keep accepts.
func walkDirectory(
	ctx context.Context,
	root string,
	keep func(path string) bool,
	filter *fileFilter,
) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if path != root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && filter.ignoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			// Symlinks to regular files are followed; everything else is skipped.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil //nolint:nilerr // Broken or special entries are skipped.
			}
		}

		if keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// fileFilter applies extension and ignore rules.
type fileFilter struct {
	workDir        string
	extensions     []string
	skipExtensions []string
	ignore         []glob.Glob
}

// accept reports whether a file passes extension and ignore rules.
func (f *fileFilter) accept(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if len(f.extensions) > 0 && !slices.Contains(f.extensions, ext) {
		return false
	}
	if slices.Contains(f.skipExtensions, ext) {
		return false
	}
	return !f.ignored(f.rel(path))
}

// ignoredDir reports whether a directory and everything below it is ignored.
// "vendor/**" matches "vendor/" because "**" also matches the empty string.
func (f *fileFilter) ignoredDir(path string) bool {
	rel := f.rel(path)
	return f.ignored(rel) || f.ignored(rel+"/")
}

// ignored matches rel and its base name against the ignore globs.
func (f *fileFilter) ignored(rel string) bool {
	base := filepath.Base(strings.TrimSuffix(rel, "/"))
	for _, g := range f.ignore {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// rel returns path relative to the working directory, slash separated.
func (f *fileFilter) rel(path string) string {
	rel, err := filepath.Rel(f.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
