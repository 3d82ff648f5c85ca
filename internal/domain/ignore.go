package domain

import (
	"bufio"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreList holds exclusion patterns loaded from an ignore file. One
// pattern per line; blank lines and lines starting with # are skipped. A
// trailing / marks a directory exclusion that applies at any depth.
type IgnoreList struct {
	dirs  []string
	globs []string
}

// ParseIgnore reads an ignore file.
func ParseIgnore(r io.Reader) (*IgnoreList, error) {
	list := &IgnoreList{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			list.dirs = append(list.dirs, strings.TrimSuffix(line, "/"))
			continue
		}
		list.globs = append(list.globs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Match reports whether a path (relative, slash- or OS-separated) is
// excluded. Directory patterns match any path segment; glob patterns match
// the basename and the full path.
func (l *IgnoreList) Match(p string) bool {
	if l == nil {
		return false
	}
	p = filepath.ToSlash(p)

	segments := strings.Split(p, "/")
	for _, dir := range l.dirs {
		for _, seg := range segments[:max(len(segments)-1, 0)] {
			if seg == dir {
				return true
			}
		}
	}

	base := path.Base(p)
	for _, g := range l.globs {
		if ok, _ := path.Match(g, base); ok {
			return true
		}
		if ok, _ := path.Match(g, p); ok {
			return true
		}
	}
	return false
}

// MatchDir reports whether a directory path itself is excluded by a
// directory pattern, so walkers can skip the whole subtree.
func (l *IgnoreList) MatchDir(p string) bool {
	if l == nil {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		for _, dir := range l.dirs {
			if seg == dir {
				return true
			}
		}
	}
	return false
}

// Empty reports whether the list carries no patterns at all.
func (l *IgnoreList) Empty() bool {
	return l == nil || (len(l.dirs) == 0 && len(l.globs) == 0)
}
