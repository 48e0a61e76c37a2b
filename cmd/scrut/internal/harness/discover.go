package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/scrutcase"
)

// ParsedTestFile is one discovered and parsed test document. Grounded on
// original_source/src/bin/utils/file_parser.rs's ParsedTestFile.
type ParsedTestFile struct {
	Path      string
	Content   string
	Format    docparse.Format
	Config    scrutcase.DocumentConfig
	TestCases []scrutcase.TestCase
}

// FileDiscovery recursively finds test files under given paths and parses
// them with the appropriate docparse.Parser, matching file base names
// against two glob patterns. Patterns may use brace alternation (e.g.
// "*.{t,cram}"), which path/filepath.Match cannot express; github.com/
// gobwas/glob (already present in the pack's dependency graph, as an
// indirect dependency of kazz187-taskguild) supports it directly. Grounded
// on original_source/src/bin/utils/file_parser.rs's FileParser.
type FileDiscovery struct {
	matchCram     glob.Glob
	matchMarkdown glob.Glob
	fileParser    *docparse.FileParser
}

// NewFileDiscovery compiles matchMarkdown/matchCram and returns a
// FileDiscovery that dispatches matching files to a docparse.FileParser
// configured with markdownLanguages and cramCompat.
func NewFileDiscovery(matchMarkdown, matchCram string, markdownLanguages []string, cramCompat bool) (*FileDiscovery, error) {
	cram, err := glob.Compile(matchCram)
	if err != nil {
		return nil, fmt.Errorf("compile cram glob %q: %w", matchCram, err)
	}
	markdown, err := glob.Compile(matchMarkdown)
	if err != nil {
		return nil, fmt.Errorf("compile markdown glob %q: %w", matchMarkdown, err)
	}
	fp := docparse.NewFileParser(matchMarkdown, matchCram, markdownLanguages).WithCramCompat(cramCompat)
	return &FileDiscovery{matchCram: cram, matchMarkdown: markdown, fileParser: fp}, nil
}

// accept reports whether base (a file's base name) matches either pattern.
func (d *FileDiscovery) accept(base string) bool {
	return d.matchMarkdown.Match(base) || d.matchCram.Match(base)
}

// formatFor determines a matched file's Format directly from the compiled
// glob patterns, preferring Cram on a tie. docparse.FileParser.ParserFor
// can't be used for this dispatch: it matches with path/filepath.Match,
// which doesn't understand the brace alternation (e.g. "*.{t,cram}") these
// patterns may use.
func (d *FileDiscovery) formatFor(base string) (docparse.Format, bool) {
	if d.matchCram.Match(base) {
		return docparse.Cram, true
	}
	if d.matchMarkdown.Match(base) {
		return docparse.Markdown, true
	}
	return 0, false
}

// FindAndParse scans paths (each a file or a directory, recursed depth
// first) and parses every matching file found, in a stable, sorted order.
// Grounded on FileParser::find_and_parse / scan_paths_and_read_contents.
func (d *FileDiscovery) FindAndParse(paths []string) ([]ParsedTestFile, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("path %q does not exist: %w", p, err)
		}
		if info.IsDir() {
			found, err := d.walkDirectory(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		} else if d.accept(filepath.Base(p)) {
			files = append(files, p)
		}
	}

	result := make([]ParsedTestFile, 0, len(files))
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read test file %q: %w", path, err)
		}
		content := docparse.ReadTestDocument(raw)
		format, ok := d.formatFor(filepath.Base(path))
		if !ok {
			return nil, fmt.Errorf("no parser registered for file %q", path)
		}
		config, testcases, err := d.fileParser.ParseAs(content, format)
		if err != nil {
			return nil, fmt.Errorf("parse test file %q: %w", path, err)
		}
		result = append(result, ParsedTestFile{
			Path:      path,
			Content:   content,
			Format:    format,
			Config:    config,
			TestCases: testcases,
		})
	}
	return result, nil
}

func (d *FileDiscovery) walkDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory %q: %w", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)

	var result []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", path, err)
		}
		if info.IsDir() {
			sub, err := d.walkDirectory(path)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else if d.accept(name) {
			result = append(result, path)
		}
	}
	return result, nil
}
