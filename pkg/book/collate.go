package book

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/yaklabco/bookpress/internal/logging"
	"github.com/yaklabco/bookpress/pkg/fsutil"
)

// ErrNoSources is returned when collation finds no manuscript files,
// either because the source directory holds none or because exclusion
// rules dropped them all.
var ErrNoSources = errors.New("no manuscript files selected")

// manuscriptExts are the file extensions picked up by collation,
// matched case-insensitively.
var manuscriptExts = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// SourceFile is one manuscript file that survived exclusion.
type SourceFile struct {
	// Path is the file's path as discovered.
	Path string

	// Name is the base name, used in reports.
	Name string

	// Content is the raw file content.
	Content []byte

	// Info is the snapshot taken when the file was read. The build
	// compares it against the file at exit to catch mid-build edits.
	Info *fsutil.FileInfo
}

// Collation is the joined manuscript.
type Collation struct {
	// Text is the collated Markdown, files separated by blank lines.
	Text string

	// Files lists the included files in collation order.
	Files []SourceFile

	// Excluded lists the base names of files dropped by rules.
	Excluded []string
}

// Collate reads the manuscript files in dir, sorts them naturally,
// applies the exclusion rules, and joins the survivors into a single
// Markdown text. A nil rule set means nothing is excluded.
//
// Discovery is non-recursive and skips dot-files; chapter ordering
// comes entirely from file naming.
func Collate(ctx context.Context, dir string, rules *ExclusionSet) (*Collation, error) {
	logger := logging.FromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading manuscript directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !manuscriptExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})

	col := &Collation{}
	var parts []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		content, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("reading manuscript file: %w", err)
		}

		if rules != nil {
			if excluded, reason := rules.Excludes(path, content); excluded {
				logger.Debug("file excluded",
					logging.FieldFile, name,
					logging.FieldRule, reason)
				col.Excluded = append(col.Excluded, name)
				continue
			}
		}

		logger.Debug("file collated", logging.FieldFile, name)
		col.Files = append(col.Files, SourceFile{
			Path:    path,
			Name:    name,
			Content: content,
			Info:    info,
		})
		parts = append(parts, strings.TrimRight(string(content), "\n"))
	}

	if len(col.Files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, dir)
	}

	col.Text = strings.Join(parts, "\n\n") + "\n"
	return col, nil
}

// naturalLess orders file names the way a human numbers chapters:
// digit runs compare numerically, everything else compares
// case-insensitively, and a digit sorts before a letter. "ch2" comes
// before "ch10".
func naturalLess(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		aDigit, bDigit := unicode.IsDigit(ar[i]), unicode.IsDigit(br[j])
		switch {
		case aDigit && bDigit:
			ii, jj := i, j
			for ii < len(ar) && unicode.IsDigit(ar[ii]) {
				ii++
			}
			for jj < len(br) && unicode.IsDigit(br[jj]) {
				jj++
			}
			an := strings.TrimLeft(string(ar[i:ii]), "0")
			bn := strings.TrimLeft(string(br[j:jj]), "0")
			switch {
			case len(an) != len(bn):
				return len(an) < len(bn)
			case an != bn:
				return an < bn
			}
			i, j = ii, jj
		case aDigit != bDigit:
			return aDigit
		default:
			al, bl := unicode.ToLower(ar[i]), unicode.ToLower(br[j])
			if al != bl {
				return al < bl
			}
			i++
			j++
		}
	}
	return len(ar)-i < len(br)-j
}
