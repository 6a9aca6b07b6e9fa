// Package importer turns bank statement files into ledger transactions:
// format detection, row parsing, noise filtering, and duplicate rejection.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cofre-dev/cofre/internal/model"
)

// RowError is a non-fatal parse failure for one statement row. Rows are
// independent: an unparsable row is collected here and the batch continues.
type RowError struct {
	Line    int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseResult is the outcome of parsing one statement file. TotalLines
// counts statement rows only (ignored and unparsable rows included), not
// headers or trailing noise.
type ParseResult struct {
	TotalLines int
	Entries    []model.StatementEntry
	Errors     []RowError
}

// Parser converts a bank statement file into StatementEntries.
type Parser interface {
	Parse(r io.Reader) (ParseResult, error)
	Detect(contents []byte) bool
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Detect returns the first registered parser that recognizes the file
// contents, or nil when no layout matches. Unrecognized content is not an
// error at this layer.
func (r *Registry) Detect(contents []byte) Parser {
	for _, key := range r.order {
		if p := r.parsers[key]; p.Detect(contents) {
			return p
		}
	}
	return nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&BradescoParser{})
	return r
}

// importDir is the subdirectory for statement files awaiting import.
const importDir = "import"

// processedDir is the subdirectory for already imported files.
const processedDir = "import/processed"

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns statement files in <dataDir>/import/.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := filepath.Join(dataDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, importDir, fileName)
	dstDir := filepath.Join(dataDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
