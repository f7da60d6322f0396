package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/ethnia/internal/model"
)

// ParseFunc parses the text of one document
type ParseFunc[T any] func(text string) model.ParsedFile[T]

// ParseJob reads and parses one document
type ParseJob[T any] struct {
	Index int
	Path  string
	Parse ParseFunc[T]
}

// Execute executes the parse job
func (j *ParseJob[T]) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ParseResult[T]{Index: j.Index, Path: j.Path, Error: err}
	}

	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &ParseResult[T]{Index: j.Index, Path: j.Path, Error: fmt.Errorf("read %s: %w", j.Path, err)}
	}

	return &ParseResult[T]{
		Index: j.Index,
		Path:  j.Path,
		File:  j.Parse(string(data)),
	}
}

// ParseResult is the outcome of one parse job. Error is set when the
// document could not be read; parse problems live in File.
type ParseResult[T any] struct {
	Index int
	Path  string
	File  model.ParsedFile[T]
	Error error
}

// GetError returns the read error of the job
func (r *ParseResult[T]) GetError() error {
	return r.Error
}

// OK reports whether the document was read and parsed successfully
func (r *ParseResult[T]) OK() bool {
	return r.Error == nil && r.File.Success
}

// BatchProcessor parses many documents concurrently
type BatchProcessor[T any] struct {
	parse       ParseFunc[T]
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor[T any](parse ParseFunc[T], concurrency int) *BatchProcessor[T] {
	return &BatchProcessor[T]{
		parse:       parse,
		concurrency: concurrency,
	}
}

// ProcessPaths parses every path and returns the results in input order.
// Paths not reached before ctx is cancelled carry the context error.
func (b *BatchProcessor[T]) ProcessPaths(ctx context.Context, paths []string) []*ParseResult[T] {
	if len(paths) == 0 {
		return []*ParseResult[T]{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		if !pool.Submit(&ParseJob[T]{Index: i, Path: path, Parse: b.parse}) {
			break
		}
	}

	ordered := make([]*ParseResult[T], len(paths))
	for _, result := range pool.Wait() {
		r := result.(*ParseResult[T])
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &ParseResult[T]{Index: i, Path: paths[i], Error: err}
		}
	}

	return ordered
}

// ProcessFile reads document paths from a file and parses them concurrently
func (b *BatchProcessor[T]) ProcessFile(ctx context.Context, filePath string) ([]*ParseResult[T], error) {
	paths, err := ReadPathsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads document paths from a file (one per line)
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
