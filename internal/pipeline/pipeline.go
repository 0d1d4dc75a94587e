// Package pipeline runs excerpt extraction over many content files.
// Extraction is pure and documents are independent, so files are processed
// concurrently with one shared engine; the only coordination is a worker
// semaphore.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/halostatue/tableau-excerpt-extension/internal/frontmatter"
	"github.com/halostatue/tableau-excerpt-extension/internal/logger"
	"github.com/halostatue/tableau-excerpt-extension/pkg/excerpt"
)

// Result is the outcome of processing one file.
type Result struct {
	Path    string `json:"path" yaml:"path"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Err     string `json:"error,omitempty" yaml:"error,omitempty"`

	// Error is the underlying I/O error, when any. Extraction itself
	// cannot fail.
	Error error `json:"-" yaml:"-"`
}

// Config holds pipeline settings.
type Config struct {
	// Concurrency bounds the number of files processed at once.
	Concurrency int

	// Write rewrites each file's front matter in place instead of only
	// reporting what would change.
	Write bool
}

// DefaultConfig returns sensible pipeline defaults.
func DefaultConfig() Config {
	return Config{Concurrency: 4}
}

// Pipeline processes content files with a shared extraction engine.
type Pipeline struct {
	engine *excerpt.Engine
	config Config
}

// New creates a Pipeline.
func New(engine *excerpt.Engine, cfg Config) *Pipeline {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Pipeline{engine: engine, config: cfg}
}

// Run processes paths and streams one Result per file.
func (p *Pipeline) Run(ctx context.Context, paths []string) <-chan Result {
	results := make(chan Result, len(paths))

	go func() {
		defer close(results)

		sem := make(chan struct{}, p.config.Concurrency)
		var wg sync.WaitGroup
		for _, path := range paths {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer func() { <-sem }()
				results <- p.processFile(path)
			}(path)
		}
		wg.Wait()
	}()

	return results
}

func (p *Pipeline) processFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Outcome: "error", Err: err.Error(), Error: err}
	}

	file := frontmatter.Parse(string(data))
	value, present := file.Excerpt()
	doc := excerpt.Document{
		Body:       file.Body,
		Excerpt:    value,
		ExcerptSet: present,
		Format:     FormatKey(path),
	}

	res := p.engine.Extract(doc)
	logger.Debug("processed file", "path", path, "outcome", res.Outcome.String())

	out := Result{Path: path, Outcome: res.Outcome.String(), Excerpt: res.Excerpt}
	if res.Outcome == excerpt.OutcomeNone || !p.config.Write {
		return out
	}

	file.SetExcerpt(res.Excerpt)
	if res.Outcome == excerpt.OutcomeExcerptAndBody {
		file.Body = res.Body
	}
	rendered, err := file.Render()
	if err != nil {
		return Result{Path: path, Outcome: "error", Err: err.Error(), Error: err}
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return Result{Path: path, Outcome: "error", Err: err.Error(), Error: err}
	}
	return out
}

// FormatKey derives the processor registry key from a file path: the
// lowercased extension without its dot.
func FormatKey(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// defaultExtensions are the content file types collected from directories.
var defaultExtensions = map[string]bool{
	"md":       true,
	"markdown": true,
	"html":     true,
	"htm":      true,
	"txt":      true,
}

// CollectFiles expands paths into a sorted list of content files. File
// arguments are taken as-is; directories are walked for known content
// extensions.
func CollectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && defaultExtensions[FormatKey(p)] {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
