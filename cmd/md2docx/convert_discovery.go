package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrNoMarkdownFiles  = errors.New("no markdown files found")
	ErrInvalidExtension = errors.New("file must have a .md, .markdown, .mdown or .txt extension")
	ErrOutputFileForDir = errors.New("output must be a directory when input is a directory")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// resolveInputPath picks the positional argument or the configured default.
func resolveInputPath(args []string, defaultDir string) (string, error) {
	switch len(args) {
	case 0:
		if defaultDir == "" {
			return "", fmt.Errorf("%w: pass a file or directory, or set input.defaultDir", ErrNoInput)
		}
		return defaultDir, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
}

// discoverFiles finds all markdown files to convert.
// output is either empty (next to each source), a .docx file (single input
// only), or a directory that mirrors the input tree.
func discoverFiles(inputPath, output string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", md2docx.ErrSourceNotFound, inputPath)
		}
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, output, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	if isDocxPath(output) {
		return nil, fmt.Errorf("%w: %s", ErrOutputFileForDir, output)
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			// Skip .git, .obsidian and friends.
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdownPath(path) {
			return nil
		}
		outPath := resolveOutputPath(path, output, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the .docx output path for a markdown file.
func resolveOutputPath(inputPath, output, baseInputDir string) string {
	if output == "" {
		return md2docx.DefaultOutputPath(inputPath)
	}

	if isDocxPath(output) {
		return output
	}

	name := filepath.Base(md2docx.DefaultOutputPath(inputPath))
	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(output, name)
}

// validateMarkdownExtension checks that the file has a Markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdownPath(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

func isMarkdownPath(path string) bool {
	return fileutil.IsMarkdown(path)
}

func isDocxPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), md2docx.DocxExt)
}
