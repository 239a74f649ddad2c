// Package inputprocessor reads lists of queries for batch suggestions.
package inputprocessor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"shopmate/internal/util"
)

// Stdin is the input name that reads from standard input.
const Stdin = "-"

// Processor turns an input name into the queries it contains.
type Processor interface {
	Process(ctx context.Context, input string) ([]string, error)
}

// New creates a processor reading files from disk and "-" from os.Stdin.
func New() Processor {
	return &defaultProcessor{stdin: os.Stdin}
}

type defaultProcessor struct {
	stdin io.Reader
}

// Process reads one query per line. Blank lines and lines starting with '#'
// are skipped.
func (p *defaultProcessor) Process(ctx context.Context, input string) ([]string, error) {
	var data []byte
	var err error
	if input == Stdin {
		data, err = io.ReadAll(p.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
	} else {
		fi, statErr := os.Stat(input)
		if statErr != nil {
			return nil, fmt.Errorf("query file '%s': %w", input, statErr)
		}
		if fi.IsDir() {
			return nil, fmt.Errorf("query file '%s' is a directory", input)
		}
		data, err = os.ReadFile(input)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return nil, fmt.Errorf("permission denied reading file '%s': %w", input, err)
			}
			return nil, fmt.Errorf("failed to read file '%s': %w", input, err)
		}
	}

	data, err = util.CleanFileContent(data, input)
	if err != nil {
		return nil, err
	}

	var queries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan '%s': %w", input, err)
	}
	log.WithFields(log.Fields{"input": input, "queries": len(queries)}).Debug("Read query list")
	return queries, nil
}
