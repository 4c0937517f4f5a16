// Package persistence reads instance streams and writes oracle results: the
// line-delimited JSON contract plus an optional embedded SQLite archive.
package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
)

// ReadInstances parses a line-delimited instance stream. Blank lines are
// skipped; any malformed line is fatal.
func ReadInstances(r io.Reader) ([]domain.Instance, error) {
	var instances []domain.Instance

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var instance domain.Instance
		if err := json.Unmarshal([]byte(text), &instance); err != nil {
			return nil, fmt.Errorf("decode instance at line %d: %w", line, err)
		}
		instances = append(instances, instance)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read instance stream: %w", err)
	}

	return instances, nil
}

// ReadInstancesFile reads a JSONL instance file from disk.
func ReadInstancesFile(path string) ([]domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instances file: %w", err)
	}
	defer f.Close()
	return ReadInstances(f)
}

// WriteResults appends one JSON document per result to w, matching the
// line-delimited output contract.
func WriteResults(w io.Writer, results []domain.OracleResult) error {
	for _, result := range results {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode result %s: %w", result.InstanceID, err)
		}
		if _, err := w.Write(append(payload, '\n')); err != nil {
			return fmt.Errorf("write result %s: %w", result.InstanceID, err)
		}
	}
	return nil
}

// WriteResultsFile writes the results stream to path, truncating any
// previous content.
func WriteResultsFile(path string, results []domain.OracleResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := WriteResults(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
