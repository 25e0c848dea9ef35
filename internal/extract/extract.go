// Package extract pulls combat-tagged entries out of a DCS log file.
//
// DCS mission scripts that record combat events tag each entry with a
// COMBAT_LOG: marker inside the regular DCS.log stream. Extract copies the
// tagged entries into a standalone annotated file so they can be read
// without the surrounding engine noise.
package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dimchansky/utfbom"
)

const marker = "COMBAT_LOG:"

// DCS log lines are normally short but scripted entries can get long.
const maxLineBytes = 1024 * 1024

// Summary reports what an extraction pass found.
type Summary struct {
	TotalLines  int
	CombatLines int
	OutputPath  string
}

// DefaultOutputPath derives a timestamped extract filename placed next to
// the input log.
func DefaultOutputPath(inputPath string) string {
	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("combat_log_extract_%s.txt", stamp)
	return filepath.Join(filepath.Dir(inputPath), name)
}

// Extract copies every combat-tagged entry from the log at inputPath into
// outputPath, preceded by a short header describing the extraction. Only the
// text after the marker is kept, with surrounding whitespace trimmed. A log
// with no tagged entries is an error and no output file is written.
func Extract(inputPath, outputPath string) (*Summary, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(utfbom.SkipOnly(f))
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var entries []string
	total := 0
	for scanner.Scan() {
		total++
		line := scanner.Text()
		_, after, found := strings.Cut(line, marker)
		if !found {
			continue
		}
		entries = append(entries, strings.TrimSpace(after))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no combat log entries found in %s", inputPath)
	}

	if err := writeExtract(outputPath, inputPath, entries); err != nil {
		return nil, err
	}

	return &Summary{
		TotalLines:  total,
		CombatLines: len(entries),
		OutputPath:  outputPath,
	}, nil
}

func writeExtract(outputPath, inputPath string, entries []string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create extract file: %w", err)
	}

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "# DCS Combat Log Extract\n")
	fmt.Fprintf(w, "# Extracted on: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "# Source: %s\n", inputPath)
	fmt.Fprintf(w, "# Total combat events: %d\n", len(entries))
	fmt.Fprintf(w, "# %s\n\n", strings.Repeat("=", 50))

	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("failed to write extract file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close extract file: %w", err)
	}
	return nil
}
