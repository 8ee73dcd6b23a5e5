// Package main renders a human-readable report from a run summary file
// produced by cmd/simulate.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"solana-copytrade-lab/internal/reporting"
)

func main() {
	summaryPath := flag.String("summary", "", "Path to the summary JSON file (\"-\" reads stdin)")
	format := flag.String("format", "markdown", "Output format: markdown or csv")
	outputPath := flag.String("output", "", "Output file (empty writes stdout)")
	flag.Parse()

	if *summaryPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -summary is required")
		os.Exit(1)
	}

	summary, err := readSummary(*summaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading summary: %v\n", err)
		os.Exit(1)
	}

	var rendered string
	switch *format {
	case "markdown":
		rendered = reporting.RenderMarkdown(summary)
	case "csv":
		rendered = reporting.RenderCSV(summary.Daily)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want markdown or csv)\n", *format)
		os.Exit(1)
	}

	if *outputPath == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(rendered), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputPath)
}

func readSummary(path string) (*reporting.Summary, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var summary reporting.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &summary, nil
}
