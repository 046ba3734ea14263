// Command stagedump prints the lines produced by every preprocessor stage.
package main

import (
	"fmt"
	"os"
	"strings"

	"lc2kpp/pkg/preproc"
)

const testSource = `#define ADD(a b) add a b
loop: ADD(r1 r2) r3 /* sum */ ; \
      beq 0 0 loop
5
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	p, err := preproc.New(preproc.DefaultOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup error:", err)
		os.Exit(1)
	}
	stages, err := p.Stages()
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup error:", err)
		os.Exit(1)
	}

	var lines []preproc.Line
	for i, text := range strings.Split(strings.TrimSuffix(src, "\n"), "\n") {
		lines = append(lines, preproc.Line{No: i + 1, Text: text})
	}

	fmt.Printf("Source (%d lines)\n", len(lines))
	printLines(lines)

	for i, stage := range stages {
		lines, err = preproc.Apply(stage, lines)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s error: %v\n", preproc.StageName(stage), err)
			os.Exit(1)
		}
		fmt.Printf("%2d %s (%d lines)\n", i+1, preproc.StageName(stage), len(lines))
		printLines(lines)
	}
}

func printLines(lines []preproc.Line) {
	for _, l := range lines {
		fmt.Printf("  %4d | %q\n", l.No, l.Text)
	}
	fmt.Println()
}
