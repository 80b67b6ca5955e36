/*
Speccheck runs the extraction and validation steps over a saved provider
response without calling the provider.

Usage:

	speccheck check <response.txt|-> [--engine <engine>]
	speccheck extract <response.txt|->
*/
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/promptspec/api/internal/config"
	"github.com/promptspec/api/internal/imagespec"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	ruleLine    = "═══════════════════════════════════════════════════════════════"
	thinRule    = "───────────────────────────────────────────────────────────────"
	maxRawShown = 500
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return exitUsage
	}

	command := args[0]
	path := args[1]

	raw, err := readInput(path, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", path, err)
		return exitFailed
	}

	switch command {
	case "check":
		cfg := config.Load()
		policy := imagespec.EnginePolicy{Default: cfg.DefaultEngine, Allowed: cfg.AllowedEngines}
		var pref any
		for i, arg := range args {
			if arg == "--engine" && i+1 < len(args) {
				pref = args[i+1]
			}
		}
		return check(raw, policy.Accept(pref), path, stdout)
	case "extract":
		candidate, err := imagespec.ExtractObject(raw)
		if err != nil {
			fmt.Fprintf(stderr, "❌ %v\n", err)
			return exitFailed
		}
		fmt.Fprintln(stdout, candidate)
		return exitOK
	default:
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Speccheck

Usage:
  speccheck check <response.txt|-> [--engine <engine>]
  speccheck extract <response.txt|->

Commands:
  check    Extract, validate and enforce a saved provider response
  extract  Print the first balanced JSON object in the response`)
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func check(raw, engine, source string, w io.Writer) int {
	spec, err := imagespec.FromResponse(raw, engine)

	fmt.Fprintln(w, ruleLine)
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Engine: %s\n", engine)
	fmt.Fprintln(w, thinRule)

	if err == nil {
		fmt.Fprintln(w, "✅ SPEC VALID")
		out, _ := json.MarshalIndent(spec, "", "  ")
		fmt.Fprintln(w, string(out))
		fmt.Fprintln(w, ruleLine)
		return exitOK
	}

	fmt.Fprintf(w, "❌ %s\n", imagespec.KindOf(err))
	fmt.Fprintf(w, "   %v\n", err)

	var perr *imagespec.Error
	if errors.As(err, &perr) {
		switch perr.Kind {
		case imagespec.KindNoJSONFound:
			fmt.Fprintf(w, "\nRaw response:\n%s\n", imagespec.Preview(perr.Raw, maxRawShown))
		case imagespec.KindInvalidJSON:
			fmt.Fprintf(w, "\nCandidate:\n%s\n", perr.Candidate)
		case imagespec.KindSchemaViolation:
			fmt.Fprintln(w, "\nIssues:")
			for _, v := range perr.Violations {
				fmt.Fprintf(w, "   • %s\n", v)
			}
		}
	}
	fmt.Fprintln(w, ruleLine)
	return exitFailed
}
