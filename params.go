package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/questlabs/api-test-harness/framework/apitest"
)

// Environment variables consulted for flag defaults. Flags always win; a .env file in
// the working directory can supply either one.
const (
	envConfigPath = "QUEST_API_CONFIG"
	envBaseURL    = "QUEST_API_BASE_URL"
)

const defaultConfigPath = "test_config.yaml"

type commandParams struct {
	configPath        string
	baseURL           string
	filters           apitest.RegexFilters
	debug             bool
	debugAll          bool
	jUnitFile         string
	resultsLogFile    string
	excelFile         string
	failFastCases     bool
	skipIfUnreachable bool
	mockPort          int
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.configPath, "config", defaultString(envConfigPath, defaultConfigPath),
		"path to the test configuration file")
	fs.StringVar(&c.baseURL, "url", defaultString(envBaseURL, ""),
		"override the base URL from the configuration file")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&c.resultsLogFile, "results-log", "", "append per-case result blocks to the specified file")
	fs.StringVar(&c.excelFile, "excel", "", "write a spreadsheet report to the specified path")
	fs.BoolVar(&c.failFastCases, "failfast-cases", false,
		"stop each case at its first unmet condition instead of collecting all of them")
	fs.BoolVar(&c.skipIfUnreachable, "skip-if-unreachable", false,
		"treat an unreachable target API as a skipped run rather than a failure")
	fs.IntVar(&c.mockPort, "mock-port", 0, "run the built-in mock quest API on this port instead of testing")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

func defaultString(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}
