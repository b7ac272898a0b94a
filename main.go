package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/questlabs/api-test-harness/apitests"
	"github.com/questlabs/api-test-harness/framework"
	"github.com/questlabs/api-test-harness/framework/apitest"
	"github.com/questlabs/api-test-harness/framework/harness"
	"github.com/questlabs/api-test-harness/mockapi"
	"github.com/questlabs/api-test-harness/testmodel"
)

const version = "1.0.0"
const pingTimeout = time.Second * 5

func main() {
	fmt.Printf("quest-api-test-harness v%s\n", version)

	// A .env file can supply QUEST_API_CONFIG and QUEST_API_BASE_URL defaults; it is
	// optional and a missing file is not an error.
	_ = godotenv.Load()

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	if params.mockPort != 0 {
		runMockAPI(params.mockPort)
		return
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func runMockAPI(port int) {
	logger := framework.LoggerWithPrefix(log.New(os.Stdout, "", log.LstdFlags), "mockapi: ")
	service := mockapi.NewService(logger)
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Serving mock quest API on %s\n", addr)
	if err := http.ListenAndServe(addr, service); err != nil { //nolint:gosec
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(params commandParams) (*apitest.Results, error) {
	suite, err := testmodel.LoadSuiteFile(params.configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if params.baseURL != "" {
		suite.BaseURL = params.baseURL
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	session := harness.NewSession(suite.BaseURL, suite.Headers, mainDebugLogger)
	defer session.Close()

	fmt.Printf("Target API: %s (%d cases)\n", session.BaseURL(), suite.TotalCases())
	if err := session.Ping(pingTimeout); err != nil {
		if params.skipIfUnreachable {
			fmt.Printf("Skipping run: %s\n", err)
			return &apitest.Results{}, nil
		}
		return nil, err
	}

	apitest.PrintFilterDescription(params.filters)

	var testLogger apitest.TestLogger
	consoleLogger := apitest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.jUnitFile == "" {
		testLogger = consoleLogger
	} else {
		testLogger = &apitest.MultiTestLogger{Loggers: []apitest.TestLogger{
			consoleLogger,
			apitest.NewJUnitTestLogger(params.jUnitFile, session.BaseURL(), params.filters),
		}}
	}

	opts := apitests.RunOptions{
		Filters:       params.filters,
		TestLogger:    testLogger,
		FailFastCases: params.failFastCases,
	}
	if params.resultsLogFile != "" {
		resultsLog, err := apitests.OpenResultsLog(params.resultsLogFile)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resultsLog.Close() }()
		opts.ResultsLog = resultsLog
	}

	results, summary := apitests.RunSuite(suite, session, opts)

	fmt.Println()
	logErr := testLogger.EndLog(results)

	apitests.PrintSummary(summary)

	if logErr != nil {
		return nil, fmt.Errorf("error writing log: %v", logErr)
	}

	if params.excelFile != "" {
		if err := apitests.WriteExcelReport(params.excelFile, summary); err != nil {
			return nil, fmt.Errorf("error writing spreadsheet report: %v", err)
		}
		fmt.Printf("Spreadsheet report written to %s\n", params.excelFile)
	}

	return &results, nil
}
