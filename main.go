package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework"
	"github.com/apitests/reqres-contract-tests/framework/apitest"
	"github.com/apitests/reqres-contract-tests/framework/harness"
	"github.com/apitests/reqres-contract-tests/mockapi"
	"github.com/apitests/reqres-contract-tests/usertests"
)

const defaultPort = 8111
const statusQueryTimeout = time.Second * 10

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return 1
	}
	if params.showVersion {
		fmt.Println(buildVersion().String())
		return 0
	}

	cfg, err := params.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	if params.mock {
		opts := mockapi.DefaultOptions()
		opts.Logger = framework.PrefixedLogger(mainDebugLogger, "[mock API] ")
		server, err := harness.StartServer(params.port, mockapi.New(opts))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Mock API error: %s\n", err)
			return 1
		}
		defer func() { _ = server.Close() }()
		cfg.BaseURL = server.BaseURL() + opts.BasePath
		fmt.Printf("Started mock users API at %s\n", cfg.BaseURL)
	}

	if err := cfg.Validate(usertests.AllCapabilities); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	client, err := harness.NewAPIClient(harness.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: cfg.Headers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := harness.AwaitReachable(ctx, client, apidef.UsersPath, statusQueryTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Service under test error: %s\n", err)
		return 1
	}

	capabilities := apitest.Capabilities(cfg.EffectiveCapabilities(usertests.AllCapabilities))

	fmt.Println()
	apitest.PrintFilterDescription(os.Stdout, params.filters, usertests.AllCapabilities, capabilities)

	fmt.Println("Running test suite")

	testLogger := &apitest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := usertests.RunTestSuite(ctx, client, apitest.TestConfiguration{
		Filter:       params.filters.AsFilter,
		TestLogger:   testLogger,
		Capabilities: capabilities,
		MaxParallel:  cfg.Parallel,
	})

	fmt.Println()
	apitest.PrintResults(os.Stdout, results)
	if !results.OK() {
		var failed []apitest.TestID
		for _, f := range results.Failures {
			failed = append(failed, f.TestID)
		}
		fmt.Println()
		fmt.Println("To run only the failed tests again:")
		fmt.Printf("  %s\n", params.RerunCommand(failed))
		return 1
	}
	return 0
}
