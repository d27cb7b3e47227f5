package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apitests/reqres-contract-tests/config"
	"github.com/apitests/reqres-contract-tests/framework/apitest"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	args        []string
	serviceURL  string
	configFile  string
	filters     apitest.RegexFilters
	headers     headerList
	timeout     time.Duration
	parallel    int
	mock        bool
	port        int
	debug       bool
	debugAll    bool
	showVersion bool
	setFlags    map[string]bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", config.DefaultBaseURL, "base URL of the users API")
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.Var(&c.headers, "header", `extra request header as "Name: value" (may be repeated)`)
	fs.DurationVar(&c.timeout, "timeout", config.DefaultTimeout, "timeout for each request")
	fs.IntVar(&c.parallel, "parallel", config.DefaultParallel, "maximum number of test groups to run at once")
	fs.BoolVar(&c.mock, "mock", false, "run against a built-in mock of the users API instead of -url")
	fs.IntVar(&c.port, "port", defaultPort, "port that the mock API will listen on")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.showVersion, "version", false, "print version information and exit")

	if err := fs.Parse(args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(errOut, err)
		}
		return false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	c.args = args
	c.setFlags = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.setFlags[f.Name] = true })
	return true
}

// Config returns the configuration file settings (or the defaults, if there is no file) with
// any explicitly set command-line flags applied on top.
func (c *commandParams) Config() (config.Config, error) {
	cfg := config.Default()
	if c.configFile != "" {
		var err error
		if cfg, err = config.Load(c.configFile); err != nil {
			return config.Config{}, err
		}
	}
	if c.setFlags["url"] {
		cfg.BaseURL = c.serviceURL
	}
	if c.setFlags["timeout"] {
		cfg.Timeout = c.timeout
	}
	if c.setFlags["parallel"] {
		cfg.Parallel = c.parallel
	}
	if len(c.headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for _, h := range c.headers {
			cfg.Headers[h.name] = h.value
		}
	}
	return cfg, nil
}

// RerunCommand returns a shell command line that repeats this run but selects only the
// specified tests.
func (c *commandParams) RerunCommand(ids []apitest.TestID) string {
	var b commandBuilder
	b.add(c.args[0])
	b.add(withoutFilterArgs(c.args[1:])...)
	for _, id := range ids {
		b.add("-run", apitest.ExactMatch(id))
	}
	return b.String()
}

// withoutFilterArgs removes -run and -skip flags, and their values, from a command line.
func withoutFilterArgs(args []string) []string {
	var ret []string
	for i := 0; i < len(args); i++ {
		name := strings.TrimLeft(args[i], "-")
		if !strings.HasPrefix(args[i], "-") || args[i] == "--" {
			ret = append(ret, args[i])
			continue
		}
		if name == "run" || name == "skip" {
			i++ // value is the next argument
			continue
		}
		if strings.HasPrefix(name, "run=") || strings.HasPrefix(name, "skip=") {
			continue
		}
		ret = append(ret, args[i])
	}
	return ret
}

type header struct {
	name, value string
}

type headerList []header

func (h headerList) String() string {
	var ss []string
	for _, item := range h {
		ss = append(ss, item.name+": "+item.value)
	}
	return strings.Join(ss, ", ")
}

// Set is called by the command line parser
func (h *headerList) Set(value string) error {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return fmt.Errorf(`header must be in the form "Name: value"`)
	}
	*h = append(*h, header{name: strings.TrimSpace(parts[0]), value: strings.TrimSpace(parts[1])})
	return nil
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
