package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const preflightRetryInterval = time.Millisecond * 100

// AwaitReachable polls the service under test until it answers an HTTP request to path, or
// until the timeout elapses. Any HTTP response counts, including an error status: the point is
// only to find out whether the service is there at all before running tests against it.
func AwaitReachable(ctx context.Context, client *APIClient, path string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to service under test at %s", client.URL(path))

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Do(ctx, Request{Method: http.MethodGet, Path: path}, nil)
		if err == nil {
			fmt.Fprintln(output)
			fmt.Fprintf(output, "Service responded with status %d\n", resp.StatusCode)
			return nil
		}
		if re, ok := AsRequestError(err); ok {
			fmt.Fprintln(output)
			fmt.Fprintf(output, "Service responded with status %d (%s)\n", re.StatusCode, re.Message)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(output)
			return ctx.Err()
		case <-time.After(preflightRetryInterval):
		}
	}
}
