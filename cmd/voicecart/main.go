// Command voicecart parses spoken cart transcripts from the command line.
//
// Transcripts are taken from the arguments, or one per line from stdin when no
// arguments are given. Each result is printed as one JSON object per line.
//
//	voicecart "mangga lima puluh ribu" "kaos 80k"
//	cat transcripts.txt | voicecart --server http://localhost:8080 --rate 5
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/voicecart/backend/internal/domain"
	"github.com/voicecart/backend/internal/parser"
	"github.com/voicecart/backend/internal/usecase"
	"github.com/voicecart/backend/pkg/client"
	"golang.org/x/time/rate"
)

// line is the JSON written for each transcript
type line struct {
	Transcript string `json:"transcript"`
	Result     any    `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

// parseFunc returns the result for one transcript or an error code
type parseFunc func(ctx context.Context, transcript string) (any, string)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("voicecart", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	serverURL := flags.StringP("server", "s", "", "parse remotely against a VoiceCart server at this URL")
	timeout := flags.Duration("timeout", 30*time.Second, "per-transcript timeout in remote mode")
	ratePerSec := flags.Float64("rate", 10, "maximum requests per second in remote mode")
	debug := flags.Bool("debug", false, "log each remote request to stderr")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	var parse parseFunc
	if *serverURL != "" {
		c := client.New(*serverURL,
			client.WithHTTPClient(&http.Client{Timeout: *timeout}),
			client.WithRateLimit(rate.Limit(*ratePerSec), 1),
		)
		c.SetDebug(*debug)
		parse = remoteParser(c, *timeout)
	} else {
		parse = localParser(usecase.NewParseService(nil, parser.New(), usecase.ParseServiceConfig{}, nil))
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)

	failed := false
	emit := func(transcript string) error {
		out := line{Transcript: transcript}
		out.Result, out.Error = parse(context.Background(), transcript)
		if out.Error != "" {
			failed = true
		}
		return enc.Encode(out)
	}

	if transcripts := flags.Args(); len(transcripts) > 0 {
		for _, transcript := range transcripts {
			if err := emit(transcript); err != nil {
				fmt.Fprintf(stderr, "voicecart: %v\n", err)
				return 1
			}
		}
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			transcript := strings.TrimSpace(scanner.Text())
			if transcript == "" {
				continue
			}
			if err := emit(transcript); err != nil {
				fmt.Fprintf(stderr, "voicecart: %v\n", err)
				return 1
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "voicecart: reading stdin: %v\n", err)
			return 1
		}
	}

	if failed {
		return 1
	}
	return 0
}

func localParser(svc *usecase.ParseService) parseFunc {
	return func(ctx context.Context, transcript string) (any, string) {
		parsed, err := svc.ParseTranscript(ctx, transcript)
		if err != nil {
			return nil, domain.ErrorCode(err)
		}
		return parsed, ""
	}
}

func remoteParser(c *client.Client, timeout time.Duration) parseFunc {
	return func(ctx context.Context, transcript string) (any, string) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		parsed, err := c.Parse(ctx, transcript)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Code != "" {
				return nil, apiErr.Code
			}
			return nil, err.Error()
		}
		return parsed, ""
	}
}
