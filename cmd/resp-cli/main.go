package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pior/resp"
	"github.com/pior/resp/promexporter"
)

func main() {
	var (
		addr       = flag.String("addr", "127.0.0.1:6379", "Store addresses (comma-separated)")
		configPath = flag.String("config", "", "YAML config file (overrides -addr and -timeout)")
		timeout    = flag.Duration("timeout", time.Second, "Timeout per command")
		verbose    = flag.Bool("v", false, "Log every command")
		metrics    = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	)
	flag.Parse()

	fc := &fileConfig{
		Addresses: strings.Split(*addr, ","),
		Timeout:   *timeout,
	}
	if *configPath != "" {
		var err error
		fc, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "resp> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: level}))

	servers, err := resp.NewStaticServers(fc.Addresses...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := resp.NewClient(servers, fc.clientConfig(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if *metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promexporter.Handler(client))
		go func() {
			if err := http.ListenAndServe(*metrics, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	fmt.Fprintf(rl.Stdout(), "Connected to %s (timeout %v)\n", strings.Join(fc.Addresses, ", "), fc.Timeout)
	fmt.Fprintln(rl.Stdout(), "Type 'help' for commands.")

	sh := &shell{client: client, out: rl.Stdout()}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}

		if !sh.run(line) {
			return
		}
	}
}
