package commands

import (
	"flag"
	"fmt"
	"os"

	"bfsym/internal/web"
)

// ServeCommand starts the WebSocket solve shell.
func ServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8077", "listen address")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bfsym serve [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	return web.NewServer().ListenAndServe(*addr)
}
