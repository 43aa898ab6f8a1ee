// cmd/bfsym/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"bfsym/cmd/bfsym/commands"
)

const VERSION = "1.0.0"

// Command aliases mapping
var commandAliases = map[string]string{
	"s": "solve",
	"r": "run",
	"l": "lower",
	"w": "serve",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	// Resolve command aliases
	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
		args[0] = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}

	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		fmt.Printf("bfsym %s\n", VERSION)
		return
	}

	switch cmd {
	case "solve":
		if err := commands.SolveCommand(args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "run":
		if err := commands.RunCommand(args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "lower":
		if err := commands.LowerCommand(args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "serve":
		if err := commands.ServeCommand(args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`bfsym - symbolic execution engine for the BF tape language

Usage:
  bfsym <command> [arguments]

Commands:
  solve (s)   Find an input that makes a program print a target output
  run   (r)   Execute a program concretely on a given input
  lower (l)   Show the linear opcode stream of a program
  serve (w)   Start the WebSocket solve shell
  version     Print version
  help        Show this help

Run 'bfsym <command> -h' for command flags.`)
}
