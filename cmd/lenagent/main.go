package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		handleCheck()
	case "serve":
		handleServe()
	case "version":
		handleVersion()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("lenagent - string-length agent with response caching %s\n\n", version)
	fmt.Println("Usage:")
	fmt.Println("  lenagent check [--provider scripted|openai|anthropic] [--model name]")
	fmt.Println("                 Run the fixed verification routine (tool, phrasing, caching)")
	fmt.Println("  lenagent serve [--port 8080] [--provider ...] [--model name]")
	fmt.Println("                 Serve the agent over HTTP with /chat and /cache/stats")
	fmt.Println("  lenagent version  Show version information")
	fmt.Println("  lenagent help     Show this help message")
}

func handleVersion() {
	fmt.Printf("lenagent version %s\n", version)
}
