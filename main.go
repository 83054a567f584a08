// ABOUTME: Entry point for the gcontacts web server, CLI, MCP server, and TUI
// ABOUTME: Routes to the requested surface based on arguments
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/harperreed/gcontacts/cli"
	"github.com/harperreed/gcontacts/config"
	"github.com/harperreed/gcontacts/logger"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/gcontacts)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	// Parsing stops at the first non-flag argument; the rest belongs to the subcommand
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("gcontacts version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	if command == "tui" {
		// Log lines would tear the alternate screen
		logger.InitWriter(io.Discard, cfg.LogLevel, cfg.LogFormat)
	} else {
		logger.Init(cfg.LogLevel, cfg.LogFormat)
	}

	app := cli.NewApp(cfg, version)

	switch command {
	case "version":
		fmt.Printf("gcontacts version %s\n", version)

	case "serve":
		if err := cli.ServeCommand(app, commandArgs); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "login":
		if err := cli.LoginCommand(app, commandArgs); err != nil {
			log.Fatalf("Login failed: %v", err)
		}

	case "logout":
		if err := cli.LogoutCommand(app, commandArgs); err != nil {
			log.Fatalf("Logout failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(app); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "tui":
		if err := cli.TUICommand(app); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "contacts":
		if len(commandArgs) == 0 {
			fmt.Println("Error: contacts requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		contactsCommand := commandArgs[0]
		contactsArgs := commandArgs[1:]

		switch contactsCommand {
		case "list":
			if err := cli.ListContactsCommand(app, contactsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "add":
			if err := cli.AddContactCommand(app, contactsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "update":
			if err := cli.UpdateContactCommand(app, contactsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "delete":
			if err := cli.DeleteContactCommand(app, contactsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "export":
			if err := cli.ExportContactsCommand(app, contactsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown contacts command: %s\n\n", contactsCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`gcontacts v%s - Google Contacts over OAuth

USAGE:
  gcontacts [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Data directory (default: ~/.local/share/gcontacts)
  --log-level <level>    debug, info, warn or error

COMMANDS:
  serve                  Start the web front-end
  login                  Authorize the CLI, MCP server and TUI with Google
  logout                 Remove the saved CLI token
  contacts               Contact management commands
  mcp                    Start MCP server for Claude Desktop
  tui                    Interactive contacts browser

WEB SERVER:
  gcontacts serve
    --addr <addr>             Listen address (default: $GCONTACTS_ADDR or :8080)
    --session-backend <name>  sqlite, badger or memory

CONTACT COMMANDS:
  gcontacts contacts list     List contacts
    --query <text>            Filter by name, email or phone
    --json                    Print JSON

  gcontacts contacts add      Add a new contact
    --given <name>            Given name (required)
    --family <name>           Family name
    --email <email>           Email address
    --phone <phone>           Phone number

  gcontacts contacts update   Replace a contact's name, email and phone
    --id <resource>           Resource name, e.g. people/c123 (required)
    --given <name>            Given name (required)
    --family <name>           Family name
    --email <email>           Email address (omit to clear)
    --phone <phone>           Phone number (omit to clear)

  gcontacts contacts delete   Delete a contact
    --id <resource>           Resource name (required)

  gcontacts contacts export   Export contacts as vCard 4.0
    --output <file>           Output file (default: stdout)

ENVIRONMENT:
  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET   OAuth client credentials (required)
  GCONTACTS_BASE_URL                       Public URL, callback is <base>/oauth/callback
  GCONTACTS_SESSION_SECRET                 Signs the OAuth state parameter
  A .env file in the working directory is loaded first.

EXAMPLES:
  # Run the web front-end
  gcontacts serve --addr :8080

  # Authorize the CLI once, then list contacts
  gcontacts login
  gcontacts contacts list --query smith

  # Add a contact
  gcontacts contacts add --given Jane --family Doe --email jane@example.com

  # Start MCP server for Claude Desktop
  gcontacts mcp

`, version)
}
