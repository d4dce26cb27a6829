// LaGent CLI - Command line client for the LaGent triage API
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/VishiATChoudhary/TUMai-LaGent/clients/go/lagent"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("LAGENT_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := lagent.NewClient(baseURL)
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health()
		exitOnError(err)
		printJSON(resp)

	case "list":
		query, tab := "", ""
		if len(os.Args) > 2 {
			query = os.Args[2]
		}
		if len(os.Args) > 3 {
			tab = os.Args[3]
		}
		resp, err := client.Worklist(query, tab)
		exitOnError(err)
		for _, m := range resp.Messages {
			fmt.Printf("  %s  [%s/%s] %s (%s): %s\n", m.ID, m.Priority, m.Status, m.Tenant.Name, m.Property, m.Body)
		}
		if resp.Feed != "ok" {
			fmt.Fprintf(os.Stderr, "Warning: categorizer feed %s\n", resp.Feed)
		}

	case "show":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: lagent show <message_id>")
			os.Exit(1)
		}
		msg, err := client.GetMessage(os.Args[2])
		exitOnError(err)
		printJSON(msg)

	case "refresh":
		resp, err := client.Refresh()
		exitOnError(err)
		fmt.Printf("Refresh: %s\n", resp.Status)

	case "stats":
		resp, err := client.Stats()
		exitOnError(err)
		printJSON(resp)

	case "dispatch":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: lagent dispatch <message_id>")
			os.Exit(1)
		}
		session, err := client.StartDispatch(os.Args[2])
		exitOnError(err)
		fmt.Printf("Session %s: %s\n", session.ID, session.Phase)

	case "session":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: lagent session <session_id>")
			os.Exit(1)
		}
		session, err := client.GetSession(os.Args[2])
		exitOnError(err)
		printJSON(session)

	case "pick":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: lagent pick <session_id> <worker_name>")
			os.Exit(1)
		}
		session, err := client.PickWorker(os.Args[2], os.Args[3])
		exitOnError(err)
		fmt.Printf("Session %s: %s\n", session.ID, session.Phase)

	case "regenerate":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: lagent regenerate <session_id>")
			os.Exit(1)
		}
		session, err := client.Regenerate(os.Args[2])
		exitOnError(err)
		fmt.Printf("Session %s: %s\n", session.ID, session.Phase)

	case "send":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: lagent send <session_id>")
			os.Exit(1)
		}
		session, err := client.Send(os.Args[2])
		exitOnError(err)
		fmt.Printf("Session %s: %s\n", session.ID, session.Phase)

	case "dismiss":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: lagent dismiss <session_id>")
			os.Exit(1)
		}
		session, err := client.Dismiss(os.Args[2])
		exitOnError(err)
		fmt.Printf("Session %s: %s\n", session.ID, session.Phase)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`LaGent CLI - Tenant message triage and maintenance dispatch

Usage: lagent <command> [options]

Commands:
  list [query] [tab]        List the ranked worklist
  show <message_id>         Show a single message
  refresh                   Trigger a categorizer refresh
  stats                     Show worklist summary counts
  dispatch <message_id>     Start a dispatch session
  session <session_id>      Show a dispatch session snapshot
  pick <session_id> <name>  Choose a worker and draft the email
  regenerate <session_id>   Request a fresh draft
  send <session_id>         Send the draft and resolve the session
  dismiss <session_id>      Reject all workers and close the session
  health                    Check server health

Environment:
  LAGENT_URL    Server URL (default: http://localhost:8080)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
