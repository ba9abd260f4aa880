// Command launchcore is a thin CLI front-end wiring config, fetch,
// resolve, plan, launch and instance together. It is explicitly outside
// the specification's core (the resolution/acquisition/launch engine),
// but the module still needs one runnable entry point.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/launchcore/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "launchcore: load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "launchcore: ensure dirs: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "versions":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: launchcore versions <uid>")
			os.Exit(2)
		}
		if err := runVersions(context.Background(), cfg, os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "launchcore: %v\n", err)
			os.Exit(1)
		}
	case "launch":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "usage: launchcore launch <uid> <version> [username]")
			os.Exit(2)
		}
		username := "player"
		if len(os.Args) > 4 {
			username = os.Args[4]
		}
		model := newLaunchModel(cfg, os.Args[2], os.Args[3], username)
		p := tea.NewProgram(model)
		final, err := p.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "launchcore: %v\n", err)
			os.Exit(1)
		}
		if m, ok := final.(launchModel); ok && m.err != nil {
			fmt.Fprintf(os.Stderr, "launchcore: %v\n", m.err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: launchcore <versions|launch> ...")
}
