package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/augmaticaudio/gre/config"
	"github.com/augmaticaudio/gre/debug"
	"github.com/augmaticaudio/gre/midi"
	"github.com/augmaticaudio/gre/surface"
	"github.com/augmaticaudio/gre/theme"
	"github.com/augmaticaudio/gre/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	th := theme.New(theme.LoadGPLOrDefault(cfg.UI.PalettePath))

	if cfg.Engine.PortName == "" {
		debug.Log("engine", "no port configured; available: %v", midi.OutPortNames())
	}
	engine := midi.NewEngine(cfg.Engine.PortName, cfg.Engine.Channel)
	defer engine.Close()

	srf, err := surface.New(engine, nil)
	if err != nil {
		fmt.Printf("surface: %v\n", err)
		os.Exit(1)
	}

	if cfg.UI.LastSession != "" {
		if err := srf.LoadSession(cfg.UI.LastSession); err != nil {
			debug.Log("session", "restore %q: %v", cfg.UI.LastSession, err)
		}
	}

	m := tui.NewModel(srf, th)
	m.SetSession(cfg.UI.LastSession)
	m.SetPage(cfg.UI.LastPage)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg.UI.LastPage = int(m.CurrentPage())
	if err := cfg.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}
}
