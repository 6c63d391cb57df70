package surface

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/augmaticaudio/gre/debug"
)

// ControlSnapshot is the persisted state of one control. Discrete controls
// persist their label rather than their index, so a selection survives an
// option-list resize the same way it does live.
type ControlSnapshot struct {
	Value *float64 `json:"value,omitempty"`
	Label string   `json:"label,omitempty"`
	On    *bool    `json:"on,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

// MixRowSnapshot is the persisted state of one routing row.
type MixRowSnapshot struct {
	M1       bool    `json:"m1"`
	S1       bool    `json:"s1"`
	M2       bool    `json:"m2"`
	S2       bool    `json:"s2"`
	Priority int     `json:"priority"`
	P1       float64 `json:"p1"`
	P2       float64 `json:"p2"`
}

// Snapshot captures the full surface state for a session.
type Snapshot struct {
	Controls map[string]ControlSnapshot `json:"controls"`
	Mix      [NumMixRows]MixRowSnapshot `json:"mix"`
}

// Capture reads every control and matrix row through the public getters.
func (s *Surface) Capture() *Snapshot {
	snap := &Snapshot{Controls: make(map[string]ControlSnapshot)}
	s.Controls.Each(func(c *Control) {
		var cs ControlSnapshot
		switch c.Kind() {
		case KindIndex:
			cs.Label = c.Label()
		case KindBool:
			on := c.On()
			cs.On = &on
		case KindPoint:
			x, y := c.Point()
			cs.X, cs.Y = &x, &y
		default:
			v := c.Value()
			cs.Value = &v
		}
		snap.Controls[c.ID()] = cs
	})
	for r := 0; r < NumMixRows; r++ {
		row := s.Matrix.Row(r)
		snap.Mix[r] = MixRowSnapshot{
			M1: row.Flags[ColM1], S1: row.Flags[ColS1],
			M2: row.Flags[ColM2], S2: row.Flags[ColS2],
			Priority: row.Priority, P1: row.P1, P2: row.P2,
		}
	}
	return snap
}

// Restore drives the saved state back through the public setters, in
// declaration order so drivers restore before their dependents and every
// constraint re-runs. Controls a pairing has disabled are force-restored:
// the input gate is for gestures, not for the session loader.
func (s *Surface) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.Controls.Each(func(c *Control) {
		cs, ok := snap.Controls[c.ID()]
		if !ok {
			return
		}
		wasEnabled := c.IsEnabled()
		c.SetEnabled(true)
		switch c.Kind() {
		case KindIndex:
			if idx := labelIndex(c.Options(), cs.Label); idx >= 0 {
				c.SetIndex(idx)
			}
		case KindBool:
			if cs.On != nil && c.ID() != CtlBendAction {
				c.SetOn(*cs.On)
			}
		case KindPoint:
			if cs.X != nil && cs.Y != nil {
				c.SetPoint(*cs.X, *cs.Y)
			}
		default:
			if cs.Value != nil {
				c.SetValue(*cs.Value)
			}
		}
		c.SetEnabled(wasEnabled)
	})
	// Restored Fixed toggles may have flipped mid-loop; re-drive every
	// Scale/Level pairing so enabled state matches the restored toggles.
	s.applyPairs()
	for r := 0; r < NumMixRows; r++ {
		row := snap.Mix[r]
		s.Matrix.SetFlag(r, ColM1, row.M1)
		s.Matrix.SetFlag(r, ColS1, row.S1)
		s.Matrix.SetFlag(r, ColM2, row.M2)
		s.Matrix.SetFlag(r, ColS2, row.S2)
		s.Matrix.SetPriority(r, row.Priority)
		s.Matrix.SetPercent(r, 1, row.P1)
		s.Matrix.SetPercent(r, 2, row.P2)
	}
}

func labelIndex(options []string, label string) int {
	if label == "" {
		return -1
	}
	for i, l := range options {
		if l == label {
			return i
		}
	}
	return -1
}

// SessionDir returns the directory session files are stored in.
func SessionDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gre", "sessions"), nil
}

// SaveSession writes the current surface state to a named session file.
func (s *Surface) SaveSession(name string) error {
	dir, err := SessionDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Capture(), "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name+".json")
	debug.Log("session", "saving %s", path)
	return os.WriteFile(path, data, 0644)
}

// LoadSession restores surface state from a named session file.
func (s *Surface) LoadSession(name string) error {
	dir, err := SessionDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("session %s: %w", name, err)
	}
	debug.Log("session", "loaded %s", path)
	s.Restore(&snap)
	return nil
}

// ListSessions returns the available session names, without extension.
func ListSessions() ([]string, error) {
	dir, err := SessionDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(".json")])
	}
	return names, nil
}
