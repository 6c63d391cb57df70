package surface

import (
	"fmt"

	"github.com/augmaticaudio/gre/debug"
)

// NumMixRows is the fixed instrument count of the mix matrix.
const NumMixRows = 6

// MaxPriority is the top of the per-row priority domain, 0..MaxPriority.
// The domain happens to have as many values as the matrix has rows, but
// the two are unrelated.
const MaxPriority = 5

// MixColumn identifies one of the four routing flags per row.
type MixColumn int

const (
	ColM1 MixColumn = iota
	ColS1
	ColM2
	ColS2
)

var mixColumnNames = [4]string{"m1", "s1", "m2", "s2"}

func (c MixColumn) String() string {
	if c < 0 || int(c) >= len(mixColumnNames) {
		return "?"
	}
	return mixColumnNames[c]
}

// exclusion returns the flag that must never be true together with c.
func (c MixColumn) exclusion() MixColumn {
	switch c {
	case ColM1:
		return ColS1
	case ColS1:
		return ColM1
	case ColM2:
		return ColS2
	default:
		return ColM2
	}
}

// MixRow is one instrument channel of the routing matrix: four flags in two
// mutually exclusive pairs, a priority, and two send percentages.
type MixRow struct {
	Flags    [4]bool
	Priority int     // 0..MaxPriority
	P1, P2   float64 // 0..100
}

// Matrix is the six-row routing state and the policy that keeps it legal.
// It is not a Control; an external loader restores it through SetFlag /
// SetPriority / SetPercent and a saver reads the row accessors.
type Matrix struct {
	rows    [NumMixRows]MixRow
	allCols [4]bool

	// emit receives one synthesized (id, value) event per actual state
	// change, in mutation order. May be nil.
	emit func(id string, value float64)

	// summary runs once after every mutating operation, after the
	// column indicators have been recomputed. May be nil.
	summary func()
}

// NewMatrix returns an all-clear matrix with every row at priority 0 and
// both sends at 100%.
func NewMatrix() *Matrix {
	m := &Matrix{}
	for r := range m.rows {
		m.rows[r].P1 = 100
		m.rows[r].P2 = 100
	}
	return m
}

// OnChange installs the per-change event hook.
func (m *Matrix) OnChange(fn func(id string, value float64)) { m.emit = fn }

// OnSummary installs the post-operation summary hook.
func (m *Matrix) OnSummary(fn func()) { m.summary = fn }

// Row returns a copy of row r.
func (m *Matrix) Row(r int) MixRow {
	if r < 0 || r >= NumMixRows {
		return MixRow{}
	}
	return m.rows[r]
}

// Flag reports one routing flag.
func (m *Matrix) Flag(r int, col MixColumn) bool {
	if r < 0 || r >= NumMixRows {
		return false
	}
	return m.rows[r].Flags[col]
}

// Priority reports the priority of row r.
func (m *Matrix) Priority(r int) int {
	if r < 0 || r >= NumMixRows {
		return 0
	}
	return m.rows[r].Priority
}

// ColumnAll reports whether every row has col enabled. Recomputed after
// every mutating operation; summary controls read this.
func (m *Matrix) ColumnAll(col MixColumn) bool { return m.allCols[col] }

// SetFlag sets one routing flag. Turning a flag on clears its exclusion
// partner if that partner is currently set; turning a flag off never
// touches the partner. At most one clear happens per call.
func (m *Matrix) SetFlag(r int, col MixColumn, on bool) {
	if r < 0 || r >= NumMixRows {
		return
	}
	m.setFlagRow(r, col, on)
	m.finish()
}

func (m *Matrix) setFlagRow(r int, col MixColumn, on bool) {
	row := &m.rows[r]
	if on {
		if pair := col.exclusion(); row.Flags[pair] {
			row.Flags[pair] = false
			m.emitChange(MixFlagID(r, pair), 0)
		}
	}
	if row.Flags[col] != on {
		row.Flags[col] = on
		v := 0.0
		if on {
			v = 1
		}
		m.emitChange(MixFlagID(r, col), v)
	}
}

// SetPriority sets one row's priority with no side effects on other rows.
func (m *Matrix) SetPriority(r, p int) {
	if r < 0 || r >= NumMixRows {
		return
	}
	p = clampInt(p, 0, MaxPriority)
	if m.rows[r].Priority != p {
		m.rows[r].Priority = p
		m.emitChange(MixPriorityID(r), float64(p))
	}
	m.finish()
}

// SetPercent sets one of the two send percentages (which is 1 or 2).
func (m *Matrix) SetPercent(r, which int, v float64) {
	if r < 0 || r >= NumMixRows {
		return
	}
	v = clamp(v, 0, 100)
	row := &m.rows[r]
	switch which {
	case 1:
		if row.P1 != v {
			row.P1 = v
			m.emitChange(MixPercentID(r, 1), v)
		}
	case 2:
		if row.P2 != v {
			row.P2 = v
			m.emitChange(MixPercentID(r, 2), v)
		}
	}
	m.finish()
}

// BulkColumn toggles a whole column: a fully enabled column disables every
// row, anything less enables every row. Enabling applies the same
// single-flag exclusion side effect per row as SetFlag.
func (m *Matrix) BulkColumn(col MixColumn) {
	enable := !m.columnFull(col)
	debug.Log("matrix", "bulk column %s -> %v", col, enable)
	for r := 0; r < NumMixRows; r++ {
		m.setFlagRow(r, col, enable)
	}
	m.finish()
}

// BulkPriority assigns priority p to every row. When every row already
// holds p the existing assignment is preserved untouched.
func (m *Matrix) BulkPriority(p int) {
	p = clampInt(p, 0, MaxPriority)
	uniform := true
	for r := 0; r < NumMixRows; r++ {
		if m.rows[r].Priority != p {
			uniform = false
			break
		}
	}
	if uniform {
		return
	}
	debug.Log("matrix", "bulk priority -> %d", p)
	for r := 0; r < NumMixRows; r++ {
		if m.rows[r].Priority != p {
			m.rows[r].Priority = p
			m.emitChange(MixPriorityID(r), float64(p))
		}
	}
	m.finish()
}

// SpreadPriority is the per-cell bulk path: double-activating row r's
// priority control sets that row's current priority across all six rows.
func (m *Matrix) SpreadPriority(r int) {
	if r < 0 || r >= NumMixRows {
		return
	}
	m.BulkPriority(m.rows[r].Priority)
}

func (m *Matrix) columnFull(col MixColumn) bool {
	for r := 0; r < NumMixRows; r++ {
		if !m.rows[r].Flags[col] {
			return false
		}
	}
	return true
}

// finish recomputes the column indicators and runs the summary hook. Pure
// read-after-write: no further state mutation happens here.
func (m *Matrix) finish() {
	for col := ColM1; col <= ColS2; col++ {
		m.allCols[col] = m.columnFull(col)
	}
	if m.summary != nil {
		m.summary()
	}
}

func (m *Matrix) emitChange(id string, v float64) {
	if m.emit != nil {
		m.emit(id, v)
	}
}

// MixFlagID is the synthesized event identifier for one routing flag.
func MixFlagID(r int, col MixColumn) string {
	return fmt.Sprintf("mix.%d.%s", r, col)
}

// MixPriorityID is the synthesized event identifier for a row priority.
func MixPriorityID(r int) string {
	return fmt.Sprintf("mix.%d.prio", r)
}

// MixPercentID is the synthesized event identifier for a send percentage.
func MixPercentID(r, which int) string {
	return fmt.Sprintf("mix.%d.p%d", r, which)
}
