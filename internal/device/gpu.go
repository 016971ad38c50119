package device

import "github.com/oseyan/mb8/internal/isa"

// GPU-local register offsets, relative to the GPU device's window base.
const (
	gpuRegMode    = 0x00
	gpuRegTTYData = 0x01
)

// Mode selects whether the GPU is off or rendering text via TTY writes.
type Mode uint8

const (
	ModeOff Mode = Mode(isa.GPUModeOff)
	ModeTTY Mode = Mode(isa.GPUModeTTY)
)

// GPU is a text-mode display: in TTY mode, each write to the TTY data
// register appends a character at the cursor into a ROWS×COLS cell
// buffer, advancing column-major with wraparound and resetting to the
// top row on overflow (spec §3.3).
type GPU struct {
	mode   Mode
	cells  [isa.TTYRows][isa.TTYCols]byte
	curRow int
	curCol int
}

func NewGPU() *GPU {
	return &GPU{}
}

func (g *GPU) Mode() Mode {
	return g.mode
}

// Cells returns the current cell buffer for a host renderer to read.
func (g *GPU) Cells() [isa.TTYRows][isa.TTYCols]byte {
	return g.cells
}

func (g *GPU) ReadByte(addr uint16) (uint8, bool) {
	switch addr {
	case gpuRegMode:
		return uint8(g.mode), true
	default:
		return 0, false
	}
}

func (g *GPU) WriteByte(addr uint16, val uint8) {
	switch addr {
	case gpuRegMode:
		g.mode = Mode(val)
	case gpuRegTTYData:
		if g.mode == ModeTTY {
			g.putChar(val)
		}
	}
}

func (g *GPU) putChar(ch byte) {
	g.cells[g.curRow][g.curCol] = ch
	g.curCol++
	if g.curCol >= isa.TTYCols {
		g.curCol = 0
		g.curRow++
		if g.curRow >= isa.TTYRows {
			g.curRow = 0
		}
	}
}
