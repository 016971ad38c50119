package compiler

import "strings"

// Peephole repeats a forward pass over asm's lines until a pass changes
// nothing, eliminating adjacent `PUSH Rn` / `POP Rn` pairs on the same
// register (spec §4.10); removing one pair can make the lines around it a
// new adjacent pair for the next pass. Grounded on
// tinyrange-rtg/std/compiler/dce.go's worklist-to-fixed-point shape,
// applied here to a line-oriented textual pass instead of a dataflow
// lattice.
func Peephole(asm string) string {
	lines := strings.Split(asm, "\n")

	for {
		out, changed := peepholePass(lines)
		lines = out
		if !changed {
			break
		}
	}

	return strings.Join(lines, "\n")
}

func peepholePass(lines []string) ([]string, bool) {
	out := make([]string, 0, len(lines))
	changed := false

	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) {
			a, okA := pushReg(lines[i])
			b, okB := popReg(lines[i+1])
			if okA && okB && a == b {
				i++ // drop both lines
				changed = true
				continue
			}
		}
		out = append(out, lines[i])
	}

	return out, changed
}

func pushReg(line string) (string, bool) {
	return matchUnary(line, "PUSH")
}

func popReg(line string) (string, bool) {
	return matchUnary(line, "POP")
}

// matchUnary recognizes a trimmed line of the form "MNEMONIC Rn" and
// returns the operand.
func matchUnary(line, mnemonic string) (string, bool) {
	t := strings.TrimSpace(line)
	prefix := mnemonic + " "
	if !strings.HasPrefix(t, prefix) {
		return "", false
	}
	return strings.TrimSpace(t[len(prefix):]), true
}
