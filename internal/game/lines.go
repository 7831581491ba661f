package game

// LinesFor computes the candidate winning lines for a size x size grid.
//
// Each line is a list of size cell indices into a row-major grid. The
// enumeration order is fixed and load-bearing for tie-breaking:
// size rows first, then size columns, then the main diagonal
// (indices i*(size+1)), then the anti-diagonal (indices (i+1)*(size-1)).
// Total: 2*size + 2 lines.
func LinesFor(size int) [][]int {
	if size <= 0 {
		return nil
	}
	lines := make([][]int, 0, 2*size+2)

	for r := 0; r < size; r++ {
		row := make([]int, size)
		for c := 0; c < size; c++ {
			row[c] = r*size + c
		}
		lines = append(lines, row)
	}

	for c := 0; c < size; c++ {
		col := make([]int, size)
		for r := 0; r < size; r++ {
			col[r] = r*size + c
		}
		lines = append(lines, col)
	}

	diag := make([]int, size)
	for i := 0; i < size; i++ {
		diag[i] = i * (size + 1)
	}
	lines = append(lines, diag)

	anti := make([]int, size)
	for i := 0; i < size; i++ {
		anti[i] = (i + 1) * (size - 1)
	}
	lines = append(lines, anti)

	return lines
}

// WinningLine returns the first line (in LinesFor enumeration order) whose
// cells are all completed, or nil if no line is complete.
//
// Empty padding tiles never contribute to a win: a line containing an
// empty-text cell is skipped even if that cell is somehow marked completed.
// Nothing structurally prevents such a cell, so the guard lives here.
func WinningLine(goals []Goal, size int) []int {
	if size <= 0 || len(goals) < size*size {
		return nil
	}
	for _, line := range LinesFor(size) {
		complete := true
		for _, idx := range line {
			g := goals[idx]
			if g.IsEmpty() || !g.Completed {
				complete = false
				break
			}
		}
		if complete {
			return line
		}
	}
	return nil
}

// HasBingo reports whether any line on the board is fully completed.
func HasBingo(goals []Goal, size int) bool {
	return WinningLine(goals, size) != nil
}
