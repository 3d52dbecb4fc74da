/*
NAME
  hungarian.go

DESCRIPTION
  hungarian.go implements the Munkres (Hungarian) assignment algorithm
  over a rectangular cost matrix, ported from the original module's
  easytrack/hungarian.cpp (itself a C++ wrapper around Markus Buehren's
  public-domain MATLAB implementation) into idiomatic Go: plain [][]float64
  cost copies and []bool marker matrices in place of the original's single
  flat workspace buffer.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tracker

import "math"

const epsilon = 1e-10

// munkres solves the rectangular assignment problem for cost, an
// nRows x nCols matrix (cost[row][col]). It returns assignment, where
// assignment[row] is the matched column, or -1 if row is unmatched, and
// the total cost of the assignment.
func munkres(cost [][]float64) (assignment []int, total float64) {
	nRows := len(cost)
	if nRows == 0 {
		return nil, 0
	}
	nCols := len(cost[0])
	if nCols == 0 {
		assignment = make([]int, nRows)
		for i := range assignment {
			assignment[i] = -1
		}
		return assignment, 0
	}

	dist := make([][]float64, nRows)
	for i := range dist {
		dist[i] = append([]float64(nil), cost[i]...)
	}

	star := newBoolMatrix(nRows, nCols)
	prime := newBoolMatrix(nRows, nCols)
	coveredCols := make([]bool, nCols)
	coveredRows := make([]bool, nRows)

	minDim := nRows
	if nRows <= nCols {
		for row := 0; row < nRows; row++ {
			min := dist[row][0]
			for col := 1; col < nCols; col++ {
				if dist[row][col] < min {
					min = dist[row][col]
				}
			}
			for col := 0; col < nCols; col++ {
				dist[row][col] -= min
			}
		}
		for row := 0; row < nRows; row++ {
			for col := 0; col < nCols; col++ {
				if math.Abs(dist[row][col]) < epsilon && !coveredCols[col] {
					star[row][col] = true
					coveredCols[col] = true
					break
				}
			}
		}
	} else {
		minDim = nCols
		for col := 0; col < nCols; col++ {
			min := dist[0][col]
			for row := 1; row < nRows; row++ {
				if dist[row][col] < min {
					min = dist[row][col]
				}
			}
			for row := 0; row < nRows; row++ {
				dist[row][col] -= min
			}
		}
		for col := 0; col < nCols; col++ {
			for row := 0; row < nRows; row++ {
				if math.Abs(dist[row][col]) < epsilon && !coveredRows[row] {
					star[row][col] = true
					coveredCols[col] = true
					coveredRows[row] = true
					break
				}
			}
		}
		for row := range coveredRows {
			coveredRows[row] = false
		}
	}

	assignment = make([]int, nRows)
	for i := range assignment {
		assignment[i] = -1
	}

	step2b(assignment, dist, star, prime, coveredCols, coveredRows, minDim)

	for row := 0; row < nRows; row++ {
		if col := assignment[row]; col >= 0 {
			total += cost[row][col]
		}
	}
	return assignment, total
}

func newBoolMatrix(rows, cols int) [][]bool {
	m := make([][]bool, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

// step2b counts covered columns; if every column is covered the starred
// zeros already form a complete assignment, else proceeds to step3.
func step2b(assignment []int, dist [][]float64, star, prime [][]bool, coveredCols, coveredRows []bool, minDim int) {
	n := 0
	for _, c := range coveredCols {
		if c {
			n++
		}
	}
	if n == minDim {
		buildAssignment(assignment, star)
		return
	}
	step3(assignment, dist, star, prime, coveredCols, coveredRows, minDim)
}

func buildAssignment(assignment []int, star [][]bool) {
	for row := range star {
		for col := range star[row] {
			if star[row][col] {
				assignment[row] = col
				break
			}
		}
	}
}

// step3 primes uncovered zeros, augmenting the starred matching (step4)
// whenever a primed zero's row has no starred zero, else re-covering rows
// and uncovering columns until no further zero can be found, at which
// point it falls through to step5's cost adjustment.
func step3(assignment []int, dist [][]float64, star, prime [][]bool, coveredCols, coveredRows []bool, minDim int) {
	nRows, nCols := len(dist), len(dist[0])

	for {
		zerosFound := false
		for col := 0; col < nCols; col++ {
			if coveredCols[col] {
				continue
			}
			for row := 0; row < nRows; row++ {
				if coveredRows[row] || math.Abs(dist[row][col]) >= epsilon {
					continue
				}
				prime[row][col] = true

				starCol := -1
				for c := 0; c < nCols; c++ {
					if star[row][c] {
						starCol = c
						break
					}
				}

				if starCol == -1 {
					step4(assignment, dist, star, prime, coveredCols, coveredRows, minDim, row, col)
					return
				}
				coveredRows[row] = true
				coveredCols[starCol] = false
				zerosFound = true
				break
			}
			if zerosFound {
				break
			}
		}
		if !zerosFound {
			break
		}
	}

	step5(assignment, dist, star, prime, coveredCols, coveredRows, minDim)
}

// step4 augments the starred matching along the alternating path rooted
// at (row, col): star the newly primed zero, unstar its column's previous
// star, star that row's primed zero, and so on until the path ends, then
// clears all primes and row covers and returns to step2b.
func step4(assignment []int, dist [][]float64, star, prime [][]bool, coveredCols, coveredRows []bool, minDim, row, col int) {
	nRows, nCols := len(dist), len(dist[0])

	newStar := newBoolMatrix(nRows, nCols)
	for r := 0; r < nRows; r++ {
		copy(newStar[r], star[r])
	}
	newStar[row][col] = true

	starCol := col
	starRow := -1
	for r := 0; r < nRows; r++ {
		if star[r][starCol] {
			starRow = r
			break
		}
	}

	for starRow != -1 {
		newStar[starRow][starCol] = false

		primeRow := starRow
		primeCol := -1
		for c := 0; c < nCols; c++ {
			if prime[primeRow][c] {
				primeCol = c
				break
			}
		}
		newStar[primeRow][primeCol] = true

		starCol = primeCol
		starRow = -1
		for r := 0; r < nRows; r++ {
			if star[r][starCol] {
				starRow = r
				break
			}
		}
	}

	for r := 0; r < nRows; r++ {
		for c := 0; c < nCols; c++ {
			prime[r][c] = false
			star[r][c] = newStar[r][c]
		}
	}
	for r := range coveredRows {
		coveredRows[r] = false
	}

	step2a(assignment, dist, star, prime, coveredCols, coveredRows, minDim)
}

// step2a re-covers every column containing a starred zero, then returns
// to step2b.
func step2a(assignment []int, dist [][]float64, star, prime [][]bool, coveredCols, coveredRows []bool, minDim int) {
	nRows, nCols := len(dist), len(dist[0])
	for col := 0; col < nCols; col++ {
		for row := 0; row < nRows; row++ {
			if star[row][col] {
				coveredCols[col] = true
				break
			}
		}
	}
	step2b(assignment, dist, star, prime, coveredCols, coveredRows, minDim)
}

// step5 finds the smallest uncovered value h, adds it to every covered
// row and subtracts it from every uncovered column, creating at least one
// new uncovered zero, then returns to step3.
func step5(assignment []int, dist [][]float64, star, prime [][]bool, coveredCols, coveredRows []bool, minDim int) {
	nRows, nCols := len(dist), len(dist[0])

	h := math.MaxFloat64
	for row := 0; row < nRows; row++ {
		if coveredRows[row] {
			continue
		}
		for col := 0; col < nCols; col++ {
			if !coveredCols[col] && dist[row][col] < h {
				h = dist[row][col]
			}
		}
	}

	for row := 0; row < nRows; row++ {
		if coveredRows[row] {
			for col := 0; col < nCols; col++ {
				dist[row][col] += h
			}
		}
	}
	for col := 0; col < nCols; col++ {
		if !coveredCols[col] {
			for row := 0; row < nRows; row++ {
				dist[row][col] -= h
			}
		}
	}

	step3(assignment, dist, star, prime, coveredCols, coveredRows, minDim)
}
