// Package diff computes line-level edit scripts between two text blobs and
// renders them as compact, colored transcript blocks.
package diff

import "strings"

// Op classifies a diff segment.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// String returns the op name.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Segment is one classified line of a computed diff. Line is 1-based: for
// equal and delete segments it indexes the before text, for insert segments
// the after text.
//
// Invariant: concatenating equal+insert texts in order reproduces the after
// text exactly; equal+delete reproduces the before text.
type Segment struct {
	Op   Op
	Text string
	Line int
}

// Aligner computes an edit script between two line slices. Implementations
// only classify lines; Compute assigns line numbers afterward. The default
// is the LCS aligner below; swapping in a different alignment strategy does
// not change the segment model.
type Aligner interface {
	Align(before, after []string) []Segment
}

// maxMatrixCells bounds the LCS dynamic-programming table. Middles larger
// than this fall back to a coarse delete-all/insert-all script, which keeps
// the reconstruction invariants but is not minimal.
const maxMatrixCells = 4_000_000

// Compute derives the edit script between two text blobs using the default
// LCS aligner.
func Compute(before, after string) []Segment {
	return ComputeWith(lcsAligner{}, before, after)
}

// ComputeWith derives the edit script using the given alignment strategy.
func ComputeWith(a Aligner, before, after string) []Segment {
	beforeLines := splitLines(before)
	afterLines := splitLines(after)

	// Pure creation and pure deletion skip alignment entirely so the
	// empty side does not contribute a phantom blank line.
	if before == "" && after == "" {
		return numberSegments([]Segment{{Op: OpEqual, Text: ""}})
	}
	if before == "" {
		segs := make([]Segment, len(afterLines))
		for i, line := range afterLines {
			segs[i] = Segment{Op: OpInsert, Text: line}
		}
		return numberSegments(segs)
	}
	if after == "" {
		segs := make([]Segment, len(beforeLines))
		for i, line := range beforeLines {
			segs[i] = Segment{Op: OpDelete, Text: line}
		}
		return numberSegments(segs)
	}

	// Common prefix and suffix lines are equal by construction; only the
	// middle needs alignment.
	prefix := commonPrefix(beforeLines, afterLines)
	suffix := commonSuffix(beforeLines[prefix:], afterLines[prefix:])

	segs := make([]Segment, 0, len(beforeLines)+len(afterLines))
	for _, line := range beforeLines[:prefix] {
		segs = append(segs, Segment{Op: OpEqual, Text: line})
	}

	midBefore := beforeLines[prefix : len(beforeLines)-suffix]
	midAfter := afterLines[prefix : len(afterLines)-suffix]
	segs = append(segs, a.Align(midBefore, midAfter)...)

	for _, line := range beforeLines[len(beforeLines)-suffix:] {
		segs = append(segs, Segment{Op: OpEqual, Text: line})
	}

	return numberSegments(segs)
}

// Reconstruct rebuilds one side of the diff from its segments: the before
// text from equal+delete, or the after text from equal+insert.
func Reconstruct(segments []Segment, side Op) string {
	var lines []string
	for _, seg := range segments {
		if seg.Op == OpEqual || seg.Op == side {
			lines = append(lines, seg.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Changed reports whether the script contains any insert or delete.
func Changed(segments []Segment) bool {
	for _, seg := range segments {
		if seg.Op != OpEqual {
			return true
		}
	}
	return false
}

// lcsAligner is the default alignment strategy: longest common subsequence
// over lines. When multiple alignments have equal cost it prefers the one
// that keeps the earliest matching lines aligned, which minimizes churn
// near the top of the file. That tie-break is a pragmatic heuristic, not a
// provably optimal choice.
type lcsAligner struct{}

func (lcsAligner) Align(before, after []string) []Segment {
	n, m := len(before), len(after)
	if n == 0 && m == 0 {
		return nil
	}

	segs := make([]Segment, 0, n+m)
	if n == 0 {
		for _, line := range after {
			segs = append(segs, Segment{Op: OpInsert, Text: line})
		}
		return segs
	}
	if m == 0 {
		for _, line := range before {
			segs = append(segs, Segment{Op: OpDelete, Text: line})
		}
		return segs
	}

	if n*m > maxMatrixCells {
		return coarseAlign(before, after)
	}

	// lcs[i][j] holds the LCS length of before[i:] and after[j:]. The
	// suffix formulation lets the walk below consume matches greedily
	// from the top, which is exactly the earliest-aligned preference.
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i] == after[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case before[i] == after[j] && lcs[i][j] == lcs[i+1][j+1]+1:
			segs = append(segs, Segment{Op: OpEqual, Text: before[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			// Deletions before insertions at a replace site.
			segs = append(segs, Segment{Op: OpDelete, Text: before[i]})
			i++
		default:
			segs = append(segs, Segment{Op: OpInsert, Text: after[j]})
			j++
		}
	}
	for ; i < n; i++ {
		segs = append(segs, Segment{Op: OpDelete, Text: before[i]})
	}
	for ; j < m; j++ {
		segs = append(segs, Segment{Op: OpInsert, Text: after[j]})
	}

	return segs
}

// coarseAlign replaces the whole middle when the inputs are too large for
// the DP table. Reconstruction still holds; minimality does not.
func coarseAlign(before, after []string) []Segment {
	segs := make([]Segment, 0, len(before)+len(after))
	for _, line := range before {
		segs = append(segs, Segment{Op: OpDelete, Text: line})
	}
	for _, line := range after {
		segs = append(segs, Segment{Op: OpInsert, Text: line})
	}
	return segs
}

// splitLines splits on newlines, keeping a trailing empty line when the
// input ends with a newline so reconstruction is exact.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// numberSegments assigns 1-based line numbers: before-side numbers for
// equal and delete segments, after-side numbers for insert segments.
func numberSegments(segs []Segment) []Segment {
	beforeLine, afterLine := 0, 0
	for i := range segs {
		switch segs[i].Op {
		case OpEqual:
			beforeLine++
			afterLine++
			segs[i].Line = beforeLine
		case OpDelete:
			beforeLine++
			segs[i].Line = beforeLine
		case OpInsert:
			afterLine++
			segs[i].Line = afterLine
		}
	}
	return segs
}
