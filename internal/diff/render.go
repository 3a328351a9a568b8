package diff

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wrap"

	"github.com/quillhq/quill/internal/ui"
)

const (
	// contextLines is how many unchanged lines stay visible on each side
	// of a change when a long equal run is elided.
	contextLines = 3
	// minHidden is the smallest number of lines worth collapsing behind
	// a marker. Hiding fewer than this saves no vertical space.
	minHidden = 3
	// minBodyWidth keeps wrapped diff bodies legible on narrow sinks.
	minBodyWidth = 8
)

// RenderOptions controls diff display. Width is the total column budget
// including the two-column glyph gutter.
type RenderOptions struct {
	Width     int
	Styles    ui.Styles
	Plain     bool
	ExpandAll bool
}

// Region records an elided run of unchanged lines. LineIndex is the marker's
// position within Rendered.Lines; Segments holds the hidden equal segments
// so a consumer can expand the region after the fact.
type Region struct {
	LineIndex int
	Segments  []Segment
}

// Rendered is a displayable diff block: styled lines, the elided regions
// still available for expansion, and total removed/added character counts.
type Rendered struct {
	Lines   []string
	Regions []Region
	Removed int
	Added   int
}

// String joins the rendered lines for direct writing.
func (r Rendered) String() string {
	return strings.Join(r.Lines, "\n")
}

// Render lays out an edit script with a leading glyph per op (space for
// equal, - for delete, + for insert), colorized by op and hard-wrapped to
// the width budget. Long unchanged runs are elided behind a marker unless
// ExpandAll is set. Identical inputs produce an explicit zero-change notice
// instead of an empty block.
func Render(segments []Segment, opts RenderOptions) Rendered {
	opts = opts.normalized()

	if !Changed(segments) {
		return Rendered{
			Lines: []string{opts.Styles.DiffMarker.Render("(no changes)")},
		}
	}

	var out Rendered
	hasDelete, hasInsert := false, false
	for _, seg := range segments {
		switch seg.Op {
		case OpDelete:
			hasDelete = true
			out.Removed += utf8.RuneCountInString(seg.Text)
		case OpInsert:
			hasInsert = true
			out.Added += utf8.RuneCountInString(seg.Text)
		}
	}

	for _, r := range splitRuns(segments) {
		if r.op != OpEqual {
			for _, seg := range r.segs {
				out.Lines = append(out.Lines, renderSegment(seg, opts)...)
			}
			continue
		}

		keepHead, keepTail := contextLines, contextLines
		if r.first {
			keepHead = 0
		}
		if r.last {
			keepTail = 0
		}
		hidden := len(r.segs) - keepHead - keepTail
		if opts.ExpandAll || hidden < minHidden {
			for _, seg := range r.segs {
				out.Lines = append(out.Lines, renderSegment(seg, opts)...)
			}
			continue
		}

		for _, seg := range r.segs[:keepHead] {
			out.Lines = append(out.Lines, renderSegment(seg, opts)...)
		}
		out.Regions = append(out.Regions, Region{
			LineIndex: len(out.Lines),
			Segments:  r.segs[keepHead : len(r.segs)-keepTail],
		})
		out.Lines = append(out.Lines, elisionMarker(hidden, opts))
		for _, seg := range r.segs[len(r.segs)-keepTail:] {
			out.Lines = append(out.Lines, renderSegment(seg, opts)...)
		}
	}

	out.Lines = append(out.Lines, opts.Styles.DiffFooter.Render(footerText(out.Removed, out.Added, hasDelete, hasInsert)))
	return out
}

// ExpandRegion renders the hidden lines of one elided region so a consumer
// can splice them in place of the marker. Out-of-range indexes return nil.
func (r Rendered) ExpandRegion(i int, opts RenderOptions) []string {
	if i < 0 || i >= len(r.Regions) {
		return nil
	}
	opts = opts.normalized()
	var lines []string
	for _, seg := range r.Regions[i].Segments {
		lines = append(lines, renderSegment(seg, opts)...)
	}
	return lines
}

func (opts RenderOptions) normalized() RenderOptions {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Width-2 < minBodyWidth {
		opts.Width = minBodyWidth + 2
	}
	return opts
}

// renderSegment produces the display rows for a single segment: the glyph
// row plus indented continuation rows when the text wraps.
func renderSegment(seg Segment, opts RenderOptions) []string {
	glyph, style := " ", opts.Styles.DiffContext
	switch seg.Op {
	case OpDelete:
		glyph, style = "-", opts.Styles.DiffDelete
	case OpInsert:
		glyph, style = "+", opts.Styles.DiffAdd
	}

	rows := strings.Split(wrap.String(seg.Text, opts.Width-2), "\n")
	out := make([]string, 0, len(rows))
	for i, row := range rows {
		prefix := glyph + " "
		if i > 0 {
			prefix = "  "
		}
		assembled := strings.TrimRight(prefix+row, " ")
		if assembled == "" {
			out = append(out, "")
			continue
		}
		out = append(out, style.Render(assembled))
	}
	return out
}

func elisionMarker(hidden int, opts RenderOptions) string {
	icon := ui.IconEllipsis
	if opts.Plain {
		icon = ui.PlainIcon(icon)
	}
	return opts.Styles.DiffMarker.Render(fmt.Sprintf("%s (%d lines unchanged)", icon, hidden))
}

// footerText reports removed/added character totals. A side with no
// segments at all is left out, so pure creations show only the added count
// and pure deletions only the removed count.
func footerText(removed, added int, hasDelete, hasInsert bool) string {
	switch {
	case hasDelete && hasInsert:
		return fmt.Sprintf("(-%d, +%d chars)", removed, added)
	case hasInsert:
		return fmt.Sprintf("(+%d chars)", added)
	default:
		return fmt.Sprintf("(-%d chars)", removed)
	}
}

type segmentRun struct {
	op          Op
	segs        []Segment
	first, last bool
}

// splitRuns groups consecutive same-op segments, marking the runs that
// open and close the script so edge elision keeps context only on the side
// facing a change.
func splitRuns(segments []Segment) []segmentRun {
	var runs []segmentRun
	for _, seg := range segments {
		if n := len(runs); n > 0 && runs[n-1].op == seg.Op {
			runs[n-1].segs = append(runs[n-1].segs, seg)
			continue
		}
		runs = append(runs, segmentRun{op: seg.Op, segs: []Segment{seg}})
	}
	if len(runs) > 0 {
		runs[0].first = true
		runs[len(runs)-1].last = true
	}
	return runs
}
