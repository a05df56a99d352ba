package importer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SlabView/internal/model"
)

// point is a DXF coordinate in mm, Y pointing up.
type point struct {
	X, Y float64
}

// segment is a line between two points, used for chaining disconnected LINE
// entities into closed outlines.
type segment struct {
	start point
	end   point
}

// rect is the bounding box of a closed outline.
type rect struct {
	minX, minY, maxX, maxY float64
}

func (r rect) width() float64  { return r.maxX - r.minX }
func (r rect) height() float64 { return r.maxY - r.minY }
func (r rect) area() float64   { return r.width() * r.height() }

// contains reports whether o lies inside r, allowing tol of overhang.
func (r rect) contains(o rect, tol float64) bool {
	return o.minX >= r.minX-tol && o.minY >= r.minY-tol && o.maxX <= r.maxX+tol && o.maxY <= r.maxY+tol
}

func (r rect) containsPoint(p point) bool {
	return p.X >= r.minX && p.X <= r.maxX && p.Y >= r.minY && p.Y <= r.maxY
}

// dxfText is a TEXT entity's insertion point and value.
type dxfText struct {
	at    point
	value string
}

const chainTolerance = 0.01 // mm

// ImportDXF reconstructs a cutting plan from a DXF layout. Closed outlines
// (LWPOLYLINEs or chains of LINEs) that are not inside another outline are
// sheets; outlines inside a sheet are its cuts, taken by bounding box. A TEXT
// entity inside a cut of the form "<sequence> <label>" names it. Rotation
// cannot be recovered and is reported as 0.
func ImportDXF(path string) ImportResult {
	result := ImportResult{Plan: model.NewCuttingPlan()}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var boxes []rect
	var segments []segment
	var texts []dxfText
	skipped := 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts := make([]point, 0, len(e.Vertices))
			for _, v := range e.Vertices {
				pts = append(pts, point{X: v[0], Y: v[1]})
			}
			if len(pts) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			if !isAxisAlignedRect(pts) {
				result.Warnings = append(result.Warnings, "Non-rectangular outline imported by its bounding box")
			}
			boxes = append(boxes, boundingBox(pts))

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		case *entity.Text:
			if len(e.Coord1) >= 2 {
				texts = append(texts, dxfText{at: point{X: e.Coord1[0], Y: e.Coord1[1]}, value: e.Value})
			}

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	for _, outline := range chainSegments(segments, chainTolerance) {
		boxes = append(boxes, boundingBox(outline))
	}

	if len(boxes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	sheets, warnings := classifyOutlines(boxes, texts)
	result.Warnings = append(result.Warnings, warnings...)
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "No sheets found in DXF file")
		return result
	}
	result.Plan.SheetPlans = sheets
	result.Plan.TotalWaste = totalWaste(sheets)
	return result
}

// classifyOutlines splits boxes into sheets and the cuts they contain.
// Sheets are ordered left to right, then top to bottom.
func classifyOutlines(boxes []rect, texts []dxfText) ([]model.SheetPlan, []string) {
	var warnings []string

	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].area() > boxes[j].area() })

	type sheetBoxes struct {
		outline rect
		cuts    []rect
	}
	var found []*sheetBoxes
	for _, b := range boxes {
		if b.width() < chainTolerance || b.height() < chainTolerance {
			warnings = append(warnings, fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", b.width(), b.height()))
			continue
		}
		var parent *sheetBoxes
		for _, s := range found {
			if s.outline.contains(b, chainTolerance) {
				parent = s
				break
			}
		}
		if parent == nil {
			found = append(found, &sheetBoxes{outline: b})
			continue
		}
		parent.cuts = append(parent.cuts, b)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].outline.minX != found[j].outline.minX {
			return found[i].outline.minX < found[j].outline.minX
		}
		return found[i].outline.maxY > found[j].outline.maxY
	})

	var sheets []model.SheetPlan
	for i, s := range found {
		if len(s.cuts) == 0 {
			warnings = append(warnings, fmt.Sprintf("Outline %d has no cuts inside, skipped", i+1))
			continue
		}
		g := newSheetGrouper()
		name := fmt.Sprintf("DXF Sheet %d", len(sheets)+1)

		// Reading order: top to bottom, then left to right.
		sort.SliceStable(s.cuts, func(a, b int) bool {
			if s.cuts[a].maxY != s.cuts[b].maxY {
				return s.cuts[a].maxY > s.cuts[b].maxY
			}
			return s.cuts[a].minX < s.cuts[b].minX
		})
		for n, c := range s.cuts {
			a := model.Assignment{
				CutLabel:  fmt.Sprintf("Cut %d", n+1),
				Width:     c.width(),
				Length:    c.height(),
				XPosition: c.minX - s.outline.minX,
				YPosition: s.outline.maxY - c.maxY,
			}
			r := row{sheet: name, sheetWidth: s.outline.width(), sheetLength: s.outline.height()}
			for _, t := range texts {
				if !c.containsPoint(t.at) {
					continue
				}
				seq, label := parseCutText(t.value)
				if label != "" {
					a.CutLabel = label
				}
				if seq > 0 {
					a.SequenceNumber = seq
					r.hasSequence = true
				}
				break
			}
			r.assignment = a
			g.add(r)
		}
		plans, w := g.sheets()
		warnings = append(warnings, w...)
		for _, p := range plans {
			p.SheetID = fmt.Sprintf("S%d", len(sheets)+1)
			sheets = append(sheets, p)
		}
	}
	return sheets, warnings
}

// parseCutText splits a "<sequence> <label>" cut caption. A caption without
// a leading number is all label.
func parseCutText(s string) (int, string) {
	s = strings.TrimSpace(s)
	head, rest, _ := strings.Cut(s, " ")
	if n, err := strconv.Atoi(head); err == nil && n > 0 {
		return n, strings.TrimSpace(rest)
	}
	return 0, s
}

func boundingBox(pts []point) rect {
	r := rect{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range pts {
		r.minX = math.Min(r.minX, p.X)
		r.minY = math.Min(r.minY, p.Y)
		r.maxX = math.Max(r.maxX, p.X)
		r.maxY = math.Max(r.maxY, p.Y)
	}
	return r
}

// isAxisAlignedRect reports whether pts are the four corners of a rectangle
// with sides parallel to the axes.
func isAxisAlignedRect(pts []point) bool {
	if len(pts) != 4 {
		return false
	}
	b := boundingBox(pts)
	for _, p := range pts {
		onX := math.Abs(p.X-b.minX) <= chainTolerance || math.Abs(p.X-b.maxX) <= chainTolerance
		onY := math.Abs(p.Y-b.minY) <= chainTolerance || math.Abs(p.Y-b.maxY) <= chainTolerance
		if !onX || !onY {
			return false
		}
	}
	return true
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them
// connected. Chains that do not close are dropped, which discards lone cut
// lines drawn across a sheet.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
