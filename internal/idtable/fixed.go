package idtable

import "github.com/quellgraph/quell/internal/ids"

// MaxSpecializedWidth is the largest copy width with an unrolled writer.
// Wider tables fall back to a generic loop.
const MaxSpecializedWidth = 6

// PairWriter returns a writer placing an endpoint pair into the two given
// columns of a preallocated row block. The column slices are resolved once,
// so the returned closure performs no per-call column lookups.
func (t *Table) PairWriter(startCol, targetCol int) func(row int, start, target ids.ID) {
	sc := t.cols[startCol]
	tc := t.cols[targetCol]
	return func(row int, start, target ids.ID) {
		sc[row] = start
		tc[row] = target
	}
}

// RowCopier returns a copier that transfers the non-skip columns of one src
// row into dst starting at column dstStart, preserving source order. The
// copier is specialized on the number of transferred columns for widths up
// to MaxSpecializedWidth.
func RowCopier(dst, src *Table, skipCol, dstStart int) func(dstRow, srcRow int) {
	type colPair struct {
		dst []ids.ID
		src []ids.ID
	}
	pairs := make([]colPair, 0, src.NumColumns())
	out := dstStart
	for in := 0; in < src.NumColumns() && out < dst.NumColumns(); in++ {
		if in == skipCol {
			continue
		}
		pairs = append(pairs, colPair{dst: dst.cols[out], src: src.cols[in]})
		out++
	}

	switch len(pairs) {
	case 0:
		return func(dstRow, srcRow int) {}
	case 1:
		p0 := pairs[0]
		return func(dstRow, srcRow int) {
			p0.dst[dstRow] = p0.src[srcRow]
		}
	case 2:
		p0, p1 := pairs[0], pairs[1]
		return func(dstRow, srcRow int) {
			p0.dst[dstRow] = p0.src[srcRow]
			p1.dst[dstRow] = p1.src[srcRow]
		}
	case 3:
		p0, p1, p2 := pairs[0], pairs[1], pairs[2]
		return func(dstRow, srcRow int) {
			p0.dst[dstRow] = p0.src[srcRow]
			p1.dst[dstRow] = p1.src[srcRow]
			p2.dst[dstRow] = p2.src[srcRow]
		}
	case 4:
		p0, p1, p2, p3 := pairs[0], pairs[1], pairs[2], pairs[3]
		return func(dstRow, srcRow int) {
			p0.dst[dstRow] = p0.src[srcRow]
			p1.dst[dstRow] = p1.src[srcRow]
			p2.dst[dstRow] = p2.src[srcRow]
			p3.dst[dstRow] = p3.src[srcRow]
		}
	case 5:
		p0, p1, p2, p3, p4 := pairs[0], pairs[1], pairs[2], pairs[3], pairs[4]
		return func(dstRow, srcRow int) {
			p0.dst[dstRow] = p0.src[srcRow]
			p1.dst[dstRow] = p1.src[srcRow]
			p2.dst[dstRow] = p2.src[srcRow]
			p3.dst[dstRow] = p3.src[srcRow]
			p4.dst[dstRow] = p4.src[srcRow]
		}
	case MaxSpecializedWidth:
		p0, p1, p2, p3, p4, p5 := pairs[0], pairs[1], pairs[2], pairs[3], pairs[4], pairs[5]
		return func(dstRow, srcRow int) {
			p0.dst[dstRow] = p0.src[srcRow]
			p1.dst[dstRow] = p1.src[srcRow]
			p2.dst[dstRow] = p2.src[srcRow]
			p3.dst[dstRow] = p3.src[srcRow]
			p4.dst[dstRow] = p4.src[srcRow]
			p5.dst[dstRow] = p5.src[srcRow]
		}
	default:
		return func(dstRow, srcRow int) {
			for _, p := range pairs {
				p.dst[dstRow] = p.src[srcRow]
			}
		}
	}
}
