package arcwelder

// pointBuffer holds the samples of the current accumulation in path order.
// Mutation is append-only except for removeLast, which undoes the most
// recent append after a failed fit.
type pointBuffer struct {
	points []Point
}

func (b *pointBuffer) append(p Point) {
	b.points = append(b.points, p)
}

func (b *pointBuffer) removeLast() {
	b.points = b.points[:len(b.points)-1]
}

func (b *pointBuffer) count() int {
	return len(b.points)
}

func (b *pointBuffer) clear() {
	b.points = b.points[:0]
}

func (b *pointBuffer) last() Point {
	return b.points[len(b.points)-1]
}
