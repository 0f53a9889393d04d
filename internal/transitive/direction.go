package transitive

// decideDirection selects which endpoint the traversal starts from. The
// cost of the hull is dominated by the number of start nodes, so the more
// constrained side wins: a fixed id first, then a bound variable, then the
// side with the smaller feeding result. Ties favor the left side.
func decideDirection(lhs, rhs Side) (start, target Side) {
	if lhs.IsFixed() != rhs.IsFixed() {
		if lhs.IsFixed() {
			return lhs, rhs
		}
		return rhs, lhs
	}
	if lhs.IsBound() != rhs.IsBound() {
		if lhs.IsBound() {
			return lhs, rhs
		}
		return rhs, lhs
	}
	lSize, lok := lhs.feedSizeEstimate()
	rSize, rok := rhs.feedSizeEstimate()
	if lok && rok && rSize < lSize {
		return rhs, lhs
	}
	return lhs, rhs
}
