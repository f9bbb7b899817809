package front

// A hideset is the set of macro names a token was expanded from. A macro
// named in a token's hideset is never expanded from that token again, so
// that `#define A B` + `#define B A` stops after A -> B -> A.
//
// The algorithm is Dave Prosser's, which is used as a basis for the
// standard's wording:
// https://github.com/rui314/chibicc/wiki/cpp.algo.pdf
type hideset struct {
	next *hideset
	name string
}

func newHideset(name string) *hideset {
	return &hideset{name: name}
}

func (hs *hideset) contains(name string) bool {
	for ; hs != nil; hs = hs.next {
		if hs.name == name {
			return true
		}
	}
	return false
}

func hidesetUnion(hs1, hs2 *hideset) *hideset {
	head := hideset{}
	cur := &head

	for ; hs1 != nil; hs1 = hs1.next {
		if hs2.contains(hs1.name) {
			continue
		}
		cur.next = newHideset(hs1.name)
		cur = cur.next
	}
	cur.next = hs2
	return head.next
}

func hidesetIntersection(hs1, hs2 *hideset) *hideset {
	head := hideset{}
	cur := &head

	for ; hs1 != nil; hs1 = hs1.next {
		if hs2.contains(hs1.name) {
			cur.next = newHideset(hs1.name)
			cur = cur.next
		}
	}
	return head.next
}

// Return copies of tokens with hs added to each hideset.
func addHideset(tokens []PPToken, hs *hideset) []PPToken {
	out := make([]PPToken, len(tokens))
	for i, t := range tokens {
		t.hideset = hidesetUnion(t.hideset, hs)
		out[i] = t
	}
	return out
}
