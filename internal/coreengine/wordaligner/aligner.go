package wordaligner

import "fmt"

// OpType classifies a single edit operation in a word alignment.
type OpType int

const (
	OpMatch OpType = iota
	OpSubstitution
	OpInsertion
	OpDeletion
)

// String returns the lower-case name of the operation type.
func (t OpType) String() string {
	switch t {
	case OpMatch:
		return "match"
	case OpSubstitution:
		return "substitution"
	case OpInsertion:
		return "insertion"
	case OpDeletion:
		return "deletion"
	default:
		return fmt.Sprintf("OpType(%d)", int(t))
	}
}

// Op is one step of the alignment between a reference and a hypothesis token
// sequence. RefIndex is the position of the reference token the op consumes
// (-1 for insertions); HypIndex is the position of the hypothesis token it
// consumes (-1 for deletions).
type Op struct {
	Type     OpType
	RefIndex int
	HypIndex int
}

// Align computes a minimum-edit-distance alignment between the reference and
// hypothesis token sequences using the standard dynamic-programming recurrence
// with unit cost per insertion, deletion, and substitution (cost 0 when the
// tokens are equal, reported as a match).
//
// When multiple minimum-cost paths exist, the backtrace prefers the diagonal
// move (match/substitution) over deletion, and deletion over insertion, so
// alignments are deterministic.
//
// An empty reference aligns as pure insertions, an empty hypothesis as pure
// deletions, and two empty sequences as an empty op list.
func Align(reference, hypothesis []string) []Op {
	n := len(reference)
	m := len(hypothesis)

	// d[i][j] = minimum cost to align the first i reference tokens with the
	// first j hypothesis tokens. Base row/column are pure insertion/deletion.
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if reference[i-1] == hypothesis[j-1] {
				d[i][j] = d[i-1][j-1]
				continue
			}
			sub := d[i-1][j-1] + 1
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			d[i][j] = min(sub, min(del, ins))
		}
	}

	// Backtrace from the bottom-right corner, collecting ops in reverse.
	ops := make([]Op, 0, max(n, m))
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && reference[i-1] == hypothesis[j-1] && d[i][j] == d[i-1][j-1]:
			ops = append(ops, Op{Type: OpMatch, RefIndex: i - 1, HypIndex: j - 1})
			i--
			j--
		case i > 0 && j > 0 && d[i][j] == d[i-1][j-1]+1:
			ops = append(ops, Op{Type: OpSubstitution, RefIndex: i - 1, HypIndex: j - 1})
			i--
			j--
		case i > 0 && d[i][j] == d[i-1][j]+1:
			ops = append(ops, Op{Type: OpDeletion, RefIndex: i - 1, HypIndex: -1})
			i--
		default:
			ops = append(ops, Op{Type: OpInsertion, RefIndex: -1, HypIndex: j - 1})
			j--
		}
	}

	// Reverse into forward order.
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// ErrorCount returns the number of non-match ops (substitutions, insertions,
// and deletions) in an alignment.
func ErrorCount(ops []Op) int {
	count := 0
	for _, op := range ops {
		if op.Type != OpMatch {
			count++
		}
	}
	return count
}
