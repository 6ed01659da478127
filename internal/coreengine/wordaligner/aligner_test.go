package wordaligner

import (
	"reflect"
	"strings"
	"testing"
)

func opTypes(ops []Op) []OpType {
	types := make([]OpType, len(ops))
	for i, op := range ops {
		types[i] = op.Type
	}
	return types
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		wantTypes  []OpType
	}{
		{
			name:       "identical",
			reference:  "the cat sat",
			hypothesis: "the cat sat",
			wantTypes:  []OpType{OpMatch, OpMatch, OpMatch},
		},
		{
			name:       "single_substitution",
			reference:  "the cat sat",
			hypothesis: "the dog sat",
			wantTypes:  []OpType{OpMatch, OpSubstitution, OpMatch},
		},
		{
			name:       "single_insertion",
			reference:  "the cat sat",
			hypothesis: "the big cat sat",
			wantTypes:  []OpType{OpMatch, OpInsertion, OpMatch, OpMatch},
		},
		{
			name:       "single_deletion",
			reference:  "the big cat sat",
			hypothesis: "the cat sat",
			wantTypes:  []OpType{OpMatch, OpDeletion, OpMatch, OpMatch},
		},
		{
			name:       "empty_reference_all_insertions",
			reference:  "",
			hypothesis: "hello world",
			wantTypes:  []OpType{OpInsertion, OpInsertion},
		},
		{
			name:       "empty_hypothesis_all_deletions",
			reference:  "hello world",
			hypothesis: "",
			wantTypes:  []OpType{OpDeletion, OpDeletion},
		},
		{
			name:       "both_empty",
			reference:  "",
			hypothesis: "",
			wantTypes:  []OpType{},
		},
		{
			name:       "substitution_preferred_over_ins_del_pair",
			reference:  "a b c",
			hypothesis: "a x c",
			wantTypes:  []OpType{OpMatch, OpSubstitution, OpMatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := strings.Fields(tt.reference)
			hyp := strings.Fields(tt.hypothesis)
			got := Align(ref, hyp)
			if !reflect.DeepEqual(opTypes(got), tt.wantTypes) {
				t.Errorf("Align(%v, %v) ops = %v, want %v", ref, hyp, opTypes(got), tt.wantTypes)
			}
		})
	}
}

// Aligning a sequence with itself must yield only matches.
func TestAlignSelfIdentity(t *testing.T) {
	sequences := [][]string{
		{"one"},
		{"which", "we", "left", "at", "the", "time"},
		{"a", "a", "a", "a"},
	}
	for _, seq := range sequences {
		ops := Align(seq, seq)
		if len(ops) != len(seq) {
			t.Fatalf("Align(x, x) produced %d ops for %d tokens", len(ops), len(seq))
		}
		for i, op := range ops {
			if op.Type != OpMatch {
				t.Errorf("Align(%v, %v) op %d = %v, want match", seq, seq, i, op.Type)
			}
			if op.RefIndex != i || op.HypIndex != i {
				t.Errorf("op %d indexes = (%d, %d), want (%d, %d)", i, op.RefIndex, op.HypIndex, i, i)
			}
		}
		if ErrorCount(ops) != 0 {
			t.Errorf("ErrorCount for self alignment = %d, want 0", ErrorCount(ops))
		}
	}
}

func TestAlignIndexes(t *testing.T) {
	ref := strings.Fields("the quick brown fox")
	hyp := strings.Fields("the brown fox jumps")
	// Expected: match(the), deletion(quick), match(brown), match(fox), insertion(jumps).
	ops := Align(ref, hyp)

	want := []Op{
		{Type: OpMatch, RefIndex: 0, HypIndex: 0},
		{Type: OpDeletion, RefIndex: 1, HypIndex: -1},
		{Type: OpMatch, RefIndex: 2, HypIndex: 1},
		{Type: OpMatch, RefIndex: 3, HypIndex: 2},
		{Type: OpInsertion, RefIndex: -1, HypIndex: 3},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("Align = %+v, want %+v", ops, want)
	}
}

func TestErrorCount(t *testing.T) {
	ref := strings.Fields("which we left at the time of the discontinuance of the long practiced procession to tyburn")
	hyp := strings.Fields("which we left at the time of the discontinuance of the law practice procession to tiber")
	ops := Align(ref, hyp)
	if got := ErrorCount(ops); got != 3 {
		t.Errorf("ErrorCount = %d, want 3 substitutions", got)
	}
}
