// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import "testing"

func labeledSVP() (nodes []Node, labels []string, root int16) {
	nodes, root = canonicalSVP()
	nodes[2].Label = 0 // NP
	nodes[3].Label = 1 // VP
	nodes[4].Label = 2 // S
	return nodes, []string{"NP", "VP", "S"}, root
}

func TestRenderContinuousWholeTree(t *testing.T) {
	nodes, labels, root := labeledSVP()
	full := make([]uint64, 1)
	for i := range nodes {
		bsSetForTest(full, i)
	}

	r := NewSubtreeRenderer(labels)
	got := r.RenderContinuous(nodes, full, root, []string{"the", "man"})
	want := "(S (NP the) (VP man))"
	if got != want {
		t.Fatalf("RenderContinuous() = %q, want %q", got, want)
	}
}

func TestRenderContinuousFrontier(t *testing.T) {
	nodes, labels, root := labeledSVP()
	// Only S and NP are included; VP is a frontier.
	bits := make([]uint64, 1)
	bsSetForTest(bits, int(root))
	bsSetForTest(bits, 2)
	bsSetForTest(bits, 0)

	r := NewSubtreeRenderer(labels)
	got := r.RenderContinuous(nodes, bits, root, []string{"the", "man"})
	want := "(S (NP the) (VP ))"
	if got != want {
		t.Fatalf("RenderContinuous() = %q, want %q", got, want)
	}
}

func TestRenderDiscontinuousFrontierSpan(t *testing.T) {
	nodes, labels, root := labeledSVP()
	bits := make([]uint64, 1)
	bsSetForTest(bits, int(root))
	bsSetForTest(bits, 2)
	bsSetForTest(bits, 0)

	r := NewSubtreeRenderer(labels)
	got := r.RenderDiscontinuous(nodes, bits, root)
	want := "(S (NP 0) (VP 1:1))"
	if got != want {
		t.Fatalf("RenderDiscontinuous() = %q, want %q", got, want)
	}
}

func TestGetSentWorkedExamples(t *testing.T) {
	cases := []struct {
		name    string
		bracket string
		sent    []string
		want    string
		wantSent []string // "" stands for None
	}{
		{
			name:    "scenario 1",
			bracket: "(S (NP 2) (VP 4))",
			sent:    []string{"The", "tall", "man", "there", "walks"},
			want:    "(S (NP 0) (VP 2))",
			wantSent: []string{"man", "", "walks"},
		},
		{
			name:    "scenario 2",
			bracket: "(VP (VB 0) (PRT 3))",
			sent:    []string{"Wake", "your", "friend", "up"},
			want:    "(VP (VB 0) (PRT 2))",
			wantSent: []string{"Wake", "", "up"},
		},
		{
			name:    "scenario 3",
			bracket: "(S (NP 2:2 4:4) (VP 1:1 3:3))",
			sent:    []string{"Walks", "the", "quickly", "man"},
			want:    "(S (NP 1 3) (VP 0 2))",
			wantSent: []string{"", "", "", ""},
		},
		{
			name:    "scenario 4",
			bracket: "(ROOT (S 0:2) ($. 3))",
			sent:    []string{"Foo", "bar", "zed", "."},
			want:    "(ROOT (S 0) ($. 1))",
			wantSent: []string{"", "."},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gotBracket, gotSent := GetSent(c.bracket, c.sent)
			if gotBracket != c.want {
				t.Fatalf("bracket = %q, want %q", gotBracket, c.want)
			}
			if len(gotSent) != len(c.wantSent) {
				t.Fatalf("sent length = %d, want %d (%v)", len(gotSent), len(c.wantSent), gotSent)
			}
			for i, want := range c.wantSent {
				got := gotSent[i]
				if want == "" {
					if got != nil {
						t.Fatalf("sent[%d] = %q, want None", i, *got)
					}
					continue
				}
				if got == nil || *got != want {
					t.Fatalf("sent[%d] = %v, want %q", i, got, want)
				}
			}
		})
	}
}
