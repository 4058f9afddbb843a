package counting

import (
	"reflect"
	"testing"
)

func TestFrequencyTableMergeCommutative(t *testing.T) {
	a := FrequencyTable{"g1": 3, "g2": 1}
	b := FrequencyTable{"g2": 4, "g3": 2}

	ab := a.Clone()
	ab.Merge(b)
	ba := b.Clone()
	ba.Merge(a)

	want := FrequencyTable{"g1": 3, "g2": 5, "g3": 2}
	if !reflect.DeepEqual(ab, want) {
		t.Errorf("a+b = %v, want %v", ab, want)
	}
	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("merge not commutative: a+b = %v, b+a = %v", ab, ba)
	}
}

func TestFrequencyTableMergeAssociative(t *testing.T) {
	a := FrequencyTable{"g1": 1}
	b := FrequencyTable{"g1": 2, "g2": 1}
	c := FrequencyTable{"g2": 5, "g3": 7}

	left := a.Clone()
	left.Merge(b)
	left.Merge(c)

	bc := b.Clone()
	bc.Merge(c)
	right := a.Clone()
	right.Merge(bc)

	if !reflect.DeepEqual(left, right) {
		t.Errorf("merge not associative: (a+b)+c = %v, a+(b+c) = %v", left, right)
	}
}

func TestFrequencyTableTotal(t *testing.T) {
	tests := []struct {
		name  string
		table FrequencyTable
		want  int64
	}{
		{"Empty", FrequencyTable{}, 0},
		{"SingleKey", FrequencyTable{"g1": 7}, 7},
		{"ManyKeys", FrequencyTable{"g1": 7, "g2": 0, "g3": 13}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.Total(); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFrequencyTableZeroFill(t *testing.T) {
	table := FrequencyTable{"g1": 4, "g3": 2}
	universe := &sliceKeyStream{keys: []string{"g1", "g2", "g3", "g4"}}

	if err := table.ZeroFill(universe); err != nil {
		t.Fatalf("ZeroFill: %v", err)
	}

	want := FrequencyTable{"g1": 4, "g2": 0, "g3": 2, "g4": 0}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("after ZeroFill table = %v, want %v", table, want)
	}
	if got := table.Total(); got != 6 {
		t.Errorf("Total() = %d after ZeroFill, want 6", got)
	}
}
