package sparse

import "testing"

func TestMatrixSetAndAdd(t *testing.T) {
	M := NewIntMatrix(10, 10, -1)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	M.Add(2, 3, 123)
	if a, b := M.Values(2, 3); a != 4711 || b != 123 {
		t.Errorf("expected M(2,3) = [4711,123], is [%d,%d]", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 value, have %d", M.ValueCount())
	}
	if v := M.Value(9, 9); v != -1 {
		t.Errorf("expected null value for (9,9), got %d", v)
	}
	M.Set(2, 3, 7)
	if a, b := M.Values(2, 3); a != 7 || b != -1 {
		t.Errorf("expected Set to clear secondary value, is [%d,%d]", a, b)
	}
}

func TestMatrixOrdering(t *testing.T) {
	M := NewIntMatrix(5, 5, DefaultNullValue)
	M.Set(4, 1, 41).Set(0, 2, 2).Set(4, 0, 40).Set(1, 1, 11).Set(4, 3, 43)
	var seen []int32
	M.Each(func(i, j int, a, b int32) {
		seen = append(seen, a)
	})
	expected := []int32{2, 11, 40, 41, 43}
	for k, v := range expected {
		if seen[k] != v {
			t.Fatalf("expected row-major order %v, got %v", expected, seen)
		}
	}
	if cols := M.Row(4); len(cols) != 3 || cols[0] != 0 || cols[2] != 3 {
		t.Errorf("unexpected columns in row 4: %v", cols)
	}
}

func TestMatrixRangeCheck(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for index out of range")
		}
	}()
	NewIntMatrix(2, 2, -1).Set(2, 0, 1)
}

func TestMatrixAddToEmptyCell(t *testing.T) {
	M := NewIntMatrix(3, 3, DefaultNullValue)
	M.Add(1, 1, 5).Add(1, 1, 6).Add(1, 1, 7)
	if a, b := M.Values(1, 1); a != 5 || b != 7 {
		t.Errorf("expected M(1,1) = [5,7], is [%d,%d]", a, b)
	}
	if a, b := M.Values(0, 0); a != DefaultNullValue || b != DefaultNullValue {
		t.Errorf("expected empty cell to hold null values, is [%d,%d]", a, b)
	}
	if M.String() != "IntMatrix(3x3, 1 values) (1,1)=[5,7]" {
		t.Errorf("unexpected matrix string %q", M.String())
	}
}
