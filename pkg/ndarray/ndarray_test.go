package ndarray

import "testing"

func TestArray3_Indexing(t *testing.T) {
	a := New3[int](2, 3, 4)

	a.Set(1, 2, 3, 7)
	a.Add(1, 2, 3, 5)

	if got := a.At(1, 2, 3); got != 12 {
		t.Errorf("At(1,2,3) = %d, want 12", got)
	}
	// 相邻元素不受影响
	if got := a.At(1, 2, 2); got != 0 {
		t.Errorf("At(1,2,2) = %d, want 0", got)
	}
	if got := a.At(0, 2, 3); got != 0 {
		t.Errorf("At(0,2,3) = %d, want 0", got)
	}
}

func TestArray3_ResetAndCopy(t *testing.T) {
	a := New3[int](2, 2, 2)
	a.Set(0, 1, 1, 3)
	a.Set(1, 0, 0, 4)

	b := New3[int](2, 2, 2)
	b.CopyFrom(a)
	if b.At(0, 1, 1) != 3 || b.At(1, 0, 0) != 4 {
		t.Error("CopyFrom did not copy all elements")
	}

	// 复制后相互独立
	a.Reset()
	if a.At(1, 0, 0) != 0 {
		t.Error("Reset did not zero the array")
	}
	if b.At(1, 0, 0) != 4 {
		t.Error("Reset of source modified the copy")
	}
}

func TestArray4_Indexing(t *testing.T) {
	a := New4[float64](2, 2, 3, 2)

	a.Set(1, 0, 2, 1, 2.5)
	if got := a.At(1, 0, 2, 1); got != 2.5 {
		t.Errorf("At(1,0,2,1) = %f, want 2.5", got)
	}
	if got := a.At(1, 0, 2, 0); got != 0 {
		t.Errorf("At(1,0,2,0) = %f, want 0", got)
	}
}

func TestArray4_Clone(t *testing.T) {
	a := New4[int](1, 2, 2, 2)
	a.Set(0, 1, 1, 0, 9)

	b := a.Clone()
	if b.At(0, 1, 1, 0) != 9 {
		t.Error("Clone did not copy elements")
	}

	b.Set(0, 1, 1, 0, 1)
	if a.At(0, 1, 1, 0) != 9 {
		t.Error("Clone shares storage with source")
	}
}
