package workers

import (
	"errors"
	"strings"
	"testing"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	t.Parallel()

	for _, w := range []int{0, 1, 3, 64} {
		hits := make([]int, 50)
		if err := ForEach(len(hits), w, func(i int) error {
			hits[i]++
			return nil
		}); err != nil {
			t.Fatalf("workers=%d: %v", w, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", w, i, h)
			}
		}
	}
}

func TestForEachFirstErrorByIndex(t *testing.T) {
	t.Parallel()

	errA := errors.New("a")
	errB := errors.New("b")
	err := ForEach(10, 4, func(i int) error {
		switch i {
		case 7:
			return errB
		case 3:
			return errA
		}
		return nil
	})
	if !errors.Is(err, errA) {
		t.Fatalf("err = %v, want %v", err, errA)
	}
}

func TestForEachRecoversPanics(t *testing.T) {
	t.Parallel()

	err := ForEach(4, 2, func(i int) error {
		if i == 2 {
			panic("boom")
		}
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "index 2 panicked") {
		t.Fatalf("err = %v", err)
	}
}

func TestMapDeterministic(t *testing.T) {
	t.Parallel()

	square := func(i int) (int, error) { return i * i, nil }
	a, err := Map(100, 1, square)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Map(100, 8, square)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] || a[i] != i*i {
			t.Fatalf("index %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	if got := Count(8, 3); got != 3 {
		t.Errorf("Count(8,3) = %d, want 3", got)
	}
	if got := Count(2, 10); got != 2 {
		t.Errorf("Count(2,10) = %d, want 2", got)
	}
	if got := Count(0, 0); got != 1 {
		t.Errorf("Count(0,0) = %d, want 1", got)
	}
}

func TestErrorsReportsEveryIndex(t *testing.T) {
	t.Parallel()

	for _, w := range []int{1, 3} {
		errs := Errors(5, w, func(i int) error {
			if i == 1 {
				panic("boom")
			}
			if i == 4 {
				return errors.New("four")
			}
			return nil
		})
		if len(errs) != 5 {
			t.Fatalf("workers=%d: len = %d, want 5", w, len(errs))
		}
		for i, err := range errs {
			failed := i == 1 || i == 4
			if (err != nil) != failed {
				t.Fatalf("workers=%d: errs[%d] = %v", w, i, err)
			}
		}
	}
	if errs := Errors(0, 2, func(int) error { return nil }); errs != nil {
		t.Fatalf("Errors(0) = %v, want nil", errs)
	}
}
