package interval

import "testing"

func TestUnionScanner(t *testing.T) {
	endpoints := []PosType{5, 17, 20, 25}
	us := NewUnionScanner(endpoints)

	var got []PosType
	var start, end PosType
	for us.Scan(&start, &end, 22) {
		for pos := start; pos < end; pos++ {
			got = append(got, pos)
		}
	}
	want := []PosType{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 20, 21}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnionScannerResumesAcrossCalls(t *testing.T) {
	endpoints := []PosType{5, 17, 20, 25}
	us := NewUnionScanner(endpoints)

	var start, end PosType
	for us.Scan(&start, &end, 22) {
	}

	var got []PosType
	for us.Scan(&start, &end, 30) {
		for pos := start; pos < end; pos++ {
			got = append(got, pos)
		}
	}
	want := []PosType{22, 23, 24}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnionScannerEmpty(t *testing.T) {
	us := NewUnionScanner(nil)
	var start, end PosType
	if us.Scan(&start, &end, 100) {
		t.Fatalf("expected no intervals to scan")
	}
	if us.Pos() != PosTypeMax {
		t.Fatalf("Pos() = %d, want PosTypeMax", us.Pos())
	}
}
