package engine

import (
	"errors"
	"testing"
)

// codeOf renders n (0 <= n < 26^3) as the code whose HashKey is n.
func codeOf(n int) string {
	return string([]byte{byte('A' + n/676), byte('A' + (n/26)%26), byte('A' + n%26)})
}

func TestHashKey(t *testing.T) {
	if w := HashKey("USA"); w != 13988 {
		t.Errorf("HashKey(USA): expected 13988, got %d", w)
	}
	if w := HashKey("AAA"); w != 0 {
		t.Errorf("HashKey(AAA): expected 0, got %d", w)
	}
	for _, n := range []int{0, 1, 26, 677, 17575} {
		if w := HashKey(codeOf(n)); w != uint32(n) {
			t.Errorf("HashKey(%s): expected %d, got %d", codeOf(n), n, w)
		}
	}
}

func TestProbeSequence(t *testing.T) {
	tbl := NewTable(512)
	// USA: h1 = 13988 % 512 = 164, h2 = 27
	seq := tbl.ProbeSequence("USA", 3)
	want := []int{164, 191, 218}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("Probe %d: expected %d, got %d", i, want[i], seq[i])
		}
	}

	// CAN: h1 = 341, h2 = 2 forced odd to 3
	seq = tbl.ProbeSequence("CAN", 2)
	if seq[0] != 341 || seq[1] != 344 {
		t.Errorf("CAN probes: got %v", seq)
	}
}

func TestInsertSearchDistinct(t *testing.T) {
	tbl := NewTable(512)
	placed := make(map[string]int)

	for i := 0; i < 512; i++ {
		code := codeOf((i * 37) % 17576)
		pos, err := tbl.Insert(NewCountry(code, code))
		if err != nil {
			t.Fatalf("Insert %s (#%d): %v", code, i, err)
		}
		placed[code] = pos
	}
	if tbl.Len() != 512 {
		t.Fatalf("Expected 512 countries, got %d", tbl.Len())
	}

	for code, pos := range placed {
		got, probes := tbl.Search(code)
		if got != pos {
			t.Errorf("Search %s: expected slot %d, got %d", code, pos, got)
		}
		if probes < 1 || probes > tbl.Cap() {
			t.Errorf("Search %s: probe count %d out of range", code, probes)
		}
	}

	_, err := tbl.Insert(NewCountry("extra", codeOf(17574)))
	if !errors.Is(err, ErrCapacityExhausted) {
		t.Errorf("Expected ErrCapacityExhausted on full table, got %v", err)
	}
}

func TestInsertDuplicate(t *testing.T) {
	tbl := NewTable(8)
	if _, err := tbl.Insert(NewCountry("Aland", "AAA")); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.Insert(NewCountry("Aland again", "AAA"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("Expected 1 country, got %d", tbl.Len())
	}

	// AAI collides with AAA into slot 1; once slot 0 is a tombstone the
	// duplicate must still be seen further down the chain.
	if pos, _ := tbl.Insert(NewCountry("I", "AAI")); pos != 1 {
		t.Fatalf("Expected AAI in slot 1, got %d", pos)
	}
	tbl.Remove("AAA")
	_, err = tbl.Insert(NewCountry("I again", "AAI"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate past a tombstone, got %v", err)
	}
	if st := tbl.Stats(); st.Occupied != 1 || st.Tombstones != 1 {
		t.Errorf("Expected 1 occupied and 1 tombstone, got %+v", st)
	}

	// A fresh code still reuses the tombstone.
	if pos, err := tbl.Insert(NewCountry("Q", "AAQ")); pos != 0 || err != nil {
		t.Errorf("Expected AAQ in tombstoned slot 0, got %d (%v)", pos, err)
	}
}

func TestCapacityRoundsToPowerOfTwo(t *testing.T) {
	tbl := NewTable(12)
	if tbl.Cap() != 16 {
		t.Fatalf("Expected capacity 16, got %d", tbl.Cap())
	}

	// At capacity 12 these codes shared h1 = 5 and h2 = 3 and could reach
	// only 4 of the 12 slots.
	for k := 0; k < 12; k++ {
		code := codeOf(12*(12*k+3) + 5)
		if _, err := tbl.Insert(NewCountry(code, code)); err != nil {
			t.Fatalf("Insert %s (#%d): %v", code, k, err)
		}
	}
	if tbl.Len() != 12 {
		t.Errorf("Expected 12 countries, got %d", tbl.Len())
	}

	for _, n := range []int{1, 2, 16, 512} {
		if !IsPow2(n) {
			t.Errorf("IsPow2(%d) = false", n)
		}
	}
	for _, n := range []int{0, 3, 12, -4} {
		if IsPow2(n) {
			t.Errorf("IsPow2(%d) = true", n)
		}
	}
}

func TestSearchStopsAtEmpty(t *testing.T) {
	// AAA (W=0) and AAI (W=8) share h1 = 0 and h2 = 1 at capacity 8.
	tbl := NewTable(8)
	if pos, _ := tbl.Insert(NewCountry("I", "AAI")); pos != 0 {
		t.Fatalf("Expected AAI in slot 0, got %d", pos)
	}

	pos, probes := tbl.Search("AAA")
	if pos != -1 {
		t.Fatalf("Expected miss, got slot %d", pos)
	}
	if probes != 2 {
		t.Errorf("Expected search to stop at empty slot 1 after 2 probes, got %d", probes)
	}
}

func TestSearchSkipsTombstone(t *testing.T) {
	tbl := NewTable(8)
	tbl.Insert(NewCountry("A", "AAA"))
	if pos, _ := tbl.Insert(NewCountry("I", "AAI")); pos != 1 {
		t.Fatalf("Expected AAI to collide into slot 1, got %d", pos)
	}

	if !tbl.Remove("AAA") {
		t.Fatal("Remove AAA failed")
	}
	if pos, _ := tbl.Search("AAA"); pos != -1 {
		t.Errorf("AAA still found at %d after removal", pos)
	}

	pos, probes := tbl.Search("AAI")
	if pos != 1 || probes != 2 {
		t.Errorf("Expected AAI at slot 1 after 2 probes through tombstone, got (%d, %d)", pos, probes)
	}

	st := tbl.Stats()
	if st.Tombstones != 1 || st.Occupied != 1 || st.Empty != 6 {
		t.Errorf("Unexpected stats %+v", st)
	}

	// the tombstone is reusable
	pos, err := tbl.Insert(NewCountry("A", "AAA"))
	if err != nil || pos != 0 {
		t.Fatalf("Re-insert AAA: slot %d err %v", pos, err)
	}
	if pos, _ := tbl.Search("AAI"); pos != 1 {
		t.Errorf("AAI lost after re-insert, got %d", pos)
	}
	if tbl.Len() != 2 {
		t.Errorf("Expected 2 countries, got %d", tbl.Len())
	}
}

func TestRemoveMissing(t *testing.T) {
	tbl := NewTable(8)
	tbl.Insert(NewCountry("A", "AAA"))
	if tbl.Remove("AAI") {
		t.Error("Removing an absent code reported success")
	}
	if tbl.Len() != 1 {
		t.Errorf("Expected 1 country, got %d", tbl.Len())
	}
}

func TestSearchFullTableMiss(t *testing.T) {
	tbl := NewTable(4)
	for _, code := range []string{"AAA", "AAB", "AAC", "AAD"} {
		if _, err := tbl.Insert(NewCountry(code, code)); err != nil {
			t.Fatalf("Insert %s: %v", code, err)
		}
	}
	pos, probes := tbl.Search("AAE")
	if pos != -1 || probes != 4 {
		t.Errorf("Expected (-1, 4) on full table, got (%d, %d)", pos, probes)
	}
	if _, err := tbl.Insert(NewCountry("E", "AAE")); !errors.Is(err, ErrCapacityExhausted) {
		t.Errorf("Expected ErrCapacityExhausted, got %v", err)
	}
}

func TestFindByNameAndReset(t *testing.T) {
	tbl := NewTable(16)
	tbl.Insert(NewCountry("Canada", "CAN"))
	tbl.Insert(NewCountry("Chile", "CHL"))

	c, ok := tbl.FindByName("Chile")
	if !ok || c.Code != "CHL" {
		t.Errorf("FindByName(Chile) = %v, %v", c, ok)
	}
	if _, ok := tbl.FindByName("Peru"); ok {
		t.Error("Unexpected match for Peru")
	}

	tbl.Reset()
	if tbl.Len() != 0 || tbl.Stats().Empty != 16 {
		t.Errorf("Reset left state behind: %+v", tbl.Stats())
	}
}
