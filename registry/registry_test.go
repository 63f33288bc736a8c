package registry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blobkit/blobkit"
	blerrors "github.com/blobkit/blobkit/errors"
)

func blob(n int) blobkit.Resource {
	return blobkit.Resource{Data: make([]byte, n), MIME: "application/octet-stream"}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	r := New()

	h, err := r.Register(blobkit.Resource{Data: []byte("payload"), MIME: "text/plain"}, "comp1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !strings.HasPrefix(string(h), SchemePrefix) {
		t.Fatalf("handle %q missing scheme prefix", h)
	}

	e, ok := r.Lookup(h)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if e.Owner != "comp1" || e.Size != 7 || e.MIME != "text/plain" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !e.Active {
		t.Fatal("new entry should be active")
	}
	if string(e.Bytes()) != "payload" {
		t.Fatal("retained copy does not match payload")
	}
}

func TestRegistry_RetainedCopyIsIndependent(t *testing.T) {
	r := New()
	data := []byte("original")

	h, err := r.Register(blobkit.Resource{Data: data}, "comp1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Producer mutates its own slice after handing it over.
	data[0] = 'X'

	e, _ := r.Lookup(h)
	if string(e.Bytes()) != "original" {
		t.Fatal("retained copy should not observe producer mutation")
	}
}

func TestRegistry_RejectsEmptyAndNil(t *testing.T) {
	r := New()

	_, err := r.Register(blobkit.Resource{Data: []byte{}}, "comp1")
	if !errors.Is(err, blerrors.EmptyResource("")) {
		t.Fatalf("expected empty_resource, got %v", err)
	}

	_, err = r.Register(blobkit.Resource{}, "comp1")
	if !blerrors.IsKind(err, blerrors.KindInvalidResource) {
		t.Fatalf("expected invalid_resource, got %v", err)
	}

	if r.Len() != 0 {
		t.Fatal("rejected input must register nothing")
	}
	if s := r.Stats(); s.TotalCount != 0 || s.TotalBytes != 0 {
		t.Fatalf("rejected input visible in stats: %+v", s)
	}
}

func TestRegistry_UniqueHandles(t *testing.T) {
	r := New()
	seen := make(map[Handle]bool)

	for i := 0; i < 1000; i++ {
		h, err := r.Register(blob(1), "comp1")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if seen[h] {
			t.Fatalf("duplicate handle %q", h)
		}
		seen[h] = true
	}
}

func TestRegistry_MarkAccessed(t *testing.T) {
	r := New()
	h, _ := r.Register(blob(8), "comp1")

	before, _ := r.Lookup(h)
	r.MarkAccessed(h)
	r.MarkAccessed(h)
	after, _ := r.Lookup(h)

	if after.AccessCount != before.AccessCount+2 {
		t.Fatalf("expected access count %d, got %d", before.AccessCount+2, after.AccessCount)
	}
	if after.LastAccessedAt.Before(before.LastAccessedAt) {
		t.Fatal("lastAccessedAt must be monotonically non-decreasing")
	}

	// Unknown and inactive handles are no-ops.
	r.MarkAccessed("blob:mem/unknown")
	r.Deactivate(h)
	r.MarkAccessed(h)
	final, _ := r.Lookup(h)
	if final.AccessCount != after.AccessCount {
		t.Fatal("MarkAccessed on inactive handle should not count")
	}
}

func TestRegistry_DeactivateIdempotent(t *testing.T) {
	r := New()
	h, _ := r.Register(blob(16), "comp1")

	e, ok := r.Deactivate(h)
	if !ok {
		t.Fatal("first Deactivate should succeed")
	}
	if e.Active {
		t.Fatal("returned entry should be inactive")
	}

	if _, ok := r.Deactivate(h); ok {
		t.Fatal("second Deactivate should be a no-op")
	}
	if _, ok := r.Deactivate("blob:mem/unknown"); ok {
		t.Fatal("Deactivate of unknown handle should be a no-op")
	}

	// Entry stays in the table until Remove.
	if got, ok := r.Lookup(h); !ok || got.Active {
		t.Fatal("deactivated entry should remain, inactive")
	}
	r.Remove(h)
	if _, ok := r.Lookup(h); ok {
		t.Fatal("Remove should delete the entry")
	}
}

func TestRegistry_RemoveRequiresDeactivate(t *testing.T) {
	r := New()
	h, _ := r.Register(blob(4), "comp1")

	r.Remove(h)
	if _, ok := r.Lookup(h); !ok {
		t.Fatal("Remove must not delete an active entry")
	}
}

func TestRegistry_OwnerIndex(t *testing.T) {
	r := New()

	h1, _ := r.Register(blob(1), "comp1")
	h2, _ := r.Register(blob(2), "comp1")
	h3, _ := r.Register(blob(3), "comp2")

	owned := r.OwnedHandles("comp1")
	if len(owned) != 2 || owned[0] != h1 || owned[1] != h2 {
		t.Fatalf("expected [%s %s] in insertion order, got %v", h1, h2, owned)
	}

	r.Deactivate(h1)
	owned = r.OwnedHandles("comp1")
	if len(owned) != 1 || owned[0] != h2 {
		t.Fatalf("deactivated handle still in owner index: %v", owned)
	}

	// comp2 untouched.
	if owned := r.OwnedHandles("comp2"); len(owned) != 1 || owned[0] != h3 {
		t.Fatalf("unrelated owner disturbed: %v", owned)
	}

	// Owner set pruned when emptied.
	r.Deactivate(h2)
	if owned := r.OwnedHandles("comp1"); len(owned) != 0 {
		t.Fatalf("expected empty owner set, got %v", owned)
	}
}

func TestRegistry_Stats(t *testing.T) {
	r := New()

	r.Register(blobkit.Resource{Data: make([]byte, 100), MIME: "image/png"}, "comp1")
	h2, _ := r.Register(blobkit.Resource{Data: make([]byte, 200), MIME: "audio/mpeg"}, "comp1")
	r.Register(blobkit.Resource{Data: make([]byte, 300), MIME: "audio/mpeg"}, "comp2")

	s := r.Stats()
	if s.TotalCount != 3 || s.TotalBytes != 600 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if g := s.PerOwner["comp1"]; g.Count != 2 || g.Bytes != 300 {
		t.Fatalf("unexpected comp1 stats %+v", g)
	}
	if g := s.PerMIME["audio/mpeg"]; g.Count != 2 || g.Bytes != 500 {
		t.Fatalf("unexpected audio/mpeg stats %+v", g)
	}

	// Stats conservation: count always equals active entries.
	r.Deactivate(h2)
	s = r.Stats()
	if s.TotalCount != r.Len() {
		t.Fatalf("TotalCount %d != Len %d", s.TotalCount, r.Len())
	}
	if s.TotalBytes != 400 {
		t.Fatalf("inactive entry still counted: %+v", s)
	}

	if g := r.StatsFor("comp1"); g.Count != 1 || g.Bytes != 100 {
		t.Fatalf("unexpected StatsFor %+v", g)
	}
}

func TestRegistry_EachAndClear(t *testing.T) {
	r := New()
	r.Register(blob(1), "comp1")
	h2, _ := r.Register(blob(2), "comp2")
	r.Deactivate(h2)

	count := 0
	r.Each(func(e Entry) bool {
		if !e.Active {
			t.Fatal("Each must only visit active entries")
		}
		count++
		return true
	})
	if count != 1 {
		t.Fatalf("expected 1 active entry, got %d", count)
	}

	r.Clear()
	if r.Len() != 0 {
		t.Fatal("Clear should empty the table")
	}
	if _, ok := r.Lookup(h2); ok {
		t.Fatal("Clear should drop inactive entries too")
	}
}

func TestRegistry_ClockMonotonicity(t *testing.T) {
	r := New()
	base := time.Now()
	r.now = func() time.Time { return base }

	h, _ := r.Register(blob(1), "comp1")

	// Clock jumps backwards; lastAccessedAt must not regress.
	r.now = func() time.Time { return base.Add(-time.Minute) }
	r.MarkAccessed(h)

	e, _ := r.Lookup(h)
	if e.LastAccessedAt.Before(base) {
		t.Fatal("lastAccessedAt regressed on backwards clock")
	}
	if e.AccessCount != 1 {
		t.Fatalf("access still counts, got %d", e.AccessCount)
	}
}
