package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/feature"
)

func testSequence(t *testing.T) *feature.Sequence {
	t.Helper()
	seq, err := feature.NewSequence(1000, []*feature.Feature{
		{Name: "AmpR", Start: 100, End: 400, Type: feature.TypeGene, Clockwise: true, DefaultShow: true},
		{Name: "EcoRI", Start: 500, End: 505, Type: feature.TypeEnzyme, Cut: 501, DefaultShow: true},
		{Name: "EcoRI", Start: 900, End: 905, Type: feature.TypeEnzyme, Cut: 901, DefaultShow: true},
	}, "")
	if err != nil {
		t.Fatal(err)
	}
	return seq
}

func TestRecordRoundTrip(t *testing.T) {
	seq := testSequence(t)
	rec := NewRecord("  pUC19 ", seq)
	if rec.Name != "pUC19" || rec.FeatureCount != 3 || rec.Length != 1000 {
		t.Errorf("NewRecord() = %+v", rec)
	}
	rec.Features[0].Name = "changed"
	if seq.Features[0].Name != "AmpR" {
		t.Error("record shares features with the sequence")
	}

	back, err := rec.Sequence()
	if err != nil {
		t.Fatalf("Sequence() error: %v", err)
	}
	if got := back.Features[1].CutCount(); got != 2 {
		t.Errorf("cutter groups not rebuilt: CutCount = %d, want 2", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	id, err := s.Put(ctx, NewRecord("pUC19", testSequence(t)))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := checkID(id); err != nil {
		t.Errorf("Put() id %q is not a UUID", id)
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if rec.Name != "pUC19" || len(rec.Features) != 3 || rec.CreatedAt.IsZero() {
		t.Errorf("Get() = %+v", rec)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeSequenceNotFound) {
		t.Errorf("Get() after delete = %v", err)
	}
	if err := s.Delete(ctx, id); !errors.IsNotFound(err) {
		t.Errorf("second Delete() = %v", err)
	}
}

func TestMemoryStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, id := range []string{"", "42", "../etc/passwd"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeInvalidID) {
			t.Errorf("Get(%q) = %v, want INVALID_ID", id, err)
		}
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seq := testSequence(t)

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		id, err := s.Put(ctx, NewRecord(name, seq))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d records", len(all))
	}
	if all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Errorf("List() not newest first: %s %s %s", all[0].Name, all[1].Name, all[2].Name)
	}
	if all[0].Features != nil {
		t.Error("List() should return summaries")
	}

	two, _ := s.List(ctx, 2)
	if len(two) != 2 {
		t.Errorf("List(2) returned %d", len(two))
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, _ := s.Put(ctx, NewRecord("x", testSequence(t)))

	rec, _ := s.Get(ctx, id)
	rec.Name = "mutated"
	again, _ := s.Get(ctx, id)
	if again.Name != "x" {
		t.Error("Get() returned the stored record itself")
	}
}

func TestMemoryStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore().Put(ctx, NewRecord("x", testSequence(t))); err == nil {
		t.Error("Put() should honour cancellation")
	}
}
