package session

import (
	"context"
	"testing"
)

func TestAdoptUnadopt(t *testing.T) {
	sess := New(DefaultID, "continuous-delivery")

	sess.Adopt("version-control")
	sess.Adopt("small-batches")
	sess.Adopt("version-control") // duplicate

	if len(sess.Adopted) != 2 {
		t.Fatalf("Adopted = %v, want 2 entries", sess.Adopted)
	}
	if sess.Adopted[0] != "small-batches" {
		t.Errorf("adopted list should stay sorted, got %v", sess.Adopted)
	}
	if !sess.IsAdopted("version-control") {
		t.Error("version-control should be adopted")
	}

	sess.Unadopt("version-control")
	if sess.IsAdopted("version-control") {
		t.Error("version-control should be removed")
	}
	sess.Unadopt("never-adopted")
	if len(sess.Adopted) != 1 {
		t.Errorf("Adopted = %v", sess.Adopted)
	}
}

func TestAdoptedSet(t *testing.T) {
	sess := New(DefaultID, "continuous-delivery")
	sess.Adopt("trunk-based-development")

	set := sess.AdoptedSet()
	if !set.Has("trunk-based-development") {
		t.Error("set should contain the adopted practice")
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d", set.Len())
	}
}

func TestSetPathCopies(t *testing.T) {
	sess := New(DefaultID, "continuous-delivery")
	path := []string{"continuous-delivery", "continuous-integration"}
	sess.SetPath(path)
	path[0] = "mutated"

	if sess.Path[0] != "continuous-delivery" {
		t.Error("SetPath should copy the slice")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	sess := New("work", "continuous-delivery")
	sess.Adopt("build-automation")
	sess.SetPath([]string{"continuous-delivery"})

	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := store.Get(ctx, "work")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil session")
	}
	if got.RootID != "continuous-delivery" || !got.IsAdopted("build-automation") {
		t.Errorf("round-tripped session = %+v", got)
	}
	if len(got.Path) != 1 {
		t.Errorf("Path = %v", got.Path)
	}
}

func TestFileStoreMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	got, err := store.Get(ctx, "absent")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}

	if err := store.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete() of missing session: %v", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	for _, id := range []string{"b", "a", "c"} {
		if err := store.Set(ctx, New(id, "continuous-delivery")); err != nil {
			t.Fatalf("Set(%q) error: %v", id, err)
		}
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[2] != "c" {
		t.Errorf("List() = %v", ids)
	}
}
