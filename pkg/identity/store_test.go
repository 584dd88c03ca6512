package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/vocalapp/vocal/pkg/kv"
	"github.com/vocalapp/vocal/pkg/speaker"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mem := kv.NewMemory(nil)
	t.Cleanup(func() { mem.Close() })
	return NewStore(mem)
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := NewEnrollmentProfile(unitEmbedding(0), speaker.FeatureVector{MeanPitch: 118, MeanEnergy: 0.09}, QualityStats{SampleCount: 800, MeanConfidence: 0.92})
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != p.ID || got.Version != 1 || !got.Active {
		t.Fatalf("loaded profile %+v", got)
	}
	if got.Quality != p.Quality {
		t.Errorf("quality = %+v, want %+v", got.Quality, p.Quality)
	}
	if got.ReferenceCentroid.MeanPitch != 118 {
		t.Errorf("centroid pitch = %f", got.ReferenceCentroid.MeanPitch)
	}
	if d := got.Embedding().CosineDistance(p.Embedding()); d > 1e-9 {
		t.Errorf("embedding distance after round trip = %f", d)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreLoadActive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Empty store: missing enrollment is a normal state.
	if _, err := s.LoadActive(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	inactive := NewEnrollmentProfile(unitEmbedding(1), speaker.FeatureVector{}, QualityStats{})
	inactive.Active = false
	active := NewEnrollmentProfile(unitEmbedding(0), speaker.FeatureVector{}, QualityStats{})
	for _, p := range []*EnrollmentProfile{inactive, active} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.LoadActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != active.ID {
		t.Fatalf("active profile = %s, want %s", got.ID, active.ID)
	}
}

func TestStoreDeactivate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := NewEnrollmentProfile(unitEmbedding(0), speaker.FeatureVector{}, QualityStats{})
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Deactivate(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Active {
		t.Error("profile still active after Deactivate")
	}
	if _, err := s.LoadActive(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadActive after deactivation = %v, want ErrNotFound", err)
	}
	// Deactivating twice is a no-op.
	if err := s.Deactivate(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := NewEnrollmentProfile(unitEmbedding(0), speaker.FeatureVector{}, QualityStats{})
	if err := s.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		p := NewEnrollmentProfile(unitEmbedding(i), speaker.FeatureVector{}, QualityStats{})
		if err := s.Save(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("listed %d profiles, want 3", len(got))
	}
}
