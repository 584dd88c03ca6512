package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/vocalapp/vocal/pkg/kv"
)

// ErrNotFound is returned when no enrollment profile matches the request.
var ErrNotFound = errors.New("identity: enrollment profile not found")

// storePrefix is the kv namespace for enrollment profiles; a profile lives
// at profile:enrollment:<id>.
var storePrefix = kv.Key{"profile", "enrollment"}

func profileKey(id string) kv.Key {
	return kv.Key{"profile", "enrollment", id}
}

// Store persists enrollment profiles in a kv.Store (badger on disk, memory
// in tests).
type Store struct {
	kv kv.Store
}

// NewStore wraps a kv.Store. The caller keeps ownership and closes it.
func NewStore(s kv.Store) *Store {
	return &Store{kv: s}
}

// Save writes one profile, overwriting any previous version.
func (s *Store) Save(ctx context.Context, p *EnrollmentProfile) error {
	if p.ID == "" {
		return errors.New("identity: save profile without ID")
	}
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, profileKey(p.ID), data); err != nil {
		return fmt.Errorf("identity: save profile %s: %w", p.ID, err)
	}
	return nil
}

// Load reads one profile by ID.
func (s *Store) Load(ctx context.Context, id string) (*EnrollmentProfile, error) {
	data, err := s.kv.Get(ctx, profileKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity: load profile %s: %w", id, err)
	}
	return DecodeEnrollmentProfile(data)
}

// LoadActive returns the active profile, or ErrNotFound when no active
// enrollment exists. A missing enrollment is an expected state for a fresh
// install; callers should treat it as "matching skipped", not as a failure.
func (s *Store) LoadActive(ctx context.Context) (*EnrollmentProfile, error) {
	for entry, err := range s.kv.List(ctx, storePrefix) {
		if err != nil {
			return nil, fmt.Errorf("identity: list profiles: %w", err)
		}
		p, err := DecodeEnrollmentProfile(entry.Value)
		if err != nil {
			return nil, err
		}
		if p.Active {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// List returns all stored profiles, active or not.
func (s *Store) List(ctx context.Context) ([]*EnrollmentProfile, error) {
	var out []*EnrollmentProfile
	for entry, err := range s.kv.List(ctx, storePrefix) {
		if err != nil {
			return nil, fmt.Errorf("identity: list profiles: %w", err)
		}
		p, err := DecodeEnrollmentProfile(entry.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Deactivate marks a profile inactive, keeping it in storage.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	p, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active {
		return nil
	}
	p.Active = false
	return s.Save(ctx, p)
}

// Delete removes a profile entirely.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, profileKey(id)); err != nil {
		return fmt.Errorf("identity: delete profile %s: %w", id, err)
	}
	return nil
}
