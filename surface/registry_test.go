// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"slices"
	"testing"
)

func TestGlobalRegistryHasSoftwareBackend(t *testing.T) {
	names := Backends()
	if !slices.Contains(names, "software") {
		t.Fatalf("expected software backend registered, got %v", names)
	}

	s, err := New(64, 64)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*ImageSurface); !ok {
		t.Errorf("expected *ImageSurface default, got %T", s)
	}
}

func TestRegistryPriorityOrder(t *testing.T) {
	r := &Registry{}
	r.Register("low", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height)
	}, nil)
	r.Register("high", 100, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height)
	}, nil)
	r.Register("absent", 200, nil, func() bool { return false })

	if got := r.Backends(); !slices.Equal(got, []string{"high", "low"}) {
		t.Errorf("expected [high low], got %v", got)
	}
}

func TestRegistryFallbackOnFactoryFailure(t *testing.T) {
	r := &Registry{}
	boom := errors.New("boom")
	r.Register("broken", 100, func(Options) (Surface, error) {
		return nil, boom
	}, nil)
	r.Register("working", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height)
	}, nil)

	s, err := r.New(Options{Width: 32, Height: 32})
	if err != nil {
		t.Fatalf("expected fallback to working backend, got %v", err)
	}
	defer s.Close()
}

func TestRegistryUnknownBackend(t *testing.T) {
	r := &Registry{}
	if _, err := r.NewByName("nope", Options{Width: 1, Height: 1}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
	if _, err := r.New(Options{Width: 1, Height: 1}); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend for empty registry, got %v", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := &Registry{}
	r.Register("temp", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height)
	}, nil)
	r.Unregister("temp")
	if len(r.Backends()) != 0 {
		t.Errorf("expected empty registry, got %v", r.Backends())
	}
}
