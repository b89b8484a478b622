package alias

import (
	"errors"
	"testing"
)

type memStore struct {
	m       map[string]string
	failSet bool
	failGet bool
}

func (s *memStore) GetAlias(key string) (string, bool, error) {
	if s.failGet {
		return "", false, errors.New("read failed")
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStore) SetAlias(key, value string) error {
	if s.failSet {
		return errors.New("write failed")
	}
	s.m[key] = value
	return nil
}

func TestResolveBuiltin(t *testing.T) {
	r := NewResolver(nil, nil)
	if got := r.Resolve("doodh"); got != "milk" {
		t.Errorf("Resolve(doodh) = %q, want milk", got)
	}
	if got := r.Resolve("Chaya"); got != "tea" {
		t.Errorf("Resolve(Chaya) = %q, want tea", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver(&memStore{m: map[string]string{}}, nil)
	for _, term := range []string{"milk", "tea", "sugar"} {
		if got := r.Resolve(term); got != term {
			t.Errorf("Resolve(%q) = %q, want unchanged", term, got)
		}
	}
	// Same alias twice returns the same result both times.
	first := r.Resolve("cheeni")
	second := r.Resolve("cheeni")
	if first != second || first != "sugar" {
		t.Errorf("repeated resolution diverged: %q then %q", first, second)
	}
}

func TestLearnRoundTrip(t *testing.T) {
	s := &memStore{m: map[string]string{}}
	r := NewResolver(s, nil)

	r.Learn("Bournvita", "drink-mix")
	if got := r.Resolve("bournvita"); got != "drink-mix" {
		t.Errorf("Resolve(bournvita) = %q, want drink-mix", got)
	}
	if s.m["bournvita"] != "drink-mix" {
		t.Errorf("alias was not persisted: %v", s.m)
	}

	// Last writer wins.
	r.Learn("bournvita", "chocolate")
	if got := r.Resolve("bournvita"); got != "chocolate" {
		t.Errorf("Resolve after relearn = %q, want chocolate", got)
	}
}

func TestLearnSurvivesStoreWriteFailure(t *testing.T) {
	s := &memStore{m: map[string]string{}, failSet: true}
	r := NewResolver(s, nil)

	r.Learn("horlicks", "drink-mix") // persist fails silently
	if got := r.Resolve("horlicks"); got != "drink-mix" {
		t.Errorf("in-memory mapping lost after failed persist: %q", got)
	}
}

func TestResolveDegradesOnStoreReadFailure(t *testing.T) {
	r := NewResolver(&memStore{failGet: true}, nil)
	if got := r.Resolve("unknownword"); got != "unknownword" {
		t.Errorf("Resolve with failing store = %q, want identity", got)
	}
}

func TestLegacyFallback(t *testing.T) {
	r := NewResolver(&memStore{m: map[string]string{}}, nil)
	if got := r.Resolve("udhaar"); got != "credit" {
		t.Errorf("Resolve(udhaar) = %q, want credit", got)
	}
	// Learned layer outranks legacy.
	r.Learn("udhaar", "loan")
	if got := r.Resolve("udhaar"); got != "loan" {
		t.Errorf("learned should shadow legacy, got %q", got)
	}
}
