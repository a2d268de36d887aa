package dialogue

import (
	"errors"
	"testing"
)

func TestDeleteGlobalRefused(t *testing.T) {
	env := newTestEnv(t)
	g := New("Commands", Global)
	env.reg.Register(g)

	for i := 0; i < 3; i++ {
		if env.reg.Delete(g.ID) {
			t.Fatal("deleting a global dialogue succeeded")
		}
	}
	if env.reg.Len() != 1 {
		t.Errorf("registry len = %d, want 1", env.reg.Len())
	}
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	env := newTestEnv(t)
	a := New("A", env.meta.ID)
	b := New("B", env.meta.ID)
	env.reg.Register(a)
	env.reg.Register(b)

	if !env.reg.Delete(a.ID) {
		t.Fatal("delete failed")
	}
	if env.reg.Delete(a.ID) {
		t.Fatal("second delete of the same id succeeded")
	}
	active := env.reg.Active(env.meta.ID)
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("active = %v, want only B", active)
	}
}

func TestTryDeleteExclusive(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.reg.TryDeleteExclusive(env.meta.ID); !errors.Is(err, ErrNoDialogue) {
		t.Errorf("with none: err = %v, want ErrNoDialogue", err)
	}

	a := New("A", env.meta.ID)
	b := New("B", env.meta.ID)
	env.reg.Register(a)
	env.reg.Register(b)
	if _, err := env.reg.TryDeleteExclusive(env.meta.ID); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("with two: err = %v, want ErrAmbiguous", err)
	}
	if env.reg.Len() != 2 {
		t.Error("a failed exclusive delete mutated the registry")
	}

	env.reg.Delete(b.ID)
	got, err := env.reg.TryDeleteExclusive(env.meta.ID)
	if err != nil {
		t.Fatalf("with one: err = %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("removed %v, want A", got.ID)
	}
	if len(env.reg.Active(env.meta.ID)) != 0 {
		t.Error("dialogue still active after exclusive delete")
	}
}

func TestTryDeleteExclusiveIgnoresGlobals(t *testing.T) {
	env := newTestEnv(t)
	env.reg.Register(New("Commands", Global))
	only := New("Area", env.meta.ID)
	env.reg.Register(only)

	got, err := env.reg.TryDeleteExclusive(env.meta.ID)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got.ID != only.ID {
		t.Errorf("removed %v, want the player's dialogue", got.ID)
	}
}

func TestRemoveAllPreservesOrder(t *testing.T) {
	env := newTestEnv(t)
	g := New("Commands", Global)
	a := New("A", env.meta.ID)
	b := New("B", env.meta.ID)
	c := New("C", env.meta.ID)
	env.reg.Register(g)
	env.reg.Register(a)
	env.reg.Register(b)
	env.reg.Register(c)

	removed := env.reg.RemoveAll(env.meta.ID)
	if len(removed) != 3 {
		t.Fatalf("removed %d dialogues, want 3", len(removed))
	}
	for i, want := range []*Dialogue{a, b, c} {
		if removed[i].ID != want.ID {
			t.Errorf("removed[%d] = %s, want %s", i, removed[i].Title, want.Title)
		}
	}
	if env.reg.Len() != 1 {
		t.Errorf("registry len = %d, want the global only", env.reg.Len())
	}

	// Restoring in order reproduces the original numbering.
	for _, d := range removed {
		env.reg.Register(d)
	}
	active := env.reg.Active(env.meta.ID)
	if len(active) != 4 || active[1].ID != a.ID || active[3].ID != c.ID {
		t.Error("restore did not reproduce registration order")
	}
}
