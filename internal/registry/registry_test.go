package registry

import (
	"testing"
	"time"

	"github.com/vovakirdan/fragments/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                                       { return g.id }
func (g *stubGame) Title() string                                    { return "Stub " + g.id }
func (g *stubGame) Description() string                              { return "test game" }
func (g *stubGame) Reset(core.RuntimeConfig)                         {}
func (g *stubGame) Step(time.Duration, []core.Input) core.StepResult { return core.StepResult{} }
func (g *stubGame) Snapshot() core.Snapshot                          { return core.Snapshot{GameID: g.id} }
func (g *stubGame) State() core.SessionState                         { return core.SessionState{} }
func (g *stubGame) Stop()                                            {}

func stub(id string) Factory {
	return func() Game { return &stubGame{id: id} }
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test_b", stub("test_b"))
	Register("test_a", stub("test_a"))

	if !Exists("test_a") || Exists("test_missing") {
		t.Error("Exists() disagrees with registered ids")
	}

	info, ok := Info("test_a")
	if !ok || info.Title != "Stub test_a" || info.Description != "test game" {
		t.Errorf("Info(test_a) = %+v, %v", info, ok)
	}

	g, err := Create("test_b")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "test_b" {
		t.Errorf("created game id = %q", g.ID())
	}

	if _, err := Create("test_missing"); err == nil {
		t.Error("Create() of an unknown id should fail")
	}
}

func TestListSorted(t *testing.T) {
	Register("test_list_z", stub("test_list_z"))
	Register("test_list_y", stub("test_list_y"))

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}

	seen := 0
	for _, info := range list {
		if info.ID == "test_list_y" || info.ID == "test_list_z" {
			seen++
		}
	}
	if seen != 2 {
		t.Errorf("List() returned %d of 2 registered games", seen)
	}
}

func TestDuplicateRegisterPanics(t *testing.T) {
	Register("test_dup", stub("test_dup"))

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate id should panic")
		}
	}()
	Register("test_dup", stub("test_dup"))
}
