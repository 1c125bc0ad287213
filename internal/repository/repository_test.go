package repository

import (
	"testing"

	"github.com/vtuos/housingmarket/internal/models"
)

func TestAddNew_AssignsIncrementingIDsStartingAtOne(t *testing.T) {
	r := New[*models.Person]()

	id1 := r.AddNew(&models.Person{Age: 30})
	id2 := r.AddNew(&models.Person{Age: 40})

	if id1 != 1 {
		t.Errorf("first ID = %d, want 1", id1)
	}
	if id2 != 2 {
		t.Errorf("second ID = %d, want 2", id2)
	}
	if r.Get(id1).ID != id1 {
		t.Errorf("entity.ID = %d, want %d", r.Get(id1).ID, id1)
	}
}

func TestGet_PanicsOnUnknownID(t *testing.T) {
	r := New[*models.Person]()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unknown id")
		}
	}()
	r.Get(999)
}

func TestTryGet_ReportsMissing(t *testing.T) {
	r := New[*models.Person]()
	id := r.AddNew(&models.Person{Age: 25})

	if _, ok := r.TryGet(id); !ok {
		t.Error("expected TryGet to find inserted entity")
	}
	if _, ok := r.TryGet(999); ok {
		t.Error("expected TryGet to report missing entity as not found")
	}
}

func TestRemove_LeavesHoleWithoutRenumbering(t *testing.T) {
	r := New[*models.Person]()
	id1 := r.AddNew(&models.Person{Age: 25})
	id2 := r.AddNew(&models.Person{Age: 30})

	r.Remove(id1)

	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if _, ok := r.TryGet(id1); ok {
		t.Error("removed entity should no longer be present")
	}
	id3 := r.AddNew(&models.Person{Age: 35})
	if id3 != id2+1 {
		t.Errorf("next ID = %d, want %d (no renumbering)", id3, id2+1)
	}
}

func TestIter_VisitsInInsertionOrderAndStopsEarly(t *testing.T) {
	r := New[*models.Person]()
	r.AddNew(&models.Person{Age: 1})
	r.AddNew(&models.Person{Age: 2})
	r.AddNew(&models.Person{Age: 3})

	var visited []int
	r.Iter(func(_ models.ID, p *models.Person) bool {
		visited = append(visited, p.Age)
		return len(visited) < 2
	})

	if len(visited) != 2 || visited[0] != 1 || visited[1] != 2 {
		t.Errorf("visited = %v, want [1 2]", visited)
	}
}

func TestAll_ReturnsEveryLiveEntity(t *testing.T) {
	r := New[*models.Person]()
	r.AddNew(&models.Person{Age: 1})
	id2 := r.AddNew(&models.Person{Age: 2})
	r.AddNew(&models.Person{Age: 3})
	r.Remove(id2)

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].Age != 1 || all[1].Age != 3 {
		t.Errorf("All() = %v, want ages [1 3]", all)
	}
}
