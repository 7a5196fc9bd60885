package nav_test

import (
	"testing"

	"github.com/vanderheijden86/regionwork/pkg/nav"
)

func unlabeledTask(empty ...string) *fakeTask {
	ft := newFakeTask("A", "B", "C", "D", "E")
	for _, id := range empty {
		ft.byID(id).Labels = nil
	}
	return ft
}

func TestNextUnlabeled_ScansForwardThenWraps(t *testing.T) {
	ft := unlabeledTask("B", "E")
	n := newNavigator(ft)
	n.SelectRegion(ft.byID("C"))

	if got := n.NextUnlabeled(); got == nil || got.ID != "E" {
		t.Fatalf("expected E, got %v", got)
	}
	// On an unlabeled region the search steps through the unlabeled ones.
	if got := n.NextUnlabeled(); got == nil || got.ID != "B" {
		t.Fatalf("expected wrap to B, got %v", got)
	}
}

func TestNextUnlabeled_WrapsFromLabeledRegion(t *testing.T) {
	ft := unlabeledTask("A")
	n := newNavigator(ft)
	n.SelectRegion(ft.byID("D"))

	if got := n.NextUnlabeled(); got == nil || got.ID != "A" {
		t.Fatalf("expected A after wrapping, got %v", got)
	}
}

func TestPreviousUnlabeled(t *testing.T) {
	ft := unlabeledTask("B", "E")
	n := newNavigator(ft)
	n.SelectRegion(ft.byID("D"))

	if got := n.PreviousUnlabeled(); got == nil || got.ID != "B" {
		t.Fatalf("expected B, got %v", got)
	}
	if got := n.PreviousUnlabeled(); got == nil || got.ID != "E" {
		t.Fatalf("expected E, got %v", got)
	}
}

func TestNextUnlabeled_NoneFound(t *testing.T) {
	ft := unlabeledTask()
	n := newNavigator(ft)
	n.SelectRegion(ft.byID("B"))

	if got := n.NextUnlabeled(); got != nil {
		t.Fatalf("expected nil, got %s", got.ID)
	}
	if len(ft.notices) != 1 || ft.notices[0].Level != nav.NoticeInfo {
		t.Errorf("expected one info notice, got %+v", ft.notices)
	}
}
