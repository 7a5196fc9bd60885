package model

import "testing"

func TestRegionSelection(t *testing.T) {
	var nilRegion *Region
	if nilRegion.IsSelected() {
		t.Error("nil region must not be selected")
	}
	if (&Region{ID: "a"}).IsSelected() {
		t.Error("fresh region must not be selected")
	}
	if !(&Region{ID: "a", InSelection: true}).IsSelected() {
		t.Error("inSelection region should count as selected")
	}
	if (&Region{ID: "a"}).CanSelect() {
		t.Error("region without trigger cannot be selected")
	}
}

func TestLabelCounts(t *testing.T) {
	r := &Region{ID: "a", Labels: []string{"田中さん", "walk", "run", "佐藤さん"}}
	if got := r.LabelCount(); got != 4 {
		t.Errorf("LabelCount = %d, want 4", got)
	}
	if got := r.PersonLabelCount(); got != 2 {
		t.Errorf("PersonLabelCount = %d, want 2", got)
	}
	if got := r.ActionLabelCount(); got != 2 {
		t.Errorf("ActionLabelCount = %d, want 2", got)
	}

	var nilRegion *Region
	if nilRegion.LabelCount() != -1 || nilRegion.PersonLabelCount() != -1 || nilRegion.ActionLabelCount() != -1 {
		t.Error("nil region counts should be -1")
	}
	if !(&Region{ID: "b"}).IsUnlabeled() {
		t.Error("region without labels should be unlabeled")
	}
}

func TestStartFrameAndBaseID(t *testing.T) {
	r := &Region{ID: "id-1-2#xyz", Sequence: []Keyframe{{Frame: 12, Enabled: true}, {Frame: 20}}}
	if f, ok := r.StartFrame(); !ok || f != 12 {
		t.Errorf("StartFrame = %d,%v want 12,true", f, ok)
	}
	if r.BaseID() != "id-1-2" {
		t.Errorf("BaseID = %q", r.BaseID())
	}
	if _, ok := (&Region{ID: "x"}).StartFrame(); ok {
		t.Error("empty sequence has no start frame")
	}
}

func TestValidate(t *testing.T) {
	if err := (&Region{}).Validate(); err == nil {
		t.Error("expected error for missing id")
	}
	bad := &Region{ID: "a", Sequence: []Keyframe{{Frame: 5}, {Frame: 3}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for decreasing frames")
	}
	good := &Region{ID: "a", Sequence: []Keyframe{{Frame: 3}, {Frame: 5}}}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReversedAndIndexOf(t *testing.T) {
	a, b, c := &Region{ID: "a"}, &Region{ID: "b"}, &Region{ID: "c"}
	rev := Reversed([]*Region{a, b, c})
	if rev[0] != c || rev[2] != a {
		t.Errorf("unexpected reverse order: %s %s %s", rev[0].ID, rev[1].ID, rev[2].ID)
	}
	if IndexOf(rev, "b") != 1 || IndexOf(rev, "zz") != -1 {
		t.Error("IndexOf mismatch")
	}
}

func TestCloneDropsTrigger(t *testing.T) {
	r := &Region{ID: "a", Labels: []string{"x"}, Trigger: func(SelectEvent) {}}
	c := r.Clone()
	if c.Trigger != nil {
		t.Error("clone should not carry trigger")
	}
	c.Labels[0] = "y"
	if r.Labels[0] != "x" {
		t.Error("clone must not share label storage")
	}
}

func TestNewSelectEvent(t *testing.T) {
	ev := NewSelectEvent()
	if ev.CtrlKey || ev.ShiftKey || ev.MetaKey {
		t.Errorf("default event should have no modifiers: %+v", ev)
	}
	ev = NewSelectEvent(WithCtrl())
	if !ev.CtrlKey || ev.ShiftKey {
		t.Errorf("WithCtrl should only set ctrl: %+v", ev)
	}
}
