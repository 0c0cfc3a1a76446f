package core

import "testing"

func TestActionIsDirection(t *testing.T) {
	directions := []Action{ActionUp, ActionDown, ActionLeft, ActionRight}
	for _, a := range directions {
		if !a.IsDirection() {
			t.Errorf("%v should be a direction", a)
		}
	}

	others := []Action{ActionNone, ActionConfirm, ActionBack, ActionQuit}
	for _, a := range others {
		if a.IsDirection() {
			t.Errorf("%v should not be a direction", a)
		}
	}
}

func TestEventConstructors(t *testing.T) {
	if ev := StartEvent(); ev.Kind != EventStart {
		t.Errorf("StartEvent kind = %v", ev.Kind)
	}

	ev := InputEvent(ActionLeft)
	if ev.Kind != EventInput || ev.Action != ActionLeft {
		t.Errorf("InputEvent = %+v", ev)
	}

	ev = TickEvent(7)
	if ev.Kind != EventTick || ev.Generation != 7 {
		t.Errorf("TickEvent = %+v", ev)
	}
}
