package trace

import (
	"encoding/json"
	"testing"
)

func TestRecordOrder(t *testing.T) {
	tr := New()
	tr.Record(TurnRight)
	tr.Record(Move)
	tr.Record(TurnLeft)

	if tr.Len() != 3 {
		t.Fatalf("expected 3 actions, got %d", tr.Len())
	}

	want := []Action{TurnRight, Move, TurnLeft}
	for i, act := range tr.Actions() {
		if act != want[i] {
			t.Errorf("action %d = %v, want %v", i, act, want[i])
		}
	}
}

func TestFromActionsCopies(t *testing.T) {
	src := []Action{Move, Move}
	tr := FromActions(src)
	src[0] = TurnLeft
	if tr.Actions()[0] != Move {
		t.Error("FromActions must copy its input")
	}
}

func TestActionJSON(t *testing.T) {
	data, err := json.Marshal([]Action{Move, TurnLeft, TurnRight})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `["move","turnLeft","turnRight"]` {
		t.Errorf("unexpected wire form: %s", data)
	}

	var back []Action
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(back) != 3 || back[0] != Move || back[1] != TurnLeft || back[2] != TurnRight {
		t.Errorf("round trip mismatch: %v", back)
	}

	if err := json.Unmarshal([]byte(`"teleport"`), &back[0]); err == nil {
		t.Error("expected error for unknown action name")
	}
}
