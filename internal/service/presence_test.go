package service

import "testing"

func TestPresence_ListOnlineJoinOrder(t *testing.T) {
	p := NewPresenceTracker()
	p.SetOnline("c1", "alice")
	p.SetOnline("c2", "bob")
	p.SetOnline("c3", "carol")
	p.SetOffline("c2")

	got := p.ListOnline()
	if len(got) != 2 || got[0].Username != "alice" || got[1].Username != "carol" {
		t.Fatalf("online = %v", got)
	}
}

func TestPresence_TypingScopedToMembers(t *testing.T) {
	p := NewPresenceTracker()
	p.SetTyping("c1", "alice", true)
	p.SetTyping("c2", "bob", true)

	// c2 в другой комнате — не попадает в проекцию
	names := p.TypingNames([]string{"c1", "c3"})
	if len(names) != 1 || names[0] != "alice" {
		t.Fatalf("typing = %v, want [alice]", names)
	}
}

func TestPresence_SameNameTwoConnections(t *testing.T) {
	p := NewPresenceTracker()
	p.SetTyping("c1", "alice", true)
	p.SetTyping("c2", "alice", true)

	names := p.TypingNames([]string{"c1", "c2"})
	if len(names) != 2 {
		t.Fatalf("typing = %v, want two entries", names)
	}
}

func TestPresence_StopTypingRemoves(t *testing.T) {
	p := NewPresenceTracker()
	p.SetTyping("c1", "alice", true)
	p.SetTyping("c1", "alice", false)

	if names := p.TypingNames([]string{"c1"}); len(names) != 0 {
		t.Fatalf("typing = %v, want empty", names)
	}
}

func TestPresence_ClearDropsBoth(t *testing.T) {
	p := NewPresenceTracker()
	p.SetOnline("c1", "alice")
	p.SetTyping("c1", "alice", true)

	p.Clear("c1")

	if got := p.ListOnline(); len(got) != 0 {
		t.Fatalf("online = %v, want empty", got)
	}
	if names := p.TypingNames([]string{"c1"}); len(names) != 0 {
		t.Fatalf("typing = %v, want empty", names)
	}
}
