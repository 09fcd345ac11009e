package memory

import (
	"testing"

	"github.com/daykeep/daykeep/pkg/types"
)

func TestConversationMemory_AddAndGetAll(t *testing.T) {
	mem := NewConversationMemory()

	mem.Add(types.NewUserMessage("add a task to review the budget"))
	mem.Add(types.NewAssistantMessage("Added it to today's list."))

	all := mem.GetAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(all))
	}
	if all[0].Role != types.RoleUser {
		t.Errorf("expected first message to be user, got %s", all[0].Role)
	}
	if all[1].Content != "Added it to today's list." {
		t.Errorf("unexpected assistant content: %s", all[1].Content)
	}
}

func TestConversationMemory_IgnoresNil(t *testing.T) {
	mem := NewConversationMemory()
	mem.Add(nil)

	if mem.Len() != 0 {
		t.Errorf("nil message should not be stored, got %d messages", mem.Len())
	}
}

func TestConversationMemory_Clear(t *testing.T) {
	mem := NewConversationMemory()
	mem.Add(types.NewUserMessage("what's on my schedule?"))
	mem.Clear()

	if mem.Len() != 0 {
		t.Errorf("expected empty memory after Clear, got %d messages", mem.Len())
	}
}

func TestConversationMemory_Load(t *testing.T) {
	mem := NewConversationMemory()
	mem.Add(types.NewUserMessage("old message"))

	restored := []*types.Message{
		types.NewUserMessage("roll over yesterday's tasks"),
		nil,
		types.NewAssistantMessage("Rolled over 3 tasks to today."),
	}
	mem.Load(restored)

	all := mem.GetAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 messages after Load (nil dropped), got %d", len(all))
	}
	if all[0].Content != "roll over yesterday's tasks" {
		t.Errorf("Load should replace existing history, got %s", all[0].Content)
	}
}

func TestConversationMemory_GetAllReturnsCopy(t *testing.T) {
	mem := NewConversationMemory()
	mem.Add(types.NewUserMessage("first"))

	all := mem.GetAll()
	all[0] = types.NewUserMessage("mutated")

	fresh := mem.GetAll()
	if fresh[0].Content != "first" {
		t.Error("mutating the returned slice must not affect stored history")
	}
}
