package tasks

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daykeep/daykeep/pkg/progress"
	"github.com/daykeep/daykeep/pkg/schedule"
	"github.com/daykeep/daykeep/pkg/tasks"
)

func newTestStores(t *testing.T) (*tasks.Store, *schedule.Store, *progress.Store) {
	t.Helper()
	dir := t.TempDir()

	taskStore, err := tasks.NewStore(filepath.Join(dir, "tasks.csv"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	schedStore, err := schedule.NewStore(filepath.Join(dir, "schedule.csv"), nil)
	if err != nil {
		t.Fatalf("schedule.NewStore() error = %v", err)
	}
	progStore, err := progress.NewStore(filepath.Join(dir, "progress.csv"))
	if err != nil {
		t.Fatalf("progress.NewStore() error = %v", err)
	}
	return taskStore, schedStore, progStore
}

func TestAddTaskTool_Execute_Success(t *testing.T) {
	taskStore, schedStore, _ := newTestStores(t)
	tool := NewAddTaskTool(taskStore, schedStore)

	if got := tool.Name(); got != "add_task" {
		t.Errorf("Name() = %v, want add_task", got)
	}
	if tool.IsLoopBreaking() {
		t.Error("IsLoopBreaking() should return false")
	}

	argsXML := []byte(`<arguments>
		<title>Finish database module</title>
		<category>learning</category>
		<priority>1</priority>
		<due_date>2026-08-24</due_date>
	</arguments>`)

	result, metadata, err := tool.Execute(context.Background(), argsXML)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(result, "added with ID 1") {
		t.Errorf("Result should mention the new ID: %s", result)
	}
	if metadata["task_id"].(int) != 1 {
		t.Errorf("Metadata task_id = %v, want 1", metadata["task_id"])
	}

	stored, err := taskStore.Get(1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Category != "learning" || stored.Priority != 1 {
		t.Errorf("Stored task has wrong fields: %+v", stored)
	}
}

func TestAddTaskTool_Execute_BlockPlacement(t *testing.T) {
	taskStore, schedStore, _ := newTestStores(t)
	tool := NewAddTaskTool(taskStore, schedStore)

	// 2026-08-24 is a Monday
	argsXML := []byte(`<arguments>
		<title>Study session</title>
		<category>learning</category>
		<priority>2</priority>
		<due_date>2026-08-24</due_date>
		<time_block>Core Learning Sessions</time_block>
	</arguments>`)

	result, _, err := tool.Execute(context.Background(), argsXML)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(result, "Core Learning Sessions") {
		t.Errorf("Result should mention the block: %s", result)
	}

	block, err := schedStore.FindBlock("Monday", "Core Learning Sessions")
	if err != nil {
		t.Fatalf("FindBlock() error = %v", err)
	}
	if !block.HasTask(1) {
		t.Error("Task should be assigned to the block")
	}
}

func TestAddTaskTool_Execute_MissingFields(t *testing.T) {
	taskStore, _, _ := newTestStores(t)
	tool := NewAddTaskTool(taskStore, nil)

	_, _, err := tool.Execute(context.Background(), []byte(`<arguments><category>x</category><priority>1</priority></arguments>`))
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Errorf("Execute() should fail on missing title, got %v", err)
	}

	_, _, err = tool.Execute(context.Background(), []byte(`<arguments><title>x</title><priority>1</priority></arguments>`))
	if err == nil || !strings.Contains(err.Error(), "category") {
		t.Errorf("Execute() should fail on missing category, got %v", err)
	}

	_, _, err = tool.Execute(context.Background(), []byte(`<arguments><title>x</title><category>y</category><priority>1</priority><due_date>24/08/2026</due_date></arguments>`))
	if err == nil || !strings.Contains(err.Error(), "due_date") {
		t.Errorf("Execute() should fail on bad due_date, got %v", err)
	}
}

func TestListTasksTool_Execute_Filters(t *testing.T) {
	taskStore, _, _ := newTestStores(t)
	tool := NewListTasksTool(taskStore)

	mustAdd(t, taskStore, tasks.Task{Title: "Read chapter 4", Category: "learning", Priority: 2})
	mustAdd(t, taskStore, tasks.Task{Title: "Send applications", Category: "career", Priority: 1})
	if _, err := taskStore.UpdateStatus(2, tasks.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	result, metadata, err := tool.Execute(context.Background(), []byte(`<arguments></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if metadata["task_count"].(int) != 2 {
		t.Errorf("Expected 2 tasks, got %v", metadata["task_count"])
	}
	// Priority ordering puts the career task first
	if strings.Index(result, "Send applications") > strings.Index(result, "Read chapter 4") {
		t.Errorf("Tasks should be ordered by priority:\n%s", result)
	}

	result, _, err = tool.Execute(context.Background(), []byte(`<arguments><status>pending</status></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(result, "Send applications") {
		t.Errorf("Completed task should be filtered out:\n%s", result)
	}

	result, _, err = tool.Execute(context.Background(), []byte(`<arguments><pattern>career</pattern></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(result, "Send applications") {
		t.Errorf("Pattern search should match category:\n%s", result)
	}

	_, _, err = tool.Execute(context.Background(), []byte(`<arguments><status>done</status></arguments>`))
	if err == nil {
		t.Error("Execute() should reject an unknown status filter")
	}
}

func TestUpdateTaskStatusTool_Execute(t *testing.T) {
	taskStore, _, _ := newTestStores(t)
	tool := NewUpdateTaskStatusTool(taskStore)

	mustAdd(t, taskStore, tasks.Task{Title: "Fix flaky test", Category: "project", Priority: 1})

	result, metadata, err := tool.Execute(context.Background(), []byte(`<arguments>
		<task_id>1</task_id>
		<status>completed</status>
	</arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(result, "marked completed") {
		t.Errorf("Result should mention completion: %s", result)
	}
	if metadata["status"].(string) != "completed" {
		t.Errorf("Metadata status = %v", metadata["status"])
	}

	_, _, err = tool.Execute(context.Background(), []byte(`<arguments><task_id>99</task_id><status>completed</status></arguments>`))
	if err == nil {
		t.Error("Execute() should fail for an unknown task")
	}

	_, _, err = tool.Execute(context.Background(), []byte(`<arguments><status>completed</status></arguments>`))
	if err == nil || !strings.Contains(err.Error(), "task_id") {
		t.Errorf("Execute() should fail on missing task_id, got %v", err)
	}
}

func TestRolloverTasksTool_Execute(t *testing.T) {
	taskStore, _, progStore := newTestStores(t)
	tool := NewRolloverTasksTool(taskStore, progStore)

	mustAdd(t, taskStore, tasks.Task{Title: "Unfinished", Category: "project", Priority: 1})
	mustAdd(t, taskStore, tasks.Task{Title: "Done", Category: "project", Priority: 1})
	if _, err := taskStore.UpdateStatus(2, tasks.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	result, metadata, err := tool.Execute(context.Background(), []byte(`<arguments></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if metadata["tasks_rolled_over"].(int) != 1 {
		t.Errorf("Expected 1 rolled over task, got %v", metadata["tasks_rolled_over"])
	}
	if !strings.Contains(result, "Rolled over 1 task(s)") {
		t.Errorf("Result should mention the rollover: %s", result)
	}

	// Migration snapshot lands in the progress log
	entry, ok := progStore.Get(time.Now())
	if !ok {
		t.Fatal("Rollover should record a progress entry for today")
	}
	if entry.RolledOver != 1 || entry.Completed != 1 {
		t.Errorf("Progress entry = %+v", entry)
	}
}

func TestRolloverTasksTool_Execute_BadDates(t *testing.T) {
	taskStore, _, _ := newTestStores(t)
	tool := NewRolloverTasksTool(taskStore, nil)

	_, _, err := tool.Execute(context.Background(), []byte(`<arguments><from_date>yesterday</from_date></arguments>`))
	if err == nil {
		t.Error("Execute() should reject a malformed from_date")
	}

	_, _, err = tool.Execute(context.Background(), []byte(`<arguments>
		<from_date>2026-08-24</from_date>
		<to_date>2026-08-23</to_date>
	</arguments>`))
	if err == nil {
		t.Error("Execute() should reject to_date before from_date")
	}
}

func TestTodayScheduleTool_Execute(t *testing.T) {
	taskStore, schedStore, _ := newTestStores(t)
	tool := NewTodayScheduleTool(taskStore, schedStore)

	added := mustAdd(t, taskStore, tasks.Task{Title: "Morning pages", Category: "routine", Priority: 3})
	if _, err := schedStore.AssignTask("Monday", "Morning Routine & Mental Warm-Up", added.ID); err != nil {
		t.Fatalf("AssignTask() error = %v", err)
	}

	result, metadata, err := tool.Execute(context.Background(), []byte(`<arguments><day>Monday</day></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if metadata["block_count"].(int) != 5 {
		t.Errorf("Expected 5 blocks, got %v", metadata["block_count"])
	}
	if !strings.Contains(result, "Morning pages") {
		t.Errorf("Result should list the assigned task:\n%s", result)
	}
	if !strings.Contains(result, "540 minutes") {
		t.Errorf("Result should total the scheduled minutes:\n%s", result)
	}

	result, _, err = tool.Execute(context.Background(), []byte(`<arguments><day>Funday</day></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(result, "No schedule blocks") {
		t.Errorf("Unknown day should return an empty schedule message: %s", result)
	}
}

func TestDailyReportTool_Execute(t *testing.T) {
	taskStore, schedStore, _ := newTestStores(t)
	tool := NewDailyReportTool(taskStore, schedStore)

	// 2026-08-24 is a Monday
	due := "2026-08-24"
	for i, title := range []string{"one", "two"} {
		mustAdd(t, taskStore, tasks.Task{
			Title: title, Category: "project", Priority: i + 1,
			DueDate: mustDay(t, due),
		})
	}
	if _, err := taskStore.UpdateStatus(1, tasks.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	result, metadata, err := tool.Execute(context.Background(), []byte(`<arguments><date>2026-08-24</date></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(result, "Completion rate: 50.00%") {
		t.Errorf("Result should include the completion rate:\n%s", result)
	}
	if !strings.Contains(result, "Scheduled time: 540 minutes") {
		t.Errorf("Result should include scheduled minutes:\n%s", result)
	}
	if metadata["completed"].(int) != 1 {
		t.Errorf("Metadata completed = %v", metadata["completed"])
	}
}

func TestProductivityInsightsTool_Execute(t *testing.T) {
	_, _, progStore := newTestStores(t)
	tool := NewProductivityInsightsTool(progStore)

	if _, err := progStore.Record(progress.Entry{Completed: 3, Pending: 1}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	result, metadata, err := tool.Execute(context.Background(), []byte(`<arguments></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if metadata["window_days"].(int) != 7 {
		t.Errorf("Default window should be 7 days, got %v", metadata["window_days"])
	}
	if !strings.Contains(result, "Average score: 75.00") {
		t.Errorf("Result should include the average score:\n%s", result)
	}

	result, _, err = tool.Execute(context.Background(), []byte(`<arguments><days>3</days></arguments>`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(result, "last 3 days") {
		t.Errorf("Result should respect the window:\n%s", result)
	}
}

func mustAdd(t *testing.T, store *tasks.Store, task tasks.Task) tasks.Task {
	t.Helper()
	added, err := store.Add(task)
	if err != nil {
		t.Fatalf("Add(%q) error = %v", task.Title, err)
	}
	return added
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(tasks.DateFormat, s)
	if err != nil {
		t.Fatalf("bad date %s: %v", s, err)
	}
	return d
}
