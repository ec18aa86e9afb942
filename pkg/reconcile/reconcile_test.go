package reconcile_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notewell/curator/pkg/errors"
	"github.com/notewell/curator/pkg/htmldoc"
	"github.com/notewell/curator/pkg/reconcile"
	"github.com/notewell/curator/pkg/tasks"
	"github.com/notewell/curator/pkg/ticket"
)

// fakeStore is an in-memory reconcile.Store. Attribute and content writes
// are staged until Flush, mirroring the batching of the real store.
type fakeStore struct {
	tasks     map[string]*tasks.Task
	order     []string
	pending   []func()
	attached  map[string]string // task id -> day status
	mutations int
	flushes   int
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:    make(map[string]*tasks.Task),
		attached: make(map[string]string),
	}
}

func (s *fakeStore) FindTasks(_ context.Context, key string) ([]*tasks.Task, error) {
	var matched []*tasks.Task
	for _, id := range s.order {
		task := s.tasks[id]
		if task.Attributes.Has(tasks.AttrDoneDate) {
			continue
		}
		if value, ok := task.Attributes.Get(tasks.AttrJiraKey); ok && value == key {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (s *fakeStore) CreateTask(_ context.Context, spec tasks.Spec) (*tasks.Task, error) {
	s.mutations++
	s.nextID++

	attrs, err := tasks.NewAttributes(spec.Attributes)
	if err != nil {
		return nil, err
	}
	task := &tasks.Task{
		ID:         fmt.Sprintf("note%d", s.nextID),
		Title:      spec.Title,
		Content:    spec.Content,
		Attributes: attrs,
		Tags:       spec.Tags,
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task, nil
}

func (s *fakeStore) SetContent(_ context.Context, id, content string) error {
	s.mutations++
	s.pending = append(s.pending, func() { s.tasks[id].Content = content })
	return nil
}

func (s *fakeStore) SetAttribute(_ context.Context, id, name, value string) error {
	s.mutations++
	s.pending = append(s.pending, func() { _ = s.tasks[id].Attributes.Set(name, value) })
	return nil
}

func (s *fakeStore) AttachToDay(_ context.Context, id string, _ time.Time, status string) error {
	s.mutations++
	s.attached[id] = status
	return nil
}

func (s *fakeStore) Flush(_ context.Context) error {
	s.mutations++
	s.flushes++
	for _, apply := range s.pending {
		apply()
	}
	s.pending = nil
	return nil
}

// seedTask inserts a pre-existing task carrying key, as a prior run would
// have left it.
func (s *fakeStore) seedTask(key, content string) *tasks.Task {
	s.nextID++
	attrs, _ := tasks.NewAttributes(map[string]string{tasks.AttrJiraKey: key})
	task := &tasks.Task{
		ID:         fmt.Sprintf("note%d", s.nextID),
		Title:      key + ": seeded",
		Content:    content,
		Attributes: attrs,
		Tags:       []string{"jira"},
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task
}

var testClock = func() utc.Time {
	return utc.Time{Time: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)}
}

func testTicket(t *testing.T, key, created string) ticket.Ticket {
	t.Helper()
	tk, err := ticket.New(ticket.Raw{
		Key:      key,
		Summary:  "Lorem ipsum dolor sit amet, consectetur adipiscing elit",
		Status:   "Testing",
		Priority: "Blocker",
		Assignee: "tester",
		Labels:   []string{"triaged", "testing"},
		Created:  created,
		Updated:  "2024-03-04T12:00:00Z",
		URL:      "https://issues.example.com/" + key,
	})
	require.NoError(t, err)
	return tk
}

func TestReconcileCreatesTask(t *testing.T) {
	store := newFakeStore()
	rec := reconcile.New(store, reconcile.WithNow(testClock))

	tk := testTicket(t, "TEST-1", "2024-03-01T00:00:00Z")
	outcome, err := rec.Reconcile(context.Background(), tk)
	require.NoError(t, err)

	assert.Equal(t, reconcile.ActionCreate, outcome.Action)
	require.Len(t, store.tasks, 1)

	task := store.tasks[outcome.TaskID]
	assert.Equal(t, "TEST-1: "+tk.Title, task.Title)
	assert.Contains(t, task.Content, `href="https://issues.example.com/TEST-1"`)
	assert.Contains(t, task.Content, `<ul class="notes-list">`)
	assert.True(t, task.HasTag("jira"))

	icon, _ := task.Attributes.Get(tasks.AttrIconClass)
	assert.Equal(t, "bx bx-bug", icon)
	todo, _ := task.Attributes.Get(tasks.AttrTodoDate)
	assert.Equal(t, "2024-03-01", todo)
	location, _ := task.Attributes.Get(tasks.AttrLocation)
	assert.Equal(t, "work", location)

	assert.Equal(t, "TODO", store.attached[task.ID])
	assert.GreaterOrEqual(t, store.flushes, 2, "create commits eagerly, then attributes")
}

func TestReconcileIdempotentCreate(t *testing.T) {
	store := newFakeStore()
	rec := reconcile.New(store, reconcile.WithNow(testClock))
	runner := reconcile.NewRunner(rec)

	tickets := []ticket.Ticket{testTicket(t, "TEST-1", "2024-03-01T00:00:00Z")}

	report, err := runner.Run(context.Background(), tickets)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Updated)

	// Second run on the unchanged record set takes the update path; no
	// duplicate task appears.
	report, err = runner.Run(context.Background(), tickets)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Len(t, store.tasks, 1)

	// Exactly one marker was appended by the second pass.
	for _, task := range store.tasks {
		doc, err := htmldoc.Parse(task.Content)
		require.NoError(t, err)
		assert.Len(t, doc.ListItems("notes-list"), 1)
	}
}

func TestReconcileUpdateAppendsMarker(t *testing.T) {
	store := newFakeStore()
	seeded := store.seedTask("TEST-2",
		`<h2>TEST-2</h2><p>hand-written analysis</p><ul class="notes-list"><li>2024-03-01 08:00 Update from Jira</li></ul>`)

	rec := reconcile.New(store, reconcile.WithNow(testClock))
	outcome, err := rec.Reconcile(context.Background(), testTicket(t, "TEST-2", "2024-02-01T00:00:00Z"))
	require.NoError(t, err)

	assert.Equal(t, reconcile.ActionUpdate, outcome.Action)
	assert.Equal(t, seeded.ID, outcome.TaskID)

	assert.Contains(t, seeded.Content, "<p>hand-written analysis</p>")
	doc, err := htmldoc.Parse(seeded.Content)
	require.NoError(t, err)
	items := doc.ListItems("notes-list")
	require.Len(t, items, 2)
	assert.Equal(t, "2024-03-05 09:30 Update from Jira", items[1])
}

func TestReconcileCreatesAnnotationRegionWhenMissing(t *testing.T) {
	store := newFakeStore()
	seeded := store.seedTask("TEST-3", "<h2>TEST-3</h2><p>no notes list here</p>")

	rec := reconcile.New(store, reconcile.WithNow(testClock))
	_, err := rec.Reconcile(context.Background(), testTicket(t, "TEST-3", "2024-02-01T00:00:00Z"))
	require.NoError(t, err)

	doc, err := htmldoc.Parse(seeded.Content)
	require.NoError(t, err)
	items := doc.ListItems("notes-list")
	require.Len(t, items, 1)
	assert.True(t, strings.HasSuffix(seeded.Content, "</ul>"), "annotation region appended at the end")
}

func TestReconcileAttributeFreshness(t *testing.T) {
	store := newFakeStore()
	rec := reconcile.New(store, reconcile.WithNow(testClock))

	outcome, err := rec.Reconcile(context.Background(), testTicket(t, "TEST-4", "2024-03-01T00:00:00Z"))
	require.NoError(t, err)

	task := store.tasks[outcome.TaskID]
	for name, want := range map[string]string{
		tasks.AttrJiraPriority: "Blocker",
		tasks.AttrJiraStatus:   "Testing",
		tasks.AttrJiraLabels:   "testing:triaged",
		tasks.AttrJiraAssignee: "tester",
		tasks.AttrJiraUpdated:  "2024-03-04",
	} {
		value, ok := task.Attributes.Get(name)
		require.True(t, ok, "attribute %s missing", name)
		assert.Equal(t, want, value, "attribute %s", name)
	}
}

func TestReconcileAmbiguousAbortsRun(t *testing.T) {
	store := newFakeStore()
	store.seedTask("DUP-1", "<p>first</p>")
	store.seedTask("DUP-1", "<p>second</p>")

	rec := reconcile.New(store, reconcile.WithNow(testClock))
	runner := reconcile.NewRunner(rec)

	tickets := []ticket.Ticket{
		testTicket(t, "EARLY-1", "2024-03-01T00:00:00Z"),
		testTicket(t, "DUP-1", "2024-03-02T00:00:00Z"),
		testTicket(t, "LATE-1", "2024-03-03T00:00:00Z"),
	}

	report, err := runner.Run(context.Background(), tickets)
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguous(err))
	assert.Contains(t, err.Error(), "DUP-1")

	// The earlier ticket stays committed, the later one was never touched.
	assert.Equal(t, 1, report.Len())
	assert.Equal(t, "EARLY-1", report.Rows[0].Key)
	later, ferr := store.FindTasks(context.Background(), "LATE-1")
	require.NoError(t, ferr)
	assert.Empty(t, later)
}

func TestReconcileDryRunPurity(t *testing.T) {
	store := newFakeStore()
	rec := reconcile.New(store, reconcile.WithDryRun(true), reconcile.WithNow(testClock))
	runner := reconcile.NewRunner(rec)

	report, err := runner.Run(context.Background(), []ticket.Ticket{
		testTicket(t, "TEST-5", "2024-03-01T00:00:00Z"),
	})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	require.Equal(t, 1, report.Len())
	assert.Equal(t, "TEST-5", report.Rows[0].Key)
	assert.Equal(t, string(reconcile.ActionCreate), report.Rows[0].Action)

	assert.Empty(t, store.tasks)
	assert.Zero(t, store.mutations, "dry run must not mutate the store")
}

func TestRunnerOrdersByCreatedAscending(t *testing.T) {
	store := newFakeStore()
	rec := reconcile.New(store, reconcile.WithNow(testClock))
	runner := reconcile.NewRunner(rec)

	report, err := runner.Run(context.Background(), []ticket.Ticket{
		testTicket(t, "NEW-1", "2024-03-09T00:00:00Z"),
		testTicket(t, "OLD-1", "2024-03-01T00:00:00Z"),
	})
	require.NoError(t, err)

	require.Equal(t, 2, report.Len())
	assert.Equal(t, "OLD-1", report.Rows[0].Key)
	assert.Equal(t, "NEW-1", report.Rows[1].Key)
}

func TestResolveClassification(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	match, err := reconcile.Resolve(ctx, store, "NONE-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.NotFound, match.Kind)
	assert.Nil(t, match.Task())

	seeded := store.seedTask("ONE-1", "<p>x</p>")
	match, err = reconcile.Resolve(ctx, store, "ONE-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.Found, match.Kind)
	assert.Equal(t, seeded.ID, match.Task().ID)

	store.seedTask("ONE-1", "<p>y</p>")
	match, err = reconcile.Resolve(ctx, store, "ONE-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.Ambiguous, match.Kind)
	assert.Len(t, match.Tasks, 2)
}

func TestResolveSkipsDoneTasks(t *testing.T) {
	store := newFakeStore()
	done := store.seedTask("DONE-1", "<p>x</p>")
	require.NoError(t, done.Attributes.Set(tasks.AttrDoneDate, "2024-01-01"))

	match, err := reconcile.Resolve(context.Background(), store, "DONE-1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.NotFound, match.Kind)
}
