package trilium

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/notewell/curator/pkg/errors"
	"github.com/notewell/curator/pkg/logging"
	"github.com/notewell/curator/pkg/tasks"
)

// Queries anchoring the store in the note tree.
const (
	rootQuery     = "#taskTodoRoot"
	templateQuery = `#task note.title="task template"`

	taskTag          = "task"
	templateRelation = "template"
	textNoteType     = "text"
)

// findQueryFormat matches open managed tasks for one ticket key: tagged as a
// task, not marked done, and carrying the key.
const findQueryFormat = `#task #!doneDate #jiraKey="%s"`

// Store adapts the ETAPI client to the reconciler's store contract.
// Attribute and content writes are staged and committed by Flush; note and
// branch creation hit the server immediately because later operations need
// the generated ids.
type Store struct {
	client *Client

	root     Note
	template Note

	// attrIDs caches attribute ids per note so staged attribute writes
	// know whether to patch or create: noteID -> name -> attributeId.
	attrIDs map[string]map[string]string

	pending []operation
}

type operation func(ctx context.Context) error

// NewStore resolves the task root and the task template, failing fast when
// the tree is not provisioned for task tracking.
func NewStore(ctx context.Context, client *Client) (*Store, error) {
	root, err := client.SearchOne(ctx, rootQuery, SearchOpts{})
	if err != nil {
		return nil, fmt.Errorf("task root: %w", err)
	}
	template, err := client.SearchOne(ctx, templateQuery, SearchOpts{})
	if err != nil {
		return nil, fmt.Errorf("task template: %w", err)
	}

	return &Store{
		client:   client,
		root:     root,
		template: template,
		attrIDs:  make(map[string]map[string]string),
	}, nil
}

// FindTasks returns the open managed tasks carrying the ticket key, with
// their content loaded.
func (s *Store) FindTasks(ctx context.Context, key string) ([]*tasks.Task, error) {
	notes, err := s.client.SearchNotes(ctx, fmt.Sprintf(findQueryFormat, key), SearchOpts{
		AncestorID: s.root.NoteID,
	})
	if err != nil {
		return nil, err
	}

	found := make([]*tasks.Task, 0, len(notes))
	for _, note := range notes {
		task, err := s.toTask(ctx, note)
		if err != nil {
			return nil, err
		}
		found = append(found, task)
	}
	return found, nil
}

// CreateTask creates a task note under the root with its attributes, tags,
// and the template relation. Creation is immediate so the returned task has
// a stable id.
func (s *Store) CreateTask(ctx context.Context, spec tasks.Spec) (*tasks.Task, error) {
	note, err := s.client.CreateNote(ctx, CreateNoteParams{
		ParentNoteID: s.root.NoteID,
		Title:        spec.Title,
		Type:         textNoteType,
		Content:      spec.Content,
	})
	if err != nil {
		return nil, err
	}

	for _, name := range sortedNames(spec.Attributes) {
		if err := s.createAttribute(ctx, note.NoteID, "label", name, spec.Attributes[name]); err != nil {
			return nil, err
		}
	}
	if err := s.createAttribute(ctx, note.NoteID, "label", tasks.TagName, taskTag); err != nil {
		return nil, err
	}
	for _, tag := range spec.Tags {
		if err := s.createAttribute(ctx, note.NoteID, "label", tasks.TagName, tag); err != nil {
			return nil, err
		}
	}
	if err := s.createAttribute(ctx, note.NoteID, "relation", templateRelation, s.template.NoteID); err != nil {
		return nil, err
	}

	attrs, err := tasks.NewAttributes(spec.Attributes)
	if err != nil {
		return nil, err
	}
	return &tasks.Task{
		ID:         note.NoteID,
		Title:      spec.Title,
		Content:    spec.Content,
		Attributes: attrs,
		Tags:       append([]string{taskTag}, spec.Tags...),
	}, nil
}

// SetContent stages replacement content for a note.
func (s *Store) SetContent(_ context.Context, id, content string) error {
	s.pending = append(s.pending, func(ctx context.Context) error {
		return s.client.PutContent(ctx, id, content)
	})
	return nil
}

// SetAttribute stages a label write: a patch when the note already carries
// the attribute, a create otherwise.
func (s *Store) SetAttribute(_ context.Context, id, name, value string) error {
	if err := tasks.ValidateName(name); err != nil {
		return err
	}
	s.pending = append(s.pending, func(ctx context.Context) error {
		if attrID, ok := s.attrIDs[id][name]; ok {
			return s.client.PatchAttribute(ctx, attrID, value)
		}
		return s.createAttribute(ctx, id, "label", name, value)
	})
	return nil
}

// AttachToDay clones the task onto the calendar day note with a status
// prefix. The branch is created immediately, like task creation.
func (s *Store) AttachToDay(ctx context.Context, id string, day time.Time, status string) error {
	dayNote, err := s.client.DayNote(ctx, day)
	if err != nil {
		return err
	}
	return s.client.CreateBranch(ctx, id, dayNote.NoteID, status)
}

// Flush commits staged writes in order. On failure the executed prefix is
// dropped and the rest stays pending.
func (s *Store) Flush(ctx context.Context) error {
	log := logging.Ctx(ctx)
	for len(s.pending) > 0 {
		op := s.pending[0]
		s.pending = s.pending[1:]
		if err := op(ctx); err != nil {
			return err
		}
	}
	log.Debug().Msg("Staged writes committed")
	return nil
}

// Pending reports the number of staged writes, for tests and diagnostics.
func (s *Store) Pending() int {
	return len(s.pending)
}

// createAttribute creates an attribute and records its id in the cache so a
// later SetAttribute patches instead of duplicating. Repeatable tags are
// deliberately not cached.
func (s *Store) createAttribute(ctx context.Context, noteID, typ, name, value string) error {
	created, err := s.client.CreateAttribute(ctx, noteID, typ, name, value)
	if err != nil {
		return err
	}
	if typ == "label" && name != tasks.TagName {
		s.rememberAttr(noteID, name, created.AttributeID)
	}
	return nil
}

func (s *Store) rememberAttr(noteID, name, attrID string) {
	if s.attrIDs[noteID] == nil {
		s.attrIDs[noteID] = make(map[string]string)
	}
	s.attrIDs[noteID][name] = attrID
}

// toTask converts an ETAPI note to a task, loading its content and caching
// its attribute ids.
func (s *Store) toTask(ctx context.Context, note Note) (*tasks.Task, error) {
	content, err := s.client.NoteContent(ctx, note.NoteID)
	if err != nil {
		return nil, err
	}

	task := &tasks.Task{
		ID:      note.NoteID,
		Title:   note.Title,
		Content: content,
	}
	for _, attr := range note.Attributes {
		if attr.Type != "label" {
			continue
		}
		if attr.Name == tasks.TagName {
			task.Tags = append(task.Tags, attr.Value)
			continue
		}
		if err := task.Attributes.Set(attr.Name, attr.Value); err != nil {
			// Foreign attributes outside the naming rules are not ours
			// to manage; skip rather than fail the run.
			if errors.Is(err, errors.ErrInvalidInput) {
				continue
			}
			return nil, err
		}
		s.rememberAttr(note.NoteID, attr.Name, attr.AttributeID)
	}
	return task, nil
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
