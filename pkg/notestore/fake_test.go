package notestore

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/yukikurage/note-api/pkg/client"
)

// fakeAPI is an in-memory stand-in for the REST client.
type fakeAPI struct {
	mu      sync.Mutex
	todos   map[string]*client.Todo
	labels  map[string]*client.Label
	nextID  int
	updates []client.UpdateTodoRequest

	listHook        func(call int) []client.Todo
	listCalls       int
	deleteLabelHook func()
	unauthorized    bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{todos: map[string]*client.Todo{}, labels: map[string]*client.Label{}}
}

func (f *fakeAPI) id() string {
	f.nextID++
	return fmt.Sprintf("%024x", f.nextID)
}

func (f *fakeAPI) addLabel(name string) client.Label {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &client.Label{ID: f.id(), Name: name}
	f.labels[l.ID] = l
	return *l
}

func (f *fakeAPI) addTodo(todo client.Todo) client.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	todo.ID = f.id()
	if todo.Status == "" {
		todo.Status = client.StatusOpen
	}
	f.todos[todo.ID] = &todo
	return todo
}

func (f *fakeAPI) ListTodos(_ context.Context, _ client.ListOptions) ([]client.Todo, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	hook := f.listHook
	f.mu.Unlock()

	if hook != nil {
		if todos := hook(call); todos != nil {
			return todos, nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unauthorized {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Token missing"}
	}
	out := make([]client.Todo, 0, len(f.todos))
	for _, t := range f.todos {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeAPI) CreateTodo(_ context.Context, req client.CreateTodoRequest) (*client.CreatedTodo, error) {
	todo := f.addTodo(client.Todo{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		IsPinned:    req.IsPinned,
		IsArchived:  req.IsArchived,
	})
	return &client.CreatedTodo{ID: todo.ID, Status: todo.Status}, nil
}

func (f *fakeAPI) UpdateTodo(_ context.Context, id string, req client.UpdateTodoRequest) (*client.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, req)
	todo, ok := f.todos[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "todo not found"}
	}
	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Status != nil {
		todo.Status = *req.Status
	}
	if req.IsPinned != nil {
		todo.IsPinned = *req.IsPinned
	}
	if req.IsArchived != nil {
		todo.IsArchived = *req.IsArchived
	}
	if req.Labels != nil {
		todo.Labels = nil
		for _, labelID := range *req.Labels {
			l, ok := f.labels[labelID]
			if !ok {
				return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "label not found"}
			}
			todo.Labels = append(todo.Labels, client.LabelRef{ID: l.ID, Name: l.Name})
		}
	}
	return todo, nil
}

func (f *fakeAPI) DeleteTodo(_ context.Context, id, action string) (*client.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	todo, ok := f.todos[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "todo not found"}
	}
	if todo.Status == client.StatusBin {
		if action == client.ActionRestore {
			todo.Status = client.StatusOpen
			return &client.DeleteResult{Message: "todo restored from bin", ID: id, Status: todo.Status}, nil
		}
		delete(f.todos, id)
		return &client.DeleteResult{Message: "todo permanently deleted"}, nil
	}
	if action != client.ActionBin {
		return nil, &client.APIError{StatusCode: http.StatusConflict, Code: "INVALID_OPERATION"}
	}
	todo.Status = client.StatusBin
	return &client.DeleteResult{Message: "todo moved to bin", ID: id, Status: todo.Status}, nil
}

func (f *fakeAPI) ListLabels(_ context.Context) ([]client.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]client.Label, 0, len(f.labels))
	for _, l := range f.labels {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAPI) CreateLabel(_ context.Context, name string) (*client.Label, error) {
	for _, l := range f.snapshotLabels() {
		if l.Name == name {
			return nil, &client.APIError{StatusCode: http.StatusConflict, Code: "CONFLICT"}
		}
	}
	l := f.addLabel(name)
	return &l, nil
}

func (f *fakeAPI) UpdateLabel(_ context.Context, id, name string) (*client.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.labels[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound}
	}
	l.Name = name
	for _, t := range f.todos {
		for i := range t.Labels {
			if t.Labels[i].ID == id {
				t.Labels[i].Name = name
			}
		}
	}
	return l, nil
}

func (f *fakeAPI) DeleteLabel(_ context.Context, id string, _ bool) (*client.Label, error) {
	if f.deleteLabelHook != nil {
		f.deleteLabelHook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.labels[id]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound}
	}
	delete(f.labels, id)
	for _, t := range f.todos {
		kept := t.Labels[:0]
		for _, ref := range t.Labels {
			if ref.ID != id {
				kept = append(kept, ref)
			}
		}
		t.Labels = kept
	}
	l.IsDeleted = true
	return l, nil
}

func (f *fakeAPI) snapshotLabels() []client.Label {
	labels, _ := f.ListLabels(context.Background())
	return labels
}
