package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"project-planner/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fixture struct {
	users    *UserRepository
	projects *ProjectRepository
	tasks    *TaskRepository
	alice    *model.User
	bob      *model.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := newTestDB(t)
	f := fixture{
		users:    NewUserRepository(db),
		projects: NewProjectRepository(db),
		tasks:    NewTaskRepository(db),
	}
	ctx := context.Background()
	var err error
	if f.alice, err = f.users.UpsertFromTelegram(ctx, 100, "Alice", "", "alice"); err != nil {
		t.Fatalf("upsert alice: %v", err)
	}
	if f.bob, err = f.users.UpsertFromTelegram(ctx, 200, "", "", "bob"); err != nil {
		t.Fatalf("upsert bob: %v", err)
	}
	return f
}

func (f fixture) project(t *testing.T, owner *model.User, title string) *model.Project {
	t.Helper()
	p := &model.Project{UserID: owner.ID, Title: title}
	if err := f.projects.Create(context.Background(), p); err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func (f fixture) task(t *testing.T, p *model.Project, title string, due *time.Time, done bool) *model.Task {
	t.Helper()
	task := &model.Task{ProjectID: p.ID, Title: title, DueDate: due, IsCompleted: done}
	if err := f.tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestUpsertFromTelegram(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.bob.Name != "bob" {
		t.Fatalf("Name = %q, want username fallback", f.bob.Name)
	}

	again, err := f.users.UpsertFromTelegram(ctx, 100, "Alice", "Liddell", "alice")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if again.ID != f.alice.ID {
		t.Fatalf("upsert created a new user: %d != %d", again.ID, f.alice.ID)
	}
	stored, err := f.users.FindByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("FindByTelegramID: %v", err)
	}
	if stored.Name != "Alice Liddell" {
		t.Fatalf("Name = %q, want %q", stored.Name, "Alice Liddell")
	}

	users, err := f.users.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListAll returned %d users, want 2", len(users))
	}
}

func TestProjectOwnershipScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, f.alice, "Website")

	if _, err := f.projects.FindOwned(ctx, p.ID, f.alice.ID); err != nil {
		t.Fatalf("owner FindOwned: %v", err)
	}
	if _, err := f.projects.FindOwned(ctx, p.ID, f.bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stranger FindOwned error = %v, want ErrRecordNotFound", err)
	}
	if _, err := f.projects.LoadOwnedProject(ctx, p.ID, f.bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stranger LoadOwnedProject error = %v, want ErrRecordNotFound", err)
	}
	if err := f.projects.Delete(ctx, p.ID, f.bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stranger Delete error = %v, want ErrRecordNotFound", err)
	}
}

func TestLoadOwnedProjectIncludesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, f.alice, "Website")
	due := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)
	f.task(t, p, "no due", nil, false)
	f.task(t, p, "done", &due, true)
	f.task(t, p, "due", &due, false)

	loaded, err := f.projects.LoadOwnedProject(ctx, p.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("LoadOwnedProject: %v", err)
	}
	var titles []string
	for _, task := range loaded.Tasks {
		titles = append(titles, task.Title)
	}
	if got, want := strings.Join(titles, ","), "due,no due,done"; got != want {
		t.Fatalf("tasks = %s, want %s", got, want)
	}
}

func TestListByUserCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, f.alice, "Website")
	f.project(t, f.bob, "Other")
	f.task(t, p, "one", nil, true)
	f.task(t, p, "two", nil, false)

	stats, err := f.projects.ListByUser(ctx, f.alice.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("ListByUser returned %d projects, want 1", len(stats))
	}
	if stats[0].TaskCount != 2 || stats[0].CompletedTaskCount != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", stats[0].TaskCount, stats[0].CompletedTaskCount)
	}
}

func TestProjectUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, f.alice, "Website")
	task := f.task(t, p, "one", nil, false)

	desc := "landing pages"
	p.Title = "Website v2"
	p.Description = &desc
	if err := f.projects.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, err := f.projects.FindOwned(ctx, p.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("FindOwned: %v", err)
	}
	if stored.Title != "Website v2" || stored.Description == nil || *stored.Description != desc {
		t.Fatalf("stored = %+v", stored)
	}

	if err := f.projects.Delete(ctx, p.ID, f.alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.projects.FindOwned(ctx, p.ID, f.alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("FindOwned after delete error = %v", err)
	}
	if _, err := f.tasks.FindOwned(ctx, task.ID, f.alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("task survived project delete: %v", err)
	}
}

func TestTaskOwnershipAndSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, f.alice, "Website")
	due := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)
	task := f.task(t, p, "one", &due, false)

	if _, err := f.tasks.FindOwned(ctx, task.ID, f.bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stranger FindOwned error = %v, want ErrRecordNotFound", err)
	}

	task.Title = "one, renamed"
	task.DueDate = nil
	task.IsCompleted = true
	if err := f.tasks.Save(ctx, task); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, err := f.tasks.FindOwned(ctx, task.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("FindOwned: %v", err)
	}
	if stored.Title != "one, renamed" || stored.DueDate != nil || !stored.IsCompleted {
		t.Fatalf("stored = %+v", stored)
	}

	if err := f.tasks.Delete(ctx, stored); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	tasks, err := f.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("ListByProject returned %d tasks after delete", len(tasks))
	}
}

func TestEnsureDirForSQLite(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	tests := []struct {
		name string
		dsn  string
		dir  string
	}{
		{name: "plain path", dsn: filepath.Join(root, "a", "planner.db"), dir: filepath.Join(root, "a")},
		{name: "file uri with params", dsn: "file:" + filepath.Join(root, "b", "planner.db") + "?_fk=1", dir: filepath.Join(root, "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ensureDirForSQLite(tt.dsn); err != nil {
				t.Fatalf("ensureDirForSQLite(%q): %v", tt.dsn, err)
			}
			info, err := os.Stat(tt.dir)
			if err != nil || !info.IsDir() {
				t.Fatalf("dir %q not created: %v", tt.dir, err)
			}
		})
	}

	for _, dsn := range []string{"file:x?mode=memory&cache=shared", ":memory:", "planner.db"} {
		if err := ensureDirForSQLite(dsn); err != nil {
			t.Fatalf("ensureDirForSQLite(%q): %v", dsn, err)
		}
	}
	if _, err := os.Stat("x"); err == nil {
		t.Fatal("in-memory dsn created a directory")
	}
}
