package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/jobboard/internal/domain"
)

func TestJobRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "poster")

	job := &domain.Job{
		OwnerID:  owner.ID,
		Category: "design",
		Title:    "Logo",
		Content:  "Need a logo",
		Type:     domain.JobTypePart,
		Tags:     []string{"svg", "branding"},
	}
	if err := db.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := db.Jobs().GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Owner == nil || got.Owner.Name != "poster" {
		t.Fatalf("expected owner summary, got %+v", got.Owner)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "branding" {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
	if got.EditedAt != nil {
		t.Fatal("new job must not be marked edited")
	}
}

func TestJobRepository_OwnershipScopedWrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")

	job := &domain.Job{OwnerID: owner.ID, Category: "dev", Title: "a", Content: "b", Type: domain.JobTypeFull}
	if err := db.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := db.Jobs().GetOwned(ctx, job.ID, stranger.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign job, got %v", err)
	}

	job.Title = "changed"
	if err := db.Jobs().Update(ctx, job, stranger.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign update, got %v", err)
	}
	if err := db.Jobs().Delete(ctx, job.ID, stranger.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign delete, got %v", err)
	}

	// ownerID 0 is the unrestricted admin path.
	if err := db.Jobs().Update(ctx, job, 0); err != nil {
		t.Fatalf("admin Update: %v", err)
	}
	got, _ := db.Jobs().GetByID(ctx, job.ID)
	if got.Title != "changed" || got.EditedAt == nil {
		t.Fatalf("expected edited job, got %+v", got)
	}
}

func TestJobRepository_Delete_CascadesComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	commenter := seedUser(t, db, "commenter")

	job := &domain.Job{OwnerID: owner.ID, Category: "dev", Title: "a", Content: "b", Type: domain.JobTypeFull}
	if err := db.Jobs().Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := &domain.Comment{JobID: job.ID, OwnerID: commenter.ID, Content: "hello"}
	if err := db.Comments().Create(ctx, c); err != nil {
		t.Fatalf("Create comment: %v", err)
	}

	if err := db.Jobs().Delete(ctx, job.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	n, err := db.Comments().CountByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("CountByJob: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected comments removed with job, got %d", n)
	}
}

func TestJobRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	jobs := []*domain.Job{
		{OwnerID: owner.ID, Category: "dev", Title: "1", Content: "x", Type: domain.JobTypeFull, Tags: []string{"go"}},
		{OwnerID: owner.ID, Category: "dev", Title: "2", Content: "x", Type: domain.JobTypePart, Tags: []string{"rust"}},
		{OwnerID: owner.ID, Category: "ops", Title: "3", Content: "x", Type: domain.JobTypeFull, Tags: []string{"go", "k8s"}},
	}
	for _, j := range jobs {
		if err := db.Jobs().Create(ctx, j); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter domain.JobFilter
		want   []string
	}{
		{"all newest first", domain.JobFilter{}, []string{"3", "2", "1"}},
		{"oldest first", domain.JobFilter{OldestFirst: true}, []string{"1", "2", "3"}},
		{"category", domain.JobFilter{Category: "dev"}, []string{"2", "1"}},
		{"tag", domain.JobFilter{Tag: "go"}, []string{"3", "1"}},
		{"type and tag", domain.JobFilter{Type: domain.JobTypeFull, Tag: "k8s"}, []string{"3"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := db.Jobs().List(ctx, tc.filter, domain.Page{Number: 1, Size: 10})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d jobs, got %d", len(tc.want), len(got))
			}
			for i, j := range got {
				if j.Title != tc.want[i] {
					t.Fatalf("position %d: expected %q, got %q", i, tc.want[i], j.Title)
				}
			}
			n, err := db.Jobs().Count(ctx, tc.filter)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if n != len(tc.want) {
				t.Fatalf("expected count %d, got %d", len(tc.want), n)
			}
		})
	}
}
