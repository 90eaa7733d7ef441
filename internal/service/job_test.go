package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/service"
)

func validJob() service.JobInput {
	return service.JobInput{
		Title:    "Senior Go engineer for payments platform",
		Content:  strings.Repeat("We are building a ledger service. ", 4),
		Category: "engineering",
		Type:     "full",
		Tags:     []string{"go", " sql ", "go", ""},
	}
}

func newTestJobService(t *testing.T) (*service.JobService, *service.AuthService, *domain.User) {
	t.Helper()
	auth, db := newTestAuthService(t)
	owner := signup(t, auth, "owner@example.com", "")
	return service.NewJobService(db.Jobs(), db.Comments()), auth, owner
}

func TestJobService_Create(t *testing.T) {
	jobs, _, owner := newTestJobService(t)
	ctx := context.Background()

	job, err := jobs.Create(ctx, owner.ID, validJob())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected job ID")
	}

	got, err := jobs.GetOwn(ctx, owner.ID, job.ID)
	if err != nil {
		t.Fatalf("GetOwn: %v", err)
	}
	if strings.Join(got.Tags, ",") != "go,sql" {
		t.Fatalf("expected cleaned tags go,sql, got %v", got.Tags)
	}
}

func TestJobService_Create_Validation(t *testing.T) {
	jobs, _, owner := newTestJobService(t)

	tests := []struct {
		name   string
		mutate func(*service.JobInput)
		field  string
	}{
		{"missing category", func(in *service.JobInput) { in.Category = "" }, "content"},
		{"bad type", func(in *service.JobInput) { in.Type = "contract" }, "content"},
		{"short title", func(in *service.JobInput) { in.Title = "Go dev" }, "title"},
		{"short content", func(in *service.JobInput) { in.Content = "Too short." }, "content"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validJob()
			tc.mutate(&in)
			_, err := jobs.Create(context.Background(), owner.ID, in)
			requireField(t, err, tc.field)
		})
	}
}

func TestJobService_EditAndDelete_OwnerOnly(t *testing.T) {
	jobs, auth, owner := newTestJobService(t)
	ctx := context.Background()
	other := signup(t, auth, "other@example.com", "")

	job, err := jobs.Create(ctx, owner.ID, validJob())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	edit := validJob()
	edit.Tags = nil
	requireField(t, jobs.Edit(ctx, owner.ID, job.ID, edit), "content")

	edit.Tags = []string{}
	edit.Type = "part"
	if err := jobs.Edit(ctx, other.ID, job.ID, edit); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("edit by non-owner: expected ErrNotFound, got %v", err)
	}
	if err := jobs.Edit(ctx, owner.ID, job.ID, edit); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	got, err := jobs.View(ctx, job.ID)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got.Type != domain.JobTypePart || len(got.Tags) != 0 || got.EditedAt == nil {
		t.Fatalf("unexpected job after edit: %+v", got)
	}
	if got.Owner == nil || got.Owner.ID != owner.ID {
		t.Fatalf("expected owner summary, got %+v", got.Owner)
	}

	if _, err := jobs.GetOwn(ctx, other.ID, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetOwn by non-owner: expected ErrNotFound, got %v", err)
	}
	if err := jobs.Delete(ctx, other.ID, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete by non-owner: expected ErrNotFound, got %v", err)
	}
	if err := jobs.Delete(ctx, owner.ID, job.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	own, err := jobs.ListOwn(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListOwn: %v", err)
	}
	if len(own) != 0 {
		t.Fatalf("expected no jobs, got %d", len(own))
	}
}

func TestJobService_List_Pagination(t *testing.T) {
	jobs, _, owner := newTestJobService(t)
	ctx := context.Background()

	for i := range 7 {
		in := validJob()
		if i%2 == 0 {
			in.Category = "design"
		}
		if _, err := jobs.Create(ctx, owner.ID, in); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page, err := jobs.List(ctx, domain.JobFilter{}, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalPages != 2 || page.CurrentPage != 2 || len(page.Items) != 2 {
		t.Fatalf("expected page 2 of 2 with 2 items, got %d/%d with %d", page.CurrentPage, page.TotalPages, len(page.Items))
	}

	filtered, err := jobs.List(ctx, domain.JobFilter{Category: "design"}, 0)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if filtered.CurrentPage != 1 || filtered.TotalPages != 1 || len(filtered.Items) != 4 {
		t.Fatalf("expected 4 design jobs on one page, got %d items, %d pages", len(filtered.Items), filtered.TotalPages)
	}
}

func TestJobService_CommentsAndReactions(t *testing.T) {
	jobs, auth, owner := newTestJobService(t)
	ctx := context.Background()
	fan := signup(t, auth, "fan@example.com", "")

	job, err := jobs.Create(ctx, owner.ID, validJob())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := jobs.AddComment(ctx, fan.ID, job.ID+100, "hello"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("comment on missing job: expected ErrNotFound, got %v", err)
	}
	_, err = jobs.AddComment(ctx, fan.ID, job.ID, "   ")
	requireField(t, err, "content")

	var last *domain.Comment
	for i := range 4 {
		last, err = jobs.AddComment(ctx, fan.ID, job.ID, "comment "+string(rune('a'+i)))
		if err != nil {
			t.Fatalf("AddComment %d: %v", i, err)
		}
	}
	if last.Owner == nil || last.Owner.Name != fan.Name {
		t.Fatalf("expected owner summary on created comment, got %+v", last.Owner)
	}

	if err := jobs.React(ctx, owner.ID, job.ID, last.ID, "like"); err != nil {
		t.Fatalf("React like: %v", err)
	}
	if err := jobs.React(ctx, fan.ID, job.ID, last.ID, "dislike"); err != nil {
		t.Fatalf("React dislike: %v", err)
	}
	requireField(t, jobs.React(ctx, fan.ID, job.ID, last.ID, "love"), "content")

	page, err := jobs.Comments(ctx, job.ID, 1)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if page.TotalPages != 2 || len(page.Items) != 3 {
		t.Fatalf("expected 3 comments of 2 pages, got %d of %d", len(page.Items), page.TotalPages)
	}
	newest := page.Items[0]
	if newest.ID != last.ID {
		t.Fatalf("expected newest comment first, got %d", newest.ID)
	}
	if len(newest.Likes) != 1 || newest.Likes[0].Name != owner.Name {
		t.Fatalf("expected like by owner, got %+v", newest.Likes)
	}
	if len(newest.Dislikes) != 1 || newest.Dislikes[0].ID != fan.ID {
		t.Fatalf("expected dislike by fan, got %+v", newest.Dislikes)
	}

	// A second like from the same user removes it.
	if err := jobs.React(ctx, owner.ID, job.ID, last.ID, "like"); err != nil {
		t.Fatalf("React toggle: %v", err)
	}
	page, _ = jobs.Comments(ctx, job.ID, 1)
	if len(page.Items[0].Likes) != 0 {
		t.Fatalf("expected like removed, got %+v", page.Items[0].Likes)
	}
}
