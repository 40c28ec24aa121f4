package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/shared"
)

// seedTierFixtures inserts one video of each enrichment shape:
//
//	full  - fully enriched, matches no tier
//	high  - placeholder title and placeholder channel
//	med   - placeholder title, known channel
//	low   - real title, missing duration
//	gone  - placeholder marked deleted
func seedTierFixtures(t *testing.T, db *sql.DB) {
	t.Helper()

	repo := NewVideoRepository(db)

	full := models.NewVideo("full", "A Finished Video", "UCreal")
	full.SetDescription("complete")
	full.SetDuration(300)
	full.SetViewCount(12345)
	if err := repo.Create(full); err != nil {
		t.Fatalf("failed to create full: %v", err)
	}

	if err := repo.Create(models.NewPlaceholderVideo("high")); err != nil {
		t.Fatalf("failed to create high: %v", err)
	}

	if err := repo.Create(models.NewVideo("med", models.PlaceholderTitle("med"), "UCreal")); err != nil {
		t.Fatalf("failed to create med: %v", err)
	}

	if err := repo.Create(models.NewVideo("low", "Real Title", "UCreal")); err != nil {
		t.Fatalf("failed to create low: %v", err)
	}

	if err := repo.Create(models.NewPlaceholderVideo("gone")); err != nil {
		t.Fatalf("failed to create gone: %v", err)
	}
	if err := repo.MarkDeleted("gone"); err != nil {
		t.Fatalf("failed to mark gone deleted: %v", err)
	}
}

func videoIDs(videos []*models.Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID()
	}
	return ids
}

func TestListByTier(t *testing.T) {
	tests := []struct {
		name           string
		priority       models.Priority
		includeDeleted bool
		want           []string
	}{
		{"high selects double placeholders", models.PriorityHigh, false, []string{"high"}},
		{"medium selects placeholder titles", models.PriorityMedium, false, []string{"high", "med"}},
		{"low adds partially enriched", models.PriorityLow, false, []string{"high", "low", "med"}},
		{"all without deleted equals low", models.PriorityAll, false, []string{"high", "low", "med"}},
		{"all with deleted pulls them in", models.PriorityAll, true, []string{"gone", "high", "low", "med"}},
		{"high with deleted includes deleted placeholders", models.PriorityHigh, true, []string{"gone", "high"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			seedTierFixtures(t, db)

			videos, err := NewVideoRepository(db).ListByTier(tt.priority, 0, tt.includeDeleted)
			if err != nil {
				t.Fatalf("failed to list tier: %v", err)
			}

			got := videoIDs(videos)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}

	t.Run("limit truncates without changing eligibility", func(t *testing.T) {
		db := setupTestDB(t)
		seedTierFixtures(t, db)

		videos, err := NewVideoRepository(db).ListByTier(models.PriorityLow, 2, false)
		if err != nil {
			t.Fatalf("failed to list tier: %v", err)
		}
		got := videoIDs(videos)
		if len(got) != 2 || got[0] != "high" || got[1] != "low" {
			t.Errorf("expected first two by video_id, got %v", got)
		}
	})
}

func TestCountByTier(t *testing.T) {
	db := setupTestDB(t)
	seedTierFixtures(t, db)
	repo := NewVideoRepository(db)

	counts := map[models.Priority]int{
		models.PriorityHigh:   1,
		models.PriorityMedium: 2,
		models.PriorityLow:    3,
	}
	for priority, want := range counts {
		got, err := repo.CountByTier(priority, false)
		if err != nil {
			t.Fatalf("failed to count %s: %v", priority, err)
		}
		if got != want {
			t.Errorf("tier %s: expected %d, got %d", priority, want, got)
		}
	}

	deleted, err := repo.CountDeleted()
	if err != nil {
		t.Fatalf("failed to count deleted: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	all, err := repo.CountAll()
	if err != nil {
		t.Fatalf("failed to count all: %v", err)
	}
	if all != 5 {
		t.Errorf("expected 5 total, got %d", all)
	}
}

func TestVideoRepository(t *testing.T) {
	t.Run("create writes deleted false", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)

		if err := repo.Create(models.NewPlaceholderVideo("v1")); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		got, err := repo.GetByVideoID("v1")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if got.Deleted() {
			t.Error("fresh videos must not be deleted")
		}
		if got.Title() != models.PlaceholderTitle("v1") || got.ChannelID() != models.UnknownChannelID {
			t.Errorf("placeholder shape lost: %q / %q", got.Title(), got.ChannelID())
		}
	})

	t.Run("update preserves the deleted flag", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)

		if err := repo.Create(models.NewPlaceholderVideo("v1")); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}
		if err := repo.MarkDeleted("v1"); err != nil {
			t.Fatalf("failed to mark deleted: %v", err)
		}

		// Enrich the fields of a soft-deleted record. The flag must survive.
		video, err := repo.GetByVideoID("v1")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		video.SetTitle("Recovered Title")
		video.SetDuration(99)
		if err := repo.Update(video); err != nil {
			t.Fatalf("failed to update video: %v", err)
		}

		got, err := repo.GetByVideoID("v1")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if !got.Deleted() {
			t.Error("update must never clear the deleted flag")
		}
		if got.Title() != "Recovered Title" {
			t.Errorf("expected refreshed title, got %q", got.Title())
		}
	})

	t.Run("update of missing video fails", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)

		ghost := models.NewPlaceholderVideo("ghost")
		if err := repo.Update(ghost); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("mark deleted of missing video fails", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)

		if err := repo.MarkDeleted("ghost"); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("tags round trip", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)

		video := models.NewVideo("v1", "Tagged Video", "UCreal")
		video.SetTags([]string{"music", "live", "2024"})
		if err := repo.Create(video); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		got, err := repo.GetByVideoID("v1")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if len(got.Tags()) != 3 || got.Tags()[0] != "music" {
			t.Errorf("tags round trip failed: %v", got.Tags())
		}
	})

	t.Run("replace topics rewrites associations", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)
		refs := NewReferenceRepository(db)

		if _, err := refs.SeedTopics(); err != nil {
			t.Fatalf("failed to seed topics: %v", err)
		}
		if err := repo.Create(models.NewPlaceholderVideo("v1")); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		first, err := refs.TopicIDsByURLs([]string{"https://en.wikipedia.org/wiki/Music"})
		if err != nil || len(first) != 1 {
			t.Fatalf("failed to resolve first topic: %v", err)
		}
		if err := repo.ReplaceTopics("v1", first); err != nil {
			t.Fatalf("failed to set topics: %v", err)
		}

		second, err := refs.TopicIDsByURLs([]string{
			"https://en.wikipedia.org/wiki/Sport",
			"https://en.wikipedia.org/wiki/Film",
		})
		if err != nil || len(second) != 2 {
			t.Fatalf("failed to resolve second topics: %v", err)
		}
		if err := repo.ReplaceTopics("v1", second); err != nil {
			t.Fatalf("failed to replace topics: %v", err)
		}

		got, err := repo.TopicIDs("v1")
		if err != nil {
			t.Fatalf("failed to read topics: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 associations after replace, got %d", len(got))
		}
		for _, id := range got {
			if id == first[0] {
				t.Error("replaced topic should be gone")
			}
		}
	})

	t.Run("list filters by criteria", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewVideoRepository(db)

		if err := repo.Create(models.NewVideo("a", "Video A", "UCone")); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if err := repo.Create(models.NewVideo("b", "Video B", "UCtwo")); err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		videos, err := repo.List(map[string]any{"channel_id": "UCone"})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(videos) != 1 || videos[0].VideoID() != "a" {
			t.Errorf("expected only channel UCone videos, got %v", videoIDs(videos))
		}
	})
}
