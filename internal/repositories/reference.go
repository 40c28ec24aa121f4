package repositories

import (
	"fmt"
)

// defaultCategories is the YouTube Data API's fixed video category list.
// Ids are assigned by the API, not by us.
var defaultCategories = map[int64]string{
	1:  "Film & Animation",
	2:  "Autos & Vehicles",
	10: "Music",
	15: "Pets & Animals",
	17: "Sports",
	19: "Travel & Events",
	20: "Gaming",
	22: "People & Blogs",
	23: "Comedy",
	24: "Entertainment",
	25: "News & Politics",
	26: "Howto & Style",
	27: "Education",
	28: "Science & Technology",
	29: "Nonprofits & Activism",
}

// defaultTopics maps the Wikipedia URLs the API returns in topicDetails to
// readable topic names.
var defaultTopics = map[string]string{
	"https://en.wikipedia.org/wiki/Music":               "Music",
	"https://en.wikipedia.org/wiki/Pop_music":           "Pop music",
	"https://en.wikipedia.org/wiki/Rock_music":          "Rock music",
	"https://en.wikipedia.org/wiki/Hip_hop_music":       "Hip hop music",
	"https://en.wikipedia.org/wiki/Electronic_music":    "Electronic music",
	"https://en.wikipedia.org/wiki/Video_game_culture":  "Video game culture",
	"https://en.wikipedia.org/wiki/Action_game":         "Action game",
	"https://en.wikipedia.org/wiki/Role-playing_video_game": "Role-playing video game",
	"https://en.wikipedia.org/wiki/Sport":               "Sport",
	"https://en.wikipedia.org/wiki/Association_football": "Association football",
	"https://en.wikipedia.org/wiki/Entertainment":       "Entertainment",
	"https://en.wikipedia.org/wiki/Film":                "Film",
	"https://en.wikipedia.org/wiki/Television_program":  "Television program",
	"https://en.wikipedia.org/wiki/Lifestyle_(sociology)": "Lifestyle",
	"https://en.wikipedia.org/wiki/Food":                "Food",
	"https://en.wikipedia.org/wiki/Technology":          "Technology",
	"https://en.wikipedia.org/wiki/Knowledge":           "Knowledge",
	"https://en.wikipedia.org/wiki/Society":             "Society",
}

// ReferenceRepository manages the category and topic reference tables that an
// enrichment run depends on.
type ReferenceRepository struct {
	q Querier
}

// NewReferenceRepository creates a ReferenceRepository over the given Querier.
func NewReferenceRepository(q Querier) *ReferenceRepository {
	return &ReferenceRepository{q: q}
}

// CountCategories returns the number of seeded video categories.
func (r *ReferenceRepository) CountCategories() (int, error) {
	var count int
	if err := r.q.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// CountTopics returns the number of seeded topics.
func (r *ReferenceRepository) CountTopics() (int, error) {
	var count int
	if err := r.q.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	return count, nil
}

// SeedCategories inserts the fixed category list, leaving existing rows
// untouched. Returns the number of rows inserted.
func (r *ReferenceRepository) SeedCategories() (int, error) {
	inserted := 0
	for id, name := range defaultCategories {
		result, err := r.q.Exec("INSERT OR IGNORE INTO categories (id, name) VALUES (?, ?)", id, name)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed category %d: %w", id, err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}
	return inserted, nil
}

// SeedTopics inserts the fixed topic list, leaving existing rows untouched.
// Returns the number of rows inserted.
func (r *ReferenceRepository) SeedTopics() (int, error) {
	inserted := 0
	for url, name := range defaultTopics {
		result, err := r.q.Exec("INSERT OR IGNORE INTO topics (name, wikipedia_url) VALUES (?, ?)", name, url)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed topic %s: %w", name, err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}
	return inserted, nil
}

// TopicIDsByURLs resolves Wikipedia topic URLs to local topic ids. URLs
// without a seeded topic are skipped silently; the API emits topics we do not
// track.
func (r *ReferenceRepository) TopicIDsByURLs(urls []string) ([]int64, error) {
	var ids []int64
	for _, url := range urls {
		var id int64
		err := r.q.QueryRow("SELECT id FROM topics WHERE wikipedia_url = ?", url).Scan(&id)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
