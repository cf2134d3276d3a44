package listing

import (
	"github.com/oishi/portfolio/pkg/content"
	"sort"
)

// Categories without a display order go after every ordered one.
const missingDisplaynum = 999

// ExtractCategories lists distinct category titles by display order behind the All entry.
// Categories are deduplicated by id; the last occurrence wins.
func ExtractCategories(works []content.Work) []string {
	byId := make(map[string]content.Category)
	order := make([]string, 0)
	for _, work := range works {
		for _, category := range work.Category {
			if _, found := byId[category.Id]; !found {
				order = append(order, category.Id)
			}
			byId[category.Id] = category
		}
	}

	categories := make([]content.Category, 0, len(order))
	for _, id := range order {
		categories = append(categories, byId[id])
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return displayOrder(categories[i]) < displayOrder(categories[j])
	})

	titles := make([]string, 0, len(categories)+1)
	titles = append(titles, AllFilter)
	for _, category := range categories {
		titles = append(titles, category.Title)
	}
	return titles
}

func displayOrder(category content.Category) int {
	if category.Displaynum == nil {
		return missingDisplaynum
	}
	return *category.Displaynum
}

func FilterWorksByCategory(works []content.Work, category string) []content.Work {
	if category == AllFilter {
		return works
	}
	filtered := make([]content.Work, 0)
	for _, work := range works {
		for _, candidate := range work.Category {
			if candidate.Title == category {
				filtered = append(filtered, work)
				break
			}
		}
	}
	return filtered
}

// ImageArray puts the cover first, then the additional images.
func ImageArray(work content.Work) []content.Image {
	images := make([]content.Image, 0, len(work.Images)+1)
	if work.Image != nil && work.Image.Url != "" {
		images = append(images, *work.Image)
	}
	return append(images, work.Images...)
}
