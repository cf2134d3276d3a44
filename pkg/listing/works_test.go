package listing

import (
	"github.com/oishi/portfolio/pkg/content"
	"github.com/onsi/gomega"
	"testing"
)

func order(value int) *int {
	return &value
}

func sampleWorks() []content.Work {
	web := content.Category{Id: "c1", Title: "Web", Slug: "web", Displaynum: order(2)}
	design := content.Category{Id: "c2", Title: "Design", Slug: "design", Displaynum: order(1)}
	misc := content.Category{Id: "c3", Title: "Misc", Slug: "misc"}
	return []content.Work{
		{Id: "w1", Category: []content.Category{web, misc}},
		{Id: "w2", Category: []content.Category{design}},
		{Id: "w3", Category: []content.Category{web}},
		{Id: "w4", Category: []content.Category{}},
	}
}

func workIds(works []content.Work) []string {
	ids := make([]string, 0, len(works))
	for _, work := range works {
		ids = append(ids, work.Id)
	}
	return ids
}

func TestExtractCategories(t *testing.T) {
	g := gomega.NewWithT(t)

	g.Expect(ExtractCategories(sampleWorks())).To(gomega.Equal([]string{"All", "Design", "Web", "Misc"}))
	g.Expect(ExtractCategories(nil)).To(gomega.Equal([]string{"All"}))
}

func TestFilterWorksByCategory(t *testing.T) {
	g := gomega.NewWithT(t)
	works := sampleWorks()

	g.Expect(FilterWorksByCategory(works, AllFilter)).To(gomega.Equal(works))
	g.Expect(workIds(FilterWorksByCategory(works, "Web"))).To(gomega.Equal([]string{"w1", "w3"}))
	g.Expect(FilterWorksByCategory(works, "web")).To(gomega.BeEmpty())
}

func TestImageArray(t *testing.T) {
	g := gomega.NewWithT(t)

	work := content.Work{
		Image:  &content.Image{Url: "cover"},
		Images: []content.Image{{Url: "one"}, {Url: "two"}},
	}
	g.Expect(ImageArray(work)).To(gomega.Equal([]content.Image{{Url: "cover"}, {Url: "one"}, {Url: "two"}}))
	g.Expect(ImageArray(content.Work{})).To(gomega.BeEmpty())
}
