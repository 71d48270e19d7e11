package content

import "github.com/jonesrussell/north-cloud/newsdesk/internal/domain"

// ItemsFromCurated lists every selected article of a curated snapshot.
func ItemsFromCurated(curated *domain.CuratedSnapshot) []Item {
	selected := curated.All()
	items := make([]Item, 0, len(selected))
	for _, a := range selected {
		items = append(items, Item{Source: a.Source, Title: a.Title, URL: a.URL, Date: a.Date})
	}
	return items
}

// TopN lists the first n articles of every successful source in a crawl.
func TopN(results []domain.SourceResult, n int) []Item {
	var items []Item
	for i := range results {
		res := &results[i]
		if res.Failed() {
			continue
		}
		for j := 0; j < n && j < len(res.Articles); j++ {
			a := res.Articles[j]
			items = append(items, Item{Source: res.Source, Title: a.Title, URL: a.URL, Date: a.Date})
		}
	}
	return items
}
