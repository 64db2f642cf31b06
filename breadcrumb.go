package aeo

import "strings"

// HomeCrumbName is the label of the first breadcrumb entry.
const HomeCrumbName = "Home"

// BuildBreadcrumb derives a navigation path from a page's topics.
//
// It returns nil when topics is empty. Otherwise the list always has three
// entries: Home (siteOrigin), the first topic (siteOrigin/<topic-slug>) and the
// page itself (pageURL). Topics after the first do not extend the path.
func BuildBreadcrumb(pageTitle string, topics []string, siteOrigin, pageURL string) *BreadcrumbList {
	if len(topics) == 0 {
		return nil
	}

	origin := strings.TrimRight(siteOrigin, "/")
	topic := strings.TrimSpace(topics[0])

	topicURL := origin
	if slug := Slugify(topic); slug != "" {
		topicURL = origin + "/" + slug
	}

	return &BreadcrumbList{
		Type: "BreadcrumbList",
		ItemListElement: []ListItem{
			{Type: "ListItem", Position: 1, Name: HomeCrumbName, Item: origin},
			{Type: "ListItem", Position: 2, Name: topic, Item: topicURL},
			{Type: "ListItem", Position: 3, Name: pageTitle, Item: pageURL},
		},
	}
}
