// Package contentdex embeds the federated content search engine in a Go program.
//
// A Client searches every content category (articles, videos, collections,
// questions, writings, glossary terms) of one content store concurrently and
// returns a single relevance-ranked page.
//
//	client, _ := contentdex.New(ctx, contentdex.WithCMS("https://cms.example.com", token))
//	defer client.Close()
//
//	page, _ := client.Search(ctx, "maimonides",
//	    contentdex.WithCategoryTypes("article", "video"),
//	    contentdex.WithCategory("philosophy"),
//	)
//	for _, r := range page.Results {
//	    fmt.Println(r.Score, r.Title, r.URL)
//	}
//
// A category whose store query fails does not fail the search: its tag is
// listed in Page.FailedCategories and the remaining categories are returned.
package contentdex
