package collect

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/TobiSchelling/sportspage/internal/sports"
)

const maxSummaryLen = 280

// HeadlineSource reads one league's RSS/Atom news feed.
type HeadlineSource struct {
	URL         string
	MaxItems    int
	DaysBack    int
	LeadExcerpt bool

	parser    *gofeed.Parser
	extractor *ExcerptFetcher
}

// NewHeadlineSource creates a new HeadlineSource.
func NewHeadlineSource(feedURL string, maxItems, daysBack int, leadExcerpt bool) *HeadlineSource {
	if maxItems <= 0 {
		maxItems = 5
	}
	if daysBack <= 0 {
		daysBack = 2
	}
	hs := &HeadlineSource{
		URL:         feedURL,
		MaxItems:    maxItems,
		DaysBack:    daysBack,
		LeadExcerpt: leadExcerpt,
		parser:      gofeed.NewParser(),
	}
	if leadExcerpt {
		hs.extractor = NewExcerptFetcher(15 * time.Second)
	}
	return hs
}

// Fetch returns up to MaxItems headlines published within DaysBack.
func (hs *HeadlineSource) Fetch(ctx context.Context, now time.Time) ([]sports.Headline, error) {
	feed, err := hs.parser.ParseURLWithContext(hs.URL, ctx)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(feed.Title)
	cutoff := now.AddDate(0, 0, -hs.DaysBack)

	var headlines []sports.Headline
	for _, item := range feed.Items {
		if len(headlines) >= hs.MaxItems {
			break
		}
		h := parseItem(item, source)
		if h == nil {
			continue
		}
		if isWithinWindow(h.Published, cutoff) {
			headlines = append(headlines, *h)
		}
	}

	if hs.extractor != nil && len(headlines) > 0 {
		if excerpt, err := hs.extractor.Excerpt(ctx, headlines[0].URL); err != nil {
			log.Printf("Excerpt for %s: %v", headlines[0].URL, err)
		} else if excerpt != "" {
			headlines[0].Excerpt = excerpt
		}
	}

	return headlines, nil
}

// WithHeadlines decorates a league fetch with the feed's headlines. Feed
// failures are logged and never fail the league.
func WithHeadlines(fetch FetchFunc, hs *HeadlineSource) FetchFunc {
	return func(ctx context.Context, yesterday time.Time) (*sports.LeagueData, error) {
		data, err := fetch(ctx, yesterday)
		if err != nil || data == nil {
			return data, err
		}
		headlines, herr := hs.Fetch(ctx, time.Now())
		if herr != nil {
			log.Printf("Failed to parse feed %s: %v", hs.URL, herr)
			return data, nil
		}
		log.Printf("Parsed %d headlines from %s", len(headlines), hs.URL)
		data.Headlines = headlines
		return data, nil
	}
}

func parseItem(item *gofeed.Item, source string) *sports.Headline {
	itemURL := item.Link
	if itemURL == "" {
		itemURL = item.GUID
	}
	if itemURL == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	var published string
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.Format("2006-01-02")
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.Format("2006-01-02")
	}

	return &sports.Headline{
		Title:     title,
		URL:       itemURL,
		Source:    source,
		Published: published,
		Excerpt:   truncate(stripHTML(item.Description), maxSummaryLen),
	}
}

func isWithinWindow(publishedDate string, cutoff time.Time) bool {
	if publishedDate == "" {
		return true // benefit of the doubt
	}
	pub, err := time.Parse("2006-01-02", publishedDate)
	if err != nil {
		return true
	}
	return !pub.Before(cutoff.Truncate(24 * time.Hour))
}

// stripHTML returns the text content of an HTML fragment.
func stripHTML(text string) string {
	if !strings.Contains(text, "<") && !strings.Contains(text, "&") {
		return strings.Join(strings.Fields(text), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.Join(strings.Fields(text), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
