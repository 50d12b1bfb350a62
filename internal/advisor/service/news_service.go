package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/repository"
	"stock-advisor/internal/entity"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// maxHarvestAge drops feed items older than this at harvest time.
const maxHarvestAge = 7 * 24 * time.Hour

// browserUserAgent is sent on outbound fetches; several news sites refuse
// requests without a browser-like user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// NewsService harvests market headlines from RSS feeds and serves the latest
// ones to the API and the analysis prompt.
type NewsService interface {
	Harvest(ctx context.Context) (int, error)
	LatestHeadlines(ctx context.Context, limit int) ([]entity.MarketNews, error)
}

type newsService struct {
	cfg      *config.Config
	log      *logger.Logger
	client   *http.Client
	newsRepo repository.NewsRepository
}

// NewNewsService creates a new NewsService.
func NewNewsService(cfg *config.Config, log *logger.Logger, newsRepo repository.NewsRepository) NewsService {
	timeout := cfg.News.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &newsService{
		cfg:      cfg,
		log:      log,
		client:   &http.Client{Timeout: timeout},
		newsRepo: newsRepo,
	}
}

// Harvest pulls every configured feed, stores headlines that are new, and
// returns how many were stored. One broken feed never stops the others.
func (s *newsService) Harvest(ctx context.Context) (int, error) {
	feeds := s.cfg.News.Feeds
	if len(feeds) == 0 {
		return 0, nil
	}

	maxConcurrent := s.cfg.News.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		stored    int
		failed    int
		semaphore = make(chan struct{}, maxConcurrent)
	)

	for _, feedURL := range feeds {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		wg.Add(1)
		feedURL := feedURL
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			count, err := s.harvestFeed(ctx, feedURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.log.Error("Failed to harvest feed", logger.StringField("feed", feedURL), logger.ErrorField(err))
				return
			}
			stored += count
		})
	}

	wg.Wait()

	if failed == len(feeds) {
		return stored, fmt.Errorf("all %d feeds failed", failed)
	}
	return stored, nil
}

// LatestHeadlines returns the freshest stored headlines.
func (s *newsService) LatestHeadlines(ctx context.Context, limit int) ([]entity.MarketNews, error) {
	return s.newsRepo.GetLatest(ctx, limit, maxHarvestAge)
}

func (s *newsService) harvestFeed(ctx context.Context, feedURL string) (int, error) {
	parser := gofeed.NewParser()
	parser.UserAgent = browserUserAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	stored := 0
	for _, item := range feed.Items {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		news, ok := s.buildNewsItem(item)
		if !ok {
			continue
		}

		if s.cfg.News.FetchContent {
			content, err := s.fetchArticleText(ctx, news.Link)
			if err != nil {
				s.log.Warn("Failed to fetch article content",
					logger.StringField("link", news.Link),
					logger.ErrorField(err),
				)
			} else {
				news.RawContent = content
			}
		}

		if err := s.newsRepo.Create(ctx, news); err != nil {
			s.log.Error("Failed to store headline", logger.StringField("link", news.Link), logger.ErrorField(err))
			continue
		}
		stored++
	}

	return stored, nil
}

// buildNewsItem maps one feed entry onto the entity, dropping entries that
// are undated, stale, or from a blacklisted domain.
func (s *newsService) buildNewsItem(item *gofeed.Item) (*entity.MarketNews, bool) {
	if item.PublishedParsed == nil {
		return nil, false
	}
	if time.Since(*item.PublishedParsed) > maxHarvestAge {
		return nil, false
	}

	parsedURL, err := url.Parse(item.Link)
	if err != nil {
		s.log.Warn("Skipping headline with unparsable link", logger.StringField("link", item.Link))
		return nil, false
	}
	if utils.ContainsString(s.cfg.News.BlacklistedDomains, parsedURL.Hostname()) {
		s.log.Debug("Skipping headline from blacklisted domain", logger.StringField("domain", parsedURL.Hostname()))
		return nil, false
	}

	hashIdentifier := md5.Sum([]byte(item.Link + "|" + item.Published))

	return &entity.MarketNews{
		Title:          utils.CleanToValidUTF8(item.Title),
		Link:           item.Link,
		Source:         parsedURL.Hostname(),
		PublishedAt:    item.PublishedParsed,
		Summary:        utils.TruncateString(utils.CleanToValidUTF8(item.Description), 500),
		HashIdentifier: hex.EncodeToString(hashIdentifier[:]),
	}, true
}

// fetchArticleText downloads the article and extracts readable text.
func (s *newsService) fetchArticleText(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for article: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	content := strings.TrimSpace(docHTML.Text())
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")
	content = strings.ReplaceAll(content, "\r", " ")
	return utils.CleanToValidUTF8(content), nil
}
