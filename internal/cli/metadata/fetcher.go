package metadata

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Result — метаданные страницы, которыми обогащается добавляемая закладка.
type Result struct {
	Title       string
	Description string
	Favicon     string
	Thumbnail   string
}

// Fetcher — порт получения метаданных по URL. Может завершаться ошибкой или
// таймаутом; вызывающий код откатывается на введённый пользователем title.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*Result, error)
}

// HTTPFetcher — реализация поверх обычного GET страницы.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ограничиваем чтение страницы: для title/description хватает начала документа.
const maxHTMLLen = 256 * 1024

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	descRe  = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]+content=["']([^"']*)["']`)
	ogImgRe = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']*)["']`)
)

// Fetch загружает страницу и вытаскивает title, description и og:image.
// Favicon строится по умолчанию из корня хоста.
func (f *HTTPFetcher) Fetch(ctx context.Context, target string) (*Result, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid url: %q", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLLen))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Favicon: u.Scheme + "://" + u.Host + "/favicon.ico",
	}
	if m := titleRe.FindSubmatch(body); m != nil {
		res.Title = cleanText(string(m[1]))
	}
	if m := descRe.FindSubmatch(body); m != nil {
		res.Description = cleanText(string(m[1]))
	}
	if m := ogImgRe.FindSubmatch(body); m != nil {
		res.Thumbnail = strings.TrimSpace(string(m[1]))
	}
	return res, nil
}

func cleanText(s string) string {
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
