package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector - элементы, после которых в тексте нужен перенос строки
const blockSelector = "p, li, div, h1, h2, h3, h4, tr"

// plainDescription превращает HTML-описание (так отдают часть источников) в
// обычный текст: теги убираются, сущности раскрываются, пробелы схлопываются.
// Текст без разметки возвращается как есть.
func plainDescription(raw string) (string, error) {
	if !strings.ContainsAny(raw, "<&") {
		return raw, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", err
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelector).AppendHtml("\n")

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
