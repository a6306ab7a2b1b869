// Package report renders ranked entities and headline listings as terminal
// tables and DOCX files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"newsintel/internal/discovery"
	"newsintel/internal/entity"
	"newsintel/internal/sector"
)

const separator = "--------------------------------------------------"

// DefaultPath returns a timestamped file name under dir, e.g.
// reports/entities_2026-10-16_09-30.docx.
func DefaultPath(dir, kind string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.docx", kind, now.Format("2006-01-02_15-04")))
}

// EntitiesDocx writes the ranked entity report for keyword to path.
func EntitiesDocx(path string, sc sector.Context, results []entity.RankedResult) error {
	f := docx.NewFile()

	run := f.AddParagraph().AddText("Entity Intelligence Report")
	run.Size(20)

	f.AddParagraph().AddText(fmt.Sprintf("Keyword: %s", sc.Original))
	f.AddParagraph().AddText(fmt.Sprintf("Sector: %s", sc.Sector))
	run = f.AddParagraph().AddText(fmt.Sprintf("Search query: %s", sc.OptimizedQuery))
	run.Size(10)
	run.Color("808080")
	if len(sc.ContextKeywords) > 0 {
		run = f.AddParagraph().AddText("Context keywords: " + strings.Join(sc.ContextKeywords, ", "))
		run.Size(10)
		run.Color("808080")
	}

	f.AddParagraph()
	f.AddParagraph().AddText(separator)
	f.AddParagraph()

	if len(results) == 0 {
		f.AddParagraph().AddText("No entities met the minimum mention threshold.")
	}
	for _, r := range results {
		run = f.AddParagraph().AddText(fmt.Sprintf("%d. %s", r.Rank, r.Name))
		run.Size(16)

		f.AddParagraph().AddText(fmt.Sprintf(
			"Type: %s | Mentions: %d | Score: %.1f | Share: %.1f%%",
			r.EntityType, r.Mentions, r.Score, r.Percentage,
		))

		run = f.AddParagraph().AddText(fmt.Sprintf(
			"Confidence: %.0f%% (%s) | Distinct contexts: %d",
			r.Confidence, confidenceLabel(r.Confidence), r.ContextDiversity,
		))
		run.Color("008000")

		f.AddParagraph()
	}

	return save(f, path)
}

// HeadlinesDocx writes a headline listing to path.
func HeadlinesDocx(path, title string, articles []discovery.Article) error {
	f := docx.NewFile()

	run := f.AddParagraph().AddText(title)
	run.Size(20)
	f.AddParagraph()

	for i, a := range articles {
		run = f.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, a.Title))
		run.Size(16)

		run = f.AddParagraph().AddText(fmt.Sprintf("Source: %s | Date: %s", a.Source, a.Published))
		run.Size(10)
		run.Color("808080")

		if a.Link != "" {
			run = f.AddParagraph().AddText(a.Link)
			run.Size(10)
			run.Color("0000FF")
		}

		if d := strings.TrimSpace(a.Description); d != "" {
			f.AddParagraph().AddText(d)
		}
		f.AddParagraph().AddText(separator)
	}

	return save(f, path)
}

func save(f *docx.File, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving report %s: %w", path, err)
	}
	return nil
}

func confidenceLabel(c float64) string {
	if c >= 90 {
		return "known brand"
	}
	return "pattern match"
}
