package catalog

import (
	"testing"
	"time"

	"docchat/internal/document"
	"docchat/internal/pipeline"
)

func testResult(title string, pages, chunks int) *pipeline.Result {
	doc := &document.Document{Title: title, Source: title + ".pdf"}
	for i := 1; i <= pages; i++ {
		doc.Pages = append(doc.Pages, document.Page{Number: i})
	}
	return &pipeline.Result{
		Doc:           doc,
		ChunksIndexed: chunks,
		Duration:      1500 * time.Millisecond,
	}
}

func TestSaveAndGet(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer c.Close()

	res := testResult("Annual Report", 12, 40)
	res.OCRPages = 2
	res.Warnings = []pipeline.Warning{{Page: 5, Stage: "extract", Message: "stream corrupted"}}

	if err := c.Save("doc1", res); err != nil {
		t.Fatalf("Save: %v", err)
	}

	e, err := c.Get("doc1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Title != "Annual Report" || e.Pages != 12 || e.Chunks != 40 || e.OCRPages != 2 {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Warnings) != 1 || e.Warnings[0] != "page 5 [extract]: stream corrupted" {
		t.Errorf("warnings = %v", e.Warnings)
	}
	if e.Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v", e.Duration)
	}
}

func TestGet_Missing(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Get("ghost"); err == nil {
		t.Fatal("Get of uncataloged document should fail")
	}
}

func TestSave_ReingestReplacesRow(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Save("doc1", testResult("v1", 3, 10)); err != nil {
		t.Fatal(err)
	}
	if err := c.Save("doc1", testResult("v2", 5, 22)); err != nil {
		t.Fatal(err)
	}

	entries, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Title != "v2" || entries[0].Chunks != 22 {
		t.Errorf("entry = %+v, want v2", entries[0])
	}
}

func TestDelete(t *testing.T) {
	c, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Save("doc1", testResult("Doc", 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete("doc1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get("doc1"); err == nil {
		t.Error("entry survived Delete")
	}
}
