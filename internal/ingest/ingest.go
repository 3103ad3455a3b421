// Package ingest extracts page images from scanned PDFs so the grouping
// pipeline can run on them.
package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Request contains the parameters for ingesting scanned PDFs.
type Request struct {
	PDFPaths   []string     // PDF file paths (sorted by numeric suffix)
	InputDir   string       // destination for extracted page images
	Prefix     string       // image name prefix (optional, derived from first PDF if empty)
	DPI        int          // render resolution (default 300)
	MaxWorkers int          // concurrent page renders (default NumCPU)
	Logger     *slog.Logger // optional logger for progress updates
}

// Result contains the result of a successful ingest operation.
type Result struct {
	Prefix    string
	PageCount int
}

// Ingest renders every page of the given PDFs into InputDir as
// sequentially numbered PNGs (<prefix>_0001.png, ...). Pages are staged
// under a temporary directory and moved into place only on success.
func Ingest(req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	if len(req.PDFPaths) == 0 {
		return nil, fmt.Errorf("no PDF paths provided")
	}
	for _, p := range req.PDFPaths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("PDF not found: %s", p)
		}
	}

	dpi := req.DPI
	if dpi <= 0 {
		dpi = 300
	}

	// Sort PDFs by numeric suffix (e.g., batch-1.pdf, batch-2.pdf)
	sortedPaths := sortPDFsByNumber(req.PDFPaths)

	prefix := req.Prefix
	if prefix == "" {
		prefix = derivePrefix(sortedPaths[0])
	}
	log.Info("starting ingest", "pdfs", len(sortedPaths), "prefix", prefix)

	// Stage under a temp dir so a failed run leaves InputDir untouched.
	stageDir := filepath.Join(os.TempDir(), "collate-ingest-"+uuid.New().String())
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stageDir)

	pageCount := 0
	for i, pdfPath := range sortedPaths {
		log.Debug("extracting PDF", "file", filepath.Base(pdfPath), "part", i+1, "of", len(sortedPaths))
		count, err := extractImages(pdfPath, stageDir, prefix, pageCount, dpi, req.MaxWorkers)
		if err != nil {
			return nil, fmt.Errorf("failed to extract images from %s: %w", pdfPath, err)
		}
		log.Debug("extracted pages", "count", count, "total", pageCount+count)
		pageCount += count
	}

	if pageCount == 0 {
		return nil, fmt.Errorf("no images extracted from PDFs")
	}

	if err := os.MkdirAll(req.InputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create input directory: %w", err)
	}
	if err := moveStaged(stageDir, req.InputDir); err != nil {
		return nil, err
	}

	log.Info("ingest complete", "prefix", prefix, "pages", pageCount)

	return &Result{Prefix: prefix, PageCount: pageCount}, nil
}

// extractImages renders all pages from a PDF into outDir using pdftoppm.
// pageOffset is the numbering offset for multi-part PDFs.
func extractImages(pdfPath, outDir, prefix string, pageOffset, dpi, maxWorkers int) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	type result struct {
		pageNum int
		err     error
	}

	results := make(chan result, pageCount)
	sem := make(chan struct{}, maxWorkers)

	for page := 1; page <= pageCount; page++ {
		sem <- struct{}{} // acquire
		go func(pageInPDF int) {
			defer func() { <-sem }() // release

			outputPageNum := pageOffset + pageInPDF
			err := renderPage(pdfPath, outDir, prefix, pageInPDF, outputPageNum, dpi)
			results <- result{pageNum: pageInPDF, err: err}
		}(page)
	}

	for i := 0; i < pageCount; i++ {
		r := <-results
		if r.err != nil {
			return 0, fmt.Errorf("failed to render page %d: %w", r.pageNum, r.err)
		}
	}

	return pageCount, nil
}

// renderPage renders a single PDF page using pdftoppm (poppler-utils).
func renderPage(pdfPath, outDir, prefix string, pageInPDF, outputPageNum, dpi int) error {
	tmpDir, err := os.MkdirTemp("", "collate-page-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")

	pageStr := strconv.Itoa(pageInPDF)
	cmd := exec.Command("pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	srcPath := outputPrefix + ".png"
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}

	dstPath := filepath.Join(outDir, fmt.Sprintf("%s_%04d.png", prefix, outputPageNum))
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write page image: %w", err)
	}

	return nil
}

// moveStaged moves every staged page image into the input directory.
func moveStaged(stageDir, inputDir string) error {
	entries, err := os.ReadDir(stageDir)
	if err != nil {
		return fmt.Errorf("failed to read staging directory: %w", err)
	}
	for _, e := range entries {
		src := filepath.Join(stageDir, e.Name())
		dst := filepath.Join(inputDir, e.Name())
		if err := os.Rename(src, dst); err != nil {
			// Rename fails across filesystems; fall back to copy.
			data, rerr := os.ReadFile(src)
			if rerr != nil {
				return fmt.Errorf("failed to move %s: %w", e.Name(), err)
			}
			if werr := os.WriteFile(dst, data, 0o644); werr != nil {
				return fmt.Errorf("failed to move %s: %w", e.Name(), werr)
			}
		}
	}
	return nil
}

// sortPDFsByNumber sorts PDF paths by their numeric suffix.
// e.g., ["batch-2.pdf", "batch-1.pdf", "batch-10.pdf"] ->
// ["batch-1.pdf", "batch-2.pdf", "batch-10.pdf"]
func sortPDFsByNumber(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)

	re := regexp.MustCompile(`-(\d+)\.pdf$`)

	sort.Slice(sorted, func(i, j int) bool {
		mi := re.FindStringSubmatch(sorted[i])
		mj := re.FindStringSubmatch(sorted[j])

		// If both have numbers, sort numerically
		if len(mi) > 1 && len(mj) > 1 {
			ni, _ := strconv.Atoi(mi[1])
			nj, _ := strconv.Atoi(mj[1])
			return ni < nj
		}

		// Files without numbers come first
		if len(mi) > 1 {
			return false
		}
		if len(mj) > 1 {
			return true
		}

		return sorted[i] < sorted[j]
	})

	return sorted
}

// derivePrefix extracts an image name prefix from a PDF filename.
// e.g., "letters-box3-1.pdf" -> "letters-box3"
func derivePrefix(pdfPath string) string {
	base := filepath.Base(pdfPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	re := regexp.MustCompile(`-\d+$`)
	return re.ReplaceAllString(name, "")
}
