// Package sheet implements the contact sheet composition stage.
package sheet

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/user/vidplay/pkg/pipeline"
	"github.com/user/vidplay/pkg/ports"
)

// Stage scales sampled frames and draws them onto a single sheet.
type Stage struct {
	renderer   ports.Renderer
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new sheet stage.
func NewStage(renderer ports.Renderer, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		logger:     logger.WithComponent("sheet"),
		numWorkers: numWorkers,
	}
}

// Execute composes the sheet.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	if len(input.Thumbs) != len(input.Layout.Cells) {
		return pipeline.SheetResult{}, fmt.Errorf("layout has %d cells for %d thumbnails", len(input.Layout.Cells), len(input.Thumbs))
	}

	s.logger.Debug("Scaling %d thumbnails with %d workers", len(input.Thumbs), s.numWorkers)

	scaled, err := s.scaleParallel(ctx, input.Thumbs, input.Layout.Thumb)
	if err != nil {
		return pipeline.SheetResult{}, err
	}

	canvas := s.renderer.CreateCanvas(input.Layout.Canvas.Width, input.Layout.Canvas.Height, input.Theme.BackgroundColor)
	for i, img := range scaled {
		s.drawCell(canvas, input, i, img)
	}

	s.logger.Debug("Sheet composed: %dx%d", input.Layout.Canvas.Width, input.Layout.Canvas.Height)
	return pipeline.SheetResult{Image: canvas.ToImage()}, nil
}

// indexedImage holds a scaled image with its original index for sorting.
type indexedImage struct {
	index int
	image image.Image
}

// scaleParallel resizes every thumbnail using a worker pool.
func (s *Stage) scaleParallel(ctx context.Context, thumbs []pipeline.Thumb, size pipeline.Dimension) ([]image.Image, error) {
	numThumbs := len(thumbs)
	jobs := make(chan int, numThumbs)
	results := make(chan indexedImage, numThumbs)
	errChan := make(chan error, s.numWorkers)

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, thumbs, size, jobs, results, errChan)
	}

	// Send jobs
	for i := 0; i < numThumbs; i++ {
		jobs <- i
	}
	close(jobs)

	// Wait for workers to finish
	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	collected := make([]indexedImage, 0, numThumbs)
	for result := range results {
		collected = append(collected, result)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sort by index to maintain order
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	images := make([]image.Image, len(collected))
	for i, c := range collected {
		images[i] = c.image
	}
	return images, nil
}

// worker scales thumbnails from the jobs channel.
func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	thumbs []pipeline.Thumb,
	size pipeline.Dimension,
	jobs <-chan int,
	results chan<- indexedImage,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		img := thumbs[idx].Image
		if img == nil {
			select {
			case errChan <- fmt.Errorf("thumbnail %d has no image", idx):
			default:
			}
			return
		}

		results <- indexedImage{index: idx, image: s.renderer.ResizeImage(img, size.Width, size.Height)}
	}
}

// drawCell draws the border, the scaled frame and its timestamp.
func (s *Stage) drawCell(canvas ports.Canvas, input pipeline.SheetInput, i int, img image.Image) {
	cell := input.Layout.Cells[i]
	label := input.Layout.Labels[i]
	border := cell.X - label.X

	if border > 0 {
		canvas.DrawRect(cell.X-border, cell.Y-border, cell.Width+border*2, cell.Height+border*2, input.Theme.BorderColor)
	}
	canvas.DrawImage(img, cell.X, cell.Y)

	if input.ShowLabels && label.Height > 0 {
		style := ports.TextStyle{
			FontSize: float64(label.Height) * 0.7,
			Color:    input.Theme.LabelColor,
			Align:    ports.AlignCenter,
		}
		text := FormatTimestamp(input.Thumbs[i].Seconds)
		if w, _ := canvas.MeasureText(text, style); w > float64(label.Width) {
			text = FormatShortTimestamp(input.Thumbs[i].Seconds)
		}
		canvas.DrawText(text, label.X+label.Width/2, label.Y+label.Height/2, style)
	}
}

// FormatTimestamp renders seconds as MM:SS.mmm, or H:MM:SS.mmm past the hour.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	sec := ms / 1000 % 60
	frac := ms % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, frac)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, sec, frac)
}

// FormatShortTimestamp is FormatTimestamp without the milliseconds, for
// cells too narrow to hold the full label.
func FormatShortTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	h, m, sec := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
