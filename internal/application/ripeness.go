package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

// RipenessService управляет анализом спелости для бота и CLI.
type RipenessService struct {
	users     *UserService
	analyzer  port.RipenessAnalyzer
	describer port.ResultDescriber
	images    port.ImageSource
	log       zerolog.Logger
}

// Analysis результат анализа одного изображения вместе с текстовым отчётом.
type Analysis struct {
	RunID     string
	Name      string
	Result    *entity.AnalysisResult
	Report    string
	Artifacts []entity.Artifact // только при BatchOptions.Debug
}

// PhotoOutput содержит результат анализа фото из чата и картинку с подсветкой.
type PhotoOutput struct {
	Analysis    *Analysis
	Highlighted image.Image
}

// BatchOptions параметры пакетной обработки.
type BatchOptions struct {
	Mode    entity.Mode
	Workers int
	Debug   bool // собирать отладочные артефакты в том же проходе
}

// BatchItem результат одного файла пакетной обработки. Ровно одно из Analysis и Err не nil.
type BatchItem struct {
	Path     string
	Analysis *Analysis
	Err      error
}

// NewRipenessService создаёт сервис анализа спелости.
func NewRipenessService(
	users *UserService,
	analyzer port.RipenessAnalyzer,
	describer port.ResultDescriber,
	images port.ImageSource,
	log zerolog.Logger,
) *RipenessService {
	return &RipenessService{
		users:     users,
		analyzer:  analyzer,
		describer: describer,
		images:    images,
		log:       log.With().Str("component", "ripeness").Logger(),
	}
}

// AnalyzeImage анализирует уже загруженное изображение.
func (s *RipenessService) AnalyzeImage(ctx context.Context, name string, img image.Image, mode entity.Mode) (*Analysis, error) {
	return s.analyze(ctx, name, img, mode, false)
}

func (s *RipenessService) analyze(ctx context.Context, name string, img image.Image, mode entity.Mode, debug bool) (*Analysis, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("image", name).Str("mode", string(mode)).Logger()
	started := time.Now()

	var (
		result    *entity.AnalysisResult
		artifacts []entity.Artifact
		err       error
	)
	if debug {
		var d *entity.DebugArtifacts
		if d, err = s.analyzer.Debug(ctx, img, mode); err == nil {
			result, artifacts = d.Result, d.Artifacts
		}
	} else {
		result, err = s.analyzer.Analyze(ctx, img, mode)
	}
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return nil, fmt.Errorf("analyze %s: %w", name, err)
	}

	log.Info().
		Int("total", result.Total).
		Float64("green_percent", result.Percentages.Green).
		Float64("yellow_clean_percent", result.Percentages.YellowClean).
		Float64("yellow_spotted_percent", result.Percentages.YellowSpotted).
		Int("artifacts", len(artifacts)).
		Dur("elapsed", time.Since(started)).
		Msg("analysis done")

	a := &Analysis{RunID: runID, Name: name, Result: result, Artifacts: artifacts}
	if s.describer != nil {
		a.Report = s.describer.Describe(name, result)
	}
	return a, nil
}

// analyzeFile загружает изображение с диска и анализирует его.
func (s *RipenessService) analyzeFile(ctx context.Context, path string, mode entity.Mode, debug bool) (*Analysis, error) {
	img, err := s.images.Load(path)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, path, img, mode, debug)
}

// AnalyzeBatch анализирует файлы пулом из opts.Workers горутин.
// Порядок результатов совпадает с paths, ошибка одного файла не прерывает остальные.
// С opts.Debug каждое изображение анализируется один раз вместе с артефактами.
func (s *RipenessService) AnalyzeBatch(ctx context.Context, paths []string, opts BatchOptions) []BatchItem {
	items := make([]BatchItem, len(paths))
	if len(paths) == 0 {
		return items
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = s.batchItem(ctx, paths[i], opts)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	s.log.Info().Int("files", len(paths)).Int("failed", failed).Int("workers", workers).Msg("batch done")

	return items
}

func (s *RipenessService) batchItem(ctx context.Context, path string, opts BatchOptions) BatchItem {
	if err := ctx.Err(); err != nil {
		return BatchItem{Path: path, Err: err}
	}

	a, err := s.analyzeFile(ctx, path, opts.Mode, opts.Debug)
	if err != nil {
		s.log.Warn().Err(err).Str("image", path).Msg("skipping image")
		return BatchItem{Path: path, Err: err}
	}
	return BatchItem{Path: path, Analysis: a}
}

// ProcessPhoto анализирует фото из чата в режиме пользователя и возвращает его в главное меню.
func (s *RipenessService) ProcessPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*PhotoOutput, error) {
	user, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing)
	if err != nil {
		return nil, err
	}
	defer func() {
		if _, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("reset user state")
		}
	}()

	img, err := s.images.Decode(photo)
	if err != nil {
		return nil, err
	}

	a, err := s.AnalyzeImage(ctx, fmt.Sprintf("photo-%d", userID), img, user.Mode)
	if err != nil {
		return nil, err
	}

	out := &PhotoOutput{Analysis: a}
	if a.Result.Total > 0 {
		highlighted, err := s.analyzer.Highlight(img, a.Result)
		if err != nil {
			s.log.Warn().Err(err).Str("run_id", a.RunID).Msg("highlight failed")
		} else {
			out.Highlighted = highlighted
		}
	}
	return out, nil
}
