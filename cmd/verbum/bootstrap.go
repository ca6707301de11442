package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/verbum/internal/adapters/driven/ai"
	"github.com/custodia-labs/verbum/internal/adapters/driven/config/file"
	"github.com/custodia-labs/verbum/internal/adapters/driven/library/filesystem"
	"github.com/custodia-labs/verbum/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/verbum/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/verbum/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/custodia-labs/verbum/internal/adapters/driving/cli"
	"github.com/custodia-labs/verbum/internal/core/domain"
	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/core/services"
	"github.com/custodia-labs/verbum/internal/extractors"
	"github.com/custodia-labs/verbum/internal/extractors/docx"
	"github.com/custodia-labs/verbum/internal/extractors/html"
	"github.com/custodia-labs/verbum/internal/extractors/markdown"
	"github.com/custodia-labs/verbum/internal/extractors/pdf"
	"github.com/custodia-labs/verbum/internal/extractors/plaintext"
	"github.com/custodia-labs/verbum/internal/logger"
	"github.com/custodia-labs/verbum/internal/postprocessors"
	"github.com/custodia-labs/verbum/internal/postprocessors/chunker"
)

// Bootstrap reads settings, applies environment overrides and wires the
// core services. lookup is usually os.LookupEnv.
func Bootstrap(opts cli.Options, lookup func(string) (string, bool)) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	services.ApplyEnvironment(settings, lookup)
	if err := settings.Chunker.Validate(); err != nil {
		return nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	models := ai.Initialise(settings)
	closers = append(closers, models.Close)

	extractionCache, vectorCache, err := caches(settings, models.EmbeddingService, &closers)
	if err != nil {
		closeAll()
		return nil, err
	}

	registry := extractors.NewRegistry(plaintext.New(), markdown.New(), pdf.New(), docx.New(), html.New())
	pipeline := postprocessors.NewPipeline(chunker.FromSettings(settings.Chunker))

	documents := services.NewDocumentService(registry, extractionCache)
	documents.SetPipeline(pipeline)

	ruleStore, err := file.NewRuleStore(configDir)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open rules: %w", err)
	}
	rules, err := ruleStore.Load(services.DefaultMatcherRules())
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("load rules: %w", err)
	}
	matcher, err := services.NewMatcher(rules)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("compile rules: %w", err)
	}

	gateway := services.NewGateway(models.EmbeddingService, services.WithVectorCache(vectorCache))
	ranker := services.NewRanker(settings.Ranker.KeywordBoost)
	synth := services.NewSynthesizer(models.QAModel, matcher, settings.Synth)

	question := services.NewQuestionService(pipeline, gateway, ranker, synth, settings.Ranker.TopK)
	question.SetDocumentService(documents)
	question.SetSessionStore(memory.NewSessionStore(settings.Cache.Sessions))

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		logger.Warn("prompt overrides unavailable: %v", err)
		prompts = nil
	}
	query := services.NewQueryService(documents, models.LLMService, promptStoreOrNil(prompts), tokenCounter(settings), settings.Query)

	var library *services.LibraryService
	if settings.LibraryRoot != "" {
		lib, err := filesystem.New(settings.LibraryRoot)
		if err != nil {
			logger.Warn("library disabled: %v", err)
		} else {
			library = services.NewLibraryService(lib, gateway)
			closers = append(closers, watchLibrary(settings.LibraryRoot, documents))
		}
	}

	out := &cli.Services{
		Question: question,
		Query:    query,
		Document: documents,
		Settings: settingsService,
		Close:    closeAll,
	}
	if library != nil {
		out.Library = library
	}
	return out, nil
}

// caches returns the extraction and vector caches: sqlite when the
// persistent cache is enabled, memory otherwise.
func caches(
	settings *domain.AppSettings, embedder driven.EmbeddingService, closers *[]func(),
) (driven.ExtractionCache, driven.VectorCache, error) {
	if !settings.Cache.Persistent {
		return memory.NewExtractionCache(), memory.NewVectorCache(settings.Cache.VectorEntries), nil
	}

	store, err := sqlite.NewStore(settings.Cache.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	*closers = append(*closers, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close cache: %v", err)
		}
	})
	logger.Debug("persistent cache at %s", store.Path())

	model := ""
	if embedder != nil {
		model = embedder.ModelName()
	}
	return store.ExtractionCache(), store.VectorCache(model), nil
}

func promptStoreOrNil(p *file.PromptStore) driven.PromptStore {
	if p == nil {
		return nil
	}
	return p
}

// tokenCounter returns nil when no encoding can be loaded; prompts are
// then only limited by characters.
func tokenCounter(settings *domain.AppSettings) driven.TokenCounter {
	counter, err := tiktoken.New(settings.LLM.Model)
	if err != nil {
		logger.Debug("token counting disabled: %v", err)
		return nil
	}
	return counter
}

// watchLibrary drops cached text for library files that change while the
// process runs. It returns the function that stops the watcher.
func watchLibrary(root string, documents *services.DocumentService) func() {
	ctx, cancel := context.WithCancel(context.Background())
	watcher := filesystem.NewWatcher(root)
	done := make(chan struct{})

	go func() {
		defer close(done)
		err := watcher.Watch(ctx, func(path string) {
			if err := documents.Invalidate(ctx, path); err != nil {
				logger.Warn("%v", err)
			}
		})
		if err != nil {
			logger.Warn("library watcher stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
