// Package app wires application services to infrastructure adapters.
package app

import (
	"context"
	"path/filepath"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/infrastructure/config"
	"github.com/seancedev/seance/internal/infrastructure/contextinfo"
	"github.com/seancedev/seance/internal/infrastructure/corrector"
	"github.com/seancedev/seance/internal/infrastructure/executor"
	"github.com/seancedev/seance/internal/infrastructure/interpreter"
	"github.com/seancedev/seance/internal/infrastructure/knowledge"
	"github.com/seancedev/seance/internal/infrastructure/ritual"
	"github.com/seancedev/seance/internal/infrastructure/security"
	"github.com/seancedev/seance/internal/infrastructure/store"
	"github.com/seancedev/seance/internal/pkg/filesystem"
	"github.com/seancedev/seance/internal/pkg/logger"
	"github.com/seancedev/seance/internal/ports"
	"github.com/seancedev/seance/internal/services"
)

// Container holds the wired dependency graph.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Store        *store.SQLiteStore
	Interpreter  ports.Interpreter
	Executor     ports.CommandExecutor
	Classifier   ports.RiskClassifier
	Knowledge    ports.KnowledgeBase
	Blacklist    ports.Blacklist
	Logger       ports.Logger

	InterpretService *services.InterpretService
	SuggestService   *services.SuggestService
	RitualEngine     *ritual.Engine
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.NewStd(verbose)
	appDir := filesystem.AppDir()

	sqlStore, err := store.Open(filepath.Join(appDir, "history.db"))
	if err != nil {
		return nil, err
	}

	classifier, err := security.New(cfg.Risk.RulesFile)
	if err != nil {
		log.Warn("risk rules unusable, using embedded defaults", map[string]interface{}{"error": err.Error()})
		classifier, err = security.New("")
		if err != nil {
			return nil, err
		}
	}

	kb, err := knowledge.NewBase(filepath.Join(appDir, "knowledge.txt"))
	if err != nil {
		return nil, err
	}
	blacklist, err := knowledge.NewBlacklist(filepath.Join(appDir, "blacklist.txt"))
	if err != nil {
		return nil, err
	}

	exe := executor.New(cfg.Executor, log)
	interp := interpreter.NewClient(cfg.Interpreter, log)

	interpretService := &services.InterpretService{
		Interpreter: interp,
		Store:       sqlStore,
		Knowledge:   kb,
		Blacklist:   blacklist,
		Assembler:   contextinfo.New(cfg.Context),
		Corrector:   corrector.New(cfg.Corrector),
		Executor:    exe,
		Classifier:  classifier,
		Logger:      log,
	}
	suggestService := &services.SuggestService{
		Store:    sqlStore,
		Executor: exe,
		Logger:   log,
	}

	return &Container{
		Config:           cfg,
		ConfigLoader:     cfgLoader,
		Store:            sqlStore,
		Interpreter:      interp,
		Executor:         exe,
		Classifier:       classifier,
		Knowledge:        kb,
		Blacklist:        blacklist,
		Logger:           log,
		InterpretService: interpretService,
		SuggestService:   suggestService,
		RitualEngine:     ritual.NewEngine(exe, log),
	}, nil
}
