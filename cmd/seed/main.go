package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"talentflow/internal/app"
	"talentflow/internal/cache"
	"talentflow/internal/config"
	"talentflow/internal/logger"
	"talentflow/internal/model"
	"talentflow/internal/repository"
	"talentflow/internal/rules"
	"talentflow/internal/service"
)

//go:embed demo.yaml
var demoAssessment []byte

func loadAssessment(path string) (*model.Assessment, error) {
	data := demoAssessment
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	var a model.Assessment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse assessment: %w", err)
	}
	return &a, nil
}

func main() {
	jobID := flag.String("job", "job-demo", "job the assessment belongs to")
	file := flag.String("file", "", "YAML assessment to load instead of the built-in demo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	a, err := loadAssessment(*file)
	if err != nil {
		log.Fatal("load assessment", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := app.ConnectMongo(ctx, cfg)
	if err != nil {
		log.Fatal("mongo", "error", err)
	}
	defer client.Disconnect(ctx)

	rdb, err := app.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatal("redis", "error", err)
	}
	defer rdb.Close()

	repo := repository.NewAssessmentRepo(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("indexes", "error", err)
	}

	assessments := service.NewAssessmentService(repo, cache.NewAssessmentCache(rdb), log)
	saved, err := seed(ctx, assessments, *jobID, a)
	if err != nil {
		log.Fatal("seed", "error", err)
	}

	log.Info("seeded assessment",
		"jobId", saved.JobID,
		"assessmentId", saved.ID,
		"sections", len(saved.Sections),
		"questions", len(rules.Flatten(saved)),
	)
}

// seed stores a under jobID through the same path as an author save, so the
// authoring checks run and the cached copy is replaced. Re-seeding a job
// keeps its assessment ID.
func seed(ctx context.Context, assessments *service.AssessmentService, jobID string, a *model.Assessment) (*model.Assessment, error) {
	saved, err := assessments.Update(ctx, jobID, a)
	var authoringErr *service.AuthoringError
	if errors.As(err, &authoringErr) {
		return nil, fmt.Errorf("assessment has authoring errors: %s", strings.Join(authoringErr.Report.Errors, "; "))
	}
	return saved, err
}
