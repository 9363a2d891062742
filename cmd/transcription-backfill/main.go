package main

import (
	"context"
	"flag"

	"testimonials_backend/internal/bootstrap"
	"testimonials_backend/platform/config"
	"testimonials_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "only list testimonials that would be enqueued")
	limit := flag.Int("limit", 500, "maximum number of testimonials to enqueue")
	org := flag.String("org", "", "restrict to one organization id")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting transcription backfill", "dryRun", *dryRun, "limit", *limit, "org", *org)

	var orgID *uuid.UUID
	if *org != "" {
		id, err := uuid.Parse(*org)
		if err != nil {
			panic("invalid -org: " + err.Error())
		}
		orgID = &id
	}

	ctx := context.Background()
	infra, closeInfra, err := bootstrap.Open(ctx, cfg, log)
	defer closeInfra()
	if err != nil {
		log.Error("failed to initialize infrastructure", "error", err)
		panic("failed to initialize infrastructure: " + err.Error())
	}

	modules, err := bootstrap.Build(cfg, infra, log)
	if err != nil {
		log.Error("failed to initialize modules", "error", err)
		panic("failed to initialize modules: " + err.Error())
	}

	n, err := modules.Testimonials.Service().EnqueueMissingTranscriptions(ctx, orgID, *limit, *dryRun)
	if err != nil {
		log.Error("transcription backfill finished with errors", "enqueued", n, "error", err)
		return
	}
	if *dryRun {
		log.Info("transcription backfill dry run complete", "candidates", n)
		return
	}
	log.Info("transcription backfill complete", "enqueued", n)
}
