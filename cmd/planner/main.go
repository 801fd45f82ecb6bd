// Package main is the CLI entry point for the meal-planning core
// (SPEC_FULL.md §4.10): it wires internal/infrastructure/container.Module
// via Uber FX and dispatches to one of two subcommands, `optimize` and
// `refine`, each building a Request (and, for refine, a RefineRequest) from
// flags and printing the resulting plan as JSON — the only consumer of
// inbound.PlannerService this repository ships itself.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrient"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/container"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
)

// requestFlags holds the subset of Request fields meaningful to pass on
// the command line; everything else falls back to the domain package's
// defaults (DefaultNutrientTarget, DefaultMealSettings). Both subcommands
// share this flag set since refine builds a full planReq alongside its
// RefineRequest (Service.Refine takes both).
type requestFlags struct {
	days           int
	people         int
	household      string
	schedulingMode string
	batchCooking   string
	volume         string
	variety        string
	seed           int64
	excludeDishes  string
	output         string
}

func bindRequestFlags(fs *flag.FlagSet, f *requestFlags) {
	fs.IntVar(&f.days, "days", 7, "number of days to plan (1-7)")
	fs.IntVar(&f.people, "people", 2, "household size (1-6)")
	fs.StringVar(&f.household, "household", string(dish.HouseholdCouple), "household type: single|couple|family")
	fs.StringVar(&f.schedulingMode, "mode", "", "scheduling mode: classic|staged (empty picks automatically)")
	fs.StringVar(&f.batchCooking, "batch-cooking", string(dish.LevelNormal), "batch cooking level: small|normal|large")
	fs.StringVar(&f.volume, "volume", string(dish.LevelNormal), "meal volume level: small|normal|large")
	fs.StringVar(&f.variety, "variety", string(dish.LevelNormal), "variety level: small|normal|large")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for the staged scheduler (0 derives one from the clock)")
	fs.StringVar(&f.excludeDishes, "exclude-dishes", "", "comma-separated dish IDs to exclude")
	fs.StringVar(&f.output, "output", "", "write the resulting plan JSON here instead of stdout")
}

func (f requestFlags) toRequest() (mealplan.Request, error) {
	excluded := map[int]bool{}
	for _, s := range strings.Split(f.excludeDishes, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.Atoi(s)
		if err != nil {
			return mealplan.Request{}, fmt.Errorf("invalid dish id %q in -exclude-dishes: %w", s, err)
		}
		excluded[id] = true
	}

	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	req := mealplan.Request{
		Days:              f.days,
		People:            f.people,
		Target:            dish.DefaultNutrientTarget(),
		ExcludedDishIDs:   excluded,
		BatchCookingLevel: dish.Level(f.batchCooking),
		VolumeLevel:       dish.Level(f.volume),
		VarietyLevel:      dish.Level(f.variety),
		MealSettings:      dish.DefaultMealSettings(),
		EnabledNutrients:  nutrient.All,
		SchedulingMode:    dish.SchedulingMode(f.schedulingMode),
		HouseholdType:     dish.HouseholdType(f.household),
		RandomSeed:        seed,
	}
	return req, req.Validate()
}

// refineFlags layers refine's own RefineRequest fields on top of the
// shared requestFlags.
type refineFlags struct {
	requestFlags
	planPath    string
	day         int
	meal        string
	excludeDish int
}

func (f refineFlags) toRefineRequest() (inbound.RefineRequest, error) {
	var prior mealplan.MultiDayMenuPlan
	if f.planPath != "" {
		raw, err := os.ReadFile(f.planPath)
		if err != nil {
			return inbound.RefineRequest{}, fmt.Errorf("reading -plan %q: %w", f.planPath, err)
		}
		if err := json.Unmarshal(raw, &prior); err != nil {
			return inbound.RefineRequest{}, fmt.Errorf("parsing -plan %q: %w", f.planPath, err)
		}
	}
	return inbound.RefineRequest{
		Plan:        prior,
		Day:         f.day,
		Meal:        dish.MealType(f.meal),
		ExcludeDish: f.excludeDish,
	}, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: planner <optimize|refine> [flags]")
	fmt.Fprintln(os.Stderr, "  optimize: build a full multi-day plan from the catalog")
	fmt.Fprintln(os.Stderr, "  refine:   re-plan the whole horizon with -exclude-dish added to the exclusions")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "optimize":
		runOptimizeCommand(os.Args[2:])
	case "refine":
		runRefineCommand(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func runOptimizeCommand(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	var flags requestFlags
	bindRequestFlags(fs, &flags)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing optimize flags: %v", err)
	}

	req, err := flags.toRequest()
	if err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	runApp(func(ctx context.Context, svc inbound.PlannerService) (*mealplan.MultiDayMenuPlan, error) {
		return svc.OptimizeMultiDay(ctx, req)
	}, flags.output)
}

func runRefineCommand(args []string) {
	fs := flag.NewFlagSet("refine", flag.ExitOnError)
	var flags refineFlags
	bindRequestFlags(fs, &flags.requestFlags)
	fs.StringVar(&flags.planPath, "plan", "", "path to the prior plan's JSON (required)")
	fs.IntVar(&flags.day, "day", 1, "day (1-based) of the slot being refined (passed in the request; the whole horizon is re-planned)")
	fs.StringVar(&flags.meal, "meal", string(dish.Lunch), "meal of the slot being refined: breakfast|lunch|dinner (passed in the request; the whole horizon is re-planned)")
	fs.IntVar(&flags.excludeDish, "exclude-dish", 0, "dish id to avoid reusing in the replacement, 0 for none")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing refine flags: %v", err)
	}
	if flags.planPath == "" {
		log.Fatal("refine requires -plan <path to prior plan JSON>")
	}

	planReq, err := flags.toRequest()
	if err != nil {
		log.Fatalf("invalid request: %v", err)
	}
	refineReq, err := flags.toRefineRequest()
	if err != nil {
		log.Fatalf("invalid refine request: %v", err)
	}

	runApp(func(ctx context.Context, svc inbound.PlannerService) (*mealplan.MultiDayMenuPlan, error) {
		return svc.Refine(ctx, refineReq, planReq)
	}, flags.output)
}

// runApp wires container.Module via fx, invokes op once the app starts,
// and prints the resulting plan, whether op is an optimize or a refine
// call — both subcommands shut down after exactly one PlannerService call
// since this binary never serves more than one plan per invocation.
func runApp(op func(ctx context.Context, svc inbound.PlannerService) (*mealplan.MultiDayMenuPlan, error), outputPath string) {
	app := fx.New(
		fx.NopLogger,
		container.Module,
		fx.Invoke(func(lc fx.Lifecycle, svc inbound.PlannerService, shutdowner fx.Shutdowner, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go runOnce(ctx, svc, shutdowner, logger, op, outputPath)
					return nil
				},
			})
		}),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("failed to start planner: %v", err)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatalf("failed to stop planner cleanly: %v", err)
	}
}

// runOnce drives a single PlannerService call and shuts the app down
// whether it succeeds or fails.
func runOnce(ctx context.Context, svc inbound.PlannerService, shutdowner fx.Shutdowner, logger *zap.Logger, op func(ctx context.Context, svc inbound.PlannerService) (*mealplan.MultiDayMenuPlan, error), outputPath string) {
	defer func() {
		if err := shutdowner.Shutdown(); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	plan, err := op(ctx, svc)
	if err != nil {
		logger.Error("planner command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		logger.Error("failed to marshal plan", zap.Error(err))
		return
	}

	if outputPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		logger.Error("failed to write plan output", zap.Error(err), zap.String("path", outputPath))
	}
}
