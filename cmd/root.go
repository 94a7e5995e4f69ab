package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reposim/reposim/ga"
	"github.com/reposim/reposim/sim"
	"github.com/reposim/reposim/sim/workload"
)

var (
	// Shared evaluation flags
	scenarioPath  string  // YAML demand scenario; empty = built-in demo
	theta         float64 // availability threshold (fraction of fleet)
	baseSeed      int64   // base seed for demand generation
	replications  int     // simulation replications averaged per evaluation
	coverageBound float64 // response-time bound for coverage (minutes)
	restMinutes   float64 // idle time that resets a mission streak
	lostWeight    float64 // fitness penalty per lost call per day
	fatigueWeight float64 // fitness penalty per interrupted repositioning per day
	lostPolicy    string  // "drop" or "queue"
	queuePatience float64 // patience bound under the queue policy (minutes)
	totalDays     int     // override scenario horizon (days)
	warmupDays    int     // override scenario warmup (days)
	logLevel      string  // log verbosity level

	// GA flags
	populationSize int
	generations    int
	tournamentSize int
	crossoverProb  float64
	mutationProb   float64
	elitismCount   int
	stagnation     int
	gaWorkers      int
	cacheCapacity  int

	// simulate flags
	chromosomeArg string
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "reposim",
	Short: "Ambulance repositioning strategy search via discrete-event EMS simulation",
}

// loadScenario resolves the demand scenario from the --scenario flag, with
// the built-in Edmonton demo as the default, and applies day overrides.
func loadScenario() (*workload.Spec, error) {
	var spec *workload.Spec
	if scenarioPath == "" {
		spec = workload.ScenarioEdmontonDemo()
	} else {
		loaded, err := workload.LoadSpec(scenarioPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	if totalDays > 0 {
		spec.TotalDays = totalDays
	}
	if warmupDays >= 0 {
		spec.WarmupDays = warmupDays
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func evalConfig(spec *workload.Spec) ga.EvalConfig {
	return ga.EvalConfig{
		Scenario:             spec,
		Theta:                theta,
		BaseSeed:             baseSeed,
		Replications:         replications,
		CoverageBoundMinutes: coverageBound,
		RestMinutes:          restMinutes,
		LostWeight:           lostWeight,
		FatigueWeight:        fatigueWeight,
		LostCallPolicy:       sim.LostCallPolicy(lostPolicy),
		QueuePatienceMinutes: queuePatience,
	}
}

// optimizeCmd runs the GA search.
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for a repositioning strategy with the genetic algorithm",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := loadScenario()
		if err != nil {
			logrus.Fatalf("scenario: %v", err)
		}
		evaluator, err := ga.NewEvaluator(evalConfig(spec))
		if err != nil {
			logrus.Fatalf("evaluation config: %v", err)
		}
		engine, err := ga.NewEngine(ga.Config{
			PopulationSize:   populationSize,
			Generations:      generations,
			TournamentSize:   tournamentSize,
			CrossoverProb:    crossoverProb,
			MutationProb:     mutationProb,
			ElitismCount:     elitismCount,
			StagnationWindow: stagnation,
			Seed:             baseSeed,
			Workers:          gaWorkers,
			CacheCapacity:    cacheCapacity,
		}, evaluator)
		if err != nil {
			logrus.Fatalf("ga config: %v", err)
		}

		logrus.Infof("optimizing scenario %q: %d stations, %d units, theta=%.2f",
			spec.Name, len(spec.Stations), len(spec.HomeStations), theta)

		startTime := time.Now()
		result, err := engine.Run(context.Background())
		if err != nil {
			logrus.Fatalf("ga run: %v", err)
		}

		fmt.Println("=== Optimization Result ===")
		fmt.Printf("Best Strategy        : %s\n", result.BestChromosome.Key())
		fmt.Printf("Best Fitness         : %.4f\n", result.BestFitness)
		fmt.Printf("Generations          : %d (%s)\n", result.Generations, result.Reason)
		fmt.Printf("Wall Time            : %s\n", time.Since(startTime).Round(time.Millisecond))
		fmt.Println()
		printSummary(result.BestEvaluation.Summary)
	},
}

// simulateCmd evaluates one explicit strategy.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Evaluate a single repositioning strategy",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := loadScenario()
		if err != nil {
			logrus.Fatalf("scenario: %v", err)
		}
		evaluator, err := ga.NewEvaluator(evalConfig(spec))
		if err != nil {
			logrus.Fatalf("evaluation config: %v", err)
		}

		chrom, err := ga.ParseChromosome(chromosomeArg, evaluator.NumStations())
		if err != nil {
			logrus.Fatalf("chromosome: %v", err)
		}
		ev, err := evaluator.Evaluate(chrom)
		if err != nil {
			logrus.Fatalf("evaluation: %v", err)
		}

		fmt.Printf("Strategy %s: fitness %.4f over %d replications\n",
			chrom.Key(), ev.Fitness, len(ev.Replicates))
		printSummary(ev.Summary)
	},
}

func printSummary(s ga.MetricsSummary) {
	fmt.Println("=== Evaluation Metrics (mean over replications) ===")
	if s.NoData {
		fmt.Println("Median Response      : no data")
	} else {
		fmt.Printf("Median Response      : %.2f min\n", s.MedianResponseMinutes)
	}
	fmt.Printf("Coverage             : %.1f%%\n", s.CoverageFraction*100)
	fmt.Printf("Lost Calls           : %.2f/day\n", s.LostPerDay)
	fmt.Printf("Interrupted Repos    : %.2f/day\n", s.InterruptedPerDay)
	fmt.Printf("Repositioning Time   : %.1f min\n", s.RepositionMinutes)
	fmt.Printf("Mean Busy Fraction   : %.1f%%\n", s.MeanBusyFraction*100)
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addEvalFlags registers the flags shared by optimize and simulate.
func addEvalFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Demand scenario YAML (default: built-in Edmonton demo)")
	cmd.Flags().Float64Var(&theta, "theta", 0.5, "Availability threshold as a fraction of the fleet")
	cmd.Flags().Int64Var(&baseSeed, "seed", 42, "Base seed for demand generation and the search")
	cmd.Flags().IntVar(&replications, "replications", 3, "Simulation replications averaged per evaluation")
	cmd.Flags().Float64Var(&coverageBound, "coverage-bound", 9, "Response-time coverage bound (minutes)")
	cmd.Flags().Float64Var(&restMinutes, "rest-minutes", 30, "Idle time that resets a unit's mission streak (minutes)")
	cmd.Flags().Float64Var(&lostWeight, "lost-weight", 1.0, "Fitness penalty per lost call per day")
	cmd.Flags().Float64Var(&fatigueWeight, "fatigue-weight", 0.1, "Fitness penalty per interrupted repositioning per day")
	cmd.Flags().StringVar(&lostPolicy, "lost-call-policy", "drop", "Policy for calls with no available unit (drop, queue)")
	cmd.Flags().Float64Var(&queuePatience, "queue-patience", 10, "Patience bound under the queue policy (minutes)")
	cmd.Flags().IntVar(&totalDays, "days", 0, "Override scenario horizon (days; 0 keeps the scenario value)")
	cmd.Flags().IntVar(&warmupDays, "warmup-days", -1, "Override scenario warmup (days; -1 keeps the scenario value)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	addEvalFlags(optimizeCmd)
	optimizeCmd.Flags().IntVar(&populationSize, "population", 40, "Population size")
	optimizeCmd.Flags().IntVar(&generations, "generations", 50, "Generation budget")
	optimizeCmd.Flags().IntVar(&tournamentSize, "tournament", 3, "Tournament size for parent selection")
	optimizeCmd.Flags().Float64Var(&crossoverProb, "crossover-prob", 0.9, "Order-crossover probability per pairing")
	optimizeCmd.Flags().Float64Var(&mutationProb, "mutation-prob", 0.2, "Swap-mutation probability per offspring")
	optimizeCmd.Flags().IntVar(&elitismCount, "elitism", 2, "Individuals carried unchanged into the next generation")
	optimizeCmd.Flags().IntVar(&stagnation, "stagnation", 10, "Generations without improvement before stopping (0 disables)")
	optimizeCmd.Flags().IntVar(&gaWorkers, "workers", 0, "Parallel evaluations per generation (0 = GOMAXPROCS)")
	optimizeCmd.Flags().IntVar(&cacheCapacity, "cache-size", 4096, "Fitness cache capacity (entries)")

	addEvalFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&chromosomeArg, "chromosome", "", "Comma-separated station ordering to evaluate")
	_ = simulateCmd.MarkFlagRequired("chromosome")

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(simulateCmd)
}
