package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/conorfennell/studyplan/internal/config"
	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/ingest"
	"github.com/conorfennell/studyplan/internal/logging"
	"github.com/conorfennell/studyplan/internal/parser"
	"github.com/conorfennell/studyplan/internal/planner"
	"github.com/conorfennell/studyplan/internal/quiz"
	"github.com/conorfennell/studyplan/internal/retention"
	"github.com/conorfennell/studyplan/internal/session"
	"github.com/conorfennell/studyplan/internal/storage"
	"github.com/conorfennell/studyplan/internal/web"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const usage = `Usage: studyplan <command> [flags] [args]

Commands:
  plan <courses.yaml>      Prioritize topics and print a study schedule
  forecast <courses.yaml>  Print the retention forecast of every topic
  quiz <source>            Generate a quiz from a text file, directory or git URL
  serve                    Run the JSON API

Run 'studyplan <command> --help' for the flags of a command.
`

var commands = map[string]bool{"plan": true, "forecast": true, "quiz": true, "serve": true}

// sessionMaxAge is how long the server keeps quiz sessions.
const sessionMaxAge = 24 * time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}
	cmd, args := args[0], args[1:]
	if !commands[cmd] {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	today := fs.String("today", "", "Reference date as YYYY-MM-DD (defaults to the current day)")
	interactive := fs.BoolP("interactive", "i", false, "Answer the quiz question by question (quiz only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ref := domain.Today()
	if *today != "" {
		if ref, err = domain.ParseDate(*today); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
	}

	switch cmd {
	case "plan":
		path, err := requireArg(fs, "course plan file")
		if err != nil {
			return err
		}
		return runPlan(stdout, cfg, path, ref)
	case "forecast":
		path, err := requireArg(fs, "course plan file")
		if err != nil {
			return err
		}
		return runForecast(stdout, cfg, path, ref)
	case "quiz":
		source, err := requireArg(fs, "text source")
		if err != nil {
			return err
		}
		return runQuiz(ctx, stdin, stdout, cfg, source, *interactive)
	case "serve":
		return runServe(ctx, cfg)
	}
	return nil
}

func requireArg(fs *pflag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s expects exactly one %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

func newPlanner(cfg *config.Config) *planner.Planner {
	return &planner.Planner{
		Retention: &retention.Model{
			HalfLife: cfg.Planner.HalfLife,
			Days:     cfg.Planner.ForecastDays,
		},
		UrgencyThresholdDays: cfg.Planner.UrgencyThresholdDays,
		DailyHours:           cfg.Planner.DailyHours,
		MaxHoursPerTopic:     cfg.Planner.MaxHoursPerTopic,
	}
}

func runPlan(w io.Writer, cfg *config.Config, path string, today domain.Date) error {
	courses, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	result := newPlanner(cfg).Plan(courses, today)

	fmt.Fprintf(w, "Priorities as of %s:\n", today)
	for i, t := range result.Topics {
		status := ""
		if t.Completed {
			status = " (completed)"
		}
		fmt.Fprintf(w, "%2d. %s / %s  score %.2f  retention %.2f  performance %d  exam in %d days%s\n",
			i+1, t.Course, t.Topic, t.PriorityScore, t.AdjRetention, t.Performance, t.DaysUntilExam, status)
	}

	if len(result.Schedule) == 0 {
		fmt.Fprintln(w, "\nNothing left to schedule.")
	} else {
		fmt.Fprintf(w, "\nSchedule (%d days):\n", len(result.Schedule))
		for _, day := range result.Schedule {
			parts := make([]string, len(day.Allocations))
			for i, a := range day.Allocations {
				parts[i] = fmt.Sprintf("%s (%s) %gh", a.Topic, a.Course, a.Hours)
			}
			fmt.Fprintf(w, "%s  %s\n", day.Date, strings.Join(parts, ", "))
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range result.Recommendations {
			fmt.Fprintf(w, "- %s\n", r)
		}
	}
	return nil
}

func runForecast(w io.Writer, cfg *config.Config, path string, today domain.Date) error {
	courses, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	model := &retention.Model{HalfLife: cfg.Planner.HalfLife, Days: cfg.Planner.ForecastDays}

	fmt.Fprintf(w, "Retention forecast from %s to %s:\n", today, today.AddDays(max(model.Days-1, 0)))
	for _, c := range courses {
		for _, t := range c.Topics {
			values := model.Forecast(t.RetentionRate, t.LastStudied, today)
			parts := make([]string, len(values))
			for i, v := range values {
				parts[i] = strconv.FormatFloat(v, 'f', 2, 64)
			}
			fmt.Fprintf(w, "%s / %s: %s\n", c.Name, t.Name, strings.Join(parts, " "))
		}
	}
	return nil
}

func runQuiz(ctx context.Context, stdin io.Reader, w io.Writer, cfg *config.Config, source string, interactive bool) error {
	loader := &ingest.Loader{ReposDir: cfg.ReposDir}
	text, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}

	questions := quiz.Generate(text, cfg.Quiz.NumQuestions, quiz.NewSafeRandom(cfg.Quiz.Seed))
	if len(questions) == 0 {
		return fmt.Errorf("%s: not enough material to generate quiz questions", source)
	}

	if !interactive {
		for i, q := range questions {
			fmt.Fprintf(w, "%d. %s\n", i+1, q.Prompt)
			for j, opt := range q.Options {
				fmt.Fprintf(w, "   %c) %s\n", 'a'+j, opt)
			}
			fmt.Fprintf(w, "   Answer: %s\n\n", q.Answer)
		}
		return nil
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return playQuiz(ctx, stdin, w, session.NewService(db), questions)
}

// playQuiz asks each question on w and reads the chosen option number from in.
func playQuiz(ctx context.Context, in io.Reader, w io.Writer, sessions *session.Service, questions []domain.QuizQuestion) error {
	sess, err := sessions.Start(ctx, questions)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)

	for {
		current, q, err := sessions.Current(ctx, sess.ID)
		if errors.Is(err, session.ErrFinished) {
			break
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "\nQuestion %d of %d: %s\n", current.Position+1, current.Total, q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(w, "  %d) %s\n", i+1, opt)
		}

		choice, err := readChoice(scanner, w, len(q.Options))
		if err != nil {
			return err
		}
		result, err := sessions.Answer(ctx, sess.ID, q.Options[choice])
		if err != nil {
			return err
		}
		if result.Correct {
			fmt.Fprintln(w, "Correct!")
		} else {
			fmt.Fprintf(w, "Incorrect. The correct answer is: %s\n", result.Answer)
		}
	}

	summary, err := sessions.Summary(ctx, sess.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nScore: %d/%d (%.0f%%)\n%s\n", summary.Score, summary.Total, summary.Percentage, summary.Feedback)
	return nil
}

func readChoice(scanner *bufio.Scanner, w io.Writer, n int) (int, error) {
	for {
		fmt.Fprintf(w, "Your answer [1-%d]: ", n)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && choice >= 1 && choice <= n {
			return choice - 1, nil
		}
		fmt.Fprintf(w, "Please enter a number between 1 and %d.\n", n)
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("Configuration loaded",
		"addr", cfg.Addr,
		"db_path", cfg.DBPath,
		"daily_hours", cfg.Planner.DailyHours,
		"urgency_threshold_days", cfg.Planner.UrgencyThresholdDays,
		"max_hours_per_topic", cfg.Planner.MaxHoursPerTopic)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		slog.Debug("Closing database connection")
		db.Close()
	}()

	sessions := session.NewService(db)
	srv := web.NewServer(newPlanner(cfg), sessions, quiz.NewSafeRandom(cfg.Quiz.Seed))
	srv.NumQuestions = cfg.Quiz.NumQuestions

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		pruneSessions(gctx, sessions)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func pruneSessions(ctx context.Context, sessions *session.Service) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.Prune(ctx, sessionMaxAge); err != nil {
				slog.Error("Failed to prune quiz sessions", "error", err)
			}
		}
	}
}
