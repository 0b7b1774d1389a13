// Command emberfit-coach drives the workout progression engine from the
// terminal: show today's workout, check off exercises, run the workout
// timer, record completions (optionally with a progress photo), unlock the
// next day, and inspect history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mcpserver "github.com/claude/emberfit/internal/mcp"
	"github.com/claude/emberfit/internal/photos"
	"github.com/claude/emberfit/internal/program"
	"github.com/claude/emberfit/internal/session"
	"github.com/claude/emberfit/internal/state"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: emberfit-coach [flags] <command> [args]

Commands:
  today                show the current workout day (default)
  toggle <n>           toggle completion of exercise n (0-based) on the current day
  start                start or resume the workout timer
  stop                 stop the workout timer
  complete             record the current day as completed
  unlock               advance to the next day now
  history              list completed workouts
  reset                full reset: cursor, completion flags, and history
  mcp                  serve the engine over MCP on stdio
`

func main() {
	stateDir := flag.String("state", defaultStateDir(), "state directory")
	programPath := flag.String("program", "workouts.json", "path to the program definition")
	serverURL := flag.String("server", "", "EmberFit photo server URL (optional)")
	apiKey := flag.String("api-key", "", "photo server API key")
	owner := flag.String("owner", "me", "owner ID for progress photos")
	photoPath := flag.String("photo", "", "progress photo to upload with 'complete'")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("emberfit-coach", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := state.OpenSQLite(*stateDir)
	if err != nil {
		log.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var photoStore photos.Store
	if *serverURL != "" {
		photoStore = photos.NewClient(strings.TrimRight(*serverURL, "/"), *apiKey)
	}

	sess := session.New(store, program.FileSource{Path: *programPath}, photoStore, *owner, log)
	sess.Activate()
	sess.Timer().Restore()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "today"
	}

	switch cmd {
	case "today":
		showToday(sess)
	case "toggle":
		if flag.NArg() < 2 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		n, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: toggle needs a numeric exercise index\n")
			os.Exit(1)
		}
		if err := sess.ToggleExercise(n); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		showToday(sess)
	case "start":
		sess.Timer().Start()
		fmt.Printf("Timer running, elapsed %s\n", formatSeconds(sess.Timer().Elapsed()))
		// Keep the process alive while ticking.
		select {}
	case "stop":
		sess.Timer().Stop()
		fmt.Printf("Timer stopped at %s\n", formatSeconds(sess.Timer().Elapsed()))
	case "complete":
		runComplete(sess, *photoPath)
	case "unlock":
		if err := sess.Advance(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		showToday(sess)
	case "history":
		showHistory(sess)
	case "reset":
		if err := sess.FullReset(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sess.Timer().Reset()
		fmt.Println("Everything reset. Back to the first day.")
	case "mcp":
		if err := server.ServeStdio(mcpserver.New(sess, Version, log)); err != nil {
			log.Error("mcp server failed", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runComplete(sess *session.Session, photoPath string) {
	sess.Timer().Stop()
	var duration *int
	if sess.Timer().WasStarted() {
		d := sess.Timer().Elapsed()
		duration = &d
	}

	rec, err := sess.RecordCompletion(duration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Completed %s / %s (%d of %d exercises, %s)\n",
		rec.WeekName, rec.DayName,
		rec.CompletedExercises(), rec.TotalExercises(), rec.FormattedDuration())

	if photoPath != "" {
		jpeg, err := os.ReadFile(photoPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read photo: %v\n", err)
		} else if id, err := sess.UploadPhoto(context.Background(), rec.ID, jpeg); err != nil {
			// Photo upload is best effort; completion already stands.
			fmt.Fprintf(os.Stderr, "Warning: photo upload failed: %v\n", err)
		} else {
			fmt.Printf("Progress photo uploaded (%s)\n", id)
		}
	}

	sess.Timer().Reset()
	fmt.Println("Run 'emberfit-coach unlock' to move to the next day now, or it unlocks tomorrow.")
}

func showToday(sess *session.Session) {
	if err := sess.LoadErr(); err != nil {
		fmt.Fprintf(os.Stderr, "Could not load workout data: %v\nFix the definition and try again.\n", err)
		os.Exit(1)
	}
	week, okW := sess.CurrentWeek()
	day, okD := sess.CurrentDay()
	if !okW || !okD {
		fmt.Println("No current day. The program may be empty.")
		return
	}

	fmt.Printf("%s — %s\n", week.Name, day.Name)
	fmt.Printf("Focus: %s\n", day.Focus)
	if day.Description != "" {
		fmt.Println(day.Description)
	}
	fmt.Printf("\n%s\n\n", sess.MotivationalPhrase())
	for i, e := range day.Exercises {
		mark := " "
		if e.IsCompleted {
			mark = "x"
		}
		detail := exerciseDetail(e)
		if detail != "" {
			fmt.Printf("  [%s] %d. %s (%s)\n", mark, i, e.Title, detail)
		} else {
			fmt.Printf("  [%s] %d. %s\n", mark, i, e.Title)
		}
	}
}

func exerciseDetail(e program.Exercise) string {
	var parts []string
	if e.Sets != nil && e.Reps != nil {
		parts = append(parts, fmt.Sprintf("%dx%d", *e.Sets, *e.Reps))
	} else if e.Sets != nil {
		parts = append(parts, fmt.Sprintf("%d sets", *e.Sets))
	}
	if e.Weight != "" {
		parts = append(parts, e.Weight)
	}
	if e.Duration != "" {
		parts = append(parts, e.Duration)
	}
	return strings.Join(parts, ", ")
}

func showHistory(sess *session.Session) {
	records := sess.History().All()
	if len(records) == 0 {
		fmt.Println("No completed workouts yet.")
		return
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		photo := ""
		if r.PhotoID != "" {
			photo = " [photo]"
		}
		fmt.Printf("%s  %s / %s  %d/%d exercises  %s%s\n",
			r.CompletionDate.Local().Format("2006-01-02"),
			r.WeekName, r.DayName,
			r.CompletedExercises(), r.TotalExercises(),
			r.FormattedDuration(), photo)
	}
}

func formatSeconds(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".emberfit"
	}
	return filepath.Join(home, ".emberfit")
}
