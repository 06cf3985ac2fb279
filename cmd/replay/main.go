// replay scores a recorded pose stream offline and prints each rep
// verdict, for tuning thresholds against captured sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/formcoach/go-formcoach/internal/log"
	"github.com/formcoach/go-formcoach/pkg/form"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/session"
	"github.com/formcoach/go-formcoach/pkg/source"
)

func main() {
	file := flag.String("file", "", "JSONL pose recording to replay (required)")
	exercise := flag.String("exercise", string(reference.OverheadPress), "exercise to score against")
	rate := flag.Duration("rate", 0, "per-frame delay; 0 replays as fast as possible")
	logLevel := flag.String("log-level", "warn", "log level during replay")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -file recording.jsonl [-exercise overhead_press]")
		os.Exit(2)
	}

	log.Init(*logLevel)

	cfg := session.DefaultConfig()
	cfg.Exercise = reference.Exercise(*exercise)

	engine := form.NewEngine(reference.NewMatcher(reference.NewLibrary()))
	if !engine.Supports(cfg.Exercise) {
		fmt.Fprintf(os.Stderr, "unknown exercise %q\n", *exercise)
		os.Exit(2)
	}

	// Frame timestamps drive the clock so pace verdicts reflect the
	// recording, not replay speed.
	var frameTime time.Time
	sess := session.New("replay", cfg, engine,
		session.WithLogger(log.L()),
		session.WithClock(func() time.Time { return frameTime }),
	)
	defer sess.Close()

	src := source.NewFileSource(*file, *rate, log.L())
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(context.Background()) }()

	frames := 0
	for frame := range src.Frames() {
		frames++
		frameTime = frame.Timestamp
		sess.Process(frame)

	drain:
		for {
			select {
			case evt := <-sess.Events():
				printEvent(evt)
			default:
				break drain
			}
		}
	}
	if err := <-errCh; err != nil {
		fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d frames, %d reps scored\n", frames, sess.Reps())
}

func printEvent(evt session.Event) {
	fb := evt.Feedback
	fmt.Printf("rep %d  %-18s quality=%-17s performing=%-5v score=%.3f\n",
		evt.Rep, evt.Exercise, fb.Quality, fb.IsPerformingExercise, fb.MatchScore)
	for _, c := range fb.Corrections {
		fmt.Printf("        - %s\n", c)
	}
	if evt.HasPace {
		fmt.Printf("        pace: %s (fast=%d slow=%d)", evt.Pace.Band, evt.Pace.ConsecutiveFast, evt.Pace.ConsecutiveSlow)
		if evt.Pace.Escalation != "" {
			fmt.Printf("  [%s]", evt.Pace.Escalation)
		}
		fmt.Println()
	}
}
