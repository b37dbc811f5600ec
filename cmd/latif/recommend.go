package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/recommend"
	"github.com/urfave/cli/v2"
)

const sessionHelp = `Type a transcript to get recommendations.
  +ID       mark verse ID relevant
  -ID       mark verse ID not relevant
  :accuracy show session feedback metrics
  :reset    clear the session
  :quit     leave`

func recommendCommand(c *cli.Context) error {
	ctx := context.Background()

	lib, err := openLibrary(ctx, c)
	if err != nil {
		return err
	}
	defer lib.Close()

	engine, err := lib.NewSession()
	if err != nil {
		return err
	}

	w := c.App.Writer
	explain := c.Bool("explain")
	if c.NArg() > 0 {
		printRecommendations(w, engine.Recommend(ctx, strings.Join(c.Args().Slice(), " ")), explain)
		return nil
	}

	fmt.Fprintln(w, sessionHelp)
	return runSession(ctx, engine, c.App.Reader, w, explain)
}

// runSession reads transcript and feedback lines until EOF or :quit.
func runSession(ctx context.Context, engine *recommend.Engine, r io.Reader, w io.Writer, explain bool) error {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == ":quit":
			return nil
		case line == ":reset":
			engine.Reset()
			fmt.Fprintln(w, "session cleared")
		case line == ":accuracy":
			m := engine.Accuracy()
			fmt.Fprintf(w, "feedback %d, positive %.2f, average score %.2f, theme accuracy %.2f\n",
				m.TotalFeedback, m.PositiveRatio, m.AverageScore, m.ThemeAccuracy)
		case line[0] == '+' || line[0] == '-':
			id, err := strconv.Atoi(line[1:])
			if err != nil || id <= 0 {
				fmt.Fprintf(w, "invalid verse id %q\n", line[1:])
				continue
			}
			relevant := line[0] == '+'
			engine.RecordFeedback(ctx, id, relevant)
			fmt.Fprintf(w, "verse %d marked relevant=%t\n", id, relevant)
		default:
			printRecommendations(w, engine.Recommend(ctx, line), explain)
		}
	}
}

func printRecommendations(w io.Writer, recs []core.Recommendation, explain bool) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No verses in the library")
		return
	}
	if recs[0].Fallback {
		fmt.Fprintln(w, "(no strong match, showing suggestions)")
	}
	for i, rec := range recs {
		fmt.Fprintf(w, "%d. [%.2f] ", i+1, rec.RelevanceScore)
		printVerse(w, rec.Verse)
		if explain {
			b := rec.Breakdown
			fmt.Fprintf(w, "     theme %.2f emotion %.2f keyword %.2f context %.2f feedback %+.2f novelty %.2f\n",
				b.ThemeMatch, b.EmotionMatch, b.KeywordMatch, b.ContextMatch, b.UserFeedback, b.Novelty)
		}
	}
}

func printVerse(w io.Writer, v core.Verse) {
	fmt.Fprintf(w, "#%d %s [%s/%s] %s\n", v.ID, v.Text, v.Theme, v.Emotion, v.Sur)
	if v.Translation != "" {
		fmt.Fprintf(w, "     %s\n", v.Translation)
	}
}
