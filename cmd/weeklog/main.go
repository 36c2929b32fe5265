package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/claude/weeklog/internal/config"
	"github.com/claude/weeklog/internal/export"
	"github.com/claude/weeklog/internal/ingest"
	"github.com/claude/weeklog/internal/logging"
	"github.com/claude/weeklog/internal/models"
	"github.com/claude/weeklog/internal/tracker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: weeklog [-config file] [-schedule file] [-catalog file] <command> [args]

Commands:
  show [day]                                 print the week or one day
  activity <day> <index>                     print one activity
  add <day> <group> <workout> <minutes> <reps>
                                             append an activity
  delete <day> <index>                       remove one activity
  clear <day>                                remove every activity on a day
  import [-replace] <file>                   append (or replace with) records from file
  fewest <day>                               activity with the fewest reps
  summary                                    days, activities and average per day
  durations                                  minutes per day
  recommend <group> [count]                  suggest exercises for a muscle group
  export [-format text|records] [-o file]    write the week to a file

Days are 0-6 (0 = Monday), tokens Mo..Su, or full names.
Mutating commands rewrite the schedule file in record format.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries what every command needs.
type cli struct {
	cfg    *config.Config
	t      *tracker.Tracker
	stdout io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weeklog", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to config file")
	schedulePath := fs.String("schedule", "", "schedule file (overrides tracker.schedule_path)")
	catalogPath := fs.String("catalog", "", "catalog file (overrides tracker.catalog_path)")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintln(stdout, "weeklog", Version)
		return 0
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *schedulePath != "" {
		cfg.Tracker.SchedulePath = *schedulePath
	}
	if *catalogPath != "" {
		cfg.Tracker.CatalogPath = *catalogPath
	}

	log := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	t, _, err := tracker.Open(cfg.Tracker.CatalogPath, cfg.Tracker.SchedulePath, tracker.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	c := &cli{cfg: cfg, t: t, stdout: stdout}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if err := c.dispatch(cmd, rest); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func usageErr(format string, a ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, a...))
}

func (c *cli) dispatch(cmd string, args []string) error {
	switch cmd {
	case "show":
		return c.show(args)
	case "activity":
		return c.activity(args)
	case "add":
		return c.add(args)
	case "delete":
		return c.delete(args)
	case "clear":
		return c.clear(args)
	case "import":
		return c.importFile(args)
	case "fewest":
		return c.fewest(args)
	case "summary":
		return c.summary(args)
	case "durations":
		return c.durations(args)
	case "recommend":
		return c.recommend(args)
	case "export":
		return c.export(args)
	default:
		return usageErr("unknown command %q", cmd)
	}
}

func parseDay(raw string) (int, error) {
	if d, ok := models.ParseWeekday(raw); ok {
		return int(d), nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	return 0, usageErr("invalid day %q", raw)
}

func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usageErr("invalid index %q", raw)
	}
	return n, nil
}

func want(args []string, n int, cmd string) error {
	if len(args) != n {
		return usageErr("%s takes %d argument(s), got %d", cmd, n, len(args))
	}
	return nil
}

// save rewrites the schedule file so the next invocation sees the change.
func (c *cli) save() error {
	return export.WriteFile(c.cfg.Tracker.SchedulePath, c.t.Schedule(), export.FormatRecords)
}

func (c *cli) printDay(day models.Weekday, acts []models.Activity) {
	fmt.Fprintln(c.stdout, day)
	for _, a := range acts {
		fmt.Fprintf(c.stdout, "  %s, %s, %d min, %d reps\n", a.MuscleGroup, a.WorkoutType, a.DurationMinutes, a.Reps)
	}
}

func (c *cli) show(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprint(c.stdout, export.Render(c.t.Schedule()))
		return nil
	case 1:
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}
		acts, err := c.t.Day(day)
		if err != nil {
			return err
		}
		c.printDay(models.Weekday(day), acts)
		return nil
	default:
		return usageErr("show takes at most one day")
	}
}

func (c *cli) activity(args []string) error {
	if err := want(args, 2, "activity"); err != nil {
		return err
	}
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	a, err := c.t.Activity(day, index)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s, %s, %d min, %d reps\n", a.MuscleGroup, a.WorkoutType, a.DurationMinutes, a.Reps)
	return nil
}

func (c *cli) add(args []string) error {
	if err := want(args, 5, "add"); err != nil {
		return err
	}
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	minutes, err := strconv.Atoi(args[3])
	if err != nil {
		return usageErr("invalid minutes %q", args[3])
	}
	reps, err := strconv.Atoi(args[4])
	if err != nil {
		return usageErr("invalid reps %q", args[4])
	}
	a := models.Activity{MuscleGroup: args[1], WorkoutType: args[2], DurationMinutes: minutes, Reps: reps}
	if err := ingest.Validate(a); err != nil {
		return err
	}
	if err := c.t.Append(day, a); err != nil {
		return err
	}
	if err := c.save(); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "added %s to %s\n", a.WorkoutType, models.Weekday(day))
	return nil
}

func (c *cli) delete(args []string) error {
	if err := want(args, 2, "delete"); err != nil {
		return err
	}
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	if err := c.t.DeleteActivity(day, index); err != nil {
		return err
	}
	return c.save()
}

func (c *cli) clear(args []string) error {
	if err := want(args, 1, "clear"); err != nil {
		return err
	}
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	if err := c.t.ClearDay(day); err != nil {
		return err
	}
	return c.save()
}

func (c *cli) importFile(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	replace := fs.Bool("replace", false, "replace the week instead of appending")
	if err := fs.Parse(args); err != nil {
		return usageErr("%v", err)
	}
	if err := want(fs.Args(), 1, "import"); err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	var res ingest.Result
	if *replace {
		res, err = c.t.Replace(f)
	} else {
		res, err = c.t.Load(f)
	}
	if err != nil {
		return fmt.Errorf("importing %s: %w", fs.Arg(0), err)
	}
	if err := c.save(); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "imported %d records\n", res.RecordsReceived)
	return nil
}

func (c *cli) fewest(args []string) error {
	if err := want(args, 1, "fewest"); err != nil {
		return err
	}
	day, err := parseDay(args[0])
	if err != nil {
		return err
	}
	a, err := c.t.FewestReps(day)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "%s: %s (%d reps)\n", models.Weekday(day), a.WorkoutType, a.Reps)
	return nil
}

func (c *cli) summary(args []string) error {
	if err := want(args, 0, "summary"); err != nil {
		return err
	}
	sum := c.t.Summary()
	fmt.Fprintf(c.stdout, "Days:            %d\n", sum.Days)
	fmt.Fprintf(c.stdout, "Activities:      %d\n", sum.Activities)
	fmt.Fprintf(c.stdout, "Average per day: %s\n", sum.AverageString())
	return nil
}

func (c *cli) durations(args []string) error {
	if err := want(args, 0, "durations"); err != nil {
		return err
	}
	for i, m := range c.t.DurationPerDay() {
		fmt.Fprintf(c.stdout, "%-10s %d min\n", models.Weekday(i).String()+":", m)
	}
	return nil
}

func (c *cli) recommend(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usageErr("recommend takes a muscle group and an optional count")
	}
	count := c.cfg.Tracker.RecommendCount
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return usageErr("invalid count %q", args[1])
		}
		count = n
	}
	rec := c.t.Recommend(args[0], count)
	if !rec.Found {
		return fmt.Errorf("muscle group %q not in catalog (known: %s)", args[0], strings.Join(c.t.Catalog().Groups(), ", "))
	}
	for _, name := range rec.Exercises {
		fmt.Fprintln(c.stdout, name)
	}
	return nil
}

func (c *cli) export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", c.cfg.Tracker.ExportFormat, "text or records")
	out := fs.String("o", c.cfg.Tracker.ExportPath, "output file")
	if err := fs.Parse(args); err != nil {
		return usageErr("%v", err)
	}
	if fs.NArg() != 0 {
		return usageErr("export takes no positional arguments")
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return usageErr("%v", err)
	}
	if *out == "-" {
		return export.Write(c.stdout, c.t.Schedule(), f)
	}
	if err := export.WriteFile(*out, c.t.Schedule(), f); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "exported week to %s\n", *out)
	return nil
}
