package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"

	"github.com/darkit/hal/humidity"
	"github.com/darkit/hal/internal/config"
	"github.com/darkit/hal/internal/logging"
	"github.com/darkit/hal/internal/store"
	"github.com/darkit/hal/uniqueid"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const usage = `usage: halctl [-config FILE] <command> [flags]

commands:
  id             print the machine id
  uuid           print the machine id as a canonical UUID
  protected-id   print the app scoped machine id (-app NAME)
  humidity       print humidity sensor state and a reading
  record         record humidity samples (-interval D -count N)
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("halctl", flag.ContinueOnError)
	configPath := global.String("config", "", "path to a YAML config file")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(afero.NewOsFs(), *configPath)
	if err != nil {
		return err
	}
	log, flush, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer flush()

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "id":
		return runID(out, uniqueid.New(uniqueid.WithLogger(log)))
	case "uuid":
		return runUUID(out)
	case "protected-id":
		return runProtectedID(rest, out, cfg)
	case "humidity":
		sensor, err := newSensor(cfg, log)
		if err != nil {
			return err
		}
		return runHumidity(out, sensor)
	case "record":
		sensor, err := newSensor(cfg, log)
		if err != nil {
			return err
		}
		return runRecord(rest, out, cfg, sensor, log)
	default:
		global.Usage()
		return errors.Newf("unknown command %q", cmd)
	}
}

func newSensor(cfg config.Config, log logr.Logger) (humidity.Sensor, error) {
	sc := cfg.SensorConfig()
	sc.Logger = log
	return humidity.New(sc)
}

func field(out io.Writer, label, value string) {
	fmt.Fprintln(out, labelStyle.Render(label)+value)
}

func runID(out io.Writer, p uniqueid.Provider) error {
	fmt.Fprintln(out, titleStyle.Render("Machine ID"))
	field(out, "available", fmt.Sprint(p.Available()))
	id, err := p.ID()
	if err != nil {
		field(out, "id", failStyle.Render("unavailable"))
		return err
	}
	field(out, "id", okStyle.Render(id))
	if uniqueid.IsContainer() {
		fmt.Fprintln(out, warnStyle.Render("running in a container: the machine id may be shared with the image"))
		if cid := uniqueid.ContainerID(); cid != "" {
			field(out, "container", cid)
		}
	}
	return nil
}

func runUUID(out io.Writer) error {
	u, err := uniqueid.UUID()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, u.String())
	return nil
}

func runProtectedID(args []string, out io.Writer, cfg config.Config) error {
	fs := flag.NewFlagSet("protected-id", flag.ContinueOnError)
	appID := fs.String("app", cfg.AppID, "application id the hash is scoped to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := uniqueid.ProtectedID(*appID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func runHumidity(out io.Writer, s humidity.Sensor) error {
	fmt.Fprintln(out, titleStyle.Render("Humidity"))
	field(out, "backend", s.Name())
	field(out, "available", fmt.Sprint(s.Available()))

	s.Enable()
	defer s.Disable()
	field(out, "enabled", fmt.Sprint(s.Enabled()))

	v := humidity.Value(s)
	if v == humidity.Sentinel {
		field(out, "reading", failStyle.Render(fmt.Sprintf("%.1f (failed)", v)))
		return nil
	}
	field(out, "reading", okStyle.Render(fmt.Sprintf("%.1f %%RH", v)))
	return nil
}

func runRecord(args []string, out io.Writer, cfg config.Config, s humidity.Sensor, log logr.Logger) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	interval := fs.Duration("interval", 10*time.Second, "time between samples")
	count := fs.Int("count", 0, "number of samples, 0 records until interrupted")
	dbPath := fs.String("db", cfg.Store.Path, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *interval <= 0 {
		return errors.Newf("interval must be positive, got %s", *interval)
	}

	st, err := store.Open(*dbPath, log.WithName("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.Enable()
	defer s.Disable()
	if !s.Enabled() {
		log.Info("sensor could not be enabled, samples will record failures", "backend", s.Name())
	}

	return record(ctx, out, st, s, *interval, *count, log)
}

func record(ctx context.Context, out io.Writer, st *store.Store, s humidity.Sensor, interval time.Duration, count int, log logr.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	// a signal stops sampling but never aborts a write in progress
	writeCtx := context.WithoutCancel(ctx)

	for n := 0; count == 0 || n < count; n++ {
		v := humidity.Value(s)
		sample := store.Sample{Time: time.Now(), Backend: s.Name(), Value: v, OK: v != humidity.Sentinel}
		if err := st.Record(writeCtx, sample); err != nil {
			return err
		}
		log.V(1).Info("recorded sample", "value", v, "ok", sample.OK)
		fmt.Fprintf(out, "%s %6.1f\n", sample.Time.Format(time.RFC3339), v)

		if count != 0 && n+1 == count {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
