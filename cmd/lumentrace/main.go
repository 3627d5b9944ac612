// Command lumentrace drives the tree headlessly through a scripted sequence of
// modes and writes the per-layer blend state of every frame as CSV.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/lumen"
	"github.com/gekko3d/lumen/config"
	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/telemetry"
)

type step struct {
	mode    core.Mode
	seconds float64
}

// scriptStage runs ahead of the clock so a step's mode applies to its
// first frame.
var scriptStage = lumen.Stage{Name: "Script"}

// player switches modes at frame boundaries and stops the app after the
// last step.
type player struct {
	steps  []step
	starts []uint64 // first frame of each step
	total  uint64
}

func newPlayer(steps []step, fps float64) *player {
	sc := &player{steps: steps}
	for _, s := range steps {
		sc.starts = append(sc.starts, sc.total)
		sc.total += uint64(s.seconds*fps + 0.5)
	}
	return sc
}

func (sc *player) system(mode *lumen.ModeState, cmd *lumen.Commands) {
	frame := cmd.Frame()
	for i := len(sc.steps) - 1; i >= 0; i-- {
		if frame < sc.starts[i] {
			continue
		}
		if frame == sc.starts[i] {
			end := sc.total
			if i+1 < len(sc.starts) {
				end = sc.starts[i+1]
			}
			cmd.Logger().Infof("%s for %d frames", sc.steps[i].mode, end-sc.starts[i])
		}
		mode.Set(sc.steps[i].mode)
		break
	}
	if frame+1 >= sc.total {
		cmd.Stop()
	}
}

func parseScript(s string) ([]step, error) {
	var steps []step
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dur, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("script step %q: want mode:seconds", part)
		}
		mode, err := core.ParseMode(name)
		if err != nil {
			return nil, err
		}
		seconds, err := strconv.ParseFloat(dur, 64)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("script step %q: bad duration", part)
		}
		steps = append(steps, step{mode: mode, seconds: seconds})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty script")
	}
	return steps, nil
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "Scene seed (0 = config seed, then time-based)")
	imagePath := flag.String("image", "", "Image to extract the silhouette from (empty = bundled star)")
	script := flag.String("script", "formed:2,scattered:4,formed:4,image:5,formed:3", "Comma-separated mode:seconds steps")
	fps := flag.Float64("fps", 60, "Simulated frames per second")
	outPath := flag.String("out", "", "CSV trace output (empty = stdout)")
	every := flag.Int("every", 1, "Record every Nth frame")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := run(*configPath, *seed, *imagePath, *script, *fps, *outPath, *every, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "lumentrace: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, imagePath, script string, fps float64, outPath string, every int, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	steps, err := parseScript(script)
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Time.FixedDt = 1 / fps
	cfg.Log.Debug = cfg.Log.Debug || debug
	cfg.Silhouette.LoadDefault = imagePath == ""

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating trace: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()
	recorder := telemetry.NewRecorder(w, every)

	app := lumen.NewApp().
		UseModules(lumen.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug, Out: os.Stderr}).
		UseModules(lumen.DefaultModules(cfg)[1:]...).
		UseModules(lumen.RenderModule{}, lumen.TraceModule{Recorder: recorder})
	log := app.Logger()

	images, _ := lumen.Resource[lumen.ImageLoader](app)
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		images.Submit(data)
	}
	// Let the extraction land before the first frame so traces are repeatable.
	images.Wait()

	sc := newPlayer(steps, fps)
	if sc.total == 0 {
		app.Shutdown()
	} else {
		app.UseStage(scriptStage, lumen.BeforeStage(lumen.PreUpdate))
		app.UseSystem(lumen.System(sc.system).InStage(scriptStage))
		// Run shuts the app down once the script stops it.
		app.Run(context.Background())
	}

	scene, _ := lumen.Resource[lumen.Scene](app)
	for _, sl := range scene.Layers {
		if sl.Gift != nil {
			continue
		}
		log.Infof("%-16s progress=%.3f image=%.3f visibility=%.3f",
			sl.Layer.Name, sl.State.Progress.Value, sl.State.ImageMix.Value, sl.State.Visibility.Value)
	}

	trace, _ := lumen.Resource[lumen.Trace](app)
	if err := trace.Err(); err != nil {
		return err
	}
	log.Infof("wrote %d samples", recorder.Written())
	return nil
}
